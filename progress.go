package future

// Progress is the (min, max, value) triple plus optional text that a
// producer may report over the life of an operation (spec §3.1).
type Progress struct {
	Min, Max, Value int
	Text            string
}

// progressState holds the current Progress plus the free-form info channel
// (key/value pairs such as "description", "warning", "info") described in
// spec §3.1. It is embedded in sharedState and protected by the same mutex.
type progressState struct {
	Progress
	info map[string]string
}

func newProgressState() progressState {
	return progressState{info: make(map[string]string)}
}

// snapshotInfo returns a defensive copy of the info map.
func (p *progressState) snapshotInfo() map[string]string {
	out := make(map[string]string, len(p.info))
	for k, v := range p.info {
		out[k] = v
	}
	return out
}
