// Package pipeline implements the two-stage directory-scan then
// metadata-load example built on top of the future package: a scan stage
// produces ScanResult values, and a load stage turns each into a
// LoaderResult by invoking an injected tag-reading collaborator.
package pipeline

import "time"

// ScanResult describes one file found by Scan.
type ScanResult struct {
	URL        string
	Ext        string
	SidecarURL string
	ModTime    time.Time
	Size       int64
}

// LibraryEntry is a view-model row, partially populated when it first enters
// the load stage and fully populated once tags are read. It is the output
// contract RowSink consumes (spec §6 "View-model output").
type LibraryEntry struct {
	URL  string
	Tags map[string]string
}

// LoaderTask is the input to the load stage: a consumer-assigned persistent
// row id paired with the partially-populated LibraryEntry awaiting metadata
// extraction (spec §3.4). RowID is carried unchanged into LoaderResult so a
// caller can always reassociate output with the row it was requested for,
// even when one task expands into several entries.
type LoaderTask struct {
	ScanResult
	RowID int64
	Entry LibraryEntry
}

// LoaderResult is the output of the load stage: the original row id plus the
// 1..N fully-populated entries that file produced. Most files yield exactly
// one entry; a container file that bundles several logical tracks (spec
// §4.G) yields N, mirroring the original LibraryEntryLoaderJobResult's
// m_new_libentries/m_num_tracks_found pair. Unreadable input is reported as
// Err, never as a future exception, so one unreadable file never aborts the
// rest of the library scan.
type LoaderResult struct {
	LoaderTask
	Entries []LibraryEntry
	Count   int
	Err     error
}

// Readable reports whether the load stage extracted at least one entry.
func (r LoaderResult) Readable() bool { return r.Err == nil && r.Count > 0 }
