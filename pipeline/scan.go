package pipeline

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/amlm-go/future/metrics"

	stdfuture "github.com/amlm-go/future"

	"github.com/fsnotify/fsnotify"
)

// ScanOptions configures Scan.
type ScanOptions struct {
	// Root is the directory walked for the initial pass.
	Root string
	// SidecarExts maps a media extension to the sidecar extension checked
	// alongside it (e.g. ".flac" -> ".cue"); absent entries have no
	// sidecar lookup performed.
	SidecarExts map[string]string
	// Watch continues streaming newly created or renamed files via
	// fsnotify after the initial walk completes, until the returned
	// Future is canceled.
	Watch bool
}

// Scan walks opts.Root and reports one ScanResult per file found. When
// opts.Watch is set, it continues watching the tree for new files after
// the initial walk instead of finishing (spec §4.G, supplemented with the
// live-rescan behavior the original library rescanner performs via a
// filesystem watcher).
func Scan(ctx context.Context, exec *stdfuture.Executor, mp metrics.Provider, opts ScanOptions) stdfuture.Future[ScanResult] {
	return stdfuture.RunDedicated(ctx, "pipeline.Scan", mp, func(ctx context.Context, f stdfuture.Future[ScanResult]) (ScanResult, error) {
		var last ScanResult
		walkErr := filepath.WalkDir(opts.Root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			f.SuspendIfRequested(ctx)
			if f.IsCanceled() {
				return stdfuture.ErrCancelRequested
			}
			if d.IsDir() {
				return nil
			}
			last = scanResultFor(path, d, opts.SidecarExts)
			f.ReportResult(last, -1)
			return nil
		})
		if walkErr != nil {
			return ScanResult{}, walkErr
		}
		if !opts.Watch {
			return last, nil
		}
		return watch(ctx, f, opts, last)
	})
}

func scanResultFor(path string, d fs.DirEntry, sidecarExts map[string]string) ScanResult {
	ext := strings.ToLower(filepath.Ext(path))
	info, statErr := d.Info()

	res := ScanResult{URL: path, Ext: ext}
	if statErr == nil {
		res.ModTime = info.ModTime()
		res.Size = info.Size()
	}
	if sidecar, ok := sidecarExts[ext]; ok {
		candidate := strings.TrimSuffix(path, ext) + sidecar
		if _, err := os.Stat(candidate); err == nil {
			res.SidecarURL = candidate
		}
	}
	return res
}

func watch(ctx context.Context, f stdfuture.Future[ScanResult], opts ScanOptions, last ScanResult) (ScanResult, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return last, err
	}
	defer w.Close()
	if err := w.Add(opts.Root); err != nil {
		return last, err
	}

	// Wake the loop as soon as f is canceled, even with no filesystem events.
	canceled := make(chan struct{})
	cw := stdfuture.NewWatcher[ScanResult](stdfuture.Inline)
	cw.OnCanceled = func() { close(canceled) }
	defer f.Watch(cw)()

	for {
		f.SuspendIfRequested(ctx)
		if f.IsCanceled() {
			return last, stdfuture.ErrCancelRequested
		}
		select {
		case <-ctx.Done():
			return last, stdfuture.ErrCancelRequested
		case <-canceled:
			return last, stdfuture.ErrCancelRequested
		case ev, ok := <-w.Events:
			if !ok {
				return last, nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			info, statErr := os.Lstat(ev.Name)
			if statErr != nil || info.IsDir() {
				continue
			}
			last = scanResultForPath(ev.Name, info, opts.SidecarExts)
			f.ReportResult(last, -1)
		case werr, ok := <-w.Errors:
			if !ok {
				return last, nil
			}
			return last, werr
		}
	}
}

func scanResultForPath(path string, info fs.FileInfo, sidecarExts map[string]string) ScanResult {
	ext := strings.ToLower(filepath.Ext(path))
	res := ScanResult{URL: path, Ext: ext, ModTime: info.ModTime(), Size: info.Size()}
	if sidecar, ok := sidecarExts[ext]; ok {
		candidate := strings.TrimSuffix(path, ext) + sidecar
		if _, err := os.Stat(candidate); err == nil {
			res.SidecarURL = candidate
		}
	}
	return res
}
