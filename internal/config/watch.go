package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"gnss-monitor/internal/fix"
)

// watchDebounce coalesces the burst of events an editor save produces.
var watchDebounce = 200 * time.Millisecond

// WatchBounds re-reads the bounds file whenever it is written or replaced
// and passes the result to apply. A file that fails to parse is logged and
// the previous bounds stay in effect. It blocks until ctx is done.
func WatchBounds(ctx context.Context, path string, base fix.Bounds, log zerolog.Logger, apply func(fix.Bounds)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch bounds: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so rename-on-save editors are seen.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch bounds: add %s: %w", dir, err)
	}
	name := filepath.Base(path)

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			timer.Reset(watchDebounce)

		case <-timer.C:
			b, err := LoadBounds(path, base)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("bounds reload failed")
				continue
			}
			log.Info().
				Float64("min_lat", b.MinLatitude).Float64("max_lat", b.MaxLatitude).
				Float64("min_lon", b.MinLongitude).Float64("max_lon", b.MaxLongitude).
				Float64("min_alt", b.MinAltitude).Float64("max_alt", b.MaxAltitude).
				Msg("bounds reloaded")
			apply(b)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("bounds watcher error")
		}
	}
}
