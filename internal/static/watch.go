package static

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watch remounts path into t whenever the file changes, until ctx ends.
// The parent directory is watched so editors that replace the file by
// rename are still observed. A reload that fails to parse keeps the
// previous table.
func Watch(ctx context.Context, path string, t *Table) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return err
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				if err := t.MountFile(abs); err != nil {
					log.Warn().Err(err).Str("file", abs).Msg("static.Watch reload failed")
					continue
				}
				log.Info().Str("file", abs).Int("resources", len(t.Paths())).Msg("static.Watch reloaded")
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("static.Watch watcher error")
			}
		}
	}()
	return nil
}
