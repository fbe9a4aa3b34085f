package config

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lixenwraith/gridterm/core"
)

// reloadDebounce collapses the burst of events editors produce on save
const reloadDebounce = 100 * time.Millisecond

// Watch reloads the config at path whenever it is written or recreated and passes
// each valid result to fn. Invalid files are logged and skipped.
// The watch runs until ctx is cancelled; fn is called from the watcher goroutine.
func Watch(ctx context.Context, path string, fn func(*Config)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve config path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// Watch the directory so atomic rename-on-save is seen
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	core.Go(func() {
		defer w.Close()
		watchLoop(ctx, w, abs, fn)
	})
	return nil
}

func watchLoop(ctx context.Context, w *fsnotify.Watcher, path string, fn func(*Config)) {
	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timerC != nil && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(reloadDebounce)
			timerC = timer.C

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Printf("config: watcher error: %v", err)

		case <-timerC:
			timerC = nil
			cfg, err := Load(path)
			if err != nil {
				log.Printf("config: reload %s: %v", path, err)
				continue
			}
			log.Printf("config: reloaded %s", path)
			fn(cfg)
		}
	}
}
