package driver

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"nixkit/internal/trace"
)

const DefaultDebounce = 150 * time.Millisecond

// Watcher reports batches of changed .nix files under a directory tree.
// Directories are registered when the watcher is created, so nothing written
// after NewWatcher returns is missed.
type Watcher struct {
	root string
	fsw  *fsnotify.Watcher
}

func NewWatcher(root string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{root: root, fsw: fsw}
	if _, err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) Close() error { return w.fsw.Close() }

// addTree registers root and every directory below it that CheckDir would visit.
// It returns the .nix files found on the way: a directory created or moved in
// after NewWatcher may already hold files that produce no events of their own.
func (w *Watcher) addTree(root string) ([]string, error) {
	var nix []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// каталог мог исчезнуть между событием и обходом
			if path != root && errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			if filepath.Ext(path) == ".nix" {
				nix = append(nix, path)
			}
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
	return nix, err
}

// Run calls fn with the sorted, deduplicated paths of .nix files touched
// within one debounce window. It returns nil when ctx is cancelled and the
// first error of fn or of the underlying watcher otherwise.
func (w *Watcher) Run(ctx context.Context, debounce time.Duration, fn func(ctx context.Context, changed []string) error) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	pending := make(map[string]struct{})
	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	queue := func(paths ...string) {
		if len(paths) == 0 {
			return
		}
		for _, p := range paths {
			pending[p] = struct{}{}
		}
		if timer == nil {
			timer = time.NewTimer(debounce)
		} else {
			timer.Reset(debounce)
		}
		timerC = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if strings.HasPrefix(filepath.Base(ev.Name), ".") {
						continue
					}
					nix, err := w.addTree(ev.Name)
					if err != nil {
						return err
					}
					queue(nix...)
					continue
				}
			}
			if filepath.Ext(ev.Name) != ".nix" || ev.Op == fsnotify.Chmod {
				continue
			}
			queue(ev.Name)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			return err
		case <-timerC:
			timerC = nil
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			slices.Sort(changed)
			trace.Mark(ctx, trace.ScopeDriver, "watch", strings.Join(changed, " "))
			if err := fn(ctx, changed); err != nil {
				return err
			}
		}
	}
}
