package prefs

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Live holds the current preferences and is safe for concurrent use.
type Live struct {
	mu    sync.RWMutex
	prefs Prefs
	subs  []chan Prefs
}

// NewLive returns a holder seeded with p.
func NewLive(p Prefs) *Live {
	return &Live{prefs: p}
}

// Get returns the current preferences.
func (l *Live) Get() Prefs {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.prefs
}

// Set replaces the current preferences and tells subscribers.
func (l *Live) Set(p Prefs) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prefs = p
	for _, ch := range l.subs {
		// Drop a value the subscriber has not read yet; only the latest
		// preferences matter.
		select {
		case <-ch:
		default:
		}
		ch <- p
	}
}

// Subscribe returns a channel that receives the preferences after every Set.
func (l *Live) Subscribe() <-chan Prefs {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch := make(chan Prefs, 1)
	l.subs = append(l.subs, ch)
	return ch
}

// Watch reloads the preferences file whenever it is written, created,
// replaced or removed, and hands the result to onChange. The parent
// directory is watched so editors that save by rename are seen. Watch blocks
// until ctx is done.
func Watch(ctx context.Context, path string, onChange func(Prefs)) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != resolved {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) || ev.Has(fsnotify.Remove) {
				onChange(Load(resolved))
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("prefs watcher: %v", err)
		}
	}
}
