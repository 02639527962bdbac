package libscn

import (
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reloads a scene file whenever it changes on disk
type Watcher struct {
	// Receives every successfully parsed version of the scene
	Scenes chan *Scene
	// Receives read, parse and watch errors
	Errors chan error

	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// Some editors write files in several steps, events closer than this are merged
const watchDebounce = 50 * time.Millisecond

func WatchScene(path string) (*Watcher, error) {
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("could not resolve scene path %q: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("could not create file watcher: %w", err)
	}
	// The directory is watched, editors often replace the file instead of writing it
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("could not watch %q: %w", path, err)
	}

	w := &Watcher{
		Scenes:  make(chan *Scene, 1),
		Errors:  make(chan error, 1),
		path:    path,
		watcher: fw,
		done:    make(chan struct{}),
	}
	go w.run()
	return w, nil
}

func (w *Watcher) run() {
	var pending <-chan time.Time
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(watchDebounce)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.sendError(fmt.Errorf("watching %q: %w", w.path, err))
		case <-pending:
			pending = nil
			scene, err := LoadScene(w.path)
			if err != nil {
				w.sendError(err)
				continue
			}
			select {
			case w.Scenes <- scene:
			case <-w.done:
				return
			}
		}
	}
}

func (w *Watcher) sendError(err error) {
	select {
	case w.Errors <- err:
	default:
		log.Printf("Dropped scene watcher error: %v", err)
	}
}

func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
