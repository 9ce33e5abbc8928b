package assets

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet after its last
// change before it is reloaded.
const DefaultDebounce = 100 * time.Millisecond

// Watcher marks store entries stale when their scene files change on disk.
// Changed paths are also sent on Events when there is room.
type Watcher struct {
	store    *Store
	watcher  *fsnotify.Watcher
	debounce time.Duration
	log      *zap.Logger

	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher watches dirs and invalidates matching entries of store.
func NewWatcher(store *Store, debounce time.Duration, dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w := &Watcher{
		store:    store,
		watcher:  fw,
		debounce: debounce,
		log:      store.log.Named("watch"),
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Close stops watching. Events and Errors are closed once the loop exits.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	pending := make(map[string]*time.Timer)
	settled := make(chan string)
	defer func() {
		for _, t := range pending {
			t.Stop()
		}
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !IsSceneFile(event.Name) {
				continue
			}
			// Editors often save in several writes; wait for the last one.
			if t, ok := pending[event.Name]; ok {
				t.Reset(w.debounce)
				continue
			}
			name := event.Name
			pending[name] = time.AfterFunc(w.debounce, func() {
				select {
				case settled <- name:
				case <-w.closeCh:
				}
			})
		case name := <-settled:
			delete(pending, name)
			if w.store.Invalidate(name) {
				w.log.Debug("asset changed", zap.String("path", name))
			}
			select {
			case w.Events <- name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				w.log.Warn("watch error dropped", zap.Error(err))
			}
		case <-w.closeCh:
			return
		}
	}
}
