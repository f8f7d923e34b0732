package confloader

import (
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports writes to configuration files.
//
// It watches each file's directory so that editors which save by renaming
// a temporary file over the original are still seen, then filters events
// down to the registered file names.
type Watcher struct {
	watcher   *fsnotify.Watcher
	files     map[string]bool
	callbacks []func(string)
	mu        sync.RWMutex
	done      chan struct{}
	stopOnce  sync.Once
	logger    *slog.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatcherLogger sets the logger for the watcher.
func WithWatcherLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// NewWatcher creates a new configuration file watcher.
func NewWatcher(opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher: fw,
		files:   make(map[string]bool),
		done:    make(chan struct{}),
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Watch starts reporting changes to path.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	dir := filepath.Dir(abs)
	if err := w.watcher.Add(dir); err != nil {
		w.logger.Error("failed to watch directory", "path", dir, "error", err)
		return err
	}

	w.mu.Lock()
	w.files[abs] = true
	w.mu.Unlock()

	w.logger.Debug("watching config file", "path", abs)
	return nil
}

// OnChange registers a callback to be called when a watched file changes.
// The callback receives the path of the changed file.
func (w *Watcher) OnChange(callback func(string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start processes events until Stop is called.
func (w *Watcher) Start() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.isWatched(event.Name) {
				continue
			}
			w.logger.Debug("config file changed", "file", event.Name, "op", event.Op.String())
			w.notifyCallbacks(event.Name)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("config watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go w.Start()
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) isWatched(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[abs]
}

func (w *Watcher) notifyCallbacks(path string) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb(path)
	}
}
