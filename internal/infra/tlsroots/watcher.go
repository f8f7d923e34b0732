package tlsroots

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events a certificate renewal
// produces into one reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher serves a key pair and reloads it when either file is written.
// A failed reload keeps the previous pair.
type Watcher struct {
	certFile string
	keyFile  string
	logger   *slog.Logger
	debounce time.Duration

	mu   sync.RWMutex
	cert *tls.Certificate

	done     chan struct{}
	stopOnce sync.Once
	timer    *time.Timer
	timerMu  sync.Mutex
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the logger for the watcher.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithDebounce sets how long to wait after the last file event before
// reloading.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// NewWatcher loads the key pair. Call Start to follow changes.
func NewWatcher(certFile, keyFile string, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		certFile: certFile,
		keyFile:  keyFile,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// Start watches the directories of both files and runs until Stop.
// Directories are watched so that rename-over-original saves are seen.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("tlsroots: create watcher: %w", err)
	}

	dirs := map[string]bool{filepath.Dir(w.certFile): true, filepath.Dir(w.keyFile): true}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return fmt.Errorf("tlsroots: watch %s: %w", dir, err)
		}
	}
	defer fw.Close()

	w.logger.Info("certificate watcher started", "cert_file", w.certFile, "key_file", w.keyFile)

	names := map[string]bool{filepath.Base(w.certFile): true, filepath.Base(w.keyFile): true}
	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !names[filepath.Base(event.Name)] {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.logger.Debug("certificate file changed", "file", event.Name, "op", event.Op.String())
			w.scheduleReload()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("certificate watcher error", "error", err)

		case <-w.done:
			return nil
		}
	}
}

// StartAsync runs Start in a goroutine.
func (w *Watcher) StartAsync() {
	go func() {
		if err := w.Start(); err != nil {
			w.logger.Error("certificate watcher stopped", "error", err)
		}
	}()
}

// Stop ends watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.timerMu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.timerMu.Unlock()
	})
}

// Certificate returns the current key pair.
func (w *Watcher) Certificate() *tls.Certificate {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cert
}

// GetCertificate implements tls.Config.GetCertificate.
func (w *Watcher) GetCertificate(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return w.Certificate(), nil
}

// ServerConfig returns a server TLS config backed by the watcher. A non-nil
// clientCAs requires clients to present a certificate signed by it.
func (w *Watcher) ServerConfig(clientCAs *Pool) *tls.Config {
	cfg := &tls.Config{
		GetCertificate: w.GetCertificate,
		MinVersion:     MinVersion,
	}
	if clientCAs != nil {
		cfg.ClientCAs = clientCAs.CertPool()
		cfg.ClientAuth = tls.RequireAndVerifyClientCert
	}
	return cfg
}

func (w *Watcher) scheduleReload() {
	w.timerMu.Lock()
	defer w.timerMu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if err := w.reload(); err != nil {
			w.logger.Error("certificate reload failed", "error", err, "cert_file", w.certFile)
		}
	})
}

func (w *Watcher) reload() error {
	cert, err := tls.LoadX509KeyPair(w.certFile, w.keyFile)
	if err != nil {
		return fmt.Errorf("tlsroots: load key pair: %w", err)
	}
	if cert.Leaf == nil && len(cert.Certificate) > 0 {
		if leaf, err := x509.ParseCertificate(cert.Certificate[0]); err == nil {
			cert.Leaf = leaf
		}
	}

	w.mu.Lock()
	w.cert = &cert
	w.mu.Unlock()

	w.logger.Info("certificate loaded", "cert_file", w.certFile)
	return nil
}
