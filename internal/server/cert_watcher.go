package server

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"resumeforge/internal/errors"
)

// CertWatcher watches certificate files and fires a callback when they
// change. Rotation tooling typically rewrites the cert and key within
// milliseconds of each other, so filesystem events are debounced and the
// callback only fires when a mod time actually moved.
type CertWatcher struct {
	mu sync.RWMutex

	certFile string
	keyFile  string
	caFile   string

	fsWatcher *fsnotify.Watcher
	modTimes  map[string]time.Time

	debounceDelay time.Duration
	debounceTimer *time.Timer
	pending       chan struct{}

	onChange func()
	logger   *errors.Logger

	stop    chan struct{}
	running bool
}

// NewCertWatcher creates a watcher over the given certificate files
func NewCertWatcher(certFile, keyFile, caFile string, debounceDelay time.Duration, onChange func(), logger *errors.Logger) (*CertWatcher, error) {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &CertWatcher{
		certFile:      certFile,
		keyFile:       keyFile,
		caFile:        caFile,
		modTimes:      make(map[string]time.Time),
		debounceDelay: debounceDelay,
		pending:       make(chan struct{}, 1),
		onChange:      onChange,
		logger:        logger,
		stop:          make(chan struct{}),
	}, nil
}

// Start begins watching the certificate files
func (cw *CertWatcher) Start() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.running {
		return fmt.Errorf("certificate watcher is already running")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	cw.fsWatcher = watcher

	if err := cw.snapshotModTimes(); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			cw.logger.LogError(closeErr, "Failed to close file watcher during cleanup")
		}
		return fmt.Errorf("failed to get initial file modification times: %w", err)
	}

	files := cw.paths()
	for _, file := range files {
		if err := cw.watchPath(file); err != nil {
			cw.logger.Warn("Failed to watch certificate file", "file", file, "error", err)
		}
	}

	cw.running = true
	go cw.run()

	cw.logger.Info("Certificate file watcher started",
		"files", files,
		"debounce_delay", cw.debounceDelay)
	return nil
}

// Stop halts the watcher and releases its resources
func (cw *CertWatcher) Stop() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if !cw.running {
		return nil
	}
	close(cw.stop)

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	if cw.fsWatcher != nil {
		if err := cw.fsWatcher.Close(); err != nil {
			cw.logger.LogError(err, "Failed to close file system watcher")
			return err
		}
	}

	cw.running = false
	cw.logger.Info("Certificate file watcher stopped")
	return nil
}

func (cw *CertWatcher) paths() []string {
	var files []string
	for _, file := range []string{cw.certFile, cw.keyFile, cw.caFile} {
		if file != "" {
			files = append(files, file)
		}
	}
	return files
}

// watchPath registers both the file and its directory with fsnotify. The
// directory watch catches atomic writes, which arrive as renames, and lets
// a not-yet-existing file be picked up once it appears.
func (cw *CertWatcher) watchPath(file string) error {
	dir := filepath.Dir(file)

	if err := cw.fsWatcher.Add(file); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to watch file %s: %w", file, err)
		}
		if err := cw.fsWatcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		cw.logger.Info("Watching directory for certificate file",
			"file", file, "directory", dir)
	}

	if err := cw.fsWatcher.Add(dir); err != nil {
		cw.logger.Warn("Failed to watch directory for atomic writes",
			"directory", dir, "error", err)
	}
	return nil
}

func (cw *CertWatcher) snapshotModTimes() error {
	for _, file := range cw.paths() {
		stat, err := os.Stat(file)
		switch {
		case err == nil:
			cw.modTimes[file] = stat.ModTime()
		case !os.IsNotExist(err):
			return fmt.Errorf("failed to stat file %s: %w", file, err)
		}
	}
	return nil
}

// changed compares the file's mod time against the last seen value. A
// deleted file counts as a change so symlink swaps are noticed.
func (cw *CertWatcher) changed(file string) bool {
	stat, err := os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			if _, seen := cw.modTimes[file]; seen {
				delete(cw.modTimes, file)
				return true
			}
		}
		return false
	}

	last, seen := cw.modTimes[file]
	if seen && !stat.ModTime().After(last) {
		return false
	}
	cw.modTimes[file] = stat.ModTime()
	return true
}

func (cw *CertWatcher) run() {
	for {
		select {
		case event, ok := <-cw.fsWatcher.Events:
			if !ok {
				return
			}
			if cw.relevant(event) {
				cw.debounce()
			}

		case err, ok := <-cw.fsWatcher.Errors:
			if !ok {
				return
			}
			cw.logger.LogError(err, "File watcher error")

		case <-cw.pending:
			if slices.ContainsFunc(cw.paths(), cw.changed) {
				cw.logger.Info("Certificate files changed, triggering reload")
				cw.onChange()
			}

		case <-cw.stop:
			return
		}
	}
}

// relevant filters events down to writes, creates, and renames touching the
// watched files. Base name matching covers directory-level events.
func (cw *CertWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	for _, file := range []string{cw.certFile, cw.keyFile, cw.caFile} {
		if file == "" {
			continue
		}
		if event.Name == file || filepath.Base(event.Name) == filepath.Base(file) {
			return true
		}
	}
	return false
}

func (cw *CertWatcher) debounce() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	cw.debounceTimer = time.AfterFunc(cw.debounceDelay, func() {
		select {
		case cw.pending <- struct{}{}:
		default:
		}
	})
}
