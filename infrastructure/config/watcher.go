package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

const reloadDebounce = 500 * time.Millisecond

// LevelWatcher re-reads the config file when it changes and applies its
// log_level to a running logger. Other settings need a restart.
type LevelWatcher struct {
	path    string
	level   zap.AtomicLevel
	logger  *zap.Logger
	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewLevelWatcher starts watching path. The directory is watched rather than
// the file so editors that replace the file on save are still seen.
func NewLevelWatcher(path string, level zap.AtomicLevel, logger *zap.Logger) (*LevelWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsWatcher.Add(filepath.Dir(path)); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", path, err)
	}

	w := &LevelWatcher{
		path:    filepath.Clean(path),
		level:   level,
		logger:  logger,
		watcher: fsWatcher,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	go w.watchLoop()

	logger.Info("Log level hot reloading enabled", zap.String("file", path))
	return w, nil
}

func (w *LevelWatcher) watchLoop() {
	defer close(w.doneCh)
	defer w.watcher.Close()

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(reloadDebounce, w.Reload)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("File watcher error", zap.Error(err))

		case <-w.stopCh:
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return
		}
	}
}

// Reload reads the file once and applies log_level when it is valid.
func (w *LevelWatcher) Reload() {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.logger.Warn("Failed to read config file", zap.String("file", w.path), zap.Error(err))
		return
	}
	var partial struct {
		LogLevel string `yaml:"log_level"`
	}
	if err := yaml.Unmarshal(data, &partial); err != nil {
		w.logger.Warn("Invalid config file after change", zap.String("file", w.path), zap.Error(err))
		return
	}
	if partial.LogLevel == "" {
		return
	}

	next, err := zapcore.ParseLevel(partial.LogLevel)
	if err != nil {
		w.logger.Warn("Ignoring invalid log level", zap.String("level", partial.LogLevel))
		return
	}
	if prev := w.level.Level(); prev != next {
		w.level.SetLevel(next)
		w.logger.Info("Log level changed",
			zap.String("from", prev.String()),
			zap.String("to", next.String()),
		)
	}
}

// Stop stops the watcher and waits for its goroutine to exit.
func (w *LevelWatcher) Stop() {
	select {
	case <-w.stopCh:
	default:
		close(w.stopCh)
	}
	<-w.doneCh
}
