package config

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/iwvelando/salary-tax-compare/internal/tax"
	"go.uber.org/zap"
)

// Store holds the active Configuration and replaces it as a whole when the
// file on disk changes. Readers always see either the old or the new value.
type Store struct {
	logger  *zap.Logger
	path    string
	current atomic.Pointer[Configuration]

	mu        sync.Mutex
	listeners []func(*Configuration)
}

// NewStore loads the configuration at path. Load failures are returned and
// leave no store behind.
func NewStore(logger *zap.Logger, path string) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		return nil, err
	}

	s := &Store{logger: logger, path: path}
	s.current.Store(conf)
	return s, nil
}

// Current returns the active configuration.
func (s *Store) Current() *Configuration {
	return s.current.Load()
}

// TaxConfig returns the active tax configuration.
func (s *Store) TaxConfig() *tax.Config {
	return s.current.Load().TaxConfig()
}

// OnReload registers fn to run after every successful reload.
func (s *Store) OnReload(fn func(*Configuration)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Reload re-reads the configuration file. An invalid file is reported and
// the previous configuration stays active.
func (s *Store) Reload() error {
	conf, err := LoadConfiguration(s.path)
	if err != nil {
		s.logger.Error("configuration reload rejected, keeping previous configuration",
			zap.String("op", "config.Reload"),
			zap.String("path", s.path),
			zap.Error(err),
		)
		return fmt.Errorf("failed to reload configuration at %s: %w", s.path, err)
	}

	s.current.Store(conf)
	for _, warning := range conf.ValidateConfiguration() {
		s.logger.Warn("Configuration warning: "+warning,
			zap.String("op", "config.Reload"),
		)
	}
	s.logger.Info("configuration reloaded",
		zap.String("op", "config.Reload"),
		zap.String("path", s.path),
		zap.Int("slabs", len(conf.TaxSlabs)),
	)

	s.mu.Lock()
	listeners := append([]func(*Configuration){}, s.listeners...)
	s.mu.Unlock()
	for _, fn := range listeners {
		fn(conf)
	}
	return nil
}

// Watch reloads the configuration whenever the file changes on disk.
func (s *Store) Watch() {
	v := newViper()
	v.SetConfigFile(s.path)
	v.OnConfigChange(s.handleChange)
	v.WatchConfig()
}

func (s *Store) handleChange(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	s.logger.Debug("configuration file changed",
		zap.String("op", "config.Watch"),
		zap.String("file", event.Name),
		zap.String("event", event.Op.String()),
	)
	_ = s.Reload()
}
