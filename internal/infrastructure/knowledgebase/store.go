// Package knowledgebase serves the chatbot knowledge base from a YAML file
// and swaps in edits without a restart.
package knowledgebase

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/maisonbelle/salon-site/internal/domain/chatbot"
	"github.com/maisonbelle/salon-site/internal/infrastructure/metrics"
)

const debounce = 250 * time.Millisecond

// Store holds the active matcher. A failed reload keeps the previous one.
type Store struct {
	path    string
	current atomic.Pointer[chatbot.Matcher]
	log     zerolog.Logger
}

var _ chatbot.Responder = (*Store)(nil)

// NewStore loads path, or the embedded knowledge base when path is empty.
func NewStore(path string, log zerolog.Logger) (*Store, error) {
	s := &Store{
		path: path,
		log:  log.With().Str("component", "knowledge-base").Logger(),
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) Match(input string) chatbot.Result {
	return s.current.Load().Match(input)
}

func (s *Store) Greeting() string {
	return s.current.Load().Greeting()
}

// Size returns the number of entries in the active knowledge base.
func (s *Store) Size() int {
	return s.current.Load().Size()
}

// Reload re-reads the file and installs the new matcher when it is valid.
func (s *Store) Reload() error {
	kb, err := chatbot.LoadKnowledgeBase(s.path)
	if err == nil {
		var m *chatbot.Matcher
		if m, err = chatbot.NewMatcher(kb); err == nil {
			s.current.Store(m)
		}
	}
	metrics.RecordKnowledgeBaseReload(err == nil)
	if err != nil {
		return fmt.Errorf("load knowledge base %q: %w", s.path, err)
	}

	source := s.path
	if source == "" {
		source = "embedded"
	}
	s.log.Info().Str("source", source).Int("entries", len(kb.Entries)).Msg("knowledge base loaded")
	return nil
}

// Watch reloads the file whenever it changes until ctx is cancelled. The
// parent directory is watched so editors that replace the file by rename
// are picked up.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	target := filepath.Clean(s.path)
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.log.Warn().Err(err).Msg("knowledge base watcher error")

		case <-timer.C:
			if err := s.Reload(); err != nil {
				s.log.Error().Err(err).Msg("knowledge base reload failed; keeping previous version")
			}
		}
	}
}
