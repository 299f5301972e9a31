package render

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"oneshot-backend/internal/domains/profile/model"
	"oneshot-backend/internal/shared/apperror"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// TemplateStore loads the profile template from disk. Without Watch every
// Load reads the file again; with Watch the compiled template is cached
// until fsnotify reports a change to the file.
type TemplateStore struct {
	path     string
	renderer *Renderer

	mu     sync.RWMutex
	cached *Template
	// generation is bumped by every invalidation; a Load only caches
	// what it compiled if no invalidation happened meanwhile
	generation uint64
	compiled   func() // test hook, runs between compile and cache

	watcher *fsnotify.Watcher
	done    chan struct{}
	wg      sync.WaitGroup
}

func NewTemplateStore(path string, renderer *Renderer) *TemplateStore {
	return &TemplateStore{path: path, renderer: renderer}
}

// Path returns the template file location.
func (s *TemplateStore) Path() string {
	return s.path
}

// Load returns the current template. A read failure is a hard IO error;
// a compile failure is carried on the Template and degrades at render time.
func (s *TemplateStore) Load() (*Template, error) {
	s.mu.RLock()
	cached, gen := s.cached, s.generation
	s.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	source, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperror.IO(model.CodeTemplateRead,
			fmt.Sprintf("Failed to read template file: %s", s.path), err)
	}

	tmpl := s.renderer.Compile(filepath.Base(s.path), string(source))
	if tmpl.Err() != nil {
		log.Warn().Err(tmpl.Err()).Str("template", s.path).Msg("Profile template does not compile")
	}

	if s.compiled != nil {
		s.compiled()
	}

	s.mu.Lock()
	if s.watcher != nil && s.generation == gen {
		s.cached = tmpl
	}
	s.mu.Unlock()

	return tmpl, nil
}

// Invalidate drops the cached template.
func (s *TemplateStore) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.generation++
	s.mu.Unlock()
}

// Watch starts caching and invalidates on changes to the template file.
// The parent directory is watched so editor rename-and-replace saves are seen.
func (s *TemplateStore) Watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch template dir: %w", err)
	}

	s.mu.Lock()
	s.watcher = w
	s.cached = nil
	s.generation++
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.wg.Add(1)
	go s.processEvents(w, s.done)

	log.Info().Str("template", s.path).Msg("Watching profile template")
	return nil
}

func (s *TemplateStore) processEvents(w *fsnotify.Watcher, done <-chan struct{}) {
	defer s.wg.Done()

	target := filepath.Clean(s.path)
	for {
		select {
		case <-done:
			return
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				s.Invalidate()
				log.Debug().Str("template", s.path).Str("op", event.Op.String()).Msg("Profile template changed")
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Template watcher error")
		}
	}
}

// Close stops the watcher goroutine. Safe to call without Watch.
func (s *TemplateStore) Close() error {
	s.mu.Lock()
	w, done := s.watcher, s.done
	s.watcher, s.done, s.cached = nil, nil, nil
	s.generation++
	s.mu.Unlock()

	if w == nil {
		return nil
	}
	close(done)
	err := w.Close()
	s.wg.Wait()
	return err
}
