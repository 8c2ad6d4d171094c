package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/vango-dev/vdirective/pkg/component"
	"github.com/vango-dev/vdirective/pkg/template"
)

// reloadDebounce delays a reload until a file has been quiet this long, as
// editors often write a file several times per save.
const reloadDebounce = 100 * time.Millisecond

// Store loads template files from a directory into an App. The component
// name is the file name without its extension.
type Store struct {
	app    *component.App
	dir    string
	ext    string
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
}

// NewStore creates a store for the templates in dir with extension ext.
func NewStore(app *component.App, dir, ext string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Store{
		app:     app,
		dir:     dir,
		ext:     ext,
		logger:  logger,
		pending: make(map[string]*time.Timer),
	}
}

// ComponentName returns the component name for a template path under dir:
// the slash-separated relative path without its extension, so
// dir/admin/card.html is "admin/card". A path outside dir is named by its
// base name.
func ComponentName(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(path)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel))
}

// Files returns every template file under the store directory.
func (s *Store) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.dir {
				return filepath.SkipDir
			}
			return nil
		}
		if s.matches(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func (s *Store) matches(path string) bool {
	return s.ext == "" || strings.EqualFold(filepath.Ext(path), s.ext)
}

// LoadAll loads every template. A file that fails to load does not stop
// the others; all failures are returned joined.
func (s *Store) LoadAll() error {
	files, err := s.Files()
	if err != nil {
		return fmt.Errorf("list templates: %w", err)
	}
	var errs []error
	for _, path := range files {
		if err := s.Load(path); err != nil {
			errs = append(errs, err)
		}
	}
	s.logger.Info("templates loaded", "dir", s.dir, "count", len(files)-len(errs))
	return errors.Join(errs...)
}

// Load reads one template file and adds it to the App, replacing any
// component of the same name. The file is parsed first so syntax errors
// carry its path and a broken edit keeps the previous version live.
func (s *Store) Load(path string) error {
	if _, err := template.ParseFile(path); err != nil {
		return err
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read template: %w", err)
	}
	name := ComponentName(s.dir, path)
	if _, err := s.app.Add(component.Component{Name: name, Template: string(src)}); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Watch reloads templates as they change until ctx is cancelled. Removed
// or renamed files drop their component.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	err = filepath.WalkDir(s.dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.dir {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return fmt.Errorf("watch %s: %w", s.dir, err)
	}
	s.logger.Info("watching templates", "dir", s.dir)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				s.handleEvent(watcher, event)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error("watcher error", "error", err)
			}
		}
	}()
	return nil
}

func (s *Store) handleEvent(watcher *fsnotify.Watcher, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := watcher.Add(event.Name); err != nil {
				s.logger.Error("failed to watch directory", "dir", event.Name, "error", err)
			}
			return
		}
	}
	if !s.matches(event.Name) {
		return
	}

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		s.app.Remove(ComponentName(s.dir, event.Name))
		s.logger.Info("template removed", "path", event.Name)
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.pending[event.Name]; ok {
		t.Reset(reloadDebounce)
		return
	}
	path := event.Name
	s.pending[path] = time.AfterFunc(reloadDebounce, func() {
		s.mu.Lock()
		delete(s.pending, path)
		s.mu.Unlock()

		if err := s.Load(path); err != nil {
			s.logger.Error("template reload failed", "path", path, "error", err)
			return
		}
		s.logger.Info("template reloaded", "path", path, "component", ComponentName(s.dir, path))
	})
}
