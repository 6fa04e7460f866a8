// Package store persists Forest projects as JSON snapshots on disk, one
// file per project. The planning engine itself never touches storage; the
// store is the persistence collaborator the CLI wires in.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/BretMeraki/Forest7-15-sub006/internal/content"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

// ErrProjectNotFound is returned when the requested project does not exist.
var ErrProjectNotFound = errors.New("project not found")

// Project bundles a goal's plan with the learner context it was built for.
// One project per pursued goal.
type Project struct {
	ID      types.ID               `json:"id"`
	Name    string                 `json:"name"`
	Goal    string                 `json:"goal"`
	Learner content.LearnerContext `json:"learner"`
	Plan    *plan.Plan             `json:"plan"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProjectStore defines the persistence operations for projects.
// Implementations must be safe for concurrent use.
type ProjectStore interface {
	// Save persists the project, creating or overwriting its snapshot.
	Save(ctx context.Context, project *Project) error

	// Load retrieves a project by ID. Returns ErrProjectNotFound if no
	// project with the given ID exists.
	Load(ctx context.Context, id types.ID) (*Project, error)

	// LoadByName retrieves a project by its name. Returns
	// ErrProjectNotFound if no project with the given name exists.
	LoadByName(ctx context.Context, name string) (*Project, error)

	// List returns all stored projects sorted by creation time.
	List(ctx context.Context) ([]*Project, error)

	// Delete removes a project's snapshot. Returns ErrProjectNotFound if
	// no project with the given ID exists.
	Delete(ctx context.Context, id types.ID) error
}

// FileStore implements ProjectStore with one JSON file per project under a
// base directory. Writes are atomic: the snapshot lands in a temp file
// first and is renamed into place, so a crash mid-write never corrupts an
// existing project.
type FileStore struct {
	mu     sync.RWMutex
	dir    string
	logger *slog.Logger
}

// FileStoreOption is a functional option for configuring a FileStore.
type FileStoreOption func(*FileStore)

// WithStoreLogger sets the logger.
func WithStoreLogger(logger *slog.Logger) FileStoreOption {
	return func(s *FileStore) {
		s.logger = logger
	}
}

// NewFileStore creates a FileStore rooted at dir, creating the directory
// if needed.
func NewFileStore(dir string, opts ...FileStoreOption) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("store directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	s := &FileStore{
		dir:    dir,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Save persists the project snapshot atomically and bumps UpdatedAt.
func (s *FileStore) Save(ctx context.Context, project *Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if project == nil {
		return fmt.Errorf("project cannot be nil")
	}
	if project.ID.IsZero() {
		return fmt.Errorf("project ID cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	project.UpdatedAt = time.Now()
	if project.CreatedAt.IsZero() {
		project.CreatedAt = project.UpdatedAt
	}

	data, err := json.MarshalIndent(project, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal project %s: %w", project.ID, err)
	}

	target := s.path(project.ID)
	tmp, err := os.CreateTemp(s.dir, ".project-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write project %s: %w", project.ID, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to commit project %s: %w", project.ID, err)
	}

	s.logger.Debug("saved project", "id", project.ID, "name", project.Name)
	return nil
}

// Load retrieves a project by ID.
func (s *FileStore) Load(ctx context.Context, id types.ID) (*Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loadFile(s.path(id))
}

// LoadByName retrieves a project by name with a linear scan over snapshots.
// Project counts are small (one per goal), so an index isn't warranted.
func (s *FileStore) LoadByName(ctx context.Context, name string) (*Project, error) {
	projects, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		if p.Name == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("project %q: %w", name, ErrProjectNotFound)
}

// List returns all stored projects sorted by creation time. Snapshots that
// fail to parse are skipped with a warning rather than failing the listing.
func (s *FileStore) List(ctx context.Context) ([]*Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read store directory: %w", err)
	}

	projects := make([]*Project, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		project, err := s.loadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			s.logger.Warn("skipping unreadable project snapshot",
				"file", entry.Name(), "error", err)
			continue
		}
		projects = append(projects, project)
	}

	// Stable order by creation time, insertion sort since n is tiny.
	for i := 1; i < len(projects); i++ {
		for j := i; j > 0 && projects[j].CreatedAt.Before(projects[j-1].CreatedAt); j-- {
			projects[j], projects[j-1] = projects[j-1], projects[j]
		}
	}

	return projects, nil
}

// Delete removes a project's snapshot.
func (s *FileStore) Delete(ctx context.Context, id types.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("project %s: %w", id, ErrProjectNotFound)
		}
		return fmt.Errorf("failed to delete project %s: %w", id, err)
	}

	s.logger.Debug("deleted project", "id", id)
	return nil
}

func (s *FileStore) path(id types.ID) string {
	return filepath.Join(s.dir, id.String()+".json")
}

func (s *FileStore) loadFile(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to read project snapshot: %w", err)
	}

	var project Project
	if err := json.Unmarshal(data, &project); err != nil {
		return nil, fmt.Errorf("failed to parse project snapshot: %w", err)
	}
	return &project, nil
}

// Ensure FileStore implements ProjectStore at compile time
var _ ProjectStore = (*FileStore)(nil)
