package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BretMeraki/Forest7-15-sub006/internal/content"
	"github.com/BretMeraki/Forest7-15-sub006/internal/plan"
	"github.com/BretMeraki/Forest7-15-sub006/internal/types"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	return s
}

func sampleProject(name string) *Project {
	planID := types.NewID()
	p := plan.New(planID, plan.Goal{Text: "learn blacksmithing", ComplexityScore: 5})

	return &Project{
		ID:      types.NewID(),
		Name:    name,
		Goal:    "learn blacksmithing",
		Learner: content.LearnerContext{Style: "project-driven"},
		Plan:    p,
	}
}

func TestFileStore_SaveAndLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	project := sampleProject("smithing")

	require.NoError(t, s.Save(ctx, project))
	assert.False(t, project.CreatedAt.IsZero())
	assert.False(t, project.UpdatedAt.IsZero())

	loaded, err := s.Load(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.ID, loaded.ID)
	assert.Equal(t, "smithing", loaded.Name)
	assert.Equal(t, "project-driven", loaded.Learner.Style)
	require.NotNil(t, loaded.Plan)
	assert.Equal(t, "learn blacksmithing", loaded.Plan.Goal.Text)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	project := sampleProject("smithing")

	require.NoError(t, s.Save(ctx, project))
	created := project.CreatedAt
	firstUpdate := project.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	project.Goal = "master blacksmithing"
	require.NoError(t, s.Save(ctx, project))

	loaded, err := s.Load(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, "master blacksmithing", loaded.Goal)
	assert.True(t, loaded.UpdatedAt.After(firstUpdate))
	assert.True(t, loaded.CreatedAt.Equal(created))
}

func TestFileStore_SaveValidation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.Error(t, s.Save(ctx, nil))
	assert.Error(t, s.Save(ctx, &Project{Name: "no id"}))
}

func TestFileStore_LoadMissing(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Load(context.Background(), types.NewID())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestFileStore_LoadByName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleProject("guitar")
	second := sampleProject("smithing")
	require.NoError(t, s.Save(ctx, first))
	require.NoError(t, s.Save(ctx, second))

	loaded, err := s.LoadByName(ctx, "smithing")
	require.NoError(t, err)
	assert.Equal(t, second.ID, loaded.ID)

	_, err = s.LoadByName(ctx, "unknown")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestFileStore_ListSortedByCreation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	names := []string{"first", "second", "third"}
	for _, name := range names {
		require.NoError(t, s.Save(ctx, sampleProject(name)))
		time.Sleep(5 * time.Millisecond)
	}

	projects, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)
	for i, name := range names {
		assert.Equal(t, name, projects[i].Name)
	}
}

func TestFileStore_ListSkipsCorruptSnapshots(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, sampleProject("good")))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "corrupt.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(s.dir, "notes.txt"), []byte("ignored"), 0o644))

	projects, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "good", projects[0].Name)
}

func TestFileStore_Delete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	project := sampleProject("doomed")

	require.NoError(t, s.Save(ctx, project))
	require.NoError(t, s.Delete(ctx, project.ID))

	_, err := s.Load(ctx, project.ID)
	assert.ErrorIs(t, err, ErrProjectNotFound)

	assert.ErrorIs(t, s.Delete(ctx, project.ID), ErrProjectNotFound)
}

func TestFileStore_NoStrayTempFiles(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Save(context.Background(), sampleProject("clean")))

	entries, err := os.ReadDir(s.dir)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.NotContains(t, entry.Name(), ".tmp")
	}
}

func TestFileStore_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, s.Save(ctx, sampleProject("late")))
	_, err := s.List(ctx)
	assert.Error(t, err)
}

func TestNewFileStore_EmptyDirRejected(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)
}
