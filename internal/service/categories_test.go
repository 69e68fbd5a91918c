package service

import (
	"context"
	"testing"

	"github.com/lalith-99/interskill/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(n int) *int { return &n }

func newCategoryService(t *testing.T) *CategoryService {
	t.Helper()
	return NewCategoryService(memory.NewCategoryStore(), zap.NewNop())
}

func TestCategoryCreate(t *testing.T) {
	ctx := context.Background()
	svc := newCategoryService(t)

	_, err := svc.Create(ctx, "  ", 1)
	assert.Equal(t, KindValidation, KindOf(err))

	_, err = svc.Create(ctx, "<b></b>", 1)
	assert.Equal(t, KindValidation, KindOf(err))

	cat, err := svc.Create(ctx, " <i>Data Science</i> ", 0)
	require.NoError(t, err)
	assert.Equal(t, "Data Science", cat.Name)
	assert.NotEmpty(t, cat.ID)
	assert.False(t, cat.CreatedAt.IsZero())

	_, err = svc.Create(ctx, "Data Science", 3)
	assert.Equal(t, KindConflict, KindOf(err))
}

func TestCategoryList_PriorityThenName(t *testing.T) {
	ctx := context.Background()
	svc := newCategoryService(t)

	for _, c := range []struct {
		name     string
		priority int
	}{
		{"Testing", 2},
		{"Java", 1},
		{"Cloud", 2},
		{"AI", 0},
	} {
		_, err := svc.Create(ctx, c.name, c.priority)
		require.NoError(t, err)
	}

	cats, err := svc.List(ctx)
	require.NoError(t, err)
	var names []string
	for _, c := range cats {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"AI", "Java", "Cloud", "Testing"}, names)
}

func TestCategoryUpdate(t *testing.T) {
	ctx := context.Background()
	svc := newCategoryService(t)

	java, err := svc.Create(ctx, "Java", 1)
	require.NoError(t, err)
	_, err = svc.Create(ctx, "Python", 2)
	require.NoError(t, err)

	t.Run("priority only", func(t *testing.T) {
		got, err := svc.Update(ctx, java.ID, CategoryPatch{Priority: intPtr(0)})
		require.NoError(t, err)
		assert.Equal(t, "Java", got.Name)
		assert.Equal(t, 0, got.Priority)
	})

	t.Run("blank name keeps current", func(t *testing.T) {
		got, err := svc.Update(ctx, java.ID, CategoryPatch{Name: strPtr(" ")})
		require.NoError(t, err)
		assert.Equal(t, "Java", got.Name)
		assert.Equal(t, 0, got.Priority)
	})

	t.Run("rename", func(t *testing.T) {
		got, err := svc.Update(ctx, java.ID, CategoryPatch{Name: strPtr("Java Full Stack"), Priority: intPtr(4)})
		require.NoError(t, err)
		assert.Equal(t, "Java Full Stack", got.Name)
		assert.Equal(t, 4, got.Priority)
	})

	t.Run("name taken", func(t *testing.T) {
		_, err := svc.Update(ctx, java.ID, CategoryPatch{Name: strPtr("Python")})
		assert.Equal(t, KindConflict, KindOf(err))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, "missing", CategoryPatch{Priority: intPtr(1)})
		assert.Equal(t, KindNotFound, KindOf(err))
	})
}

func TestCategoryDelete(t *testing.T) {
	ctx := context.Background()
	svc := newCategoryService(t)

	cat, err := svc.Create(ctx, "Java", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, admin, cat.ID))
	assert.Equal(t, KindNotFound, KindOf(svc.Delete(ctx, admin, cat.ID)))

	// The name is free again once the category is gone.
	_, err = svc.Create(ctx, "Java", 1)
	require.NoError(t, err)
}
