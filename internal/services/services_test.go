package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pikachu/internal/database"
	"pikachu/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := database.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func ptr[T any](v T) *T { return &v }

func TestUserService(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(newTestDB(t))

	users, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	u := &models.User{Name: " Ash ", Email: "ash@pallet.town"}
	require.NoError(t, svc.Create(ctx, u))
	assert.NotZero(t, u.ID)
	assert.Equal(t, "Ash", u.Name)
	assert.Equal(t, "user", u.Role)

	got, err := svc.Get(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ash@pallet.town", got.Email)

	err = svc.Create(ctx, &models.User{Name: "Other", Email: "ash@pallet.town"})
	assert.ErrorIs(t, err, ErrConflict)

	err = svc.Create(ctx, &models.User{Name: "No email"})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.EqualError(t, err, "name and email are required")

	updated, err := svc.Update(ctx, u.ID, models.UserPatch{Role: ptr("admin")})
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.Role)
	assert.Equal(t, "Ash", updated.Name)

	// Keeping one's own email is not a conflict.
	_, err = svc.Update(ctx, u.ID, models.UserPatch{Email: ptr("ash@pallet.town")})
	require.NoError(t, err)

	_, err = svc.Update(ctx, 999, models.UserPatch{Role: ptr("admin")})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "User not found")

	require.NoError(t, svc.Delete(ctx, u.ID))
	assert.ErrorIs(t, svc.Delete(ctx, u.ID), ErrNotFound)
	_, err = svc.Get(ctx, u.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProjectService(t *testing.T) {
	ctx := context.Background()
	svc := NewProjectService(newTestDB(t))

	p := &models.Project{Name: "Pokedex"}
	require.NoError(t, svc.Create(ctx, p))
	assert.Equal(t, "planning", p.Status)

	assert.ErrorIs(t, svc.Create(ctx, &models.Project{Name: "  "}), ErrInvalid)

	updated, err := svc.Update(ctx, p.ID, models.ProjectPatch{Status: ptr("active"), Description: ptr("all of them")})
	require.NoError(t, err)
	assert.Equal(t, "active", updated.Status)
	assert.Equal(t, "all of them", updated.Description)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Get(ctx, p.ID)
	assert.EqualError(t, err, "Project not found")
	projects, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestTaskService(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := NewUserService(db)
	projects := NewProjectService(db)
	svc := NewTaskService(db)

	u := &models.User{Name: "Misty", Email: "misty@cerulean.city"}
	require.NoError(t, users.Create(ctx, u))
	p := &models.Project{Name: "Gym Tour"}
	require.NoError(t, projects.Create(ctx, p))

	task := &models.Task{Title: "Win badge", ProjectID: &p.ID, AssigneeID: &u.ID}
	require.NoError(t, svc.Create(ctx, task))
	assert.Equal(t, "pending", task.Status)
	assert.Equal(t, "medium", task.Priority)

	err := svc.Create(ctx, &models.Task{Title: "Orphan", ProjectID: ptr(uint(404))})
	assert.ErrorIs(t, err, ErrInvalid)
	assert.EqualError(t, err, "project 404 does not exist")

	err = svc.Create(ctx, &models.Task{Title: "Nobody", AssigneeID: ptr(uint(404))})
	assert.EqualError(t, err, "user 404 does not exist")

	assert.ErrorIs(t, svc.Create(ctx, &models.Task{}), ErrInvalid)

	updated, err := svc.Update(ctx, task.ID, models.TaskPatch{Status: ptr("completed"), Priority: ptr("high")})
	require.NoError(t, err)
	assert.Equal(t, "completed", updated.Status)
	assert.Equal(t, "high", updated.Priority)
	require.NotNil(t, updated.ProjectID)
	assert.Equal(t, p.ID, *updated.ProjectID)

	_, err = svc.Update(ctx, task.ID, models.TaskPatch{AssigneeID: models.OptionalID{Set: true, Value: ptr(uint(77))}})
	assert.ErrorIs(t, err, ErrInvalid)

	// An explicit null clears the reference; an absent field keeps it.
	updated, err = svc.Update(ctx, task.ID, models.TaskPatch{ProjectID: models.OptionalID{Set: true}})
	require.NoError(t, err)
	assert.Nil(t, updated.ProjectID)
	require.NotNil(t, updated.AssigneeID)
	got, err := svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ProjectID)

	updated, err = svc.Update(ctx, task.ID, models.TaskPatch{ProjectID: models.OptionalID{Set: true, Value: &p.ID}})
	require.NoError(t, err)
	require.NotNil(t, updated.ProjectID)
	assert.Equal(t, p.ID, *updated.ProjectID)

	// Deleting the assignee clears the reference instead of failing.
	require.NoError(t, users.Delete(ctx, u.ID))
	got, err = svc.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, got.AssigneeID)

	require.NoError(t, svc.Delete(ctx, task.ID))
	_, err = svc.Get(ctx, task.ID)
	assert.EqualError(t, err, "Task not found")
}

func TestPomodoroService(t *testing.T) {
	ctx := context.Background()
	svc := NewPomodoroService(newTestDB(t))

	c, err := svc.CreateCategory(ctx, "  Study ")
	require.NoError(t, err)
	assert.Equal(t, "Study", c.Name)

	_, err = svc.CreateCategory(ctx, "Study")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svc.CreateCategory(ctx, " ")
	assert.ErrorIs(t, err, ErrInvalid)

	task, err := svc.CreateTask(ctx, "Read chapter 3", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Study", task.CategoryName)
	assert.False(t, task.Completed)

	_, err = svc.CreateTask(ctx, "Lost", 999)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Category not found")
	_, err = svc.CreateTask(ctx, "", c.ID)
	assert.ErrorIs(t, err, ErrInvalid)

	updated, err := svc.UpdateTask(ctx, task.ID, models.PomodoroTaskPatch{PomodoroTimeSpent: ptr(1500)})
	require.NoError(t, err)
	assert.Equal(t, 1500, updated.PomodoroTimeSpent)
	assert.False(t, updated.Completed)

	updated, err = svc.UpdateTask(ctx, task.ID, models.PomodoroTaskPatch{Completed: ptr(true)})
	require.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.Equal(t, 1500, updated.PomodoroTimeSpent)
	assert.Equal(t, "Study", updated.CategoryName)

	_, err = svc.UpdateTask(ctx, 999, models.PomodoroTaskPatch{Completed: ptr(true)})
	assert.ErrorIs(t, err, ErrNotFound)

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Study", tasks[0].CategoryName)
	assert.True(t, tasks[0].Completed)

	require.NoError(t, svc.DeleteTask(ctx, task.ID))
	assert.ErrorIs(t, svc.DeleteTask(ctx, task.ID), ErrNotFound)
}

func TestPomodoroService_DeleteCategoryCascades(t *testing.T) {
	ctx := context.Background()
	svc := NewPomodoroService(newTestDB(t))

	c, err := svc.CreateCategory(ctx, "Work")
	require.NoError(t, err)
	for _, title := range []string{"Email", "Review"} {
		_, err := svc.CreateTask(ctx, title, c.ID)
		require.NoError(t, err)
	}

	require.NoError(t, svc.DeleteCategory(ctx, c.ID))

	tasks, err := svc.ListTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	require.NoError(t, Seed(ctx, db))
	require.NoError(t, Seed(ctx, db))

	users, err := NewUserService(db).List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	tasks, err := NewTaskService(db).List(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
	for _, task := range tasks {
		assert.NotNil(t, task.ProjectID)
		assert.NotNil(t, task.AssigneeID)
	}

	categories, err := NewPomodoroService(db).ListCategories(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, DefaultCategory, categories[0].Name)
}
