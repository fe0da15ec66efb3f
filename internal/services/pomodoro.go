package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"pikachu/internal/models"
)

// DefaultCategory is created by Seed so new tasks always have somewhere to go.
const DefaultCategory = "General"

type PomodoroService struct {
	db         *gorm.DB
	categories store[models.Category]
	tasks      store[models.PomodoroTask]
}

func NewPomodoroService(db *gorm.DB) *PomodoroService {
	return &PomodoroService{
		db:         db,
		categories: store[models.Category]{db: db, entity: "Category"},
		tasks:      store[models.PomodoroTask]{db: db, entity: "Task"},
	}
}

func (s *PomodoroService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.categories.list(ctx)
}

func (s *PomodoroService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("category name is required")
	}
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.Category{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, conflict("Category")
	}
	c := &models.Category{Name: name}
	if err := s.categories.create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCategory removes the category and, through the foreign key, its tasks.
func (s *PomodoroService) DeleteCategory(ctx context.Context, id uint) error {
	return s.categories.delete(ctx, id)
}

func (s *PomodoroService) ListTasks(ctx context.Context) ([]models.PomodoroTask, error) {
	tasks := []models.PomodoroTask{}
	if err := s.db.WithContext(ctx).Preload("Category").Order("id").Find(&tasks).Error; err != nil {
		return nil, err
	}
	for i := range tasks {
		withCategoryName(&tasks[i])
	}
	return tasks, nil
}

func (s *PomodoroService) CreateTask(ctx context.Context, title string, categoryID uint) (*models.PomodoroTask, error) {
	title = strings.TrimSpace(title)
	if title == "" || categoryID == 0 {
		return nil, invalid("title and category_id are required")
	}
	c, err := s.categories.get(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	t := &models.PomodoroTask{Title: title, CategoryID: c.ID}
	if err := s.tasks.create(ctx, t); err != nil {
		return nil, err
	}
	t.Category = c
	withCategoryName(t)
	return t, nil
}

func (s *PomodoroService) UpdateTask(ctx context.Context, id uint, p models.PomodoroTaskPatch) (*models.PomodoroTask, error) {
	var t models.PomodoroTask
	if err := s.db.WithContext(ctx).Preload("Category").First(&t, id).Error; err != nil {
		return nil, s.tasks.translate(err)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.PomodoroTimeSpent != nil {
		if *p.PomodoroTimeSpent < 0 {
			return nil, invalid("pomodoro_time_spent must not be negative")
		}
		t.PomodoroTimeSpent = *p.PomodoroTimeSpent
	}
	err := s.db.WithContext(ctx).Model(&t).
		Select("Completed", "PomodoroTimeSpent").
		Updates(&t).Error
	if err != nil {
		return nil, s.tasks.translate(err)
	}
	withCategoryName(&t)
	return &t, nil
}

func (s *PomodoroService) DeleteTask(ctx context.Context, id uint) error {
	return s.tasks.delete(ctx, id)
}

func withCategoryName(t *models.PomodoroTask) {
	if t.Category != nil {
		t.CategoryName = t.Category.Name
	}
}
