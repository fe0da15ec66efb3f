package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"pikachu/internal/models"
)

const (
	defaultTaskStatus   = "pending"
	defaultTaskPriority = "medium"
)

type TaskService struct {
	tasks    store[models.Task]
	projects store[models.Project]
	users    store[models.User]
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{
		tasks:    store[models.Task]{db: db, entity: "Task"},
		projects: store[models.Project]{db: db, entity: "Project"},
		users:    store[models.User]{db: db, entity: "User"},
	}
}

func (s *TaskService) List(ctx context.Context) ([]models.Task, error) {
	return s.tasks.list(ctx)
}

func (s *TaskService) Get(ctx context.Context, id uint) (*models.Task, error) {
	return s.tasks.get(ctx, id)
}

func (s *TaskService) Create(ctx context.Context, t *models.Task) error {
	t.ID = 0
	if t.Title = strings.TrimSpace(t.Title); t.Title == "" {
		return invalid("title is required")
	}
	if t.Status == "" {
		t.Status = defaultTaskStatus
	}
	if t.Priority == "" {
		t.Priority = defaultTaskPriority
	}
	if err := s.checkRefs(ctx, t.ProjectID, t.AssigneeID); err != nil {
		return err
	}
	return s.tasks.create(ctx, t)
}

func (s *TaskService) Update(ctx context.Context, id uint, p models.TaskPatch) (*models.Task, error) {
	t, err := s.tasks.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		if t.Title = strings.TrimSpace(*p.Title); t.Title == "" {
			return nil, invalid("title must not be empty")
		}
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.ProjectID.Set {
		t.ProjectID = p.ProjectID.Value
	}
	if p.AssigneeID.Set {
		t.AssigneeID = p.AssigneeID.Value
	}
	if err := s.checkRefs(ctx, p.ProjectID.Value, p.AssigneeID.Value); err != nil {
		return nil, err
	}
	if err := s.tasks.save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, id uint) error {
	return s.tasks.delete(ctx, id)
}

func (s *TaskService) checkRefs(ctx context.Context, projectID, assigneeID *uint) error {
	if projectID != nil {
		ok, err := s.projects.exists(ctx, *projectID)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("project %d does not exist", *projectID)
		}
	}
	if assigneeID != nil {
		ok, err := s.users.exists(ctx, *assigneeID)
		if err != nil {
			return err
		}
		if !ok {
			return invalid("user %d does not exist", *assigneeID)
		}
	}
	return nil
}
