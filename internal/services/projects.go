package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"pikachu/internal/models"
)

const defaultProjectStatus = "planning"

type ProjectService struct {
	projects store[models.Project]
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{projects: store[models.Project]{db: db, entity: "Project"}}
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.projects.list(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id uint) (*models.Project, error) {
	return s.projects.get(ctx, id)
}

func (s *ProjectService) Create(ctx context.Context, p *models.Project) error {
	p.ID = 0
	if p.Name = strings.TrimSpace(p.Name); p.Name == "" {
		return invalid("name is required")
	}
	if p.Status == "" {
		p.Status = defaultProjectStatus
	}
	return s.projects.create(ctx, p)
}

func (s *ProjectService) Update(ctx context.Context, id uint, patch models.ProjectPatch) (*models.Project, error) {
	p, err := s.projects.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if p.Name = strings.TrimSpace(*patch.Name); p.Name == "" {
			return nil, invalid("name must not be empty")
		}
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if err := s.projects.save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete soft-deletes the project; its tasks keep their project_id.
func (s *ProjectService) Delete(ctx context.Context, id uint) error {
	return s.projects.delete(ctx, id)
}
