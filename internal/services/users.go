package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"pikachu/internal/models"
)

const defaultUserRole = "user"

type UserService struct {
	users store[models.User]
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{users: store[models.User]{db: db, entity: "User"}}
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	return s.users.list(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	return s.users.get(ctx, id)
}

func (s *UserService) Create(ctx context.Context, u *models.User) error {
	u.ID = 0
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.TrimSpace(u.Email)
	if u.Name == "" || u.Email == "" {
		return invalid("name and email are required")
	}
	if u.Role == "" {
		u.Role = defaultUserRole
	}
	if err := s.checkEmail(ctx, u.Email, 0); err != nil {
		return err
	}
	return s.users.create(ctx, u)
}

func (s *UserService) Update(ctx context.Context, id uint, p models.UserPatch) (*models.User, error) {
	u, err := s.users.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		if u.Name = strings.TrimSpace(*p.Name); u.Name == "" {
			return nil, invalid("name must not be empty")
		}
	}
	if p.Email != nil {
		if u.Email = strings.TrimSpace(*p.Email); u.Email == "" {
			return nil, invalid("email must not be empty")
		}
		if err := s.checkEmail(ctx, u.Email, id); err != nil {
			return nil, err
		}
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if err := s.users.save(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.users.delete(ctx, id)
}

// checkEmail reports a conflict when another user already has email.
func (s *UserService) checkEmail(ctx context.Context, email string, self uint) error {
	var n int64
	err := s.users.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ? AND id <> ?", email, self).
		Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return conflict("Email")
	}
	return nil
}
