package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	ErrInvalid  = errors.New("invalid input")
)

// invalidError carries a caller-facing validation message and matches
// ErrInvalid.
type invalidError struct {
	msg string
}

func (e *invalidError) Error() string { return e.msg }

func (e *invalidError) Is(target error) bool { return target == ErrInvalid }

func invalid(format string, args ...any) error {
	return &invalidError{msg: fmt.Sprintf(format, args...)}
}

// notFound yields e.g. "User not found".
func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

func conflict(what string) error {
	return fmt.Errorf("%s %w", what, ErrConflict)
}

// store holds the single-table operations shared by every service.
type store[T any] struct {
	db     *gorm.DB
	entity string
}

func (s store[T]) list(ctx context.Context) ([]T, error) {
	rows := []T{}
	if err := s.db.WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s store[T]) get(ctx context.Context, id uint) (*T, error) {
	var row T
	if err := s.db.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, s.translate(err)
	}
	return &row, nil
}

func (s store[T]) exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s store[T]) create(ctx context.Context, row *T) error {
	return s.translate(s.db.WithContext(ctx).Create(row).Error)
}

func (s store[T]) save(ctx context.Context, row *T) error {
	return s.translate(s.db.WithContext(ctx).Save(row).Error)
}

func (s store[T]) delete(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(new(T), id)
	if res.Error != nil {
		return s.translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound(s.entity)
	}
	return nil
}

func (s store[T]) translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound(s.entity)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return conflict(s.entity)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return invalid("%s references a record that does not exist", s.entity)
	}
	return fmt.Errorf("%s: %w", s.entity, err)
}
