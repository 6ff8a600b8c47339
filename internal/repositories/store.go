package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/example/salon/internal/database"
	"github.com/example/salon/internal/utils"
)

// Scope narrows a query, e.g. a filter taken from the request.
type Scope = func(*gorm.DB) *gorm.DB

// Store provides list/get/create/save/delete for a catalog table keyed by numeric ID.
type Store[T any] struct {
	db       *gorm.DB
	preloads []string
}

// NewStore constructs a Store for T. Associations named in preloads are loaded on every
// read.
func NewStore[T any](db *gorm.DB, preloads ...string) *Store[T] {
	return &Store[T]{db: db, preloads: preloads}
}

func (s *Store[T]) reader(ctx context.Context) *gorm.DB {
	tx := s.db.WithContext(ctx)
	for _, name := range s.preloads {
		tx = tx.Preload(name)
	}
	return tx
}

// List returns one page of rows matching scopes, newest first, plus the total count.
func (s *Store[T]) List(ctx context.Context, pg utils.Pagination, scopes ...Scope) ([]T, int64, error) {
	var (
		items []T
		total int64
		model T
	)

	query := s.db.WithContext(ctx).Model(&model).Scopes(scopes...)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := s.reader(ctx).Scopes(scopes...).
		Order("id desc").Limit(pg.Limit).Offset(pg.Offset).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Get loads a row by ID.
func (s *Store[T]) Get(ctx context.Context, id uint, scopes ...Scope) (*T, error) {
	var item T
	if err := s.reader(ctx).Scopes(scopes...).First(&item, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

// Create inserts item without touching associations. Unique violations (e.g. slugs)
// surface as ErrDuplicate.
func (s *Store[T]) Create(ctx context.Context, item *T) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(item).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Save writes every column of item. Loaded associations are not written back.
func (s *Store[T]) Save(ctx context.Context, item *T) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

// Delete removes a row by ID.
func (s *Store[T]) Delete(ctx context.Context, id uint) error {
	var model T
	result := s.db.WithContext(ctx).Delete(&model, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
