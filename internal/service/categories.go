package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/repo"
)

type CategoryInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Color string `json:"color" validate:"len=7,hexcolor"`
}

func (in CategoryInput) normalize() (CategoryInput, error) {
	trim(&in.Name, &in.Color)
	if in.Color == "" {
		in.Color = domain.DefaultCategoryColor
	}
	if err := check(in); err != nil {
		return in, err
	}
	return in, nil
}

// Categories 分类生命周期；被引用时禁止删除
type Categories struct {
	store *repo.Store
	log   *zap.Logger
}

func NewCategories(store *repo.Store, log *zap.Logger) *Categories {
	return &Categories{store: store, log: log}
}

func (s *Categories) List(ctx context.Context) ([]domain.Category, error) {
	return s.store.Categories.List(ctx)
}

func (s *Categories) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	c := &domain.Category{Name: in.Name, Color: in.Color}
	if err := s.store.Categories.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Categories) Update(ctx context.Context, id uint, in CategoryInput) (*domain.Category, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	c, err := s.store.Categories.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	c.Name, c.Color = in.Name, in.Color
	if err := s.store.Categories.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete 不级联、不重新归类；仍有项目或成就引用时返回 ErrInUse
func (s *Categories) Delete(ctx context.Context, id uint) error {
	return s.store.Transaction(ctx, func(tx *repo.Store) error {
		c, err := tx.Categories.Get(ctx, id)
		if err != nil {
			return err
		}
		np, na, err := tx.Categories.Usage(ctx, id)
		if err != nil {
			return err
		}
		if np+na > 0 {
			return fmt.Errorf("category %q is used by %d projects and %d achievements: %w", c.Name, np, na, domain.ErrInUse)
		}
		if err := tx.Categories.Delete(ctx, id); err != nil {
			return err
		}
		s.log.Info("category deleted", zap.Uint("id", id), zap.String("name", c.Name))
		return nil
	})
}
