package repo

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"portfolio-digital/internal/domain"
)

type CategoryRepo struct{ db *gorm.DB }

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.WithContext(ctx).Order("name asc").Find(&out).Error
	return out, storage(err, "list categories")
}

func (r *CategoryRepo) Get(ctx context.Context, id uint) (*domain.Category, error) {
	var c domain.Category
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, notFound(err, "category")
	}
	return &c, nil
}

func (r *CategoryRepo) Create(ctx context.Context, c *domain.Category) error {
	return r.write(r.db.WithContext(ctx).Create(c).Error, c.Name)
}

func (r *CategoryRepo) Save(ctx context.Context, c *domain.Category) error {
	return r.write(r.db.WithContext(ctx).Save(c).Error, c.Name)
}

func (r *CategoryRepo) write(err error, name string) error {
	if err == nil {
		return nil
	}
	if isDupKey(err) {
		return fmt.Errorf("category %q already exists: %w", name, domain.ErrConflict)
	}
	return storage(err, "save category")
}

// Usage 引用该分类的项目数与成就数
func (r *CategoryRepo) Usage(ctx context.Context, id uint) (projects, achievements int64, err error) {
	db := r.db.WithContext(ctx)
	if err = db.Model(&domain.Project{}).Where("category_id = ?", id).Count(&projects).Error; err != nil {
		return 0, 0, storage(err, "count category projects")
	}
	if err = db.Model(&domain.Achievement{}).Where("category_id = ?", id).Count(&achievements).Error; err != nil {
		return 0, 0, storage(err, "count category achievements")
	}
	return projects, achievements, nil
}

func (r *CategoryRepo) Delete(ctx context.Context, id uint) error {
	return affected(r.db.WithContext(ctx).Delete(&domain.Category{}, id), "category")
}

func (r *CategoryRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Category{}).Count(&n).Error
	return n, storage(err, "count categories")
}
