package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio-digital/internal/domain"
)

type CommentRepo struct{ db *gorm.DB }

func (r *CommentRepo) Create(ctx context.Context, c *domain.Comment) error {
	return storage(r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error, "create comment")
}

// ForProject 按时间正序，附带作者
func (r *CommentRepo) ForProject(ctx context.Context, projectID uint, approvedOnly bool) ([]domain.Comment, error) {
	q := r.db.WithContext(ctx).Preload("Author").Where("project_id = ?", projectID)
	if approvedOnly {
		q = q.Where("is_approved = ?", true)
	}
	var out []domain.Comment
	err := q.Order("created_at asc").Order("id asc").Find(&out).Error
	return out, storage(err, "list comments")
}

func (r *CommentRepo) Recent(ctx context.Context, n int) ([]domain.Comment, error) {
	var out []domain.Comment
	err := r.db.WithContext(ctx).Preload("Author").
		Order("created_at desc").Order("id desc").Limit(n).Find(&out).Error
	return out, storage(err, "list recent comments")
}

// CountByProject 只统计已审核评论
func (r *CommentRepo) CountByProject(ctx context.Context, ids []uint) (map[uint]int64, error) {
	return countGrouped(r.db.WithContext(ctx).Model(&domain.Comment{}).Where("is_approved = ?", true), ids)
}

func (r *CommentRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Comment{}).Count(&n).Error
	return n, storage(err, "count comments")
}

type LikeRepo struct{ db *gorm.DB }

// Toggle 已点赞则取消，否则点赞；唯一索引兜住并发重复插入
func (r *LikeRepo) Toggle(ctx context.Context, userID string, projectID uint) (bool, error) {
	db := r.db.WithContext(ctx)
	res := db.Where("user_id = ? AND project_id = ?", userID, projectID).Delete(&domain.Like{})
	if res.Error != nil {
		return false, storage(res.Error, "delete like")
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	like := domain.Like{UserID: userID, ProjectID: projectID}
	if err := db.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
		return false, storage(err, "create like")
	}
	return true, nil
}

func (r *LikeRepo) Exists(ctx context.Context, userID string, projectID uint) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Like{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).Count(&n).Error
	return n > 0, storage(err, "count like")
}

func (r *LikeRepo) CountForProject(ctx context.Context, projectID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Like{}).Where("project_id = ?", projectID).Count(&n).Error
	return n, storage(err, "count likes")
}

func (r *LikeRepo) CountByProject(ctx context.Context, ids []uint) (map[uint]int64, error) {
	return countGrouped(r.db.WithContext(ctx).Model(&domain.Like{}), ids)
}

func (r *LikeRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Like{}).Count(&n).Error
	return n, storage(err, "count likes")
}

func countGrouped(q *gorm.DB, ids []uint) (map[uint]int64, error) {
	out := make(map[uint]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []struct {
		ProjectID uint
		N         int64
	}
	err := q.Select("project_id, count(*) as n").Where("project_id IN ?", ids).Group("project_id").Scan(&rows).Error
	if err != nil {
		return nil, storage(err, "count by project")
	}
	for _, r := range rows {
		out[r.ProjectID] = r.N
	}
	return out, nil
}

type AboutRepo struct{ db *gorm.DB }

func (r *AboutRepo) Get(ctx context.Context) (*domain.AboutMe, error) {
	var a domain.AboutMe
	if err := r.db.WithContext(ctx).Order("id asc").First(&a).Error; err != nil {
		return nil, notFound(err, "about me")
	}
	return &a, nil
}

// Save 新建时固定主键，并发的首次写入会落到同一行
func (r *AboutRepo) Save(ctx context.Context, a *domain.AboutMe) error {
	if a.ID == 0 {
		a.ID = domain.AboutID
	}
	return storage(r.db.WithContext(ctx).Save(a).Error, "save about me")
}
