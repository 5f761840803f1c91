package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/repo"
)

const (
	homeProjects     = 6
	homeAchievements = 4
)

// Catalog 公开读取面；所有列表只返回已发布内容
type Catalog struct {
	store *repo.Store
	log   *zap.Logger
}

func NewCatalog(store *repo.Store, log *zap.Logger) *Catalog {
	return &Catalog{store: store, log: log}
}

type ProjectQuery struct {
	Search     string
	CategoryID *uint
}

// visibleProject 非管理员访问未发布项目一律按不存在处理
func visibleProject(ctx context.Context, store *repo.Store, viewer domain.Viewer, id uint) (*domain.Project, error) {
	p, err := store.Projects.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSee(p.IsPublished) {
		return nil, fmt.Errorf("project %d: %w", id, domain.ErrNotFound)
	}
	return p, nil
}

func projectViews(ctx context.Context, store *repo.Store, ps []domain.Project) ([]domain.ProjectView, error) {
	ids := make([]uint, len(ps))
	for i := range ps {
		ids[i] = ps[i].ID
	}
	likes, err := store.Likes.CountByProject(ctx, ids)
	if err != nil {
		return nil, err
	}
	comments, err := store.Comments.CountByProject(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ProjectView, len(ps))
	for i := range ps {
		out[i] = domain.ProjectView{
			Project:      &ps[i],
			TechList:     domain.ParseTechnologies(ps[i].Technologies),
			LikeCount:    likes[ps[i].ID],
			CommentCount: comments[ps[i].ID],
		}
	}
	return out, nil
}

func commentView(c *domain.Comment) domain.CommentView {
	name := "Anonymous User"
	if c.Author != nil {
		name = c.Author.DisplayName()
	}
	return domain.CommentView{ID: c.ID, Content: c.Content, AuthorID: c.UserID, AuthorName: name, CreatedAt: c.CreatedAt}
}

func (c *Catalog) Home(ctx context.Context) (*domain.Home, error) {
	ps, err := c.store.Projects.List(ctx, repo.ProjectFilter{PublishedOnly: true, FeaturedOnly: true, Limit: homeProjects})
	if err != nil {
		return nil, err
	}
	views, err := projectViews(ctx, c.store, ps)
	if err != nil {
		return nil, err
	}
	as, err := c.store.Achievements.List(ctx, repo.AchievementFilter{PublishedOnly: true, FeaturedOnly: true, Limit: homeAchievements})
	if err != nil {
		return nil, err
	}
	about, err := c.About(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.Home{FeaturedProjects: views, FeaturedAchievements: as, About: about}, nil
}

func (c *Catalog) Projects(ctx context.Context, q ProjectQuery) ([]domain.ProjectView, error) {
	ps, err := c.store.Projects.List(ctx, repo.ProjectFilter{
		PublishedOnly: true,
		Search:        q.Search,
		CategoryID:    q.CategoryID,
	})
	if err != nil {
		return nil, err
	}
	return projectViews(ctx, c.store, ps)
}

func (c *Catalog) Project(ctx context.Context, viewer domain.Viewer, id uint) (*domain.ProjectDetail, error) {
	p, err := visibleProject(ctx, c.store, viewer, id)
	if err != nil {
		return nil, err
	}
	comments, err := c.store.Comments.ForProject(ctx, id, true)
	if err != nil {
		return nil, err
	}
	likes, err := c.store.Likes.CountForProject(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &domain.ProjectDetail{
		ProjectView: domain.ProjectView{
			Project:      p,
			TechList:     domain.ParseTechnologies(p.Technologies),
			LikeCount:    likes,
			CommentCount: int64(len(comments)),
		},
		Comments: make([]domain.CommentView, 0, len(comments)),
	}
	for i := range comments {
		d.Comments = append(d.Comments, commentView(&comments[i]))
	}
	if viewer.Authenticated() {
		if d.Liked, err = c.store.Likes.Exists(ctx, viewer.UserID, id); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (c *Catalog) Achievements(ctx context.Context, categoryID *uint) ([]domain.Achievement, error) {
	return c.store.Achievements.List(ctx, repo.AchievementFilter{PublishedOnly: true, CategoryID: categoryID})
}

func (c *Catalog) Achievement(ctx context.Context, viewer domain.Viewer, id uint) (*domain.Achievement, error) {
	a, err := c.store.Achievements.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSee(a.IsPublished) {
		return nil, fmt.Errorf("achievement %d: %w", id, domain.ErrNotFound)
	}
	return a, nil
}

func (c *Catalog) Education(ctx context.Context) ([]domain.Education, error) {
	return c.store.Education.List(ctx, true)
}

// About 尚未配置时返回占位内容，不落库
func (c *Catalog) About(ctx context.Context) (*domain.AboutMe, error) {
	a, err := c.store.About.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.AboutMe{Content: domain.DefaultAboutContent}, nil
	}
	return a, err
}

func (c *Catalog) Categories(ctx context.Context) ([]domain.Category, error) {
	return c.store.Categories.List(ctx)
}
