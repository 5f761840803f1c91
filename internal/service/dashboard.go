package service

import (
	"context"

	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/repo"
)

const recentComments = 5

type Dashboard struct{ store *repo.Store }

func NewDashboard(store *repo.Store) *Dashboard { return &Dashboard{store: store} }

func (d *Dashboard) Stats(ctx context.Context) (*domain.Stats, error) {
	var (
		st  domain.Stats
		err error
	)
	counts := []struct {
		dst *int64
		fn  func(context.Context) (int64, error)
	}{
		{&st.Projects, func(ctx context.Context) (int64, error) { return d.store.Projects.Count(ctx, false) }},
		{&st.PublishedProjects, func(ctx context.Context) (int64, error) { return d.store.Projects.Count(ctx, true) }},
		{&st.Achievements, d.store.Achievements.Count},
		{&st.Categories, d.store.Categories.Count},
		{&st.Comments, d.store.Comments.Count},
		{&st.Likes, d.store.Likes.Count},
		{&st.Education, d.store.Education.Count},
	}
	for _, c := range counts {
		if *c.dst, err = c.fn(ctx); err != nil {
			return nil, err
		}
	}
	recent, err := d.store.Comments.Recent(ctx, recentComments)
	if err != nil {
		return nil, err
	}
	st.RecentComments = make([]domain.CommentView, 0, len(recent))
	for i := range recent {
		st.RecentComments = append(st.RecentComments, commentView(&recent[i]))
	}
	return &st, nil
}
