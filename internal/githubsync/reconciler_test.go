package githubsync

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portfolio-digital/internal/core/lock"
	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/repo"
	"portfolio-digital/internal/repo/repotest"
)

type fakeAPI struct {
	mu       sync.Mutex
	repos    []Repo
	listErr  error
	langs    map[string][]string
	langErr  map[string]error
	creds    []Credential
	listHits int
}

func (f *fakeAPI) ListRepos(_ context.Context, _ string, cred Credential) ([]Repo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listHits++
	f.creds = append(f.creds, cred)
	return f.repos, f.listErr
}

func (f *fakeAPI) Languages(_ context.Context, _ string, name string, _ Credential) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.langErr[name]; err != nil {
		return nil, err
	}
	return f.langs[name], nil
}

func str(s string) *string { return &s }

func sampleAPI() *fakeAPI {
	return &fakeAPI{
		repos: []Repo{
			{Name: "folio", HTMLURL: "https://github.com/octo/folio", Description: str("My portfolio"), Homepage: str("https://folio.dev"), Stars: 3, Topics: []string{"portfolio"}},
			{Name: "scratch", HTMLURL: "https://github.com/octo/scratch", Stars: 0, Language: str("Python")},
			{Name: "forked", HTMLURL: "https://github.com/octo/forked", Fork: true, Stars: 10},
			{Name: "secret", HTMLURL: "https://github.com/octo/secret", Private: true},
		},
		langs: map[string][]string{"folio": {"Go", "TypeScript"}},
	}
}

func projectByURL(t *testing.T, s *repo.Store, u string) *domain.Project {
	t.Helper()
	m, err := s.Projects.ByGitHubURLs(context.Background(), []string{u})
	require.NoError(t, err)
	return m[u]
}

func TestReconciler_CreatesThenUpdatesIdempotently(t *testing.T) {
	s := repotest.Open(t)
	api := sampleAPI()
	rec := NewReconciler(s, api, "octo", zap.NewNop())
	ctx := context.Background()

	res, err := rec.Run(ctx, Credential{})
	require.NoError(t, err)
	assert.Equal(t, Result{Success: true, NewCount: 2, UpdatedCount: 0, Message: "Synced 2 new projects, updated 0 existing"}, res)

	folio := projectByURL(t, s, "https://github.com/octo/folio")
	require.NotNil(t, folio)
	assert.True(t, folio.IsPublished)
	assert.True(t, folio.IsFeatured, "stars >= 1")
	assert.Equal(t, "Go, TypeScript, portfolio", folio.Technologies)
	assert.Equal(t, "https://folio.dev", folio.DemoURL)
	assert.Equal(t, "This project was automatically imported from GitHub.\n\nRepository: https://github.com/octo/folio\n\nDescription: My portfolio", folio.Content)

	scratch := projectByURL(t, s, "https://github.com/octo/scratch")
	require.NotNil(t, scratch)
	assert.False(t, scratch.IsFeatured, "zero stars")
	assert.Equal(t, "Python", scratch.Technologies, "falls back to primary language")
	assert.Equal(t, "Repository: scratch", scratch.Description)

	assert.Nil(t, projectByURL(t, s, "https://github.com/octo/forked"))
	assert.Nil(t, projectByURL(t, s, "https://github.com/octo/secret"))

	res, err = rec.Run(ctx, Credential{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.NewCount)
	assert.Equal(t, 2, res.UpdatedCount)
	n, err := s.Projects.Count(ctx, false)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	again := projectByURL(t, s, "https://github.com/octo/folio")
	assert.Equal(t, folio.ID, again.ID)
	assert.Equal(t, folio.Technologies, again.Technologies)
	assert.Equal(t, folio.Description, again.Description)
}

func TestReconciler_UpdateKeepsAdminFields(t *testing.T) {
	s := repotest.Open(t)
	ctx := context.Background()
	existing := &domain.Project{Title: "old", Description: "old", GitHubURL: "https://github.com/octo/folio", IsPublished: false, IsFeatured: false, Content: "hand written"}
	require.NoError(t, s.Projects.Create(ctx, existing))

	long := strings.Repeat("d", 700)
	api := &fakeAPI{repos: []Repo{{Name: "folio", HTMLURL: "https://github.com/octo/folio", Description: &long, Stars: 9}}}
	res, err := NewReconciler(s, api, "octo", zap.NewNop()).Run(ctx, Credential{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.UpdatedCount)

	p, err := s.Projects.Get(ctx, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "folio", p.Title)
	assert.Len(t, p.Description, 500)
	assert.Equal(t, "hand written", p.Content)
	assert.False(t, p.IsPublished, "updates never touch publication flags")
	assert.Empty(t, p.Technologies)
}

func TestReconciler_FetchFailureIsNoop(t *testing.T) {
	s := repotest.Open(t)
	ctx := context.Background()
	for _, api := range []*fakeAPI{{listErr: domain.ErrExternal}, {repos: []Repo{}}} {
		res, err := NewReconciler(s, api, "octo", zap.NewNop()).Run(ctx, Credential{})
		require.NoError(t, err)
		assert.Equal(t, Result{Success: false, Message: "No repositories found or API error"}, res)
	}
	n, _ := s.Projects.Count(ctx, false)
	assert.Zero(t, n)
}

func TestReconciler_EnrichFailureDegrades(t *testing.T) {
	s := repotest.Open(t)
	api := sampleAPI()
	api.langErr = map[string]error{"folio": errors.New("timeout")}
	res, err := NewReconciler(s, api, "octo", zap.NewNop()).Run(context.Background(), Credential{})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "portfolio", projectByURL(t, s, "https://github.com/octo/folio").Technologies)
}

func TestReconciler_StorageFailureRollsBack(t *testing.T) {
	s := repotest.Open(t)
	ctx := context.Background()
	require.NoError(t, s.Projects.Create(ctx, &domain.Project{Title: "old", Description: "old", GitHubURL: "https://github.com/octo/folio"}))
	require.NoError(t, s.DB().Exec(`CREATE TRIGGER fail_insert BEFORE INSERT ON projects BEGIN SELECT RAISE(ABORT, 'disk full'); END;`).Error)

	res, err := NewReconciler(s, sampleAPI(), "octo", zap.NewNop()).Run(ctx, Credential{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrStorage)
	assert.False(t, res.Success)
	assert.Zero(t, res.NewCount)
	assert.Zero(t, res.UpdatedCount)
	assert.Contains(t, res.Message, "disk full")

	p := projectByURL(t, s, "https://github.com/octo/folio")
	assert.Equal(t, "old", p.Title, "update in the same run rolled back")
}

func TestSyncer_LockConflictAndCredentials(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	locker := &lock.Locker{RDB: redis.NewClient(&redis.Options{Addr: mr.Addr()}), Prefix: "t:"}
	defer locker.Close()

	s := repotest.Open(t)
	api := sampleAPI()
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expired := StaticToken{Token: "old", TTL: time.Minute, Now: func() time.Time { return now.Add(-time.Hour) }}
	syncer := NewSyncer(NewReconciler(s, api, "octo", zap.NewNop()), expired, locker, time.Minute, zap.NewNop())
	syncer.now = func() time.Time { return now }

	ctx := context.Background()
	unlock, err := locker.Acquire(ctx, "github-sync:octo", time.Minute)
	require.NoError(t, err)

	_, err = syncer.Sync(ctx)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Zero(t, api.listHits, "no fetch while another run holds the lock")

	require.NoError(t, unlock(ctx))
	res, err := syncer.Sync(ctx)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, api.creds, 1)
	assert.Empty(t, api.creds[0].Token, "expired credential degrades to anonymous")
	assert.False(t, mr.Exists("t:github-sync:octo"), "lock released after run")
}

func TestSyncer_WithoutLocker(t *testing.T) {
	s := repotest.Open(t)
	api := sampleAPI()
	syncer := NewSyncer(NewReconciler(s, api, "octo", zap.NewNop()), StaticToken{Token: "fresh", TTL: time.Hour}, nil, 0, zap.NewNop())
	res, err := syncer.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.NewCount)
	assert.Equal(t, "fresh", api.creds[0].Token)
}
