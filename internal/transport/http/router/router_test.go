package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"portfolio-digital/internal/core/auth"
	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/githubsync"
	"portfolio-digital/internal/repo"
	"portfolio-digital/internal/repo/repotest"
	"portfolio-digital/internal/service"
	"portfolio-digital/internal/storage"
	"portfolio-digital/internal/transport/http/handler"
	"portfolio-digital/internal/transport/http/router"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type stubSyncer struct {
	res githubsync.Result
	err error
}

func (s stubSyncer) Sync(context.Context) (githubsync.Result, error) { return s.res, s.err }

type env struct {
	t     *testing.T
	store *repo.Store
	blobs afero.Fs
	api   *gin.Engine
	admin *gin.Engine
	jwt   *auth.JWTer
	accts *service.Accounts
}

func newEnv(t *testing.T, syncer handler.Syncer) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()
	store := repotest.Open(t)
	jwter, err := auth.NewJWTer("test-secret", "portfolio", time.Hour)
	require.NoError(t, err)

	blobs := afero.NewMemMapFs()
	images := &storage.Images{Blobs: storage.NewLocalFs(blobs), MaxBytes: 1 << 20, MaxSide: 64, Quality: 80}
	accounts := service.NewAccounts(store, log)
	catalog := service.NewCatalog(store, log)

	apiMods := (&router.Registry{}).Register(
		handler.NewAuthHandler(accounts, jwter),
		handler.NewPublicHandler(catalog),
		handler.NewInteractionHandler(service.NewInteractions(store, log, "https://folio.dev")),
		handler.NewLocaleHandler(false),
		handler.NewSiteHandler("https://folio.dev/", "/static/uploads"),
	)
	adminMods := (&router.Registry{}).Register(
		handler.NewContentAdmin(service.NewEditor(store, images, log), catalog),
		handler.NewCategoryAdmin(service.NewCategories(store, log)),
		handler.NewDashboardAdmin(service.NewDashboard(store)),
		handler.NewSyncAdmin(syncer),
	)
	return &env{
		t:     t,
		store: store,
		blobs: blobs,
		api:   router.NewAPIEngine(router.Options{Log: log, JWT: jwter, Modules: apiMods}),
		admin: router.NewAdminEngine(router.Options{Log: log, JWT: jwter, Modules: adminMods}),
		jwt:   jwter,
		accts: accounts,
	}
}

func (e *env) do(h http.Handler, method, path string, body any, token string) envelope {
	e.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(e.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.serve(h, req, token)
}

func (e *env) serve(h http.Handler, req *http.Request, token string) envelope {
	e.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(e.t, http.StatusOK, w.Code)
	var out envelope
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func (e *env) register(email string) string {
	e.t.Helper()
	out := e.do(e.api, http.MethodPost, "/api/v1/auth/register", gin.H{"email": email, "password": "secret1", "firstName": "Ann"}, "")
	require.Equal(e.t, 0, out.Code, out.Msg)
	var tok struct{ Token string }
	require.NoError(e.t, json.Unmarshal(out.Data, &tok))
	return tok.Token
}

func (e *env) adminToken() string {
	e.t.Helper()
	u, err := e.accts.CreateLocalAccount(context.Background(), service.NewAccount{Email: "root@folio.dev", Password: "secret1", IsAdmin: true})
	require.NoError(e.t, err)
	tok, err := e.jwt.Issue(u.ID, domain.RoleAdmin)
	require.NoError(e.t, err)
	return tok
}

func (e *env) createProject(token string, body gin.H) uint {
	e.t.Helper()
	out := e.do(e.admin, http.MethodPost, "/admin/v1/projects", body, token)
	require.Equal(e.t, 0, out.Code, out.Msg)
	var p struct{ ID uint }
	require.NoError(e.t, json.Unmarshal(out.Data, &p))
	return p.ID
}

func TestHealthAndMetrics(t *testing.T) {
	e := newEnv(t, nil)
	for _, h := range []http.Handler{e.api, e.admin} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
	w := httptest.NewRecorder()
	e.api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_http_requests_total")
}

func TestAuthFlow(t *testing.T) {
	e := newEnv(t, nil)
	tok := e.register("ann@folio.dev")

	me := e.do(e.api, http.MethodGet, "/api/v1/me", nil, tok)
	require.Equal(t, 0, me.Code)
	var u handler.UserOut
	require.NoError(t, json.Unmarshal(me.Data, &u))
	assert.Equal(t, "Ann", u.DisplayName)
	assert.Equal(t, domain.RoleUser, u.Role)

	dup := e.do(e.api, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "ann@folio.dev", "password": "secret1"}, "")
	assert.Equal(t, 400, dup.Code)

	short := e.do(e.api, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "bo@folio.dev", "password": "123"}, "")
	assert.Equal(t, 400, short.Code)

	bad := e.do(e.api, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "ann@folio.dev", "password": "wrong"}, "")
	assert.Equal(t, 401, bad.Code)

	ok := e.do(e.api, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "ann@folio.dev", "password": "secret1"}, "")
	assert.Equal(t, 0, ok.Code)

	assert.Equal(t, 401, e.do(e.api, http.MethodGet, "/api/v1/me", nil, "").Code)
	assert.Equal(t, 401, e.do(e.api, http.MethodGet, "/api/v1/me", nil, "garbage").Code)
}

func TestPublicVisibility(t *testing.T) {
	e := newEnv(t, nil)
	admin := e.adminToken()
	pub := e.createProject(admin, gin.H{"title": "Folio", "description": "site", "isPublished": true, "technologies": "Go, SQL"})
	draft := e.createProject(admin, gin.H{"title": "Draft", "description": "wip"})

	list := e.do(e.api, http.MethodGet, "/api/v1/projects", nil, "")
	require.Equal(t, 0, list.Code)
	var ps []struct {
		ID       uint
		TechList []string `json:"techList"`
	}
	require.NoError(t, json.Unmarshal(list.Data, &ps))
	require.Len(t, ps, 1)
	assert.Equal(t, pub, ps[0].ID)
	assert.Equal(t, []string{"Go", "SQL"}, ps[0].TechList)

	path := fmt.Sprintf("/api/v1/projects/%d", draft)
	assert.Equal(t, 404, e.do(e.api, http.MethodGet, path, nil, "").Code)
	assert.Equal(t, 404, e.do(e.api, http.MethodGet, path, nil, e.register("v@folio.dev")).Code)
	assert.Equal(t, 0, e.do(e.api, http.MethodGet, path, nil, admin).Code, "admin sees drafts")

	assert.Equal(t, 400, e.do(e.api, http.MethodGet, "/api/v1/projects/abc", nil, "").Code)

	search := e.do(e.api, http.MethodGet, "/api/v1/projects?q=FOL", nil, "")
	require.NoError(t, json.Unmarshal(search.Data, &ps))
	assert.Len(t, ps, 1)

	all := e.do(e.admin, http.MethodGet, "/admin/v1/projects", nil, admin)
	require.NoError(t, json.Unmarshal(all.Data, &ps))
	assert.Len(t, ps, 2)
}

func TestInteractions(t *testing.T) {
	e := newEnv(t, nil)
	admin := e.adminToken()
	pid := e.createProject(admin, gin.H{"title": "Folio", "description": "site", "isPublished": true, "technologies": "Go"})
	draft := e.createProject(admin, gin.H{"title": "Draft", "description": "wip"})
	user := e.register("ann@folio.dev")
	like := fmt.Sprintf("/api/v1/projects/%d/like", pid)

	assert.Equal(t, 401, e.do(e.api, http.MethodPost, like, nil, "").Code)

	var st domain.LikeState
	out := e.do(e.api, http.MethodPost, like, nil, user)
	require.Equal(t, 0, out.Code, out.Msg)
	require.NoError(t, json.Unmarshal(out.Data, &st))
	assert.Equal(t, domain.LikeState{Liked: true, LikeCount: 1}, st)

	out = e.do(e.api, http.MethodPost, like, nil, user)
	require.NoError(t, json.Unmarshal(out.Data, &st))
	assert.Equal(t, domain.LikeState{Liked: false, LikeCount: 0}, st)

	comments := fmt.Sprintf("/api/v1/projects/%d/comments", pid)
	assert.Equal(t, 400, e.do(e.api, http.MethodPost, comments, gin.H{"content": "   "}, user).Code)
	assert.Equal(t, 400, e.do(e.api, http.MethodPost, comments, gin.H{"content": strings.Repeat("x", 1001)}, user).Code)
	assert.Equal(t, 0, e.do(e.api, http.MethodPost, comments, gin.H{"content": "nice"}, user).Code)
	assert.Equal(t, 404, e.do(e.api, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/comments", draft), gin.H{"content": "hi"}, user).Code)

	var detail domain.ProjectDetail
	out = e.do(e.api, http.MethodGet, fmt.Sprintf("/api/v1/projects/%d", pid), nil, user)
	require.NoError(t, json.Unmarshal(out.Data, &detail))
	require.Len(t, detail.Comments, 1)
	assert.Equal(t, "Ann", detail.Comments[0].AuthorName)
	assert.EqualValues(t, 1, detail.CommentCount)

	share := e.do(e.api, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/share", pid), gin.H{"note": "proud"}, user)
	require.Equal(t, 0, share.Code, share.Msg)
	var link service.ShareLink
	require.NoError(t, json.Unmarshal(share.Data, &link))
	assert.Equal(t, fmt.Sprintf("https://folio.dev/projects/%d", pid), link.ProjectURL)
	assert.Contains(t, link.Text, "proud")
	assert.Contains(t, link.Text, "#go")

	// 分块上传的 body 没有 ContentLength
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/share", pid), io.MultiReader(strings.NewReader(`{"note":"chunked hello"}`)))
	req.Header.Set("Content-Type", "application/json")
	require.EqualValues(t, -1, req.ContentLength)
	chunked := e.serve(e.api, req, user)
	require.Equal(t, 0, chunked.Code, chunked.Msg)
	require.NoError(t, json.Unmarshal(chunked.Data, &link))
	assert.Contains(t, link.Text, "chunked hello")

	// 无 body 也可分享
	assert.Equal(t, 0, e.do(e.api, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/share", pid), nil, user).Code)
	assert.Equal(t, 404, e.do(e.api, http.MethodPost, fmt.Sprintf("/api/v1/projects/%d/share", draft), nil, admin).Code)
}

func TestAdminRequiresAdminRole(t *testing.T) {
	e := newEnv(t, nil)
	user := e.register("ann@folio.dev")
	assert.Equal(t, 401, e.do(e.admin, http.MethodGet, "/admin/v1/dashboard", nil, "").Code)
	assert.Equal(t, 403, e.do(e.admin, http.MethodGet, "/admin/v1/dashboard", nil, user).Code)

	out := e.do(e.admin, http.MethodGet, "/admin/v1/dashboard", nil, e.adminToken())
	require.Equal(t, 0, out.Code)
	var st domain.Stats
	require.NoError(t, json.Unmarshal(out.Data, &st))
	assert.Zero(t, st.Projects)
}

func TestCategoryDeleteGuard(t *testing.T) {
	e := newEnv(t, nil)
	admin := e.adminToken()

	out := e.do(e.admin, http.MethodPost, "/admin/v1/categories", gin.H{"name": "Web"}, admin)
	require.Equal(t, 0, out.Code, out.Msg)
	var cat domain.Category
	require.NoError(t, json.Unmarshal(out.Data, &cat))
	assert.Equal(t, domain.DefaultCategoryColor, cat.Color)

	assert.Equal(t, 409, e.do(e.admin, http.MethodPost, "/admin/v1/categories", gin.H{"name": "Web"}, admin).Code)
	assert.Equal(t, 400, e.do(e.admin, http.MethodPost, "/admin/v1/categories", gin.H{"name": "Bad", "color": "red"}, admin).Code)

	pid := e.createProject(admin, gin.H{"title": "Folio", "description": "site", "categoryId": cat.ID})
	catPath := fmt.Sprintf("/admin/v1/categories/%d", cat.ID)
	assert.Equal(t, 409, e.do(e.admin, http.MethodDelete, catPath, nil, admin).Code)

	require.Equal(t, 0, e.do(e.admin, http.MethodDelete, fmt.Sprintf("/admin/v1/projects/%d", pid), nil, admin).Code)
	assert.Equal(t, 0, e.do(e.admin, http.MethodDelete, catPath, nil, admin).Code)
	assert.Equal(t, 404, e.do(e.admin, http.MethodDelete, catPath, nil, admin).Code)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 200, 100))
	for x := 0; x < 200; x++ {
		img.Set(x, 10, color.NRGBA{R: 255, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(t *testing.T, path, name string, data []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("image", name)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestProjectImageUpload(t *testing.T) {
	e := newEnv(t, nil)
	admin := e.adminToken()
	pid := e.createProject(admin, gin.H{"title": "Folio", "description": "site"})
	path := fmt.Sprintf("/admin/v1/projects/%d/image", pid)

	out := e.serve(e.admin, upload(t, path, "My Shot.png", pngBytes(t)), admin)
	require.Equal(t, 0, out.Code, out.Msg)
	var p domain.Project
	require.NoError(t, json.Unmarshal(out.Data, &p))
	assert.True(t, strings.HasPrefix(p.ImageURL, "projects/"), p.ImageURL)
	assert.True(t, strings.HasSuffix(p.ImageURL, ".jpg"))
	ok, _ := afero.Exists(e.blobs, p.ImageURL)
	assert.True(t, ok)

	first := p.ImageURL
	out = e.serve(e.admin, upload(t, path, "again.png", pngBytes(t)), admin)
	require.NoError(t, json.Unmarshal(out.Data, &p))
	assert.NotEqual(t, first, p.ImageURL)
	ok, _ = afero.Exists(e.blobs, first)
	assert.False(t, ok, "old blob removed")

	bad := e.serve(e.admin, upload(t, path, "notes.txt", []byte("plain text")), admin)
	assert.Equal(t, 400, bad.Code)

	missing := httptest.NewRequest(http.MethodPost, path, nil)
	assert.Equal(t, 400, e.serve(e.admin, missing, admin).Code)
}

func TestAboutUpsert(t *testing.T) {
	e := newEnv(t, nil)
	admin := e.adminToken()

	var about domain.AboutMe
	out := e.do(e.api, http.MethodGet, "/api/v1/about", nil, "")
	require.NoError(t, json.Unmarshal(out.Data, &about))
	assert.Equal(t, domain.DefaultAboutContent, about.Content)

	out = e.do(e.admin, http.MethodPut, "/admin/v1/about", gin.H{"content": "Hi, I build things.", "githubUrl": "https://github.com/ann"}, admin)
	require.Equal(t, 0, out.Code, out.Msg)

	out = e.do(e.api, http.MethodGet, "/api/v1/about", nil, "")
	require.NoError(t, json.Unmarshal(out.Data, &about))
	assert.Equal(t, "Hi, I build things.", about.Content)

	bad := e.do(e.admin, http.MethodPut, "/admin/v1/about", gin.H{"content": "x", "githubUrl": "ftp://nope"}, admin)
	assert.Equal(t, 400, bad.Code)
}

func TestGitHubSyncEndpoint(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		e := newEnv(t, nil)
		assert.Equal(t, 400, e.do(e.admin, http.MethodPost, "/admin/v1/sync/github", nil, e.adminToken()).Code)
	})

	t.Run("success", func(t *testing.T) {
		e := newEnv(t, stubSyncer{res: githubsync.Result{Success: true, NewCount: 2, Message: "Synced 2 new projects, updated 0 existing"}})
		out := e.do(e.admin, http.MethodPost, "/admin/v1/sync/github", nil, e.adminToken())
		require.Equal(t, 0, out.Code)
		var res githubsync.Result
		require.NoError(t, json.Unmarshal(out.Data, &res))
		assert.Equal(t, 2, res.NewCount)
	})

	t.Run("already running", func(t *testing.T) {
		e := newEnv(t, stubSyncer{res: githubsync.Result{Message: "A sync is already running"}, err: fmt.Errorf("busy: %w", domain.ErrConflict)})
		out := e.do(e.admin, http.MethodPost, "/admin/v1/sync/github", nil, e.adminToken())
		assert.Equal(t, 409, out.Code)
		assert.Equal(t, "A sync is already running", out.Msg)
	})
}

func TestLocale(t *testing.T) {
	e := newEnv(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locale", nil)
	req.Header.Set("Accept-Language", "fr-FR,pt-BR;q=0.8")
	out := e.serve(e.api, req, "")
	assert.Contains(t, string(out.Data), `"locale":"pt"`)

	assert.Contains(t, string(e.do(e.api, http.MethodGet, "/api/v1/locale?lang=xx", nil, "").Data), `"locale":"en"`)

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"lang":"pt"}`)
	post := httptest.NewRequest(http.MethodPost, "/api/v1/locale", body)
	post.Header.Set("Content-Type", "application/json")
	e.api.ServeHTTP(w, post)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "language=pt")

	assert.Equal(t, 400, e.do(e.api, http.MethodPost, "/api/v1/locale", gin.H{"lang": "de"}, "").Code)

	withCookie := httptest.NewRequest(http.MethodGet, "/api/v1/site", nil)
	withCookie.AddCookie(&http.Cookie{Name: "language", Value: "pt"})
	site := e.serve(e.api, withCookie, "")
	assert.Contains(t, string(site.Data), `"locale":"pt"`)
	assert.Contains(t, string(site.Data), `"siteUrl":"https://folio.dev"`)
}
