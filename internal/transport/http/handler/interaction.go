package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/service"
	"portfolio-digital/internal/transport/http/ez"
)

// InteractionHandler 评论 / 点赞 / 分享，全部要求登录
type InteractionHandler struct {
	svc *service.Interactions
}

func NewInteractionHandler(svc *service.Interactions) *InteractionHandler {
	return &InteractionHandler{svc: svc}
}

type commentIn struct {
	Content string `json:"content"`
}

type shareIn struct {
	Note string `json:"note"`
}

func (h *InteractionHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[commentIn, *domain.CommentView]{
		Method: http.MethodPost, Path: "/projects/:id/comments", Binder: ez.BindJSON, Auth: true,
		Handler: func(c *gin.Context, in *commentIn) (*domain.CommentView, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.AddComment(c.Request.Context(), ez.Viewer(c), id, in.Content)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, domain.LikeState]{
		Method: http.MethodPost, Path: "/projects/:id/like", Binder: ez.BindNone, Auth: true,
		Handler: func(c *gin.Context, _ *struct{}) (domain.LikeState, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return domain.LikeState{}, err
			}
			return h.svc.ToggleLike(c.Request.Context(), ez.Viewer(c), id)
		},
	})

	// note 可选，空 body 也接受
	ez.RegisterAction(e, ez.Action[shareIn, *service.ShareLink]{
		Method: http.MethodPost, Path: "/projects/:id/share", Binder: ez.BindNone, Auth: true,
		Handler: func(c *gin.Context, in *shareIn) (*service.ShareLink, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			// 分块传输时 ContentLength 为 -1，只能读到 EOF 才知道是否为空
			if c.Request.Body != nil && c.Request.Body != http.NoBody {
				if err := c.ShouldBindJSON(in); err != nil && !errors.Is(err, io.EOF) {
					return nil, ez.BadRequest(err.Error())
				}
			}
			return h.svc.ShareMessage(c.Request.Context(), ez.Viewer(c), id, in.Note)
		},
	})
}
