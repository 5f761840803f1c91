package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-digital/internal/core/auth"
	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/service"
	"portfolio-digital/internal/transport/http/ez"
)

type AuthHandler struct {
	accounts *service.Accounts
	jwt      *auth.JWTer
}

func NewAuthHandler(accounts *service.Accounts, jwt *auth.JWTer) *AuthHandler {
	return &AuthHandler{accounts: accounts, jwt: jwt}
}

func (h *AuthHandler) Priority() int { return 10 }

type UserOut struct {
	ID          string  `json:"id"`
	Email       *string `json:"email,omitempty"`
	DisplayName string  `json:"displayName"`
	FirstName   string  `json:"firstName,omitempty"`
	LastName    string  `json:"lastName,omitempty"`
	Role        string  `json:"role"`
	IsAdmin     bool    `json:"isAdmin"`
}

func userOut(u *domain.User) UserOut {
	return UserOut{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName(),
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role(),
		IsAdmin:     u.IsAdmin,
	}
}

type registerIn struct {
	Email     string `json:"email"     binding:"required,email,max=191"`
	Password  string `json:"password"  binding:"required"`
	FirstName string `json:"firstName" binding:"omitempty,max=100"`
	LastName  string `json:"lastName"  binding:"omitempty,max=100"`
}

type loginIn struct {
	Email    string `json:"email"    binding:"required"`
	Password string `json:"password" binding:"required"`
}

type tokenOut struct {
	Token string  `json:"token"`
	User  UserOut `json:"user"`
}

func (h *AuthHandler) issue(u *domain.User) (tokenOut, error) {
	tok, err := h.jwt.Issue(u.ID, u.Role())
	if err != nil {
		return tokenOut{}, ez.Internal("issue token failed", err)
	}
	return tokenOut{Token: tok, User: userOut(u)}, nil
}

func (h *AuthHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[registerIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (tokenOut, error) {
			u, err := h.accounts.Register(c.Request.Context(), service.NewAccount{
				Email:     in.Email,
				Password:  in.Password,
				FirstName: in.FirstName,
				LastName:  in.LastName,
			})
			if err != nil {
				return tokenOut{}, err
			}
			return h.issue(u)
		},
	})

	ez.RegisterAction(e, ez.Action[loginIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (tokenOut, error) {
			u, err := h.accounts.Authenticate(c.Request.Context(), in.Email, in.Password)
			if err != nil {
				return tokenOut{}, err
			}
			return h.issue(u)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, UserOut]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (UserOut, error) {
			u, err := h.accounts.Get(c.Request.Context(), c.GetString(ez.KeyUserID))
			if err != nil {
				return UserOut{}, err
			}
			return userOut(u), nil
		},
	})
}
