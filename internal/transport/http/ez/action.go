package ez

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-digital/internal/domain"
	resp "portfolio-digital/internal/transport/http/response"
)

// 上下文键，由鉴权中间件写入
const (
	KeyUserID = "userId"
	KeyRole   = "role"
)

/* ================== 轻封装 ================== */

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

func (e EZ) Group() *gin.RouterGroup { return e.g }

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.PostForm 取
)

// 统一错误对象（配合 resp.Error(int, msg)）
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: resp.CodeBadRequest, Msg: msg} }
func Forbidden(msg string) error  { return &AErr{Code: resp.CodeForbidden, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: resp.CodeServerError, Msg: msg, Err: err}
}

// Code 把领域错误映射成业务码；未知错误一律 500
func Code(err error) int {
	var ae *AErr
	switch {
	case errors.As(err, &ae):
		return ae.Code
	case errors.Is(err, domain.ErrNotFound):
		return resp.CodeNotFound
	case errors.Is(err, domain.ErrValidation):
		return resp.CodeBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return resp.CodeUnauthorized
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrInUse):
		return resp.CodeConflict
	case errors.Is(err, domain.ErrExternal):
		return resp.CodeBadGateway
	default:
		return resp.CodeServerError
	}
}

// Message 5xx 不向客户端暴露内部细节
func Message(err error) string {
	code := Code(err)
	var ae *AErr
	if errors.As(err, &ae) && ae.Msg != "" {
		return ae.Msg
	}
	if code == resp.CodeServerError {
		return resp.CodeMsgMap[code]
	}
	return err.Error()
}

func Fail(c *gin.Context, err error) {
	code := Code(err)
	if code >= 500 {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, resp.Error(code, Message(err)))
}

// Viewer 从鉴权中间件写入的上下文还原访问者
func Viewer(c *gin.Context) domain.Viewer {
	return domain.Viewer{UserID: c.GetString(KeyUserID), IsAdmin: c.GetString(KeyRole) == domain.RoleAdmin}
}

// ParamID 路径参数转正整数 id
func ParamID(c *gin.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, BadRequest("invalid " + name)
	}
	return uint(n), nil
}

/* ================== Action（一行注册） ================== */

// 动作定义：I 入参，O 出参
type Action[I any, O any] struct {
	Method  string   // "GET" | "POST" | "PUT" | "DELETE"
	Path    string   // 例："/auth/login"、"/projects/:id/like"
	Binder  Binder   // 绑定方式
	Auth    bool     // 是否要求登录（检查 userId）
	Roles   []string // 限定角色（可选）
	Handler func(c *gin.Context, in *I) (O, error)
}

func allowed(c *gin.Context, auth bool, roles []string) bool {
	if !auth {
		return true
	}
	if c.GetString(KeyUserID) == "" {
		c.JSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "login required"))
		return false
	}
	if len(roles) > 0 {
		role := c.GetString(KeyRole)
		for _, r := range roles {
			if role == r {
				return true
			}
		}
		Fail(c, Forbidden("forbidden"))
		return false
	}
	return true
}

func handle(e EZ, method, path string, h gin.HandlerFunc) {
	switch strings.ToUpper(method) {
	case http.MethodGet:
		e.g.GET(path, h)
	case http.MethodPut:
		e.g.PUT(path, h)
	case http.MethodDelete:
		e.g.DELETE(path, h)
	default: // 默认 POST
		e.g.POST(path, h)
	}
}

// RegisterAction 鉴权 → 绑定 → 执行 → 统一错误映射。事务由 service 层自己管理。
func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	handle(e, a.Method, a.Path, func(c *gin.Context) {
		if !allowed(c, a.Auth, a.Roles) {
			return
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(bindErr, &tooLarge) {
				c.JSON(http.StatusOK, resp.Error(resp.CodeTooLarge, "request body too large"))
				return
			}
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	})
}

// File 单文件上传
type File struct {
	Name   string
	Size   int64
	Reader io.Reader
}

// POSTFILE 处理 multipart/form-data 单文件上传（字段名 fieldName）
func POSTFILE[O any](e EZ, path, fieldName string, auth bool, roles []string, h func(c *gin.Context, f File) (O, error)) {
	e.g.POST(path, func(c *gin.Context) {
		if !allowed(c, auth, roles) {
			return
		}
		fh, err := c.FormFile(fieldName)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusOK, resp.Error(resp.CodeTooLarge, "file too large"))
				return
			}
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "no file uploaded in field "+fieldName))
			return
		}
		out, err := withFile(c, fh, h)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	})
}

func withFile[O any](c *gin.Context, fh *multipart.FileHeader, h func(c *gin.Context, f File) (O, error)) (O, error) {
	var zero O
	f, err := fh.Open()
	if err != nil {
		return zero, BadRequest("cannot read uploaded file")
	}
	defer f.Close()
	return h(c, File{Name: fh.Filename, Size: fh.Size, Reader: f})
}
