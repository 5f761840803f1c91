package service

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"portfolio-digital/internal/domain"
)

const dateLayout = "2006-01-02"

// validate 后台输入的字段规则；字段名取 json 标签，便于直接回给前端
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// check 校验结构体，首个失败字段转为 ErrValidation
func check(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return err
	}
	return fieldError(ve[0])
}

func fieldError(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return domain.Invalid("%s is required", field)
	case "max":
		return domain.Invalid("%s must be at most %s characters", field, fe.Param())
	case "http_url":
		return domain.Invalid("%s must be a valid URL", field)
	case "datetime":
		return domain.Invalid("%s must be a date (YYYY-MM-DD)", field)
	case "hexcolor", "len":
		return domain.Invalid("%s must look like #rrggbb", field)
	default:
		return domain.Invalid("%s is invalid", field)
	}
}

// trim 原地去掉首尾空白
func trim(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}

// parseDate 只在 check 通过后调用，格式已经校验过
func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, domain.Invalid("%q is not a date (YYYY-MM-DD)", s)
	}
	return &t, nil
}

// categoryRef 0 与 nil 都表示未分类
func categoryRef(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	v := *id
	return &v
}
