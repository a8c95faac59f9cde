package api

import (
	"reflect"
	"strings"
	"sync"
	"time"

	"househelper/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators 向 gin 的校验器注册自定义规则，字段名使用 json 标签
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				name = strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = v.RegisterValidation("notfuture", notFuture)
	})
}

// notFuture 日期不能晚于服务器当天
func notFuture(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case models.Date:
		return !v.After(models.Today())
	case time.Time:
		return !models.Date(v).After(models.Today())
	default:
		return false
	}
}
