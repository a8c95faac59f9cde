package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("参数错误"), 422},
		{"unauthorized", Unauthorized("无效的身份验证凭据"), 401},
		{"forbidden", Forbidden("用户已被禁用"), 403},
		{"not found", NotFound("角色不存在"), 404},
		{"conflict", Conflict("角色名已存在"), 400},
		{"external", External("微信登录失败", errors.New("invalid code")), 400},
		{"internal", Internal("查询失败", errors.New("boom")), 500},
		{"plain error", errors.New("boom"), 500},
		{"wrapped", fmt.Errorf("删除角色: %w", Conflict("无法删除：该角色下有关联用户")), 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "角色不存在", Message(NotFound("角色不存在")))
	assert.Equal(t, "查询失败", Message(Internal("查询失败", errors.New("dial tcp: refused"))))
	assert.Equal(t, "raw", Message(errors.New("raw")))
	assert.Equal(t, "部分菜单ID不存在", Message(fmt.Errorf("x: %w", Validation("部分菜单ID不存在"))))
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NotFound("菜单不存在"))
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindConflict))
	assert.False(t, Is(nil, KindInternal))

	inner := errors.New("db down")
	assert.ErrorIs(t, Internal("查询失败", inner), inner)
}
