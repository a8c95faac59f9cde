package models

import "time"

// User 用户模型
// Email 与 OpenID 可为空（微信用户首次登录时没有邮箱），唯一索引允许多个 NULL
type User struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	Username       string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email          *string   `json:"email" gorm:"uniqueIndex;size:100"`
	HashedPassword string    `json:"-" gorm:"size:255;not null"`
	IsActive       bool      `json:"is_active" gorm:"default:true"`
	IsSuperuser    bool      `json:"is_superuser" gorm:"default:false"` // 超级管理员，绕过接口权限校验
	RoleID         *uint     `json:"role_id" gorm:"index"`
	OpenID         *string   `json:"openid,omitempty" gorm:"column:openid;size:64;uniqueIndex"`
	SessionKey     string    `json:"-" gorm:"size:128"`
	Phone          string    `json:"phone,omitempty" gorm:"size:20"`
	WechatNickname string    `json:"wechat_nickname,omitempty" gorm:"size:64"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
