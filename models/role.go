package models

import "time"

// Role 角色模型
type Role struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:50;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Role) TableName() string {
	return "roles"
}

// RoleDetail 角色详情，附带已分配的菜单与接口ID
type RoleDetail struct {
	Role
	MenuIDs []uint `json:"menu_ids"`
	APIIDs  []uint `json:"api_ids"`
}
