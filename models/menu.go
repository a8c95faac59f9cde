package models

import "time"

// Menu 菜单模型
// ParentID 为 NULL 表示顶级菜单
type Menu struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:50;not null"`
	Path      string    `json:"path" gorm:"size:100"`      // 前端路由
	Component string    `json:"component" gorm:"size:100"` // 前端组件
	Icon      string    `json:"icon" gorm:"size:50"`
	SortOrder int       `json:"sort_order" gorm:"default:0;index"`
	ParentID  *uint     `json:"parent_id" gorm:"index"`
	IsHidden  bool      `json:"is_hidden" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 设置表名
func (Menu) TableName() string {
	return "menus"
}

// MenuNode 菜单树节点，叶子节点的 Children 为空数组
type MenuNode struct {
	Menu
	Children []*MenuNode `json:"children"`
}
