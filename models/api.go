package models

import "time"

// API 接口记录，(path, method) 唯一，作为权限单元分配给角色
// Path 支持 :id 等占位符，如 /api/v1/users/:id
type API struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:50;not null"`
	Path        string    `json:"path" gorm:"size:200;not null;uniqueIndex:idx_api_path_method"`
	Method      string    `json:"method" gorm:"size:10;not null;uniqueIndex:idx_api_path_method"`
	Description string    `json:"description" gorm:"size:200"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName 设置表名
func (API) TableName() string {
	return "apis"
}
