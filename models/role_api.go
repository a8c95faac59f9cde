package models

// RoleAPI 角色-接口多对多关联
type RoleAPI struct {
	RoleID uint `gorm:"primaryKey;autoIncrement:false"`
	APIID  uint `gorm:"column:api_id;primaryKey;autoIncrement:false;index"`
}

// TableName 设置表名
func (RoleAPI) TableName() string {
	return "role_api"
}
