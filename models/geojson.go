package models

import "gorm.io/datatypes"

// GeoJsonData 入库的 GeoJSON 数据
type GeoJsonData struct {
	ID   uint           `json:"id" gorm:"primaryKey"`
	Name string         `json:"name" gorm:"size:100;not null;index"`
	Data datatypes.JSON `json:"data" swaggertype:"object"`
}

// TableName 设置表名
func (GeoJsonData) TableName() string {
	return "geojson_data"
}
