package models

import "time"

// HouseTransaction 房产成交量数据（按城市、按日）
type HouseTransaction struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	City            string    `json:"city" gorm:"size:50;not null;index"`
	TransactionDate Date      `json:"transaction_date" gorm:"type:date;not null;index" swaggertype:"string" format:"date"`
	NewHouseCount   int       `json:"new_house_count" gorm:"not null;default:0"`
	NewHouseArea    float64   `json:"new_house_area" gorm:"not null;default:0"`
	SecondHandCount int       `json:"second_hand_count" gorm:"not null;default:0"`
	SecondHandArea  float64   `json:"second_hand_area" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName 设置表名
func (HouseTransaction) TableName() string {
	return "house_transactions"
}
