package store

import "gorm.io/gorm"

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// Page skip/limit 分页参数
type Page struct {
	Skip  int `form:"skip" binding:"omitempty,min=0"`
	Limit int `form:"limit" binding:"omitempty,min=0,max=1000"`
}

// Normalize 填充默认值
func (p Page) Normalize(defaultLimit int) Page {
	if p.Skip < 0 {
		p.Skip = 0
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// Where 等值以外的条件
func Where(query interface{}, args ...interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(query, args...)
	}
}
