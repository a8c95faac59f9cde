package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// DateLayout 日期格式 YYYY-MM-DD
const DateLayout = "2006-01-02"

// Date 只包含日期部分的时间，JSON 与数据库中均以 YYYY-MM-DD 表示
type Date time.Time

// ParseDate 按 YYYY-MM-DD 解析日期（本地时区）
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("日期格式应为 YYYY-MM-DD: %w", err)
	}
	return Date(t), nil
}

// Today 返回服务器本地时间的当天日期
func Today() Date {
	y, m, d := time.Now().Date()
	return Date(time.Date(y, m, d, 0, 0, 0, 0, time.Local))
}

func (d Date) Time() time.Time {
	return time.Time(d)
}

func (d Date) String() string {
	return time.Time(d).Format(DateLayout)
}

// After 按日历日比较
func (d Date) After(other Date) bool {
	return d.String() > other.String()
}

func (d Date) IsZero() bool {
	return time.Time(d).IsZero()
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value 实现 driver.Valuer
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan 实现 sql.Scanner
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
		return nil
	case time.Time:
		y, m, day := v.Date()
		*d = Date(time.Date(y, m, day, 0, 0, 0, 0, time.Local))
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("无法将 %T 转换为 Date", value)
	}
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
