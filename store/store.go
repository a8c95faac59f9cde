// Package store 提供按实体类型参数化的通用增删改查
package store

import (
	"context"
	"errors"

	"househelper/apperr"

	"gorm.io/gorm"
)

// Patch 实体的部分更新，Apply 将出现的字段写入实体并返回需要更新的列名
type Patch[T any] interface {
	Apply(entity *T) []string
}

// Scope 附加查询条件
type Scope = func(*gorm.DB) *gorm.DB

// Options 实体级别的行为配置
type Options[T any] struct {
	NotFoundMessage string
	ConflictMessage string
	// Order 列表的自然排序，为空时按主键
	Order string
	// BeforeDelete 在删除事务内执行，返回错误则放弃删除
	BeforeDelete func(tx *gorm.DB, entity *T) error
}

// Store 单表通用存储
type Store[T any] struct {
	db   *gorm.DB
	opts Options[T]
}

// New 创建存储
func New[T any](db *gorm.DB, opts Options[T]) *Store[T] {
	if opts.NotFoundMessage == "" {
		opts.NotFoundMessage = "记录不存在"
	}
	if opts.ConflictMessage == "" {
		opts.ConflictMessage = "记录已存在"
	}
	if opts.Order == "" {
		opts.Order = "id ASC"
	}
	return &Store[T]{db: db, opts: opts}
}

// DB 返回绑定请求上下文的会话
func (s *Store[T]) DB(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// Get 按主键查询
func (s *Store[T]) Get(ctx context.Context, id uint) (*T, error) {
	var entity T
	if err := s.DB(ctx).First(&entity, id).Error; err != nil {
		return nil, s.translate(err, "查询失败")
	}
	return &entity, nil
}

// List 分页列表，limit <= 0 表示不限制
func (s *Store[T]) List(ctx context.Context, offset, limit int, scopes ...Scope) ([]T, error) {
	q := s.DB(ctx).Scopes(scopes...).Order(s.opts.Order)
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	list := make([]T, 0)
	if err := q.Find(&list).Error; err != nil {
		return nil, apperr.Internal("查询失败", err)
	}
	return list, nil
}

// Count 按等值条件计数
func (s *Store[T]) Count(ctx context.Context, filters map[string]interface{}, scopes ...Scope) (int64, error) {
	q := s.DB(ctx).Model(new(T)).Scopes(scopes...)
	if len(filters) > 0 {
		q = q.Where(filters)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, apperr.Internal("查询失败", err)
	}
	return total, nil
}

// Create 插入记录，唯一约束冲突返回 Conflict
func (s *Store[T]) Create(ctx context.Context, entity *T) error {
	if err := s.DB(ctx).Create(entity).Error; err != nil {
		return s.translate(err, "创建失败")
	}
	return nil
}

// Update 应用部分更新，未出现的字段保持不变
func (s *Store[T]) Update(ctx context.Context, id uint, patch Patch[T]) (*T, error) {
	entity, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	cols := patch.Apply(entity)
	if len(cols) == 0 {
		return entity, nil
	}
	if err := s.DB(ctx).Model(entity).Select(cols).Updates(entity).Error; err != nil {
		return nil, s.translate(err, "更新失败")
	}
	return entity, nil
}

// Delete 删除并返回被删除的记录
func (s *Store[T]) Delete(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := s.DB(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&entity, id).Error; err != nil {
			return err
		}
		if s.opts.BeforeDelete != nil {
			if err := s.opts.BeforeDelete(tx, &entity); err != nil {
				return err
			}
		}
		return tx.Delete(&entity).Error
	})
	if err != nil {
		return nil, s.translate(err, "删除失败")
	}
	return &entity, nil
}

func (s *Store[T]) translate(err error, fallback string) error {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.NotFound(s.opts.NotFoundMessage)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return apperr.Conflict(s.opts.ConflictMessage)
	default:
		return apperr.Internal(fallback, err)
	}
}
