package rbac

import (
	"context"
	"testing"
	"time"

	"househelper/apperr"
	"househelper/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uintPtr(v uint) *uint { return &v }

func menu(id uint, parent *uint, sort int) models.Menu {
	return models.Menu{ID: id, ParentID: parent, SortOrder: sort, Name: "m"}
}

func collectIDs(nodes []*models.MenuNode) []uint {
	var ids []uint
	for _, n := range nodes {
		ids = append(ids, n.ID)
		ids = append(ids, collectIDs(n.Children)...)
	}
	return ids
}

func TestBuildMenuTree(t *testing.T) {
	menus := []models.Menu{
		menu(1, nil, 2),
		menu(2, nil, 1),
		menu(3, uintPtr(1), 5),
		menu(4, uintPtr(1), 1),
		menu(5, uintPtr(4), 0),
		menu(6, uintPtr(1), 1),
	}
	tree := BuildMenuTree(menus)

	require.Len(t, tree, 2)
	assert.Equal(t, uint(2), tree[0].ID)
	assert.Equal(t, uint(1), tree[1].ID)

	// 同 sort_order 保持插入顺序：4 在 6 之前
	children := tree[1].Children
	require.Len(t, children, 3)
	assert.Equal(t, []uint{4, 6, 3}, []uint{children[0].ID, children[1].ID, children[2].ID})
	require.Len(t, children[0].Children, 1)
	assert.Equal(t, uint(5), children[0].Children[0].ID)

	assert.NotNil(t, tree[0].Children)
	assert.Empty(t, tree[0].Children)

	assert.ElementsMatch(t, []uint{1, 2, 3, 4, 5, 6}, collectIDs(tree))
}

func TestBuildMenuTree_Empty(t *testing.T) {
	tree := BuildMenuTree(nil)
	assert.NotNil(t, tree)
	assert.Empty(t, tree)
}

func TestBuildMenuTree_OrphanBecomesRoot(t *testing.T) {
	tree := BuildMenuTree([]models.Menu{menu(1, nil, 0), menu(2, uintPtr(99), 0)})
	assert.ElementsMatch(t, []uint{1, 2}, collectIDs(tree))
	assert.Len(t, tree, 2)
}

func TestDescendantIDs(t *testing.T) {
	menus := []models.Menu{
		menu(1, nil, 0),
		menu(2, uintPtr(1), 0),
		menu(3, uintPtr(2), 0),
		menu(4, nil, 0),
	}
	d := DescendantIDs(menus, 1)
	assert.Equal(t, map[uint]bool{2: true, 3: true}, d)
	assert.Empty(t, DescendantIDs(menus, 4))
}

func TestValidateParent(t *testing.T) {
	ctx := context.Background()

	t.Run("top level", func(t *testing.T) {
		db, mock := setupMockDB(t)
		require.NoError(t, ValidateParent(ctx, db, 3, 0))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("self", func(t *testing.T) {
		db, _ := setupMockDB(t)
		err := ValidateParent(ctx, db, 3, 3)
		assert.True(t, apperr.Is(err, apperr.KindValidation))
		assert.Equal(t, "不能将菜单的父级设置为自己", apperr.Message(err))
	})

	t.Run("missing parent", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT `id` FROM `menus`").
			WithArgs(42).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		err := ValidateParent(ctx, db, 3, 42)
		assert.Equal(t, "父菜单不存在", apperr.Message(err))
		assert.Equal(t, 422, apperr.Status(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("descendant", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT `id` FROM `menus`").
			WithArgs(5).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
		mock.ExpectQuery("SELECT `id`,`parent_id` FROM `menus`").
			WillReturnRows(sqlmock.NewRows([]string{"id", "parent_id"}).
				AddRow(3, nil).
				AddRow(4, 3).
				AddRow(5, 4))
		err := ValidateParent(ctx, db, 3, 5)
		assert.Equal(t, "不能将菜单的父级设置为其子菜单", apperr.Message(err))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create under existing", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT `id` FROM `menus`").
			WithArgs(1).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		require.NoError(t, ValidateParent(ctx, db, 0, 1))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestMenuTree(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	mock.ExpectQuery("SELECT \\* FROM `menus` ORDER BY id ASC").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "sort_order", "parent_id", "created_at", "updated_at"}).
			AddRow(1, "系统管理", 1, nil, now, now).
			AddRow(2, "用户管理", 2, 1, now, now).
			AddRow(3, "角色管理", 1, 1, now, now))

	tree, err := MenuTree(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 2)
	assert.Equal(t, "角色管理", tree[0].Children[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBeforeMenuDelete_HasChildren(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `menus` WHERE parent_id = \\?").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	err := BeforeMenuDelete(db, &models.Menu{ID: 1})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "无法删除：该菜单下有子菜单", apperr.Message(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
