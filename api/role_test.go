package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"househelper/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var roleColumns = []string{"id", "name", "description", "created_at", "updated_at"}

func newRoleRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	h := NewRoleHandler(testConfig(t), nopLogger, db)
	r := gin.New()
	g := r.Group("/roles")
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.PUT("/:id/permissions", h.SetPermissions)
	return r
}

func expectRoleRow(mock sqlmock.Sqlmock, id uint, name string) {
	now := time.Now()
	mock.ExpectQuery("SELECT \\* FROM `roles` WHERE `roles`.`id` = \\?").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(roleColumns).AddRow(id, name, "", now, now))
}

func TestRoleHandler_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `roles` WHERE `name` = \\?").
		WithArgs("editor").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `roles`").WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectCommit()

	w := performRequest(newRoleRouter(t, db), http.MethodPost, "/roles/", `{"name":"editor","description":"编辑"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var got models.Role
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, uint(4), got.ID)
	assert.Equal(t, "editor", got.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleHandler_Create_DuplicateName(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `roles` WHERE `name` = \\?").
		WithArgs("admin").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := performRequest(newRoleRouter(t, db), http.MethodPost, "/roles/", `{"name":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "角色名已存在", detailOf(t, w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleHandler_Get(t *testing.T) {
	db, mock := setupMockDB(t)
	expectRoleRow(mock, 2, "editor")
	mock.ExpectQuery("SELECT `menu_id` FROM `role_menu`").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"menu_id"}).AddRow(1).AddRow(3))
	mock.ExpectQuery("SELECT `api_id` FROM `role_api`").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows([]string{"api_id"}).AddRow(5))

	w := performRequest(newRoleRouter(t, db), http.MethodGet, "/roles/2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got models.RoleDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "editor", got.Name)
	assert.Equal(t, []uint{1, 3}, got.MenuIDs)
	assert.Equal(t, []uint{5}, got.APIIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleHandler_Get_NotFound(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `roles`").
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(roleColumns))

	w := performRequest(newRoleRouter(t, db), http.MethodGet, "/roles/9", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "角色不存在", detailOf(t, w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleHandler_Update(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `roles` WHERE name = \\? AND id <> \\?").
		WithArgs("writer", 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	expectRoleRow(mock, 2, "editor")
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `roles` SET `name`=\\?,`updated_at`=\\? WHERE `id` = \\?").
		WithArgs("writer", sqlmock.AnyArg(), 2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	expectRoleRow(mock, 2, "writer")
	mock.ExpectQuery("SELECT `menu_id` FROM `role_menu`").WithArgs(2).WillReturnRows(sqlmock.NewRows([]string{"menu_id"}))
	mock.ExpectQuery("SELECT `api_id` FROM `role_api`").WithArgs(2).WillReturnRows(sqlmock.NewRows([]string{"api_id"}))

	w := performRequest(newRoleRouter(t, db), http.MethodPut, "/roles/2", `{"name":"writer"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.RoleDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "writer", got.Name)
	assert.Empty(t, got.MenuIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleHandler_Delete_WithUsers(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	expectRoleRow(mock, 1, "admin")
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE role_id = \\?").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	w := performRequest(newRoleRouter(t, db), http.MethodDelete, "/roles/1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "无法删除：该角色下有关联用户", detailOf(t, w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleHandler_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	expectRoleRow(mock, 3, "guest")
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users` WHERE role_id = \\?").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec("DELETE FROM `role_menu` WHERE role_id = \\?").WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("DELETE FROM `role_api` WHERE role_id = \\?").WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("DELETE FROM `roles` WHERE `roles`.`id` = \\?").WithArgs(3).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := performRequest(newRoleRouter(t, db), http.MethodDelete, "/roles/3", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleHandler_SetPermissions_UnknownMenu(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	expectRoleRow(mock, 1, "editor")
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `menus` WHERE id IN \\(\\?,\\?\\)").
		WithArgs(1, 404).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	w := performRequest(newRoleRouter(t, db), http.MethodPut, "/roles/1/permissions", `{"menu_ids":[404,1]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "部分菜单ID不存在", detailOf(t, w))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRoleHandler_SetPermissions(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	expectRoleRow(mock, 1, "editor")
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `apis`").
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec("DELETE FROM `role_api` WHERE role_id = \\?").WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `role_api`").WithArgs(1, 6).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT `menu_id` FROM `role_menu`").WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"menu_id"}).AddRow(2))
	mock.ExpectQuery("SELECT `api_id` FROM `role_api`").WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"api_id"}).AddRow(6))
	mock.ExpectCommit()

	w := performRequest(newRoleRouter(t, db), http.MethodPut, "/roles/1/permissions", `{"api_ids":[6]}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.RoleDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, []uint{2}, got.MenuIDs)
	assert.Equal(t, []uint{6}, got.APIIDs)
	require.NoError(t, mock.ExpectationsWereMet())
}
