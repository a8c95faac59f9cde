package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"househelper/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var apiColumns = []string{"id", "name", "path", "method", "description", "created_at", "updated_at"}

func newAPIRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	h := NewAPIHandler(testConfig(t), nopLogger, db)
	r := gin.New()
	g := r.Group("/apis")
	g.GET("/", h.List)
	g.POST("/", h.Create)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	return r
}

func TestAPIHandler_List(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `apis`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery("SELECT \\* FROM `apis` ORDER BY id ASC LIMIT 2 OFFSET 10").
		WillReturnRows(sqlmock.NewRows(apiColumns).
			AddRow(11, "角色列表", "/api/v1/roles/", "GET", "", now, now).
			AddRow(12, "创建角色", "/api/v1/roles/", "POST", "", now, now))

	w := performRequest(newAPIRouter(t, db), http.MethodGet, "/apis/?skip=10&limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp ListResponse[models.API]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(12), resp.Total)
	assert.Len(t, resp.Items, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIHandler_Create_NormalizesMethod(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `apis` WHERE `method` = \\? AND `path` = \\?").
		WithArgs("POST", "/api/v1/roles/").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `apis`").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectCommit()

	w := performRequest(newAPIRouter(t, db), http.MethodPost, "/apis/", `{"name":"创建角色","path":"/api/v1/roles/","method":"post"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var got models.API
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "POST", got.Method)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIHandler_Create_InvalidMethod(t *testing.T) {
	db, mock := setupMockDB(t)
	w := performRequest(newAPIRouter(t, db), http.MethodPost, "/apis/", `{"name":"x","path":"/x","method":"FETCH"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIHandler_Create_Duplicate(t *testing.T) {
	t.Run("预检查", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `apis`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		w := performRequest(newAPIRouter(t, db), http.MethodPost, "/apis/", `{"name":"x","path":"/x","method":"GET"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "相同路径和方法的API已存在", detailOf(t, w))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	// 并发插入时由唯一索引兜底
	t.Run("唯一索引冲突", func(t *testing.T) {
		db, mock := setupMockDB(t)
		mock.ExpectQuery("SELECT count\\(\\*\\) FROM `apis`").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO `apis`").
			WillReturnError(&mysqlDriver.MySQLError{Number: 1062, Message: "Duplicate entry"})
		mock.ExpectRollback()

		w := performRequest(newAPIRouter(t, db), http.MethodPost, "/apis/", `{"name":"x","path":"/x","method":"GET"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "相同路径和方法的API已存在", detailOf(t, w))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAPIHandler_Update_Duplicate(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	mock.ExpectQuery("SELECT \\* FROM `apis` WHERE `apis`.`id` = \\?").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(apiColumns).AddRow(2, "x", "/x", "GET", "", now, now))
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `apis` WHERE path = \\? AND method = \\? AND id <> \\?").
		WithArgs("/x", "DELETE", 2).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := performRequest(newAPIRouter(t, db), http.MethodPut, "/apis/2", `{"method":"delete"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAPIHandler_Delete(t *testing.T) {
	db, mock := setupMockDB(t)
	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `apis` WHERE `apis`.`id` = \\?").
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(apiColumns).AddRow(2, "x", "/x", "GET", "", now, now))
	mock.ExpectExec("DELETE FROM `role_api` WHERE api_id = \\?").WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `apis` WHERE `apis`.`id` = \\?").WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	w := performRequest(newAPIRouter(t, db), http.MethodDelete, "/apis/2", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
