package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"househelper/config"
	"househelper/middleware"
	"househelper/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db, mock
}

func testConfig(t *testing.T) *config.Config {
	return &config.Config{
		Project: config.ProjectConfig{Name: "HouseHelper", Version: "1.0.0", Description: "测试"},
		Server:  config.ServerConfig{Port: ":8000", Mode: gin.TestMode},
		API:     config.APIConfig{Prefix: "/api/v1"},
		JWT:     config.JWTConfig{Secret: "test-secret", Algorithm: "HS256"},
		GeoJSON: config.GeoJSONConfig{Dir: t.TempDir()},
		Auth:    config.AuthConfig{BcryptCost: bcrypt.MinCost},
	}
}

// asUser 模拟认证中间件写入当前用户
func asUser(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetCurrentUser(c, user)
		c.Next()
	}
}

func performRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func detailOf(t *testing.T, w *httptest.ResponseRecorder) string {
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Detail
}

var nopLogger = zap.NewNop()
