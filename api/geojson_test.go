package api

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"househelper/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const sampleGeoJSON = `{"type":"FeatureCollection","features":[]}`

func newGeoJSONRouter(t *testing.T, db *gorm.DB, files map[string]string) *gin.Engine {
	cfg := testConfig(t)
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(cfg.GeoJSON.Dir, name), []byte(content), 0o644))
	}
	h := NewGeoJSONHandler(cfg, nopLogger, db)
	r := gin.New()
	r.GET("/geojson", h.List)
	r.POST("/geojson", h.Create)
	r.GET("/geojson/:name", h.Lookup)
	return r
}

func TestGeoJSONHandler_Lookup(t *testing.T) {
	db, _ := setupMockDB(t)
	r := newGeoJSONRouter(t, db, map[string]string{
		"beijing.geojson": sampleGeoJSON,
		"china.json":      `{"type":"Feature"}`,
		"broken.json":     `{"type":`,
	})

	tests := []struct {
		name   string
		path   string
		status int
		detail string
	}{
		{"回退到 .geojson", "/geojson/beijing", http.StatusOK, ""},
		{"优先 .json", "/geojson/china", http.StatusOK, ""},
		{"显式后缀", "/geojson/beijing.geojson", http.StatusOK, ""},
		{"显式后缀不回退", "/geojson/beijing.json", http.StatusNotFound, "GeoJSON文件 beijing.json 不存在"},
		{"文件不存在", "/geojson/missing", http.StatusNotFound, "GeoJSON文件 missing 不存在"},
		{"路径穿越", "/geojson/..beijing", http.StatusNotFound, "GeoJSON文件 ..beijing 不存在"},
		{"非法JSON", "/geojson/broken", http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performRequest(r, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.status, w.Code)
			switch {
			case tt.detail != "":
				assert.Equal(t, tt.detail, detailOf(t, w))
			case tt.status == http.StatusOK:
				assert.True(t, json.Valid(w.Body.Bytes()))
			default:
				assert.Contains(t, detailOf(t, w), "读取GeoJSON文件失败")
			}
		})
	}
}

func TestGeoJSONHandler_ReadFile_RejectsSeparators(t *testing.T) {
	db, _ := setupMockDB(t)
	h := NewGeoJSONHandler(testConfig(t), nopLogger, db)
	for _, name := range []string{"../etc/passwd", `..\secret`, "a/b", ""} {
		_, err := h.readFile(name)
		assert.Error(t, err, name)
	}
}

func TestGeoJSONHandler_List_DefaultLimit(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SELECT \\* FROM `geojson_data` ORDER BY id ASC LIMIT 10").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "data"}).AddRow(1, "北京", sampleGeoJSON))

	w := performRequest(newGeoJSONRouter(t, db, nil), http.MethodGet, "/geojson", "")
	require.Equal(t, http.StatusOK, w.Code)
	var got []models.GeoJsonData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.JSONEq(t, sampleGeoJSON, string(got[0].Data))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGeoJSONHandler_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `geojson_data`").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectCommit()

	w := performRequest(newGeoJSONRouter(t, db, nil), http.MethodPost, "/geojson", `{"name":"上海","data":`+sampleGeoJSON+`}`)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.GeoJsonData
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, uint(5), got.ID)
	assert.Equal(t, "上海", got.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGeoJSONHandler_Create_MissingData(t *testing.T) {
	db, mock := setupMockDB(t)
	w := performRequest(newGeoJSONRouter(t, db, nil), http.MethodPost, "/geojson", `{"name":"上海"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
