package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"househelper/apperr"
	"househelper/config"
	"househelper/models"
	"househelper/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const geoJSONDefaultLimit = 10

// GeoJSONHandler GeoJSON 文件查询与入库数据管理
type GeoJSONHandler struct {
	base
	dir     string
	records *store.Store[models.GeoJsonData]
}

func NewGeoJSONHandler(cfg *config.Config, log *zap.Logger, db *gorm.DB) *GeoJSONHandler {
	return &GeoJSONHandler{
		base: base{cfg: cfg, log: log},
		dir:  cfg.GeoJSON.Dir,
		records: store.New(db, store.Options[models.GeoJsonData]{
			NotFoundMessage: "GeoJSON数据不存在",
		}),
	}
}

// GeoJSONCreateRequest 入库请求，data 必须是合法 JSON
type GeoJSONCreateRequest struct {
	Name string         `json:"name" binding:"required,min=1,max=100"`
	Data datatypes.JSON `json:"data" binding:"required" swaggertype:"object"`
}

// Lookup 按名称读取 GeoJSON 文件
// 名称带 .json 或 .geojson 后缀时只查该文件，否则依次尝试 .json、.geojson
// @Summary 读取 GeoJSON 文件
// @Tags GeoJSON
// @Produce json
// @Security BearerAuth
// @Param name path string true "文件名，可省略后缀"
// @Success 200 {object} object
// @Failure 404 {object} ErrorResponse "GeoJSON文件不存在"
// @Failure 500 {object} ErrorResponse "读取GeoJSON文件失败"
// @Router /geojson/{name} [get]
func (h *GeoJSONHandler) Lookup(c *gin.Context) {
	name := c.Param("name")
	data, err := h.readFile(name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// readFile 只允许读取目录下的直接文件
func (h *GeoJSONHandler) readFile(name string) ([]byte, error) {
	notFound := apperr.NotFound(fmt.Sprintf("GeoJSON文件 %s 不存在", name))
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return nil, notFound
	}

	candidates := []string{name + ".json", name + ".geojson"}
	if ext := strings.ToLower(filepath.Ext(name)); ext == ".json" || ext == ".geojson" {
		candidates = []string{name}
	}
	for _, candidate := range candidates {
		data, err := os.ReadFile(filepath.Join(h.dir, candidate))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, apperr.Internal("读取GeoJSON文件失败: "+err.Error(), nil)
		}
		if !json.Valid(data) {
			return nil, apperr.Internal("读取GeoJSON文件失败: 文件不是合法的JSON", nil)
		}
		return data, nil
	}
	return nil, notFound
}

// List 入库的 GeoJSON 数据列表
func (h *GeoJSONHandler) List(c *gin.Context) {
	var page store.Page
	if !h.bindQuery(c, &page) {
		return
	}
	page = page.Normalize(geoJSONDefaultLimit)
	list, err := h.records.List(c.Request.Context(), page.Skip, page.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// Create 保存 GeoJSON 数据
func (h *GeoJSONHandler) Create(c *gin.Context) {
	var req GeoJSONCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if !json.Valid(req.Data) {
		h.fail(c, apperr.Validation("data 不是合法的JSON"))
		return
	}
	record := models.GeoJsonData{Name: req.Name, Data: req.Data}
	if err := h.records.Create(c.Request.Context(), &record); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
