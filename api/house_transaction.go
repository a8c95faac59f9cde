package api

import (
	"fmt"
	"net/http"
	"net/url"

	"househelper/apperr"
	"househelper/config"
	"househelper/models"
	"househelper/store"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// HouseTransactionHandler 房产成交量数据
type HouseTransactionHandler struct {
	base
	records *store.Store[models.HouseTransaction]
}

func NewHouseTransactionHandler(cfg *config.Config, log *zap.Logger, db *gorm.DB) *HouseTransactionHandler {
	return &HouseTransactionHandler{
		base: base{cfg: cfg, log: log},
		records: store.New(db, store.Options[models.HouseTransaction]{
			NotFoundMessage: "房产成交量数据不存在",
			Order:           "transaction_date DESC, id DESC",
		}),
	}
}

// HouseTransactionCreateRequest 新增成交数据，日期不能晚于今天，数量与面积不能为负
type HouseTransactionCreateRequest struct {
	City            string      `json:"city" binding:"required,min=1,max=50"`
	TransactionDate models.Date `json:"transaction_date" binding:"required,notfuture" swaggertype:"string" format:"date"`
	NewHouseCount   int         `json:"new_house_count" binding:"gte=0"`
	NewHouseArea    float64     `json:"new_house_area" binding:"gte=0"`
	SecondHandCount int         `json:"second_hand_count" binding:"gte=0"`
	SecondHandArea  float64     `json:"second_hand_area" binding:"gte=0"`
}

type HouseTransactionUpdateRequest struct {
	City            *string      `json:"city" binding:"omitempty,min=1,max=50"`
	TransactionDate *models.Date `json:"transaction_date" binding:"omitempty,notfuture" swaggertype:"string" format:"date"`
	NewHouseCount   *int         `json:"new_house_count" binding:"omitempty,gte=0"`
	NewHouseArea    *float64     `json:"new_house_area" binding:"omitempty,gte=0"`
	SecondHandCount *int         `json:"second_hand_count" binding:"omitempty,gte=0"`
	SecondHandArea  *float64     `json:"second_hand_area" binding:"omitempty,gte=0"`
}

// Apply 实现 store.Patch
func (r HouseTransactionUpdateRequest) Apply(t *models.HouseTransaction) []string {
	var cols []string
	if r.City != nil {
		t.City = *r.City
		cols = append(cols, "city")
	}
	if r.TransactionDate != nil {
		t.TransactionDate = *r.TransactionDate
		cols = append(cols, "transaction_date")
	}
	if r.NewHouseCount != nil {
		t.NewHouseCount = *r.NewHouseCount
		cols = append(cols, "new_house_count")
	}
	if r.NewHouseArea != nil {
		t.NewHouseArea = *r.NewHouseArea
		cols = append(cols, "new_house_area")
	}
	if r.SecondHandCount != nil {
		t.SecondHandCount = *r.SecondHandCount
		cols = append(cols, "second_hand_count")
	}
	if r.SecondHandArea != nil {
		t.SecondHandArea = *r.SecondHandArea
		cols = append(cols, "second_hand_area")
	}
	return cols
}

// HouseTransactionQuery 列表筛选条件，日期为闭区间
type HouseTransactionQuery struct {
	store.Page
	City      string `form:"city"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
}

// scopes 将筛选条件转换为查询条件
func (q HouseTransactionQuery) scopes() ([]store.Scope, error) {
	var scopes []store.Scope
	if q.City != "" {
		scopes = append(scopes, store.Where("city = ?", q.City))
	}
	if q.StartDate != "" {
		d, err := models.ParseDate(q.StartDate)
		if err != nil {
			return nil, apperr.Validation("start_date 日期格式应为 YYYY-MM-DD")
		}
		scopes = append(scopes, store.Where("transaction_date >= ?", d))
	}
	if q.EndDate != "" {
		d, err := models.ParseDate(q.EndDate)
		if err != nil {
			return nil, apperr.Validation("end_date 日期格式应为 YYYY-MM-DD")
		}
		scopes = append(scopes, store.Where("transaction_date <= ?", d))
	}
	return scopes, nil
}

// List 成交数据列表
// @Summary 房产成交量列表
// @Tags 房产成交量
// @Produce json
// @Security BearerAuth
// @Param city query string false "城市"
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Param skip query int false "跳过条数"
// @Param limit query int false "返回条数"
// @Success 200 {object} ListResponse[models.HouseTransaction]
// @Failure 422 {object} ErrorResponse "日期格式错误"
// @Router /house-transactions/ [get]
func (h *HouseTransactionHandler) List(c *gin.Context) {
	var q HouseTransactionQuery
	if !h.bindQuery(c, &q) {
		return
	}
	scopes, err := q.scopes()
	if err != nil {
		h.fail(c, err)
		return
	}
	h.respondList(c, q.Page, scopes)
}

// ByCity 按城市查询
func (h *HouseTransactionHandler) ByCity(c *gin.Context) {
	var page store.Page
	if !h.bindQuery(c, &page) {
		return
	}
	h.respondList(c, page, []store.Scope{store.Where("city = ?", c.Param("city"))})
}

func (h *HouseTransactionHandler) respondList(c *gin.Context, page store.Page, scopes []store.Scope) {
	page = page.Normalize(store.DefaultLimit)
	ctx := c.Request.Context()
	total, err := h.records.Count(ctx, nil, scopes...)
	if err != nil {
		h.fail(c, err)
		return
	}
	items, err := h.records.List(ctx, page.Skip, page.Limit, scopes...)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ListResponse[models.HouseTransaction]{Total: total, Items: items})
}

// Export 按筛选条件导出 Excel
// @Summary 导出房产成交量
// @Tags 房产成交量
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param city query string false "城市"
// @Param start_date query string false "开始日期 YYYY-MM-DD"
// @Param end_date query string false "结束日期 YYYY-MM-DD"
// @Success 200 {file} file
// @Router /house-transactions/export [get]
func (h *HouseTransactionHandler) Export(c *gin.Context) {
	var q HouseTransactionQuery
	if !h.bindQuery(c, &q) {
		return
	}
	scopes, err := q.scopes()
	if err != nil {
		h.fail(c, err)
		return
	}
	items, err := h.records.List(c.Request.Context(), 0, 0, scopes...)
	if err != nil {
		h.fail(c, err)
		return
	}

	f, err := buildHouseTransactionSheet(items)
	if err != nil {
		h.fail(c, apperr.Internal("生成 Excel 失败", err))
		return
	}
	defer f.Close()

	filename := url.PathEscape(fmt.Sprintf("房产成交量_%s.xlsx", models.Today()))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename*=UTF-8''%s", filename))
	if err := f.Write(c.Writer); err != nil {
		h.log.Error("写出 Excel 失败", zap.Error(err))
	}
}

const houseTransactionSheet = "房产成交量"

func buildHouseTransactionSheet(items []models.HouseTransaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", houseTransactionSheet); err != nil {
		f.Close()
		return nil, err
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	})

	f.SetColWidth(houseTransactionSheet, "A", "A", 10)
	f.SetColWidth(houseTransactionSheet, "B", "C", 14)
	f.SetColWidth(houseTransactionSheet, "D", "G", 16)

	headers := []string{"ID", "城市", "成交日期", "新房套数", "新房面积", "二手房套数", "二手房面积"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(houseTransactionSheet, cell, header)
		f.SetCellStyle(houseTransactionSheet, cell, cell, headerStyle)
	}

	for i, t := range items {
		row := i + 2
		values := []interface{}{t.ID, t.City, t.TransactionDate.String(), t.NewHouseCount, t.NewHouseArea, t.SecondHandCount, t.SecondHandArea}
		for col, v := range values {
			f.SetCellValue(houseTransactionSheet, fmt.Sprintf("%c%d", 'A'+col, row), v)
		}
		f.SetCellStyle(houseTransactionSheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), dataStyle)
	}
	return f, nil
}

// Create 新增成交数据
// @Summary 新增房产成交量
// @Tags 房产成交量
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body HouseTransactionCreateRequest true "成交数据"
// @Success 201 {object} models.HouseTransaction
// @Failure 422 {object} ErrorResponse "参数错误"
// @Router /house-transactions/ [post]
func (h *HouseTransactionHandler) Create(c *gin.Context) {
	var req HouseTransactionCreateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	record := models.HouseTransaction{
		City:            req.City,
		TransactionDate: req.TransactionDate,
		NewHouseCount:   req.NewHouseCount,
		NewHouseArea:    req.NewHouseArea,
		SecondHandCount: req.SecondHandCount,
		SecondHandArea:  req.SecondHandArea,
	}
	if err := h.records.Create(c.Request.Context(), &record); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Get 成交数据详情
func (h *HouseTransactionHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	record, err := h.records.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Update 部分更新
func (h *HouseTransactionHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req HouseTransactionUpdateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	record, err := h.records.Update(c.Request.Context(), id, req)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// Delete 删除并返回被删除的记录
func (h *HouseTransactionHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	record, err := h.records.Delete(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
