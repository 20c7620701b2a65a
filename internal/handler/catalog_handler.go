package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"attractionhub/internal/infrastructure/vendorapi"
	"attractionhub/internal/service"
	"attractionhub/pkg/response"
)

// CatalogHandler 商品查询代理接口
type CatalogHandler struct {
	catalog *service.CatalogService
}

func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GetProducts 商品列表
func (h *CatalogHandler) GetProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	section, _ := strconv.Atoi(c.DefaultQuery("section", "0"))
	q := &vendorapi.ProductListQuery{
		CountryID:   c.Query("countryId"),
		CityIDs:     c.Query("cityIds"),
		CategoryIDs: c.Query("categoryIds"),
		SearchText:  c.Query("searchText"),
		Page:        page,
		Section:     section,
		Lang:        c.Query("lang"),
	}
	raw, err := h.catalog.GetProducts(c.Request.Context(), q)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, "products retrieved", raw)
}

// GetProductOptions 商品可订选项
func (h *CatalogHandler) GetProductOptions(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.ParamError(c, "product id must be a positive integer")
		return
	}
	raw, err := h.catalog.GetProductOptions(c.Request.Context(), id)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, "product options retrieved", raw)
}

// GetProductInfo 商品详情，展示价按登录用户币种换算
func (h *CatalogHandler) GetProductInfo(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		response.ParamError(c, "product id must be a positive integer")
		return
	}
	target := ""
	if claims := currentClaims(c); claims != nil {
		target = claims.Currency
	}
	info, err := h.catalog.GetProductInfo(c.Request.Context(), id, target)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, "product info retrieved", info)
}

// GetAvailableDates 可订日期
func (h *CatalogHandler) GetAvailableDates(c *gin.Context) {
	optionID, err := strconv.Atoi(c.Query("optionID"))
	if err != nil || optionID <= 0 {
		response.ParamError(c, "optionID must be a positive integer")
		return
	}
	ticketTypeID, _ := strconv.Atoi(c.Query("ticketTypeID"))
	q := &vendorapi.AvailableDatesQuery{
		OptionID:     optionID,
		TicketTypeID: ticketTypeID,
		DateFrom:     c.Query("dateFrom"),
		DateTo:       c.Query("dateTo"),
	}
	raw, err := h.catalog.GetAvailableDates(c.Request.Context(), q)
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, "available dates retrieved", raw)
}

// CheckEventAvailability 场次余位
func (h *CatalogHandler) CheckEventAvailability(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil || id <= 0 {
		response.ParamError(c, "id must be a positive integer")
		return
	}
	raw, err := h.catalog.CheckEventAvailability(c.Request.Context(), id, c.Query("date"))
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, "event availability retrieved", raw)
}

// GetUnavailableDates 不可订日期
func (h *CatalogHandler) GetUnavailableDates(c *gin.Context) {
	id, err := strconv.Atoi(c.Query("id"))
	if err != nil || id <= 0 {
		response.ParamError(c, "id must be a positive integer")
		return
	}
	raw, err := h.catalog.GetUnavailableDates(c.Request.Context(), id, c.Query("dateFrom"), c.Query("dateTo"))
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, "unavailable dates retrieved", raw)
}

// GetProductChanges 商品变更增量
func (h *CatalogHandler) GetProductChanges(c *gin.Context) {
	raw, err := h.catalog.GetProductChanges(c.Request.Context(), c.Query("lastCheck"))
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, "product changes retrieved", raw)
}

// GetResellerBalance 平台在供应商侧的授信余额
func (h *CatalogHandler) GetResellerBalance(c *gin.Context) {
	raw, err := h.catalog.GetResellerBalance(c.Request.Context())
	if err != nil {
		writeCatalogError(c, err)
		return
	}
	response.Success(c, "reseller balance retrieved", raw)
}

// 查询类接口的失败都来自供应商侧，统一按服务端错误返回
func writeCatalogError(c *gin.Context, err error) {
	response.ServerError(c, err.Error())
}
