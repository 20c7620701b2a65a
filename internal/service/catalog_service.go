package service

import (
	"context"
	"encoding/json"
	"log"

	"attractionhub/internal/infrastructure/vendorapi"
)

// CatalogVendor 供应商商品查询接口
type CatalogVendor interface {
	GetProducts(ctx context.Context, token string, q *vendorapi.ProductListQuery) (json.RawMessage, error)
	GetProductOptions(ctx context.Context, token string, productID int) (json.RawMessage, error)
	GetProductInfo(ctx context.Context, token string, productID int) (map[string]interface{}, error)
	GetAvailableDates(ctx context.Context, token string, q *vendorapi.AvailableDatesQuery) (json.RawMessage, error)
	CheckEventAvailability(ctx context.Context, token string, id int, date string) (json.RawMessage, error)
	GetUnavailableDates(ctx context.Context, token string, id int, dateFrom, dateTo string) (json.RawMessage, error)
	GetProductChanges(ctx context.Context, token string, lastCheck string) (json.RawMessage, error)
	GetResellerBalance(ctx context.Context, token string) (json.RawMessage, error)
}

// CatalogService 商品查询代理
// 查询类接口基本是透传，唯一的加工是商品详情的展示价换算
type CatalogService struct {
	session  TokenProvider
	vendor   CatalogVendor
	currency *CurrencyService
}

func NewCatalogService(session TokenProvider, vendor CatalogVendor, currency *CurrencyService) *CatalogService {
	return &CatalogService{session: session, vendor: vendor, currency: currency}
}

func (s *CatalogService) GetProducts(ctx context.Context, q *vendorapi.ProductListQuery) (json.RawMessage, error) {
	token, err := s.session.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.vendor.GetProducts(ctx, token, q)
}

func (s *CatalogService) GetProductOptions(ctx context.Context, productID int) (json.RawMessage, error) {
	token, err := s.session.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.vendor.GetProductOptions(ctx, token, productID)
}

// GetProductInfo 商品详情，展示价换算到用户币种（向上取整）
// 换算失败按供应商原币种返回，不让详情页打不开
func (s *CatalogService) GetProductInfo(ctx context.Context, productID int, targetCurrency string) (map[string]interface{}, error) {
	token, err := s.session.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	info, err := s.vendor.GetProductInfo(ctx, token, productID)
	if err != nil {
		return nil, err
	}
	if targetCurrency != "" {
		if cerr := s.currency.ConvertProductInfo(ctx, info, targetCurrency); cerr != nil {
			log.Printf("商品 %d 展示价换算失败: %v", productID, cerr)
		}
	}
	return info, nil
}

func (s *CatalogService) GetAvailableDates(ctx context.Context, q *vendorapi.AvailableDatesQuery) (json.RawMessage, error) {
	token, err := s.session.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.vendor.GetAvailableDates(ctx, token, q)
}

func (s *CatalogService) CheckEventAvailability(ctx context.Context, id int, date string) (json.RawMessage, error) {
	token, err := s.session.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.vendor.CheckEventAvailability(ctx, token, id, date)
}

func (s *CatalogService) GetUnavailableDates(ctx context.Context, id int, dateFrom, dateTo string) (json.RawMessage, error) {
	token, err := s.session.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.vendor.GetUnavailableDates(ctx, token, id, dateFrom, dateTo)
}

func (s *CatalogService) GetProductChanges(ctx context.Context, lastCheck string) (json.RawMessage, error) {
	token, err := s.session.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.vendor.GetProductChanges(ctx, token, lastCheck)
}

func (s *CatalogService) GetResellerBalance(ctx context.Context) (json.RawMessage, error) {
	token, err := s.session.GetToken(ctx)
	if err != nil {
		return nil, err
	}
	return s.vendor.GetResellerBalance(ctx, token)
}
