package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"attractionhub/internal/infrastructure/cache"
	"attractionhub/internal/infrastructure/exchange"
	"attractionhub/internal/infrastructure/vendorapi"
)

// RoundingMode 换汇后金额的取整方式
// 商品展示价向上取整（宁可报高不报低），订单回显四舍五入
type RoundingMode int

const (
	RoundUp RoundingMode = iota
	RoundNearest
)

// 这些币种没有小数单位，换算结果取整到个位
var wholeUnitCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
}

// CurrencyService 汇率换算，带服务费加成和汇率缓存
type CurrencyService struct {
	rates    exchange.RateSource
	cache    cache.Cache
	feeRate  float64
	cacheTTL time.Duration
}

func NewCurrencyService(rates exchange.RateSource, c cache.Cache, feeRate float64, cacheSeconds int) *CurrencyService {
	if cacheSeconds <= 0 {
		cacheSeconds = 3600
	}
	return &CurrencyService{
		rates:    rates,
		cache:    c,
		feeRate:  feeRate,
		cacheTTL: time.Duration(cacheSeconds) * time.Second,
	}
}

// Convert 把 amount 从 from 币种换算到 to 币种
// 汇率在取到后先加 feeRate 的服务费，再按 mode 取整
func (s *CurrencyService) Convert(ctx context.Context, amount float64, from, to string, mode RoundingMode) (float64, error) {
	if from == to || from == "" || to == "" {
		return amount, nil
	}
	rate, err := s.getRate(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return s.Round(amount*rate, to, mode), nil
}

// Round 按币种和模式取整换算结果
func (s *CurrencyService) Round(amount float64, currency string, mode RoundingMode) float64 {
	if wholeUnitCurrencies[currency] {
		return math.Ceil(amount)
	}
	switch mode {
	case RoundUp:
		return math.Ceil(amount*100) / 100
	default:
		return math.Round(amount*100) / 100
	}
}

// getRate 取 from→to 的加成后汇率，优先走缓存
func (s *CurrencyService) getRate(ctx context.Context, from, to string) (float64, error) {
	key := fmt.Sprintf("currency:%s:%s", from, to)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		if rate, perr := strconv.ParseFloat(cached, 64); perr == nil && rate > 0 {
			return rate, nil
		}
	}

	raw, err := s.rates.GetRate(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("获取汇率失败 %s→%s: %w", from, to, err)
	}
	// 服务费直接折进汇率里
	rate := raw + raw*s.feeRate

	if err := s.cache.Set(ctx, key, strconv.FormatFloat(rate, 'f', -1, 64), s.cacheTTL); err != nil {
		log.Printf("写入汇率缓存失败 %s: %v", key, err)
	}
	return rate, nil
}

// ConvertBookingResponse 把供应商订单响应里的金额就地换算到目标币种
// 换算失败只打日志不报错：订单已成立，宁可回显原币种也不能让请求失败
func (s *CurrencyService) ConvertBookingResponse(ctx context.Context, resp *vendorapi.CreateTransactionResponse, target string) {
	if resp == nil || resp.Data == nil || target == "" {
		return
	}
	data := resp.Data
	if data.Currency == "" || data.Currency == target {
		return
	}
	rate, err := s.getRate(ctx, data.Currency, target)
	if err != nil {
		log.Printf("订单金额换算失败 %s→%s: %v", data.Currency, target, err)
		return
	}
	data.Amount = s.Round(data.Amount*rate, target, RoundNearest)
	for i := range data.Tickets {
		t := &data.Tickets[i]
		t.SellingPrice = s.Round(t.SellingPrice*rate, target, RoundNearest)
		t.PaidAmount = s.Round(t.PaidAmount*rate, target, RoundNearest)
		t.CheckoutPrice = s.Round(t.CheckoutPrice*rate, target, RoundNearest)
	}
	data.Currency = target
}

// ConvertProductInfo 把商品详情里的展示价换算到目标币种（向上取整）
func (s *CurrencyService) ConvertProductInfo(ctx context.Context, info map[string]interface{}, target string) error {
	if info == nil || target == "" {
		return nil
	}
	from, _ := info["currency"].(string)
	if from == "" || from == target {
		return nil
	}
	rate, err := s.getRate(ctx, from, target)
	if err != nil {
		return err
	}
	for _, field := range []string{"originalPrice", "fromPrice"} {
		if v, ok := info[field].(float64); ok {
			info[field] = s.Round(v*rate, target, RoundUp)
		}
	}
	info["currency"] = target
	return nil
}
