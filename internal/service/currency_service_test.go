package service

import (
	"context"
	"testing"

	"attractionhub/internal/infrastructure/cache"
	"attractionhub/internal/infrastructure/vendorapi"
)

func TestCurrencyConvert(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		from   string
		to     string
		rate   float64
		mode   RoundingMode
		want   float64
	}{
		// 汇率 1.0 加 2% 服务费后是 1.02
		{"同币种不换算", 100, "PHP", "PHP", 1.0, RoundNearest, 100},
		{"展示价向上取整", 9.7946, "SGD", "PHP", 1.0, RoundUp, 10},
		{"展示价两位小数向上", 10.0001, "SGD", "PHP", 0.980392, RoundUp, 10.01},
		{"订单金额四舍五入", 10, "SGD", "PHP", 1.0, RoundNearest, 10.2},
		{"日元向上取整到个位", 97.2, "SGD", "JPY", 1.0, RoundNearest, 100},
		{"韩元向上取整到个位", 97.2, "SGD", "KRW", 1.0, RoundUp, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewCurrencyService(&fakeRateSource{rate: tt.rate}, cache.NewMemoryCache(), 0.02, 3600)
			got, err := svc.Convert(context.Background(), tt.amount, tt.from, tt.to, tt.mode)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Convert() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurrencyRateCache(t *testing.T) {
	source := &fakeRateSource{rate: 2.0}
	svc := NewCurrencyService(source, cache.NewMemoryCache(), 0.02, 3600)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Convert(ctx, 100, "USD", "PHP", RoundNearest); err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
	}
	if source.calls != 1 {
		t.Errorf("汇率源调用次数 = %d, 期望缓存命中后只调 1 次", source.calls)
	}
}

func TestCurrencyConvertRateFailure(t *testing.T) {
	svc := NewCurrencyService(&fakeRateSource{err: errFakeFailure}, cache.NewMemoryCache(), 0.02, 3600)
	if _, err := svc.Convert(context.Background(), 100, "USD", "PHP", RoundNearest); err == nil {
		t.Fatal("汇率源失败时 Convert() 应返回错误")
	}
}

func TestConvertBookingResponseBestEffort(t *testing.T) {
	resp := &vendorapi.CreateTransactionResponse{
		Success: true,
		Data: &vendorapi.CreateTransactionData{
			Currency: "SGD",
			Amount:   50,
			Tickets: []vendorapi.BookedTicket{
				{SellingPrice: 25, PaidAmount: 25, CheckoutPrice: 25},
				{SellingPrice: 25, PaidAmount: 25, CheckoutPrice: 25},
			},
		},
	}

	// 汇率源挂了：响应保持原币种，不报错
	broken := NewCurrencyService(&fakeRateSource{err: errFakeFailure}, cache.NewMemoryCache(), 0.02, 3600)
	broken.ConvertBookingResponse(context.Background(), resp, "PHP")
	if resp.Data.Currency != "SGD" || resp.Data.Amount != 50 {
		t.Errorf("换算失败时响应被改动: currency=%s amount=%v", resp.Data.Currency, resp.Data.Amount)
	}

	// 汇率源正常：金额和每张票都换算
	svc := NewCurrencyService(&fakeRateSource{rate: 40}, cache.NewMemoryCache(), 0.02, 3600)
	svc.ConvertBookingResponse(context.Background(), resp, "PHP")
	if resp.Data.Currency != "PHP" {
		t.Errorf("币种未更新: %s", resp.Data.Currency)
	}
	if resp.Data.Amount != 2040 {
		t.Errorf("金额换算错误: %v, 期望 2040", resp.Data.Amount)
	}
	for i, ticket := range resp.Data.Tickets {
		if ticket.SellingPrice != 1020 {
			t.Errorf("票 %d 售价换算错误: %v, 期望 1020", i, ticket.SellingPrice)
		}
	}
}

func TestConvertProductInfo(t *testing.T) {
	svc := NewCurrencyService(&fakeRateSource{rate: 40}, cache.NewMemoryCache(), 0.02, 3600)
	info := map[string]interface{}{
		"currency":      "SGD",
		"originalPrice": 10.37,
		"fromPrice":     8.33,
		"title":         "Universal Studios",
	}
	if err := svc.ConvertProductInfo(context.Background(), info, "PHP"); err != nil {
		t.Fatalf("ConvertProductInfo() error = %v", err)
	}
	if info["currency"] != "PHP" {
		t.Errorf("币种未更新: %v", info["currency"])
	}
	// 10.37 * 40.8 = 423.096 → 423.10, 8.33 * 40.8 = 339.864 → 339.87
	if info["originalPrice"] != 423.1 {
		t.Errorf("originalPrice = %v, 期望 423.1", info["originalPrice"])
	}
	if info["fromPrice"] != 339.87 {
		t.Errorf("fromPrice = %v, 期望向上取整到 339.87", info["fromPrice"])
	}
	if info["title"] != "Universal Studios" {
		t.Errorf("非价格字段被改动: %v", info["title"])
	}
}
