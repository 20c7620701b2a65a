package exchange

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"attractionhub/internal/config"
)

// 外部汇率源客户端（exchangeratesapi.io 风格接口）

var ErrRateUnavailable = errors.New("unable to fetch currency exchange rate")

// RateSource 汇率查询接口，测试里用假实现
type RateSource interface {
	GetRate(ctx context.Context, from, to string) (float64, error)
}

type Client struct {
	baseURL    string
	accessKey  string
	httpClient *http.Client
}

func NewClient(cfg *config.ExchangeConfig) *Client {
	return &Client{
		baseURL:   cfg.BaseURL,
		accessKey: cfg.AccessKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type convertResponse struct {
	Success bool `json:"success"`
	Info    struct {
		Rate float64 `json:"rate"`
	} `json:"info"`
}

// GetRate 查询 1 单位 from 币种兑 to 币种的汇率
func (c *Client) GetRate(ctx context.Context, from, to string) (float64, error) {
	params := url.Values{}
	params.Set("access_key", c.accessKey)
	params.Set("from", from)
	params.Set("to", to)
	params.Set("amount", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/convert?"+params.Encode(), nil)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrRateUnavailable, err)
	}

	var body convertResponse
	if err := json.Unmarshal(raw, &body); err != nil || !body.Success {
		return 0, ErrRateUnavailable
	}
	return body.Info.Rate, nil
}
