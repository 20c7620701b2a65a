package vendorapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"attractionhub/internal/config"
)

// ============================================================================
// 第三方票务平台 API 客户端
// ============================================================================

const (
	endpointAuth               = "/auth/login"
	endpointProductList        = "/product/list"
	endpointProductOptions     = "/product/options"
	endpointProductInfo        = "/product/info"
	endpointAvailableDates     = "/ticketType/getAvailableDates"
	endpointEventAvailability  = "/ticketType/checkEventAvailability"
	endpointUnavailableDates   = "/ticketType/getUnavailableDates"
	endpointProductChanges     = "/product/changes"
	endpointCreateTransaction  = "/transaction/create"
	endpointCancelTransaction  = "/transaction/revoke"
	endpointResellerBalance    = "/credit/getCreditByReseller"
)

var (
	ErrInvalidResponse = errors.New("invalid response from third party api")
	ErrNoAccessToken   = errors.New("no access token found in response")
)

type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

func NewClient(cfg *config.VendorConfig) *Client {
	return &Client{
		baseURL:  cfg.BaseURL,
		username: cfg.Username,
		password: cfg.Password,
		httpClient: &http.Client{
			Timeout: cfg.Timeout(),
		},
	}
}

// Authenticate 用服务凭证换取 bearer token
func (c *Client) Authenticate(ctx context.Context) (*AuthData, error) {
	env, err := c.doPost(ctx, "", endpointAuth, AuthRequest{
		Username: c.username,
		Password: c.password,
	})
	if err != nil {
		return nil, err
	}

	var data AuthData
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return nil, fmt.Errorf("解析认证响应失败: %w", err)
		}
	}
	if data.AccessToken == "" {
		return nil, ErrNoAccessToken
	}
	return &data, nil
}

// CreateTransaction 供应商下单
// 【关键点】这个调用不幂等也不重试：HTTP 失败或超时后供应商侧可能已经出票，
// 盲目重试会造成重复订票，由上层判定为失败并中止
func (c *Client) CreateTransaction(ctx context.Context, token string, req *CreateTransactionRequest) (*CreateTransactionResponse, error) {
	env, err := c.doPost(ctx, token, endpointCreateTransaction, req)
	if err != nil {
		return nil, err
	}

	resp := &CreateTransactionResponse{
		Success: env.Success,
		Size:    env.Size,
		Error:   env.Error,
	}
	if len(env.Data) > 0 {
		resp.Data = &CreateTransactionData{}
		if err := json.Unmarshal(env.Data, resp.Data); err != nil {
			return nil, fmt.Errorf("解析下单响应失败: %w", err)
		}
	}
	return resp, nil
}

// CancelTransaction 按确认号撤销订单
func (c *Client) CancelTransaction(ctx context.Context, token, referenceNumber string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("reference_number", referenceNumber)

	env, err := c.doGet(ctx, token, endpointCancelTransaction, params)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetProducts 产品列表
func (c *Client) GetProducts(ctx context.Context, token string, q *ProductListQuery) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("countryId", q.CountryID)
	params.Set("cityIds", q.CityIDs)
	params.Set("categoryIds", q.CategoryIDs)
	if q.SearchText != "" {
		params.Set("searchText", q.SearchText)
	}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("section", strconv.Itoa(q.Section))
	params.Set("Lang", q.Lang)

	env, err := c.doGet(ctx, token, endpointProductList, params)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetProductOptions 产品选项
func (c *Client) GetProductOptions(ctx context.Context, token string, productID int) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(productID))

	env, err := c.doGet(ctx, token, endpointProductOptions, params)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetProductInfo 产品详情
// 返回动态结构，价格字段由上层按用户币种换算后原样透传
func (c *Client) GetProductInfo(ctx context.Context, token string, productID int) (map[string]interface{}, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(productID))

	env, err := c.doGet(ctx, token, endpointProductInfo, params)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 {
		return nil, fmt.Errorf("%w: missing data object", ErrInvalidResponse)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("解析产品详情失败: %w", err)
	}
	return data, nil
}

// GetAvailableDates 可售日期
func (c *Client) GetAvailableDates(ctx context.Context, token string, q *AvailableDatesQuery) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("optionID", strconv.Itoa(q.OptionID))
	if q.TicketTypeID != 0 {
		params.Set("ticketTypeID", strconv.Itoa(q.TicketTypeID))
	}
	if q.DateFrom != "" {
		params.Set("dateFrom", q.DateFrom)
	}
	if q.DateTo != "" {
		params.Set("dateTo", q.DateTo)
	}

	env, err := c.doGet(ctx, token, endpointAvailableDates, params)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// CheckEventAvailability 场次余量
func (c *Client) CheckEventAvailability(ctx context.Context, token string, id int, date string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(id))
	params.Set("date", date)

	env, err := c.doGet(ctx, token, endpointEventAvailability, params)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetUnavailableDates 不可售日期
func (c *Client) GetUnavailableDates(ctx context.Context, token string, id int, dateFrom, dateTo string) (json.RawMessage, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(id))
	params.Set("date_from", dateFrom)
	params.Set("date_to", dateTo)

	env, err := c.doGet(ctx, token, endpointUnavailableDates, params)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetProductChanges 产品变更
func (c *Client) GetProductChanges(ctx context.Context, token string, lastCheck string) (json.RawMessage, error) {
	params := url.Values{}
	if lastCheck != "" {
		params.Set("lastCheck", lastCheck)
	}

	env, err := c.doGet(ctx, token, endpointProductChanges, params)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// GetResellerBalance 分销商在供应商侧的授信余额
func (c *Client) GetResellerBalance(ctx context.Context, token string) (json.RawMessage, error) {
	env, err := c.doGet(ctx, token, endpointResellerBalance, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// ============================================================================
// 底层请求
// ============================================================================

func (c *Client) doGet(ctx context.Context, token, endpoint string, params url.Values) (*Envelope, error) {
	u := c.baseURL + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req, token)
}

func (c *Client) doPost(ctx context.Context, token, endpoint string, body interface{}) (*Envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, token)
}

func (c *Client) do(req *http.Request, token string) (*Envelope, error) {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("api request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("api request failed: %w", err)
	}

	return ParseEnvelope(raw)
}

// ParseEnvelope 解析并校验供应商响应包体
// 依次检查 error_message、error 对象、success 标志，任何一项不对都视为失败
func ParseEnvelope(raw []byte) (*Envelope, error) {
	env := &Envelope{}
	if err := json.Unmarshal(raw, env); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, string(raw))
	}

	if env.ErrorMessage != "" {
		return nil, errors.New(env.ErrorMessage)
	}
	if env.Error != nil {
		return nil, errors.New(env.Error.String())
	}
	if !env.Success {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, string(raw))
	}
	return env, nil
}
