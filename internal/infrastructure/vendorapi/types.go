package vendorapi

import (
	"encoding/json"
	"fmt"
)

// Envelope 供应商统一响应包体
type Envelope struct {
	Success      bool            `json:"success"`
	Size         int             `json:"size"`
	Data         json.RawMessage `json:"data"`
	Error        *APIError       `json:"error"`
	ErrorMessage string          `json:"error_message"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) String() string {
	return fmt.Sprintf("Error: %s - %s", e.Code, e.Message)
}

// ============================================================================
// 认证
// ============================================================================

type AuthRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type AuthData struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// ============================================================================
// 下单
// ============================================================================

// CreateTransactionRequest 供应商下单报文
type CreateTransactionRequest struct {
	NewModel             bool         `json:"newModel,omitempty"`
	CustomerName         string       `json:"customerName"`
	Email                string       `json:"email"`
	AlternateEmail       string       `json:"alternateEmail,omitempty"`
	CreditCardCurrencyID int          `json:"creditCardCurrencyId,omitempty"`
	GroupName            string       `json:"groupName,omitempty"`
	GroupBooking         bool         `json:"groupBooking,omitempty"`
	GroupNoOfMember      int          `json:"groupNoOfMember,omitempty"`
	IsInstantRedeemAll   bool         `json:"isInstantRedeemAll,omitempty"`
	IsSingleCodeForGroup bool         `json:"isSingleCodeForGroup,omitempty"`
	MobileNumber         int64        `json:"mobileNumber,omitempty"`
	MobilePrefix         string       `json:"mobilePrefix,omitempty"`
	OtherInfo            *OtherInfo   `json:"otherInfo,omitempty"`
	PassportNumber       string       `json:"passportNumber,omitempty"`
	PaymentMethod        string       `json:"paymentMethod,omitempty"`
	Remarks              string       `json:"remarks,omitempty"`
	TicketTypes          []TicketLine `json:"ticketTypes"`
	PromoCodeID          int          `json:"promoCodeId,omitempty"`
	PromotionType        string       `json:"promotionType,omitempty"`
	Currency             string       `json:"currency,omitempty"`
}

type OtherInfo struct {
	PartnerReference string `json:"partnerReference,omitempty"`
}

// TicketLine 一行票项
type TicketLine struct {
	FromResellerID int            `json:"fromResellerId,omitempty"`
	ID             int            `json:"id"`
	Quantity       int            `json:"quantity"`
	SellingPrice   float64        `json:"sellingPrice"`
	VisitDate      string         `json:"visitDate,omitempty"`
	Index          int            `json:"index,omitempty"`
	EventID        int            `json:"event_id,omitempty"`
	QuestionList   []QuestionItem `json:"questionList,omitempty"`
}

type QuestionItem struct {
	ID          int    `json:"id"`
	Answer      string `json:"answer"`
	TicketIndex int    `json:"ticketIndex,omitempty"`
}

// CreateTransactionResponse 下单结果
type CreateTransactionResponse struct {
	Success bool                   `json:"success"`
	Size    int                    `json:"size"`
	Error   *APIError              `json:"error,omitempty"`
	Data    *CreateTransactionData `json:"data,omitempty"`
}

type CreateTransactionData struct {
	Time            string         `json:"time,omitempty"`
	Currency        string         `json:"currency"`
	Amount          float64        `json:"amount"`
	ReferenceNumber string         `json:"reference_number,omitempty"`
	AlternateEmail  string         `json:"alternateEmail,omitempty"`
	Email           string         `json:"email,omitempty"`
	CustomerName    string         `json:"customerName,omitempty"`
	PaymentStatus   *PaymentStatus `json:"paymentStatus,omitempty"`
	ETicketURL      string         `json:"eTicketUrl,omitempty"`
	OtherInfo       *OtherInfo     `json:"otherInfo,omitempty"`
	Tickets         []BookedTicket `json:"tickets,omitempty"`
}

type PaymentStatus struct {
	Name string `json:"name,omitempty"`
}

type BookedTicket struct {
	ID              string  `json:"id,omitempty"`
	Code            string  `json:"code,omitempty"`
	Name            string  `json:"name,omitempty"`
	TicketFormat    string  `json:"ticketFormat,omitempty"`
	Redeemed        bool    `json:"redeemed,omitempty"`
	Reseller        string  `json:"reseller,omitempty"`
	Description     string  `json:"description,omitempty"`
	IsOpenDated     bool    `json:"isOpenDated,omitempty"`
	AttractionTitle string  `json:"attractionTitle,omitempty"`
	Location        string  `json:"location,omitempty"`
	SellingPrice    float64 `json:"sellingPrice"`
	PaidAmount      float64 `json:"paidAmount"`
	CheckoutPrice   float64 `json:"checkoutPrice"`
	VisitDate       string  `json:"visitDate,omitempty"`
	Currency        string  `json:"currency,omitempty"`
}

// ============================================================================
// 查询类请求参数
// ============================================================================

type ProductListQuery struct {
	CountryID   string `json:"countryId"`
	CityIDs     string `json:"cityIds"`
	CategoryIDs string `json:"categoryIds"`
	SearchText  string `json:"searchText"`
	Page        int    `json:"page"`
	Section     int    `json:"section"`
	Lang        string `json:"Lang"`
}

type AvailableDatesQuery struct {
	OptionID     int    `json:"optionID"`
	TicketTypeID int    `json:"ticketTypeID,omitempty"`
	DateFrom     string `json:"dateFrom,omitempty"`
	DateTo       string `json:"dateTo,omitempty"`
}
