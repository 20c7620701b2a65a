package model

import (
	"time"
)

// ============================================================================
// 用户类型常量
// ============================================================================

const (
	UserTypeAgent       = "AGENT"
	UserTypeSubAgent    = "SUBAGENT"
	UserTypeMasterAgent = "MASTERAGENT"
	UserTypeWhitelabel  = "WHITELABEL"
	UserTypeSuperAdmin  = "SUPERADMIN"
	UserTypeAccounting  = "ACCOUNTING"
	UserTypeAdmin       = "ADMIN"
)

// IsAdmin 管理类账号跳过余额校验
func IsAdmin(u *User) bool {
	if u == nil {
		return false
	}
	switch u.Type {
	case UserTypeAdmin, UserTypeSuperAdmin, UserTypeAccounting:
		return true
	}
	return false
}

// User 用户表
// 身份与财务档案，由外部开通流程写入；本服务除改密码外只读
type User struct {
	ID            string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Type          string    `gorm:"type:varchar(20);index;not null" json:"type"`
	AgencyID      string    `gorm:"type:varchar(64);index" json:"agency_id"`
	ParentID      string    `gorm:"type:varchar(64)" json:"parent_id"` // 员工账号所属的公司账号
	AccessLevelID string    `gorm:"type:varchar(64);index" json:"access_level"`
	FirstName     string    `gorm:"type:varchar(64)" json:"first_name"`
	LastName      string    `gorm:"type:varchar(64)" json:"last_name"`
	Email         string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	PasswordHash  string    `gorm:"type:varchar(128)" json:"-"`
	Currency      string    `gorm:"type:varchar(8)" json:"currency"`
	Status        string    `gorm:"type:varchar(20)" json:"status"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}

// FullName 显示名
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Agency 代理机构表
type Agency struct {
	ID            string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	CompanyName   string    `gorm:"type:varchar(128)" json:"company_name"`
	MasterAgentID string    `gorm:"type:varchar(64);index" json:"masteragent_id"`
	Email         string    `gorm:"type:varchar(128)" json:"email"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Agency) TableName() string {
	return "agency"
}

// ============================================================================
// 交易品类常量
// ============================================================================

const (
	CategoryAirline     = "airline"
	CategoryHotel       = "hotel"
	CategoryBus         = "bus"
	CategoryFerry       = "ferry"
	CategoryAttractions = "attractions"
	CategoryVisa        = "visa"
	CategoryHoliday     = "holiday"
	CategoryInsurance   = "insurance"
)

// AccessLevel 权限等级表
// 每个品类一个权限值：<=2 需要审批，==4 具有审批权
type AccessLevel struct {
	ID             string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	CreatedBy      string    `gorm:"type:varchar(64);index" json:"created_by"`
	IsSharedWallet bool      `gorm:"not null;default:false" json:"isSharedWallet"`
	Airline        int       `gorm:"not null;default:0" json:"airline"`
	Hotel          int       `gorm:"not null;default:0" json:"hotel"`
	Bus            int       `gorm:"not null;default:0" json:"bus"`
	Ferry          int       `gorm:"not null;default:0" json:"ferry"`
	Attractions    int       `gorm:"not null;default:0" json:"attractions"`
	Visa           int       `gorm:"not null;default:0" json:"visa"`
	Holiday        int       `gorm:"not null;default:0" json:"holiday"`
	Insurance      int       `gorm:"not null;default:0" json:"insurance"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (AccessLevel) TableName() string {
	return "access_level"
}

// CategoryValue 返回指定品类的权限值，未知品类返回 0
func (a *AccessLevel) CategoryValue(category string) int {
	switch category {
	case CategoryAirline:
		return a.Airline
	case CategoryHotel:
		return a.Hotel
	case CategoryBus:
		return a.Bus
	case CategoryFerry:
		return a.Ferry
	case CategoryAttractions:
		return a.Attractions
	case CategoryVisa:
		return a.Visa
	case CategoryHoliday:
		return a.Holiday
	case CategoryInsurance:
		return a.Insurance
	}
	return 0
}
