package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"attractionhub/internal/model"
)

// BalanceData 钱包余额快照
type BalanceData struct {
	OwnerID   string  `json:"owner_id"`
	Total     float64 `json:"total"`
	OnHold    float64 `json:"on_hold"`
	Available float64 `json:"available"`
	Currency  string  `json:"currency"`
}

// FundsService 钱包归属解析与余额校验
type FundsService struct {
	balances     BalanceStore
	holds        HoldsStore
	agencies     AgencyStore
	accessLevels AccessLevelStore
}

func NewFundsService(balances BalanceStore, holds HoldsStore, agencies AgencyStore, accessLevels AccessLevelStore) *FundsService {
	return &FundsService{balances: balances, holds: holds, agencies: agencies, accessLevels: accessLevels}
}

// ResolveWalletOwner 解析实际扣款的钱包归属
// 共享钱包的子账号花的是上级的钱，余额校验和扣款都要落在上级账号上
func (s *FundsService) ResolveWalletOwner(ctx context.Context, user *model.User) (string, error) {
	if user == nil {
		return "", ErrBalanceLookup
	}
	if user.Type != model.UserTypeSubAgent {
		return user.ID, nil
	}
	if user.AccessLevelID == "" {
		return user.ID, nil
	}
	level, err := s.accessLevels.GetByID(ctx, user.AccessLevelID)
	if err != nil {
		log.Printf("查询权限等级失败 user=%s: %v, 按独立钱包处理", user.ID, err)
		return user.ID, nil
	}
	if !level.IsSharedWallet {
		return user.ID, nil
	}
	// 平台直属账号即使共享钱包也用自己的
	if strings.Contains(user.ID, "admin") || strings.Contains(user.AgencyID, "admin") {
		return user.ID, nil
	}
	if user.ID == user.AgencyID {
		agency, err := s.agencies.GetByID(ctx, user.AgencyID)
		if err != nil {
			return "", fmt.Errorf("查询机构失败 %s: %w", user.AgencyID, err)
		}
		return agency.MasterAgentID, nil
	}
	return user.ParentID, nil
}

// GetBalanceData 返回用户生效钱包的余额快照（含冻结资金）
func (s *FundsService) GetBalanceData(ctx context.Context, user *model.User) (*BalanceData, error) {
	ownerID, err := s.ResolveWalletOwner(ctx, user)
	if err != nil {
		return nil, err
	}
	balance, err := s.balances.GetByOwnerID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBalanceLookup, err)
	}
	onHold, err := s.holds.SumByUserAndCurrency(ctx, ownerID, balance.Currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBalanceLookup, err)
	}
	return &BalanceData{
		OwnerID:   ownerID,
		Total:     balance.Total,
		OnHold:    onHold,
		Available: balance.Total - onHold,
		Currency:  balance.Currency,
	}, nil
}

// ValidateBalance 校验用户钱包是否付得起 amount
// 管理员账号不占钱包额度，直接放行
func (s *FundsService) ValidateBalance(ctx context.Context, user *model.User, amount float64) error {
	if model.IsAdmin(user) {
		return nil
	}
	data, err := s.GetBalanceData(ctx, user)
	if err != nil {
		return err
	}
	next := data.Total - amount
	if next < 0 {
		return ErrInsufficientBalance
	}
	// 冻结资金也要占额度：余额够但刨掉在途资金不够，同样拦下
	if data.OnHold > 0 && next-data.OnHold < 0 {
		return ErrInsufficientBalanceAfterHolds
	}
	return nil
}
