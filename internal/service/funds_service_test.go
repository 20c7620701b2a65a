package service

import (
	"context"
	"errors"
	"testing"

	"attractionhub/internal/model"
)

func newFundsFixture() *FundsService {
	balances := &fakeBalanceStore{balances: map[string]*model.UserBalance{
		"u1": {OwnerID: "u1", Total: 100, Currency: "PHP"},
		"p1": {OwnerID: "p1", Total: 500, Currency: "PHP"},
	}}
	holds := &fakeHoldsStore{sums: map[string]float64{
		"u1:PHP": 30,
	}}
	agencies := &fakeAgencyStore{agencies: map[string]*model.Agency{
		"ag1": {ID: "ag1", MasterAgentID: "ma1"},
	}}
	levels := &fakeAccessLevelStore{levels: map[string]*model.AccessLevel{
		"lv-shared": {ID: "lv-shared", IsSharedWallet: true},
		"lv-own":    {ID: "lv-own", IsSharedWallet: false},
	}}
	return NewFundsService(balances, holds, agencies, levels)
}

func TestResolveWalletOwner(t *testing.T) {
	svc := newFundsFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		user *model.User
		want string
	}{
		{"代理用自己的钱包", &model.User{ID: "u1", Type: model.UserTypeAgent}, "u1"},
		{"独立钱包子账号", &model.User{ID: "u1", Type: model.UserTypeSubAgent, AccessLevelID: "lv-own"}, "u1"},
		{"未配置等级按独立钱包", &model.User{ID: "u1", Type: model.UserTypeSubAgent}, "u1"},
		{"共享钱包且ID含admin用自己的", &model.User{ID: "admin-u", Type: model.UserTypeSubAgent, AccessLevelID: "lv-shared", AgencyID: "ag1"}, "admin-u"},
		{"共享钱包机构主账号归主代理", &model.User{ID: "ag1", Type: model.UserTypeSubAgent, AccessLevelID: "lv-shared", AgencyID: "ag1"}, "ma1"},
		{"共享钱包员工归上级公司", &model.User{ID: "u9", Type: model.UserTypeSubAgent, AccessLevelID: "lv-shared", AgencyID: "ag1", ParentID: "p1"}, "p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.ResolveWalletOwner(ctx, tt.user)
			if err != nil {
				t.Fatalf("ResolveWalletOwner() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ResolveWalletOwner() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateBalance(t *testing.T) {
	svc := newFundsFixture()
	ctx := context.Background()
	agent := &model.User{ID: "u1", Type: model.UserTypeAgent, Currency: "PHP"}

	// 余额 100、冻结 30：80 的单余额够但刨掉冻结不够
	tests := []struct {
		name    string
		user    *model.User
		amount  float64
		wantErr error
	}{
		{"余额充足", agent, 50, nil},
		{"刚好花完冻结外的钱", agent, 70, nil},
		{"余额直接不够", agent, 150, ErrInsufficientBalance},
		{"冻结资金占用后不够", agent, 80, ErrInsufficientBalanceAfterHolds},
		{"管理员不校验", &model.User{ID: "x", Type: model.UserTypeSuperAdmin}, 99999, nil},
		{"钱包不存在", &model.User{ID: "ghost", Type: model.UserTypeAgent}, 10, ErrBalanceLookup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateBalance(ctx, tt.user, tt.amount)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("ValidateBalance() error = %v, 期望通过", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateBalance() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGetBalanceData(t *testing.T) {
	svc := newFundsFixture()
	data, err := svc.GetBalanceData(context.Background(), &model.User{ID: "u1", Type: model.UserTypeAgent})
	if err != nil {
		t.Fatalf("GetBalanceData() error = %v", err)
	}
	if data.Total != 100 || data.OnHold != 30 || data.Available != 70 || data.Currency != "PHP" {
		t.Errorf("GetBalanceData() = %+v, 期望 total=100 onHold=30 available=70 PHP", data)
	}
}
