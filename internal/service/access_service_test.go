package service

import (
	"context"
	"testing"

	"attractionhub/internal/model"
)

func TestClassifyEscalation(t *testing.T) {
	tests := []struct {
		name string
		user *model.User
		want EscalationKind
	}{
		{"空用户", nil, EscalationNone},
		{"子账号机构含admin", &model.User{ID: "u1", Type: model.UserTypeSubAgent, AgencyID: "admin-hq"}, SuperAdminEscalation},
		{"子账号ID含admin", &model.User{ID: "admin-u1", Type: model.UserTypeSubAgent, AgencyID: "ag1"}, SuperAdminEscalation},
		{"机构主账号本人", &model.User{ID: "ag1", Type: model.UserTypeSubAgent, AgencyID: "ag1"}, MasterAgentEscalation},
		{"普通子账号", &model.User{ID: "u1", Type: model.UserTypeSubAgent, AgencyID: "ag1", ParentID: "p1"}, ParentCompanyEscalation},
		{"代理账号", &model.User{ID: "u1", Type: model.UserTypeAgent}, DelegatedApproverLookup},
		{"白标账号", &model.User{ID: "u1", Type: model.UserTypeWhitelabel}, DelegatedApproverLookup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyEscalation(tt.user); got != tt.want {
				t.Errorf("ClassifyEscalation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsApprovalRequired(t *testing.T) {
	levels := &fakeAccessLevelStore{
		levels: map[string]*model.AccessLevel{
			"lv-low":  {ID: "lv-low", Attractions: 2},
			"lv-mid":  {ID: "lv-mid", Attractions: 3},
			"lv-zero": {ID: "lv-zero", Attractions: 0},
		},
	}
	svc := NewAccessService(newFakeUserStore(), &fakeAgencyStore{}, levels)
	ctx := context.Background()

	tests := []struct {
		name string
		user *model.User
		want bool
	}{
		{"代理免审批", &model.User{ID: "u1", Type: model.UserTypeAgent, AccessLevelID: "lv-low"}, false},
		{"主代理免审批", &model.User{ID: "u1", Type: model.UserTypeMasterAgent, AccessLevelID: "lv-low"}, false},
		{"管理员免审批", &model.User{ID: "u1", Type: model.UserTypeAdmin, AccessLevelID: "lv-low"}, false},
		{"低等级需要审批", &model.User{ID: "u1", Type: model.UserTypeSubAgent, AccessLevelID: "lv-low"}, true},
		{"高等级免审批", &model.User{ID: "u1", Type: model.UserTypeSubAgent, AccessLevelID: "lv-mid"}, false},
		{"等级值为零仍需审批", &model.User{ID: "u1", Type: model.UserTypeSubAgent, AccessLevelID: "lv-zero"}, true},
		{"未配置等级放行", &model.User{ID: "u1", Type: model.UserTypeSubAgent}, false},
		{"等级不存在放行", &model.User{ID: "u1", Type: model.UserTypeSubAgent, AccessLevelID: "lv-gone"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.IsApprovalRequired(ctx, model.CategoryAttractions, tt.user)
			if err != nil {
				t.Fatalf("IsApprovalRequired() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsApprovalRequired() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetApprovers(t *testing.T) {
	superAdmin := &model.User{ID: "sa1", Type: model.UserTypeSuperAdmin, FirstName: "Super", Email: "sa@x.com"}
	master := &model.User{ID: "ma1", Type: model.UserTypeMasterAgent, FirstName: "Master", Email: "ma@x.com"}
	parent := &model.User{ID: "p1", Type: model.UserTypeAgent, FirstName: "Parent", Email: "p@x.com"}
	delegate := &model.User{ID: "d1", Type: model.UserTypeAgent, AccessLevelID: "lv-approver", Email: "d@x.com"}
	users := newFakeUserStore(superAdmin, master, parent, delegate)

	agencies := &fakeAgencyStore{agencies: map[string]*model.Agency{
		"ag1": {ID: "ag1", MasterAgentID: "ma1"},
	}}
	levels := &fakeAccessLevelStore{
		levels: map[string]*model.AccessLevel{
			"lv-approver": {ID: "lv-approver", CreatedBy: "p1", Attractions: 4},
		},
		byCreator: map[string][]*model.AccessLevel{
			"p1": {
				{ID: "lv-approver", CreatedBy: "p1", Attractions: 4},
				{ID: "lv-viewer", CreatedBy: "p1", Attractions: 1},
			},
		},
	}
	svc := NewAccessService(users, agencies, levels)
	ctx := context.Background()

	t.Run("超管升级", func(t *testing.T) {
		got, err := svc.GetApprovers(ctx, &model.User{ID: "u1", Type: model.UserTypeSubAgent, AgencyID: "admin-hq"}, model.CategoryAttractions)
		if err != nil {
			t.Fatalf("GetApprovers() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != "sa1" {
			t.Errorf("GetApprovers() = %v, 期望超级管理员 sa1", got)
		}
	})

	t.Run("主代理升级", func(t *testing.T) {
		got, err := svc.GetApprovers(ctx, &model.User{ID: "ag1", Type: model.UserTypeSubAgent, AgencyID: "ag1"}, model.CategoryAttractions)
		if err != nil {
			t.Fatalf("GetApprovers() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != "ma1" {
			t.Errorf("GetApprovers() = %v, 期望主代理 ma1", got)
		}
	})

	t.Run("上级公司升级", func(t *testing.T) {
		got, err := svc.GetApprovers(ctx, &model.User{ID: "u2", Type: model.UserTypeSubAgent, AgencyID: "ag1", ParentID: "p1"}, model.CategoryAttractions)
		if err != nil {
			t.Fatalf("GetApprovers() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != "p1" {
			t.Errorf("GetApprovers() = %v, 期望上级 p1", got)
		}
	})

	t.Run("授权审批人查找", func(t *testing.T) {
		got, err := svc.GetApprovers(ctx, &model.User{ID: "u3", Type: model.UserTypeAgent, ParentID: "p1"}, model.CategoryAttractions)
		if err != nil {
			t.Fatalf("GetApprovers() error = %v", err)
		}
		if len(got) != 1 || got[0].ID != "d1" {
			t.Errorf("GetApprovers() = %v, 期望持有审批等级的 d1", got)
		}
	})

	t.Run("没有审批人", func(t *testing.T) {
		got, err := svc.GetApprovers(ctx, &model.User{ID: "u4", Type: model.UserTypeAgent, ParentID: "nobody"}, model.CategoryAttractions)
		if err != nil {
			t.Fatalf("GetApprovers() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("GetApprovers() = %v, 期望为空", got)
		}
	})
}
