package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"attractionhub/internal/model"
)

// EscalationKind 审批人升级路径的分类结果
// 分类逻辑是纯函数，和数据查询分离，方便单测穷举
type EscalationKind int

const (
	EscalationNone EscalationKind = iota
	// SuperAdminEscalation 平台直属子账号，审批升级到超级管理员
	SuperAdminEscalation
	// MasterAgentEscalation 机构主账号本人下单，审批升级到机构的主代理
	MasterAgentEscalation
	// ParentCompanyEscalation 普通子账号，审批升级到上级公司账号
	ParentCompanyEscalation
	// DelegatedApproverLookup 代理体系账号，按权限等级查授权审批人
	DelegatedApproverLookup
)

// 审批权限的等级值：等于 4 表示该品类有审批权
const approverAccessValue = 4

// 等级值小于等于 2 表示该品类下单必须先审批
const approvalRequiredThreshold = 2

// Approver 一个可收审批通知的审批人
type Approver struct {
	ID    string
	Name  string
	Email string
}

// AccessService 权限等级与审批人解析
type AccessService struct {
	users        UserStore
	agencies     AgencyStore
	accessLevels AccessLevelStore
}

func NewAccessService(users UserStore, agencies AgencyStore, accessLevels AccessLevelStore) *AccessService {
	return &AccessService{users: users, agencies: agencies, accessLevels: accessLevels}
}

// IsApprovalRequired 判断该用户在指定品类下单是否必须先走审批
// 权限等级缺失时放行并打告警：历史数据里有大量没配等级的账号，
// 一刀切拦截会把老客户全部挡在门外
func (s *AccessService) IsApprovalRequired(ctx context.Context, category string, user *model.User) (bool, error) {
	if user == nil {
		return false, ErrBalanceLookup
	}
	switch user.Type {
	case model.UserTypeAgent, model.UserTypeMasterAgent:
		return false, nil
	}
	if model.IsAdmin(user) {
		return false, nil
	}
	if user.AccessLevelID == "" {
		log.Printf("用户 %s 未配置权限等级, 按免审批放行", user.ID)
		return false, nil
	}
	level, err := s.accessLevels.GetByID(ctx, user.AccessLevelID)
	if err != nil {
		log.Printf("查询权限等级失败 user=%s level=%s: %v, 按免审批放行", user.ID, user.AccessLevelID, err)
		return false, nil
	}
	// 值为 0 也在 <=2 区间里: 等级存在但该品类没开权限时同样要走审批,
	// 只有整条等级记录缺失才放行
	return level.CategoryValue(category) <= approvalRequiredThreshold, nil
}

// ClassifyEscalation 判定审批人升级路径，不做任何查询
func ClassifyEscalation(user *model.User) EscalationKind {
	if user == nil {
		return EscalationNone
	}
	if user.Type == model.UserTypeSubAgent {
		if strings.Contains(user.AgencyID, "admin") || strings.Contains(user.ID, "admin") {
			return SuperAdminEscalation
		}
		if user.ID == user.AgencyID {
			return MasterAgentEscalation
		}
		return ParentCompanyEscalation
	}
	return DelegatedApproverLookup
}

// GetApprovers 解析该用户该品类的全部审批人
func (s *AccessService) GetApprovers(ctx context.Context, user *model.User, category string) ([]Approver, error) {
	switch ClassifyEscalation(user) {
	case SuperAdminEscalation:
		// 平台直属账号的审批人是全体超管加财务
		admins, err := s.users.ListByType(ctx, model.UserTypeSuperAdmin)
		if err != nil {
			return nil, fmt.Errorf("查询超级管理员失败: %w", err)
		}
		accounting, err := s.users.ListByType(ctx, model.UserTypeAccounting)
		if err != nil {
			return nil, fmt.Errorf("查询财务账号失败: %w", err)
		}
		return toApprovers(append(admins, accounting...)), nil

	case MasterAgentEscalation:
		agency, err := s.agencies.GetByID(ctx, user.AgencyID)
		if err != nil {
			return nil, fmt.Errorf("查询机构失败 %s: %w", user.AgencyID, err)
		}
		master, err := s.users.GetByID(ctx, agency.MasterAgentID)
		if err != nil {
			return nil, fmt.Errorf("查询主代理失败 %s: %w", agency.MasterAgentID, err)
		}
		return toApprovers([]*model.User{master}), nil

	case ParentCompanyEscalation:
		parent, err := s.users.GetByID(ctx, user.ParentID)
		if err != nil {
			return nil, fmt.Errorf("查询上级账号失败 %s: %w", user.ParentID, err)
		}
		return toApprovers([]*model.User{parent}), nil

	case DelegatedApproverLookup:
		return s.delegatedApprovers(ctx, user, category)
	}
	return nil, nil
}

// delegatedApprovers 在上级创建的权限等级里找该品类等级为 4 的，
// 再反查持有这些等级的用户
func (s *AccessService) delegatedApprovers(ctx context.Context, user *model.User, category string) ([]Approver, error) {
	creator := user.ParentID
	if creator == "" {
		creator = user.AgencyID
	}
	levels, err := s.accessLevels.ListByCreator(ctx, creator)
	if err != nil {
		return nil, fmt.Errorf("查询权限等级列表失败 creator=%s: %w", creator, err)
	}
	var levelIDs []string
	for _, level := range levels {
		if level.CategoryValue(category) == approverAccessValue {
			levelIDs = append(levelIDs, level.ID)
		}
	}
	if len(levelIDs) == 0 {
		return nil, nil
	}
	approvers, err := s.users.ListByAccessLevelIDs(ctx, levelIDs)
	if err != nil {
		return nil, fmt.Errorf("查询审批人失败: %w", err)
	}
	return toApprovers(approvers), nil
}

func toApprovers(users []*model.User) []Approver {
	result := make([]Approver, 0, len(users))
	for _, u := range users {
		if u == nil || u.Email == "" {
			continue
		}
		result = append(result, Approver{ID: u.ID, Name: u.FullName(), Email: u.Email})
	}
	return result
}
