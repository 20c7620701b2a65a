package service

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"attractionhub/internal/infrastructure/vendorapi"
	"attractionhub/internal/model"
	"attractionhub/internal/repository"
)

// 单测用的假实现，所有计数器用于断言调用次数

type fakeUserStore struct {
	users     map[string]*model.User
	byType    map[string][]*model.User
	byLevel   map[string][]*model.User
	getCalls  int
	passwords map[string]string
}

func newFakeUserStore(users ...*model.User) *fakeUserStore {
	s := &fakeUserStore{
		users:     make(map[string]*model.User),
		byType:    make(map[string][]*model.User),
		byLevel:   make(map[string][]*model.User),
		passwords: make(map[string]string),
	}
	for _, u := range users {
		s.users[u.ID] = u
		s.byType[u.Type] = append(s.byType[u.Type], u)
		if u.AccessLevelID != "" {
			s.byLevel[u.AccessLevelID] = append(s.byLevel[u.AccessLevelID], u)
		}
	}
	return s
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	s.getCalls++
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *fakeUserStore) ListByType(_ context.Context, userType string) ([]*model.User, error) {
	return s.byType[userType], nil
}

func (s *fakeUserStore) ListByAccessLevelIDs(_ context.Context, ids []string) ([]*model.User, error) {
	var result []*model.User
	for _, id := range ids {
		result = append(result, s.byLevel[id]...)
	}
	return result, nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, id, hash string) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	s.passwords[id] = hash
	return nil
}

type fakeAgencyStore struct {
	agencies map[string]*model.Agency
}

func (s *fakeAgencyStore) GetByID(_ context.Context, id string) (*model.Agency, error) {
	if a, ok := s.agencies[id]; ok {
		return a, nil
	}
	return nil, repository.ErrAgencyNotFound
}

type fakeAccessLevelStore struct {
	levels    map[string]*model.AccessLevel
	byCreator map[string][]*model.AccessLevel
}

func (s *fakeAccessLevelStore) GetByID(_ context.Context, id string) (*model.AccessLevel, error) {
	if l, ok := s.levels[id]; ok {
		return l, nil
	}
	return nil, repository.ErrAccessLevelNotFound
}

func (s *fakeAccessLevelStore) ListByCreator(_ context.Context, creator string) ([]*model.AccessLevel, error) {
	return s.byCreator[creator], nil
}

type fakeBalanceStore struct {
	balances map[string]*model.UserBalance
}

func (s *fakeBalanceStore) GetByOwnerID(_ context.Context, ownerID string) (*model.UserBalance, error) {
	if b, ok := s.balances[ownerID]; ok {
		return b, nil
	}
	return nil, repository.ErrBalanceNotFound
}

type fakeHoldsStore struct {
	sums map[string]float64
}

func (s *fakeHoldsStore) SumByUserAndCurrency(_ context.Context, userID, currency string) (float64, error) {
	return s.sums[userID+":"+currency], nil
}

type fakeApprovalStore struct {
	approvals   map[string]*model.BookingApproval
	createCalls int
	createErr   error
}

func newFakeApprovalStore(approvals ...*model.BookingApproval) *fakeApprovalStore {
	s := &fakeApprovalStore{approvals: make(map[string]*model.BookingApproval)}
	for _, a := range approvals {
		s.approvals[a.ID] = a
	}
	return s
}

func (s *fakeApprovalStore) Create(_ context.Context, _ *gorm.DB, approval *model.BookingApproval) error {
	s.createCalls++
	if s.createErr != nil {
		return s.createErr
	}
	s.approvals[approval.ID] = approval
	return nil
}

func (s *fakeApprovalStore) GetByID(_ context.Context, id string) (*model.BookingApproval, error) {
	if a, ok := s.approvals[id]; ok {
		return a, nil
	}
	return nil, repository.ErrApprovalNotFound
}

func (s *fakeApprovalStore) UpdateStatus(_ context.Context, id string, status int, approvedBy string) error {
	a, ok := s.approvals[id]
	if !ok {
		return repository.ErrApprovalNotFound
	}
	a.Status = status
	a.ApprovedBy = approvedBy
	return nil
}

type fakeOutboxStore struct {
	messages []*model.OutboxMessage
	err      error
}

func (s *fakeOutboxStore) Create(_ context.Context, _ *gorm.DB, msg *model.OutboxMessage) error {
	if s.err != nil {
		return s.err
	}
	s.messages = append(s.messages, msg)
	return nil
}

type fakeTokenProvider struct {
	token string
	err   error
	calls int
}

func (s *fakeTokenProvider) GetToken(_ context.Context) (string, error) {
	s.calls++
	return s.token, s.err
}

type fakeVendor struct {
	createResp  *vendorapi.CreateTransactionResponse
	createErr   error
	createCalls int
	cancelResp  json.RawMessage
	cancelErr   error
	cancelCalls int
}

func (v *fakeVendor) CreateTransaction(_ context.Context, _ string, _ *vendorapi.CreateTransactionRequest) (*vendorapi.CreateTransactionResponse, error) {
	v.createCalls++
	return v.createResp, v.createErr
}

func (v *fakeVendor) CancelTransaction(_ context.Context, _, _ string) (json.RawMessage, error) {
	v.cancelCalls++
	return v.cancelResp, v.cancelErr
}

type fakeApprovalGate struct {
	validateErr   error
	validateCalls int
	dispatch      *ApprovalDispatchResult
	dispatchErr   error
	dispatchCalls int
}

func (g *fakeApprovalGate) ValidateBookingApproval(_ context.Context, _, _ string, _ *model.User) error {
	g.validateCalls++
	return g.validateErr
}

func (g *fakeApprovalGate) CreateApprovalRequest(_ context.Context, _ *model.User, _ string, _ *ApprovalRequestInput) (*ApprovalDispatchResult, error) {
	g.dispatchCalls++
	return g.dispatch, g.dispatchErr
}

type fakeBalanceGate struct {
	ownerID       string
	resolveErr    error
	validateErr   error
	validateCalls int
}

func (g *fakeBalanceGate) ResolveWalletOwner(_ context.Context, user *model.User) (string, error) {
	if g.ownerID == "" {
		return user.ID, g.resolveErr
	}
	return g.ownerID, g.resolveErr
}

func (g *fakeBalanceGate) ValidateBalance(_ context.Context, _ *model.User, _ float64) error {
	g.validateCalls++
	return g.validateErr
}

type fakeLedger struct {
	entries      map[string]*model.LedgerEntry
	commitErr    error
	commitCalls  int
	lastDebitFor string
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{entries: make(map[string]*model.LedgerEntry)}
}

func (l *fakeLedger) Commit(_ context.Context, entry *model.LedgerEntry, debitOwnerID string) error {
	l.commitCalls++
	l.lastDebitFor = debitOwnerID
	if l.commitErr != nil {
		return l.commitErr
	}
	l.entries[entry.TransactionID] = entry
	return nil
}

func (l *fakeLedger) GetByTransactionID(_ context.Context, id string) (*model.LedgerEntry, error) {
	if e, ok := l.entries[id]; ok {
		return e, nil
	}
	return nil, repository.ErrLedgerEntryNotFound
}

type fakeConverter struct {
	calls int
}

func (c *fakeConverter) ConvertBookingResponse(_ context.Context, _ *vendorapi.CreateTransactionResponse, _ string) {
	c.calls++
}

type fakeLocker struct {
	acquireCalls int
	releaseCalls int
	err          error
}

func (l *fakeLocker) Acquire(_ context.Context, _, _ string) (func(), error) {
	l.acquireCalls++
	if l.err != nil {
		return nil, l.err
	}
	return func() { l.releaseCalls++ }, nil
}

// fakeRateSource 固定汇率的汇率源
type fakeRateSource struct {
	rate  float64
	err   error
	calls int
}

func (s *fakeRateSource) GetRate(_ context.Context, _, _ string) (float64, error) {
	s.calls++
	return s.rate, s.err
}

var errFakeFailure = errors.New("fake failure")
