package responder

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAccountNotFound is returned when the backend has no record for an
// identity or transfer.
var ErrAccountNotFound = errors.New("account not found")

// Profile is a customer's account profile.
type Profile struct {
	Identity          string
	Name              string
	Email             string
	AccountType       string // "personal" or "business"
	AccountStatus     string // "active" or "blocked"
	VerificationLevel string // "basic" or "full"
}

// Transaction is one ledger entry.
type Transaction struct {
	ID       string
	Type     string // "payment_received", "pix_sent", ...
	Amount   float64
	Currency string
	Status   string
	Created  time.Time
}

// AccountStatus captures limits and restrictions for an account.
type AccountStatus struct {
	Status         string
	CanSend        bool
	DailySendLimit float64
	UsedToday      float64
	Currency       string
	Restrictions   []string
}

// TransferDiagnosis explains why a transfer is stuck or failed.
type TransferDiagnosis struct {
	TransferID      string
	Status          string
	IssueType       string
	Description     string
	Recommendations []string
}

// AccountAPI is the delegated account-data capability the support responder
// consults. In production this fronts the operator's backend; StaticAccounts
// provides canned data for tests and demos.
type AccountAPI interface {
	Profile(ctx context.Context, identity string) (*Profile, error)
	RecentTransactions(ctx context.Context, identity string, limit int) ([]Transaction, error)
	Status(ctx context.Context, identity string) (*AccountStatus, error)
	TroubleshootTransfer(ctx context.Context, transferID string) (*TransferDiagnosis, error)
}

// StaticAccounts is an in-memory AccountAPI with canned demo data. Safe for
// concurrent use.
type StaticAccounts struct {
	mu           sync.RWMutex
	profiles     map[string]*Profile
	transactions map[string][]Transaction
	statuses     map[string]*AccountStatus
	transfers    map[string]*TransferDiagnosis
}

var _ AccountAPI = (*StaticAccounts)(nil)

// NewStaticAccounts constructs a demo backend with a small fixture set.
func NewStaticAccounts() *StaticAccounts {
	now := time.Now()
	return &StaticAccounts{
		profiles: map[string]*Profile{
			"user_test": {
				Identity: "user_test", Name: "Maria Santos", Email: "maria.santos@example.com",
				AccountType: "personal", AccountStatus: "active", VerificationLevel: "basic",
			},
			"user_blocked": {
				Identity: "user_blocked", Name: "Joao Silva", Email: "joao.silva@example.com",
				AccountType: "personal", AccountStatus: "blocked", VerificationLevel: "basic",
			},
		},
		transactions: map[string][]Transaction{
			"user_test": {
				{ID: "tx_test_001", Type: "payment_received", Amount: 1250.00, Currency: "BRL", Status: "completed", Created: now.Add(-24 * time.Hour)},
				{ID: "tx_test_002", Type: "pix_sent", Amount: 500.00, Currency: "BRL", Status: "completed", Created: now.Add(-72 * time.Hour)},
			},
		},
		statuses: map[string]*AccountStatus{
			"user_test": {
				Status: "active", CanSend: true, DailySendLimit: 1000.00, UsedToday: 200.00,
				Currency: "BRL", Restrictions: []string{"needs_verification_for_higher_limits"},
			},
			"user_blocked": {
				Status: "blocked", CanSend: false, DailySendLimit: 0, UsedToday: 0,
				Currency: "BRL", Restrictions: []string{"account_blocked"},
			},
		},
		transfers: map[string]*TransferDiagnosis{
			"tx_test_failed_001": {
				TransferID: "tx_test_failed_001", Status: "failed", IssueType: "daily_limit_exceeded",
				Description: "Transfer would exceed the daily send limit.",
				Recommendations: []string{
					"Wait until tomorrow to retry",
					"Request a limit increase in account settings",
				},
			},
		},
	}
}

// Profile implements AccountAPI.
func (s *StaticAccounts) Profile(_ context.Context, identity string) (*Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[identity]
	if !ok {
		return nil, ErrAccountNotFound
	}
	clone := *p
	return &clone, nil
}

// RecentTransactions implements AccountAPI.
func (s *StaticAccounts) RecentTransactions(_ context.Context, identity string, limit int) ([]Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txs := s.transactions[identity]
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return append([]Transaction(nil), txs...), nil
}

// Status implements AccountAPI.
func (s *StaticAccounts) Status(_ context.Context, identity string) (*AccountStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.statuses[identity]
	if !ok {
		return nil, ErrAccountNotFound
	}
	clone := *st
	clone.Restrictions = append([]string(nil), st.Restrictions...)
	return &clone, nil
}

// TroubleshootTransfer implements AccountAPI.
func (s *StaticAccounts) TroubleshootTransfer(_ context.Context, transferID string) (*TransferDiagnosis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.transfers[transferID]
	if !ok {
		return nil, ErrAccountNotFound
	}
	clone := *d
	clone.Recommendations = append([]string(nil), d.Recommendations...)
	return &clone, nil
}
