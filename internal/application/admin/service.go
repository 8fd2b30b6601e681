package admin

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sikacredit/ussd-api/internal/domain"
)

// Profile bundles an identity with its recent loans and audit entries,
// most-recent-first.
type Profile struct {
	Identity   *domain.Identity  `json:"identity"`
	Loans      []domain.Loan     `json:"loans"`
	Activities []domain.Activity `json:"activities"`
}

const (
	profileLoanLimit     = 5
	profileActivityLimit = 10
)

// Service is the administrative side-channel: identity approval and
// suspension, loan decisions, and profile reads.
type Service interface {
	ApproveIdentity(ctx context.Context, identityID string) (*domain.Identity, error)
	SuspendIdentity(ctx context.Context, identityID string) (*domain.Identity, error)
	DecideLoan(ctx context.Context, loanID, decision string) (*domain.Loan, error)
	Profile(ctx context.Context, identityID string) (*Profile, error)
}

type identityStore interface {
	Get(ctx context.Context, identityID string) (*domain.Identity, error)
	Update(ctx context.Context, identityID string, updates map[string]interface{}) error
}

type loanStore interface {
	Get(ctx context.Context, loanID string) (*domain.Loan, error)
	Update(ctx context.Context, loanID string, updates map[string]interface{}) error
	ListByIdentity(ctx context.Context, identityID string, limit int32) ([]domain.Loan, error)
}

type activityStore interface {
	Append(ctx context.Context, subjectID, action, details string) error
	ListBySubject(ctx context.Context, subjectID string, limit int32) ([]domain.Activity, error)
}

type service struct {
	identities identityStore
	loans      loanStore
	activities activityStore
}

func NewService(identities identityStore, loans loanStore, activities activityStore) Service {
	return &service{identities: identities, loans: loans, activities: activities}
}

// ApproveIdentity moves an unverified identity to verified and stamps the
// verification time. Approving a verified or suspended identity is a conflict.
func (s *service) ApproveIdentity(ctx context.Context, identityID string) (*domain.Identity, error) {
	ident, err := s.identities.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if ident.Status != domain.IdentityUnverified {
		return nil, fmt.Errorf("identity is %s: %w", ident.Status, domain.ErrConflict)
	}
	now := time.Now().UTC()
	err = s.identities.Update(ctx, identityID, map[string]interface{}{
		"status":      domain.IdentityVerified,
		"verified_at": now.Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}
	ident.Status = domain.IdentityVerified
	ident.VerifiedAt = &now
	s.logActivity(identityID, "approve", "identity verified")
	return ident, nil
}

// SuspendIdentity moves any identity to suspended.
func (s *service) SuspendIdentity(ctx context.Context, identityID string) (*domain.Identity, error) {
	ident, err := s.identities.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}
	if ident.Status == domain.IdentitySuspended {
		return nil, fmt.Errorf("identity already suspended: %w", domain.ErrConflict)
	}
	err = s.identities.Update(ctx, identityID, map[string]interface{}{
		"status": domain.IdentitySuspended,
	})
	if err != nil {
		return nil, err
	}
	ident.Status = domain.IdentitySuspended
	s.logActivity(identityID, "suspend", "identity suspended")
	return ident, nil
}

// DecideLoan settles or rejects a pending loan. Any other transition is a
// conflict; any other decision string is a bad request.
func (s *service) DecideLoan(ctx context.Context, loanID, decision string) (*domain.Loan, error) {
	if decision != domain.LoanSettled && decision != domain.LoanRejected {
		return nil, fmt.Errorf("decision must be %q or %q: %w", domain.LoanSettled, domain.LoanRejected, domain.ErrBadRequest)
	}
	loan, err := s.loans.Get(ctx, loanID)
	if err != nil {
		return nil, err
	}
	if loan.Status != domain.LoanPending {
		return nil, fmt.Errorf("loan is %s: %w", loan.Status, domain.ErrConflict)
	}
	if err := s.loans.Update(ctx, loanID, map[string]interface{}{"status": decision}); err != nil {
		return nil, err
	}
	loan.Status = decision
	s.logActivity(loan.IdentityID, "loan_"+decision, "loan "+loanID+" "+decision)
	return loan, nil
}

// Profile returns the identity with its last loans and audit entries.
func (s *service) Profile(ctx context.Context, identityID string) (*Profile, error) {
	ident, err := s.identities.Get(ctx, identityID)
	if err != nil {
		return nil, err
	}
	loans, err := s.loans.ListByIdentity(ctx, identityID, profileLoanLimit)
	if err != nil {
		return nil, err
	}
	activities, err := s.activities.ListBySubject(ctx, identityID, profileActivityLimit)
	if err != nil {
		return nil, err
	}
	return &Profile{Identity: ident, Loans: loans, Activities: activities}, nil
}

// logActivity appends an audit entry best-effort; failures are logged and
// never fail the administrative operation.
func (s *service) logActivity(subjectID, action, details string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.activities.Append(ctx, subjectID, action, details); err != nil {
		slog.Warn("activity append failed", "subject", subjectID, "action", action, "err", err)
	}
}
