package dialog

import (
	"context"
	"errors"
	"strings"

	"github.com/sikacredit/ussd-api/internal/domain"
	"github.com/sikacredit/ussd-api/internal/pkg/validate"
)

// handleMenu resolves one selection from the authenticated home menu.
// Selections that resolve immediately are terminate-neutral; selections that
// open a sub-flow push its first level.
func (s *service) handleMenu(ctx context.Context, token string, stack []domain.DialogState, input string) (string, bool) {
	top := stack[len(stack)-1]

	switch input {
	case "1":
		ident, err := s.getIdentity(ctx, top.IdentityID)
		if err != nil {
			return s.fail(token, "loan eligibility", err)
		}
		switch ident.Status {
		case domain.IdentitySuspended:
			return s.finish(token, msgSuspended)
		case domain.IdentityUnverified:
			return s.finish(token, msgAwaitingApproval)
		}
		next := domain.DialogState{
			Level:      domain.LevelLoanAmount,
			Message:    amountPrompt(s.loanMin, s.loanMax),
			IdentityID: top.IdentityID,
		}
		return s.advance(token, stack, next)

	case "2":
		rctx, cancel := s.repoCtx(ctx)
		loan, err := s.loans.LatestByIdentity(rctx, top.IdentityID)
		cancel()
		if errors.Is(err, domain.ErrNotFound) {
			return s.finish(token, msgNoLoans)
		}
		if err != nil {
			return s.fail(token, "loan status", err)
		}
		return s.finish(token, loanStatus(loan))

	case "3":
		ident, err := s.getIdentity(ctx, top.IdentityID)
		if err != nil {
			return s.fail(token, "account summary", err)
		}
		return s.finish(token, accountSummary(ident))

	case "4":
		next := domain.DialogState{
			Level:      domain.LevelLookupCard,
			Message:    lookupPrompt,
			IdentityID: top.IdentityID,
		}
		return s.advance(token, stack, next)

	case "5":
		return s.finish(token, msgHelp)

	default:
		return s.finish(token, msgInvalidSelection)
	}
}

// handleLookup resolves the ID-lookup sub-flow's single step.
func (s *service) handleLookup(ctx context.Context, token string, stack []domain.DialogState, input string) (string, bool) {
	if !validate.CardNumber(input) {
		spec := fieldSpecs[FieldCard]
		return s.retry(token, stack, spec.invalid+"\n"+lookupPrompt)
	}
	card := strings.ToUpper(strings.TrimSpace(input))

	rctx, cancel := s.repoCtx(ctx)
	ident, err := s.identities.GetByCardNumber(rctx, card)
	cancel()
	if errors.Is(err, domain.ErrNotFound) {
		return s.finish(token, lookupMiss(card))
	}
	if err != nil {
		return s.fail(token, "card lookup", err)
	}
	return s.finish(token, lookupSummary(ident))
}

func (s *service) getIdentity(ctx context.Context, identityID string) (*domain.Identity, error) {
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()
	return s.identities.Get(rctx, identityID)
}
