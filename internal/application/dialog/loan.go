package dialog

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sikacredit/ussd-api/internal/domain"
	"github.com/sikacredit/ussd-api/internal/pkg/id"
)

// Repayment terms offered by the term step, keyed by menu selection.
var loanTerms = map[string]int{"1": 1, "2": 3, "3": 6}

// handleLoan advances one step of the loan application flow.
func (s *service) handleLoan(ctx context.Context, token string, stack []domain.DialogState, input string) (string, bool) {
	top := stack[len(stack)-1]

	switch top.Level {
	case domain.LevelLoanAmount:
		amount, err := strconv.Atoi(input)
		if err != nil || amount < s.loanMin || amount > s.loanMax {
			return s.retry(token, stack, amountRangeError(s.loanMin, s.loanMax))
		}
		draft := top.Loan
		draft.Amount = amount
		next := domain.DialogState{
			Level:      domain.LevelLoanTerm,
			Message:    termPrompt,
			Loan:       draft,
			IdentityID: top.IdentityID,
		}
		return s.advance(token, stack, next)

	case domain.LevelLoanTerm:
		term, ok := loanTerms[input]
		if !ok {
			return s.retry(token, stack, "Please choose 1, 2 or 3.\n"+termPrompt)
		}
		draft := top.Loan
		draft.TermMonths = term
		next := domain.DialogState{
			Level:      domain.LevelLoanConfirm,
			Message:    confirmPrompt(draft.Amount, draft.TermMonths),
			Loan:       draft,
			IdentityID: top.IdentityID,
		}
		return s.advance(token, stack, next)

	case domain.LevelLoanConfirm:
		switch input {
		case "1":
			return s.createLoan(ctx, token, top)
		case "2":
			return s.finish(token, msgLoanCancelled)
		default:
			return s.retry(token, stack, "Please choose 1 to confirm or 2 to cancel.\n"+confirmPrompt(top.Loan.Amount, top.Loan.TermMonths))
		}
	}
	return s.finish(token, msgInvalidSelection)
}

// createLoan is the loan flow's terminal step. The caller's identity is
// re-read here so a suspension applied mid-dialog still blocks the write.
func (s *service) createLoan(ctx context.Context, token string, top domain.DialogState) (string, bool) {
	ident, err := s.getIdentity(ctx, top.IdentityID)
	if err != nil {
		return s.fail(token, "create loan", err)
	}
	if ident.Status != domain.IdentityVerified {
		return s.fail(token, "create loan", fmt.Errorf("identity %s is %s: %w", ident.IdentityID, ident.Status, domain.ErrForbidden))
	}

	now := time.Now().UTC()
	loan := &domain.Loan{
		LoanID:     id.New(),
		IdentityID: ident.IdentityID,
		Amount:     top.Loan.Amount,
		TermMonths: top.Loan.TermMonths,
		Status:     domain.LoanPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	rctx, cancel := s.repoCtx(ctx)
	err = s.loans.Put(rctx, loan)
	cancel()
	if err != nil {
		return s.fail(token, "create loan", err)
	}

	s.logActivity(ident.IdentityID, "loan_request", fmt.Sprintf("requested GHS %d over %d month(s)", loan.Amount, loan.TermMonths))
	s.notifySMS(ident.Phone, fmt.Sprintf("SikaCredit: your loan request of GHS %d is pending review.", loan.Amount))

	return s.finish(token, loanSubmitted(loan.Amount))
}
