package dialog

import (
	"context"
	"testing"

	"github.com/sikacredit/ussd-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// openLoanFlow seeds an authenticated menu and selects the loan option for a
// verified caller.
func openLoanFlow(t *testing.T, svc Service, d *engineDeps) {
	t.Helper()
	seedHome(d)
	d.identities.On("Get", mock.Anything, "id1").Return(testIdentity(domain.IdentityVerified), nil)

	resp := svc.Handle(context.Background(), ussdReq("1", false))
	require.Equal(t, "Enter loan amount (GHS 10-1000):", resp.Message)
	require.Equal(t, 2, depth(t, d.store, testToken))
}

func TestLoan_AmountBelowRange_Retries(t *testing.T) {
	svc, d := newEngine(t, nil)
	openLoanFlow(t, svc, d)

	resp := svc.Handle(context.Background(), ussdReq("5", false))

	assert.True(t, resp.ContinueSession)
	assert.Contains(t, resp.Message, "Amount must be between 10 and 1000")
	assert.Equal(t, 2, depth(t, d.store, testToken))
}

func TestLoan_AmountNotNumeric_Retries(t *testing.T) {
	svc, d := newEngine(t, nil)
	openLoanFlow(t, svc, d)

	resp := svc.Handle(context.Background(), ussdReq("lots", false))

	assert.True(t, resp.ContinueSession)
	assert.Contains(t, resp.Message, "Amount must be between")
	assert.Equal(t, 2, depth(t, d.store, testToken))
}

func TestLoan_TermInvalid_Retries(t *testing.T) {
	svc, d := newEngine(t, nil)
	openLoanFlow(t, svc, d)

	svc.Handle(context.Background(), ussdReq("250", false))
	resp := svc.Handle(context.Background(), ussdReq("4", false))

	assert.True(t, resp.ContinueSession)
	assert.Contains(t, resp.Message, "Please choose 1, 2 or 3.")
	assert.Equal(t, 3, depth(t, d.store, testToken))
}

func TestLoan_FullFlow_Confirm(t *testing.T) {
	svc, d := newEngine(t, nil)
	openLoanFlow(t, svc, d)

	var created *domain.Loan
	d.loans.On("Put", mock.Anything, mock.AnythingOfType("*domain.Loan")).Run(func(args mock.Arguments) {
		created = args.Get(1).(*domain.Loan)
	}).Return(nil).Once()

	resp := svc.Handle(context.Background(), ussdReq("250", false))
	require.Equal(t, termPrompt, resp.Message)

	resp = svc.Handle(context.Background(), ussdReq("2", false))
	require.Equal(t, "Request GHS 250 for 3 month(s)?\n1. Confirm\n2. Cancel", resp.Message)

	resp = svc.Handle(context.Background(), ussdReq("1", false))

	assert.Equal(t, loanSubmitted(250), resp.Message)
	assert.False(t, resp.ContinueSession)
	_, ok := d.store.Get(testToken)
	assert.False(t, ok)

	require.NotNil(t, created)
	assert.NotEmpty(t, created.LoanID)
	assert.Equal(t, "id1", created.IdentityID)
	assert.Equal(t, 250, created.Amount)
	assert.Equal(t, 3, created.TermMonths)
	assert.Equal(t, domain.LoanPending, created.Status)
	d.loans.AssertExpectations(t)
}

func TestLoan_Cancel_TerminatesNeutral(t *testing.T) {
	svc, d := newEngine(t, nil)
	openLoanFlow(t, svc, d)

	svc.Handle(context.Background(), ussdReq("250", false))
	svc.Handle(context.Background(), ussdReq("1", false))
	resp := svc.Handle(context.Background(), ussdReq("2", false))

	assert.Equal(t, msgLoanCancelled, resp.Message)
	assert.False(t, resp.ContinueSession)
	d.loans.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestLoan_ConfirmInvalidInput_Retries(t *testing.T) {
	svc, d := newEngine(t, nil)
	openLoanFlow(t, svc, d)

	svc.Handle(context.Background(), ussdReq("250", false))
	svc.Handle(context.Background(), ussdReq("3", false))
	resp := svc.Handle(context.Background(), ussdReq("5", false))

	assert.True(t, resp.ContinueSession)
	assert.Contains(t, resp.Message, "Please choose 1 to confirm or 2 to cancel.")
	assert.Equal(t, 4, depth(t, d.store, testToken))
}

func TestLoan_SuspendedMidFlow_BlocksCreation(t *testing.T) {
	svc, d := newEngine(t, nil)
	seedHome(d)
	// Verified when the flow opens, suspended by the time it is confirmed.
	d.identities.On("Get", mock.Anything, "id1").Return(testIdentity(domain.IdentityVerified), nil).Once()
	d.identities.On("Get", mock.Anything, "id1").Return(testIdentity(domain.IdentitySuspended), nil).Once()

	svc.Handle(context.Background(), ussdReq("1", false))
	svc.Handle(context.Background(), ussdReq("250", false))
	svc.Handle(context.Background(), ussdReq("1", false))
	resp := svc.Handle(context.Background(), ussdReq("1", false))

	assert.Equal(t, msgUnavailable, resp.Message)
	assert.False(t, resp.ContinueSession)
	d.loans.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestLoan_PutError_TerminatesWithFailure(t *testing.T) {
	svc, d := newEngine(t, nil)
	openLoanFlow(t, svc, d)
	d.loans.On("Put", mock.Anything, mock.Anything).Return(assert.AnError)

	svc.Handle(context.Background(), ussdReq("250", false))
	svc.Handle(context.Background(), ussdReq("1", false))
	resp := svc.Handle(context.Background(), ussdReq("1", false))

	assert.Equal(t, msgUnavailable, resp.Message)
	assert.False(t, resp.ContinueSession)
	_, ok := d.store.Get(testToken)
	assert.False(t, ok)
}

func TestLoan_BackFromTerm_ReturnsToAmountPrompt(t *testing.T) {
	svc, d := newEngine(t, nil)
	openLoanFlow(t, svc, d)

	svc.Handle(context.Background(), ussdReq("250", false))
	resp := svc.Handle(context.Background(), ussdReq("9", false))

	assert.True(t, resp.ContinueSession)
	assert.Equal(t, "Enter loan amount (GHS 10-1000):", resp.Message)
	assert.Equal(t, 2, depth(t, d.store, testToken))
}
