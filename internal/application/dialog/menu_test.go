package dialog

import (
	"context"
	"testing"

	"github.com/sikacredit/ussd-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// seedHome plants an authenticated home-menu session for id1.
func seedHome(d *engineDeps) {
	d.store.Put(testToken, []domain.DialogState{{
		Level:      domain.LevelHome,
		Message:    homeMenu("Kwame Mensah"),
		IdentityID: "id1",
	}})
}

func TestMenu_LoanStatus_NoLoans(t *testing.T) {
	svc, d := newEngine(t, nil)
	seedHome(d)
	d.loans.On("LatestByIdentity", mock.Anything, "id1").Return(nil, domain.ErrNotFound)

	resp := svc.Handle(context.Background(), ussdReq("2", false))

	assert.Equal(t, msgNoLoans, resp.Message)
	assert.False(t, resp.ContinueSession)
	_, ok := d.store.Get(testToken)
	assert.False(t, ok)
}

func TestMenu_LoanStatus_ShowsLatest(t *testing.T) {
	svc, d := newEngine(t, nil)
	seedHome(d)
	d.loans.On("LatestByIdentity", mock.Anything, "id1").Return(&domain.Loan{
		LoanID: "l1", IdentityID: "id1", Amount: 200, Status: domain.LoanPending,
	}, nil)

	resp := svc.Handle(context.Background(), ussdReq("2", false))

	assert.Equal(t, "Your last loan of GHS 200 is pending.", resp.Message)
	assert.False(t, resp.ContinueSession)
}

func TestMenu_AccountSummary(t *testing.T) {
	svc, d := newEngine(t, nil)
	seedHome(d)
	d.identities.On("Get", mock.Anything, "id1").Return(testIdentity(domain.IdentityVerified), nil)

	resp := svc.Handle(context.Background(), ussdReq("3", false))

	assert.False(t, resp.ContinueSession)
	assert.Contains(t, resp.Message, "Account for Kwame Mensah")
	assert.Contains(t, resp.Message, "Status: verified")
}

func TestMenu_Help(t *testing.T) {
	svc, d := newEngine(t, nil)
	seedHome(d)

	resp := svc.Handle(context.Background(), ussdReq("5", false))

	assert.Equal(t, msgHelp, resp.Message)
	assert.False(t, resp.ContinueSession)
}

func TestMenu_UnrecognisedOption_TerminatesNeutral(t *testing.T) {
	svc, d := newEngine(t, nil)
	seedHome(d)

	resp := svc.Handle(context.Background(), ussdReq("7", false))

	assert.Equal(t, msgInvalidSelection, resp.Message)
	assert.False(t, resp.ContinueSession)
	_, ok := d.store.Get(testToken)
	assert.False(t, ok)
}

func TestMenu_ApplyWhileSuspended_Terminates(t *testing.T) {
	svc, d := newEngine(t, nil)
	seedHome(d)
	d.identities.On("Get", mock.Anything, "id1").Return(testIdentity(domain.IdentitySuspended), nil)

	resp := svc.Handle(context.Background(), ussdReq("1", false))

	assert.Equal(t, msgSuspended, resp.Message)
	assert.False(t, resp.ContinueSession)
}

func TestMenu_ApplyWhileUnverified_Terminates(t *testing.T) {
	svc, d := newEngine(t, nil)
	seedHome(d)
	d.identities.On("Get", mock.Anything, "id1").Return(testIdentity(domain.IdentityUnverified), nil)

	resp := svc.Handle(context.Background(), ussdReq("1", false))

	assert.Equal(t, msgAwaitingApproval, resp.Message)
	assert.False(t, resp.ContinueSession)
}

func TestMenu_Lookup_InvalidCard_Retries(t *testing.T) {
	svc, d := newEngine(t, nil)
	seedHome(d)

	resp := svc.Handle(context.Background(), ussdReq("4", false))
	require.Equal(t, lookupPrompt, resp.Message)
	require.Equal(t, 2, depth(t, d.store, testToken))

	resp = svc.Handle(context.Background(), ussdReq("not-a-card", false))

	assert.True(t, resp.ContinueSession)
	assert.Contains(t, resp.Message, "That ID number is invalid")
	assert.Equal(t, 2, depth(t, d.store, testToken))
}

func TestMenu_Lookup_Miss(t *testing.T) {
	svc, d := newEngine(t, nil)
	seedHome(d)
	d.identities.On("GetByCardNumber", mock.Anything, "GHA-999999999-99").Return(nil, domain.ErrNotFound)

	svc.Handle(context.Background(), ussdReq("4", false))
	resp := svc.Handle(context.Background(), ussdReq("gha-999999999-99", false))

	assert.Equal(t, "No record found for GHA-999999999-99.", resp.Message)
	assert.False(t, resp.ContinueSession)
}

func TestMenu_Lookup_BackReturnsToMenu(t *testing.T) {
	svc, d := newEngine(t, nil)
	seedHome(d)

	svc.Handle(context.Background(), ussdReq("4", false))
	resp := svc.Handle(context.Background(), ussdReq("9", false))

	assert.True(t, resp.ContinueSession)
	assert.Equal(t, homeMenu("Kwame Mensah"), resp.Message)
	assert.Equal(t, 1, depth(t, d.store, testToken))
}
