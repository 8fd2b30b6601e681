package domain

// Level identifies one step/prompt within a flow. Levels are grouped by
// range: 0 is the authenticated home menu, 100+ the registration steps,
// 200+ the loan application steps, 300+ the lookup steps.
type Level int

const (
	LevelHome Level = 0

	// Registration steps are LevelRegistration + index into the deployment's
	// field schema.
	LevelRegistration Level = 100

	LevelLoanAmount  Level = 200
	LevelLoanTerm    Level = 201
	LevelLoanConfirm Level = 202

	LevelLookupCard Level = 300
)

// RegistrationFlow reports whether l is one of the registration field steps.
func (l Level) RegistrationFlow() bool { return l >= LevelRegistration && l < LevelLoanAmount }

// LoanFlow reports whether l is one of the loan application steps.
func (l Level) LoanFlow() bool { return l >= LevelLoanAmount && l < LevelLookupCard }

// RegistrationData carries the fields accumulated by the registration steps.
// Every state in the flow holds the full set captured by its ancestors, so
// the terminal step can create the record from the top of the stack alone.
type RegistrationData struct {
	Name       string
	Username   string
	Email      string
	Password   string
	CardNumber string
	License    string
}

// LoanDraft carries the fields accumulated by the loan application steps.
type LoanDraft struct {
	Amount     int
	TermMonths int
}

// DialogState is one entry of a session's dialog stack. Level tags which
// flow and step the entry belongs to; Message is the prompt last shown at
// this step, re-rendered verbatim when the user navigates back to it.
type DialogState struct {
	Level   Level
	Message string
	Reg     RegistrationData
	Loan    LoanDraft

	// IdentityID is set on authenticated states so menu sub-flows do not
	// re-resolve the caller on every step.
	IdentityID string
}

// USSDRequest is the inbound gateway callback payload.
type USSDRequest struct {
	SessionID  string `json:"sessionID" validate:"required"`
	UserID     string `json:"userID"`
	NewSession bool   `json:"newSession"`
	MSISDN     string `json:"msisdn" validate:"required"`
	UserData   string `json:"userData"`
}

// USSDResponse is the outbound gateway payload. ContinueSession false tells
// the gateway to close the session after showing Message.
type USSDResponse struct {
	SessionID       string `json:"sessionID"`
	UserID          string `json:"userID"`
	Message         string `json:"message"`
	ContinueSession bool   `json:"continueSession"`
	MSISDN          string `json:"msisdn"`
}
