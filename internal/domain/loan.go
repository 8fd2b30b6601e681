package domain

import "time"

// Loan status lifecycle: pending until an administrative decision settles or
// rejects it.
const (
	LoanPending  = "pending"
	LoanSettled  = "settled"
	LoanRejected = "rejected"
)

// Loan is a single monetary request tied to an identity. Amount is bounded to
// the deployment's configured range at capture time.
type Loan struct {
	LoanID     string    `json:"id" dynamodbav:"loan_id"`
	IdentityID string    `json:"identity_id" dynamodbav:"identity_id"`
	Amount     int       `json:"amount" dynamodbav:"amount"`
	TermMonths int       `json:"term_months" dynamodbav:"term_months"`
	Status     string    `json:"status" dynamodbav:"status"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt  time.Time `json:"updated" dynamodbav:"updated_at"`
}
