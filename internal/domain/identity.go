package domain

import "time"

// Identity status lifecycle. A record is created unverified; an administrative
// approval moves it to verified, a suspension to suspended.
const (
	IdentityUnverified = "unverified"
	IdentityVerified   = "verified"
	IdentitySuspended  = "suspended"
)

// Identity is a registered subscriber, uniquely keyed by canonical MSISDN and
// by each of the secondary unique fields (username, email, card number,
// license number) that the deployment's registration schema captures.
type Identity struct {
	IdentityID   string     `json:"id" dynamodbav:"identity_id"`
	Phone        string     `json:"phone" dynamodbav:"phone"`
	Name         string     `json:"name" dynamodbav:"name"`
	Username     string     `json:"username,omitempty" dynamodbav:"username,omitempty"`
	Email        string     `json:"email,omitempty" dynamodbav:"email,omitempty"`
	PasswordHash string     `json:"-" dynamodbav:"password_hash,omitempty"`
	CardNumber   string     `json:"card_number,omitempty" dynamodbav:"card_number,omitempty"`
	License      string     `json:"license,omitempty" dynamodbav:"license,omitempty"`
	Status       string     `json:"status" dynamodbav:"status"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty" dynamodbav:"verified_at,omitempty"`
	CreatedAt    time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt    time.Time  `json:"updated" dynamodbav:"updated_at"`
}
