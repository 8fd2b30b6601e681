package domain

import "time"

// Activity is an append-only audit entry. Entries are never mutated or
// deleted; writers treat the append as best-effort.
type Activity struct {
	ActivityID string    `json:"id" dynamodbav:"activity_id"`
	SubjectID  string    `json:"subject_id" dynamodbav:"subject_id"`
	Action     string    `json:"action" dynamodbav:"action"`
	Details    string    `json:"details" dynamodbav:"details"`
	CreatedAt  time.Time `json:"created" dynamodbav:"created_at"`
}
