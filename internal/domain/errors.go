package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// The dialog engine and admin service wrap these so callers can map to the
// retry/terminate taxonomy (or HTTP status codes) without leaking
// infrastructure details.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrBadRequest   = errors.New("bad request")
)

// RoleAdmin is the operator role required by the administrative side-channel.
const RoleAdmin = "admin"
