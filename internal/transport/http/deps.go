package http

import (
	"github.com/sikacredit/ussd-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/sikacredit/ussd-api/internal/infrastructure/jwt"
	"github.com/sikacredit/ussd-api/internal/infrastructure/smtp"
	"github.com/sikacredit/ussd-api/internal/infrastructure/sns"
	"github.com/sikacredit/ussd-api/internal/session"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	Sessions     *session.Store
	IdentityRepo *dynamo.IdentityRepo
	LoanRepo     *dynamo.LoanRepo
	ActivityRepo *dynamo.ActivityRepo
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	JWTProvider  *jwtinfra.Provider
}
