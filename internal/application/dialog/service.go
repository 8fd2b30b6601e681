package dialog

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/sikacredit/ussd-api/internal/domain"
	"github.com/sikacredit/ussd-api/internal/infrastructure/smtp"
	"github.com/sikacredit/ussd-api/internal/infrastructure/sns"
	"github.com/sikacredit/ussd-api/internal/pkg/validate"
)

// Universal navigation keys, interpreted before any level-specific logic.
const (
	keyHome = "0"
	keyBack = "9"
)

// Service is the dialog engine: it advances a session's dialog stack by one
// transition per inbound request and renders the next prompt.
type Service interface {
	Handle(ctx context.Context, req domain.USSDRequest) domain.USSDResponse
}

type sessionStore interface {
	Acquire(token string) func()
	Get(token string) ([]domain.DialogState, bool)
	Put(token string, stack []domain.DialogState)
	Delete(token string)
}

type identityStore interface {
	Get(ctx context.Context, identityID string) (*domain.Identity, error)
	GetByPhone(ctx context.Context, phone string) (*domain.Identity, error)
	GetByUsername(ctx context.Context, username string) (*domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (*domain.Identity, error)
	GetByCardNumber(ctx context.Context, cardNumber string) (*domain.Identity, error)
	GetByLicense(ctx context.Context, license string) (*domain.Identity, error)
	Put(ctx context.Context, ident *domain.Identity) error
}

type loanStore interface {
	Put(ctx context.Context, l *domain.Loan) error
	LatestByIdentity(ctx context.Context, identityID string) (*domain.Loan, error)
}

type activityStore interface {
	Append(ctx context.Context, subjectID, action, details string) error
}

type service struct {
	sessions    sessionStore
	identities  identityStore
	loans       loanStore
	activities  activityStore
	mailer      smtp.Mailer
	smsSender   sns.SMSSender
	schema      []Field
	countryCode string
	loanMin     int
	loanMax     int
	repoTimeout time.Duration
}

// ServiceDeps wires the engine. Schema, bounds, and timeouts fall back to the
// deployment defaults when left zero.
type ServiceDeps struct {
	Sessions     sessionStore
	IdentityRepo identityStore
	LoanRepo     loanStore
	ActivityRepo activityStore
	Mailer       smtp.Mailer
	SMSSender    sns.SMSSender
	Schema       []Field
	CountryCode  string
	LoanMin      int
	LoanMax      int
	RepoTimeout  time.Duration
}

func NewService(deps ServiceDeps) Service {
	s := &service{
		sessions:    deps.Sessions,
		identities:  deps.IdentityRepo,
		loans:       deps.LoanRepo,
		activities:  deps.ActivityRepo,
		mailer:      deps.Mailer,
		smsSender:   deps.SMSSender,
		schema:      deps.Schema,
		countryCode: deps.CountryCode,
		loanMin:     deps.LoanMin,
		loanMax:     deps.LoanMax,
		repoTimeout: deps.RepoTimeout,
	}
	if len(s.schema) == 0 {
		s.schema = []Field{FieldName, FieldCard}
	}
	if s.countryCode == "" {
		s.countryCode = "233"
	}
	if s.loanMin == 0 {
		s.loanMin = 10
	}
	if s.loanMax == 0 {
		s.loanMax = 1000
	}
	if s.repoTimeout == 0 {
		s.repoTimeout = 5 * time.Second
	}
	return s
}

// Handle serialises transitions per session token: concurrent requests on
// the same token queue on the token's critical section, different tokens
// proceed in parallel.
func (s *service) Handle(ctx context.Context, req domain.USSDRequest) domain.USSDResponse {
	release := s.sessions.Acquire(req.SessionID)
	defer release()

	msg, cont := s.transition(ctx, req)
	return domain.USSDResponse{
		SessionID:       req.SessionID,
		UserID:          req.UserID,
		Message:         msg,
		ContinueSession: cont,
		MSISDN:          req.MSISDN,
	}
}

func (s *service) transition(ctx context.Context, req domain.USSDRequest) (string, bool) {
	token := req.SessionID
	input := strings.TrimSpace(req.UserData)

	stack, ok := s.sessions.Get(token)
	if !ok {
		if !req.NewSession {
			return msgExpired, false
		}
		return s.start(ctx, token, req.MSISDN)
	}
	if req.NewSession {
		// Gateway re-dialed with a token we still hold; start over.
		return s.start(ctx, token, req.MSISDN)
	}

	switch input {
	case keyHome:
		return s.start(ctx, token, req.MSISDN)
	case keyBack:
		return s.back(token, stack)
	}

	top := stack[len(stack)-1]
	switch {
	case top.Level == domain.LevelHome:
		return s.handleMenu(ctx, token, stack, input)
	case top.Level.RegistrationFlow():
		return s.handleRegistration(ctx, token, stack, req.MSISDN, input)
	case top.Level.LoanFlow():
		return s.handleLoan(ctx, token, stack, input)
	case top.Level == domain.LevelLookupCard:
		return s.handleLookup(ctx, token, stack, input)
	default:
		// Unknown level: recover to home rather than dropping the caller.
		return s.start(ctx, token, req.MSISDN)
	}
}

// start performs the initial transition, and also serves the Home key: it
// discards any existing stack and rebuilds a single-entry stack from the
// identity lookup.
func (s *service) start(ctx context.Context, token, msisdn string) (string, bool) {
	phone := validate.NormalizePhone(msisdn, s.countryCode)

	rctx, cancel := s.repoCtx(ctx)
	ident, err := s.identities.GetByPhone(rctx, phone)
	cancel()
	switch {
	case err == nil:
		st := domain.DialogState{
			Level:      domain.LevelHome,
			Message:    homeMenu(ident.Name),
			IdentityID: ident.IdentityID,
		}
		s.sessions.Put(token, []domain.DialogState{st})
		return st.Message, true
	case errors.Is(err, domain.ErrNotFound):
		st := domain.DialogState{
			Level:   domain.LevelRegistration,
			Message: welcomePrompt(fieldSpecs[s.schema[0]].prompt),
		}
		s.sessions.Put(token, []domain.DialogState{st})
		return st.Message, true
	default:
		return s.fail(token, "identity lookup", err)
	}
}

// back pops one level and re-renders the parent's stored message. At depth 1
// it is a no-op re-render; either way the TTL window is refreshed.
func (s *service) back(token string, stack []domain.DialogState) (string, bool) {
	if len(stack) > 1 {
		stack = stack[:len(stack)-1]
	}
	s.sessions.Put(token, stack)
	return stack[len(stack)-1].Message, true
}

// retry replaces the top-of-stack prompt with an error-annotated one. The
// stack depth never changes on a failed validation.
func (s *service) retry(token string, stack []domain.DialogState, msg string) (string, bool) {
	stack[len(stack)-1].Message = msg
	s.sessions.Put(token, stack)
	return msg, true
}

// advance pushes the next state one level deeper and refreshes the TTL.
func (s *service) advance(token string, stack []domain.DialogState, next domain.DialogState) (string, bool) {
	s.sessions.Put(token, append(stack, next))
	return next.Message, true
}

// finish deletes the session and renders a terminal message.
func (s *service) finish(token, msg string) (string, bool) {
	s.sessions.Delete(token)
	return msg, false
}

// fail is the terminate-failure path: the session is deleted, the caller
// gets the generic message, and the dialog's progress is lost by design.
func (s *service) fail(token, op string, err error) (string, bool) {
	slog.Warn("dialog transition failed", "op", op, "err", err)
	s.sessions.Delete(token)
	return msgUnavailable, false
}

func (s *service) repoCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.repoTimeout)
}

// notifySMS dispatches an SMS after the transition completes. Delivery is
// never awaited and a failure never changes the session outcome.
func (s *service) notifySMS(to, message string) {
	if s.smsSender == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.repoTimeout)
		defer cancel()
		if err := s.smsSender.SendSMS(ctx, to, message); err != nil {
			slog.Warn("sms notification failed", "to", to, "err", err)
		}
	}()
}

// notifyEmail dispatches an email after the transition completes,
// fire-and-forget like notifySMS.
func (s *service) notifyEmail(to, subject, body string) {
	if s.mailer == nil || to == "" {
		return
	}
	go func() {
		if err := s.mailer.SendEmail(to, subject, body); err != nil {
			slog.Warn("email notification failed", "to", to, "err", err)
		}
	}()
}

// logActivity appends an audit entry best-effort; a failed append never
// rolls back or fails the transition that triggered it.
func (s *service) logActivity(subjectID, action, details string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.repoTimeout)
		defer cancel()
		if err := s.activities.Append(ctx, subjectID, action, details); err != nil {
			slog.Warn("activity append failed", "subject", subjectID, "action", action, "err", err)
		}
	}()
}
