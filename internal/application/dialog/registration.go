package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sikacredit/ussd-api/internal/domain"
	"github.com/sikacredit/ussd-api/internal/pkg/id"
	"github.com/sikacredit/ussd-api/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
)

// handleRegistration advances one field step of the registration flow. The
// last field's successful capture runs the terminal creation step.
func (s *service) handleRegistration(ctx context.Context, token string, stack []domain.DialogState, msisdn, input string) (string, bool) {
	top := stack[len(stack)-1]
	step := int(top.Level - domain.LevelRegistration)
	if step >= len(s.schema) {
		return s.start(ctx, token, msisdn)
	}
	field := s.schema[step]
	spec := fieldSpecs[field]

	if !spec.valid(s, input) {
		return s.retry(token, stack, spec.invalid+"\n"+spec.prompt)
	}
	value := strings.TrimSpace(input)

	if spec.unique {
		taken, err := s.fieldTaken(ctx, field, value)
		if err != nil {
			return s.fail(token, "uniqueness check "+string(field), err)
		}
		if taken {
			return s.retry(token, stack, spec.taken+"\n"+spec.prompt)
		}
	}

	reg := top.Reg
	spec.set(&reg, value)

	if step+1 < len(s.schema) {
		next := domain.DialogState{
			Level:   top.Level + 1,
			Message: fieldSpecs[s.schema[step+1]].prompt,
			Reg:     reg,
		}
		return s.advance(token, stack, next)
	}
	return s.createIdentity(ctx, token, msisdn, reg)
}

// fieldTaken checks whether another identity already owns the value.
// ErrNotFound means the value is free; any other error is an infrastructure
// failure the caller must map to terminate-failure.
func (s *service) fieldTaken(ctx context.Context, field Field, value string) (bool, error) {
	spec := fieldSpecs[field]
	if spec.lookup == nil {
		return false, nil
	}
	rctx, cancel := s.repoCtx(ctx)
	defer cancel()
	_, err := spec.lookup(rctx, s, value)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	return false, err
}

// createIdentity is the registration flow's terminal step. Every unique
// captured field is re-checked here: a concurrent session may have claimed a
// value between its capture step and now, and a conflict at this point is a
// terminate-failure because the capture prompt can no longer be replayed.
func (s *service) createIdentity(ctx context.Context, token, msisdn string, reg domain.RegistrationData) (string, bool) {
	phone := validate.NormalizePhone(msisdn, s.countryCode)

	rctx, cancel := s.repoCtx(ctx)
	_, err := s.identities.GetByPhone(rctx, phone)
	cancel()
	if err == nil {
		return s.fail(token, "create identity", fmt.Errorf("phone already registered: %w", domain.ErrConflict))
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return s.fail(token, "create identity", err)
	}
	for _, field := range s.schema {
		spec := fieldSpecs[field]
		if !spec.unique {
			continue
		}
		taken, err := s.fieldTaken(ctx, field, capturedValue(reg, field))
		if err != nil {
			return s.fail(token, "create identity", err)
		}
		if taken {
			return s.fail(token, "create identity", fmt.Errorf("%s already registered: %w", field, domain.ErrConflict))
		}
	}

	passwordHash := ""
	if reg.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
		if err != nil {
			return s.fail(token, "hash password", err)
		}
		passwordHash = string(hash)
	}

	now := time.Now().UTC()
	ident := &domain.Identity{
		IdentityID:   id.New(),
		Phone:        phone,
		Name:         reg.Name,
		Username:     reg.Username,
		Email:        reg.Email,
		PasswordHash: passwordHash,
		CardNumber:   reg.CardNumber,
		License:      reg.License,
		Status:       domain.IdentityUnverified,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	rctx, cancel = s.repoCtx(ctx)
	err = s.identities.Put(rctx, ident)
	cancel()
	if err != nil {
		return s.fail(token, "create identity", err)
	}

	s.logActivity(ident.IdentityID, "register", "identity created via USSD")
	s.notifySMS(phone, "Welcome to SikaCredit, "+ident.Name+". Your registration was received and is awaiting approval.")
	s.notifyEmail(ident.Email, "Welcome to SikaCredit", "Hello "+ident.Name+", your registration was received and is awaiting approval.")

	return s.finish(token, msgRegistered)
}

func capturedValue(reg domain.RegistrationData, field Field) string {
	switch field {
	case FieldUsername:
		return reg.Username
	case FieldEmail:
		return reg.Email
	case FieldCard:
		return reg.CardNumber
	case FieldLicense:
		return reg.License
	default:
		return ""
	}
}
