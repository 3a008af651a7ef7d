package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"rental-service/internal/apperr"
	"rental-service/internal/model"
	"rental-service/internal/repository"
	"rental-service/prometheus"
)

// VerificationService issues, validates, and consumes short-lived numeric
// codes. Validation and consumption are separate steps: callers apply their
// own side effect first (activate the account, set the password) and mark
// the code consumed only after that succeeds, so a crash in between leaves a
// retriable consume rather than a lost account.
type VerificationService struct {
	codes    repository.CodeRepo
	lifetime time.Duration
	now      func() time.Time
}

func NewVerification(codes repository.CodeRepo, lifetime time.Duration) *VerificationService {
	return &VerificationService{
		codes:    codes,
		lifetime: lifetime,
		now:      time.Now,
	}
}

// issueAttempts bounds the re-draws when a generated value collides with a
// code the same user still has outstanding.
const issueAttempts = 5

// Issue generates a fresh 6-digit code for the user and purpose, persists it
// pending, and returns it for delivery. email snapshots the address a
// reset/change flow started with; signup codes pass nil. A value colliding
// with one of the user's outstanding codes is re-drawn.
func (s *VerificationService) Issue(ctx context.Context, userID *uuid.UUID, purpose model.CodePurpose, email *string) (*model.VerificationCode, error) {
	for attempt := 0; attempt < issueAttempts; attempt++ {
		value, err := randomCode()
		if err != nil {
			return nil, fmt.Errorf("generating verification code: %w", err)
		}
		code := &model.VerificationCode{
			UserID:    userID,
			Code:      value,
			Purpose:   purpose,
			Email:     email,
			Pending:   true,
			CreatedAt: s.now(),
		}
		if err := s.codes.Create(ctx, code); err != nil {
			if errors.Is(err, repository.ErrCodeExists) {
				continue
			}
			return nil, fmt.Errorf("storing verification code: %w", err)
		}
		prometheus.CodeIssuedCounter.WithLabelValues(string(purpose)).Inc()
		return code, nil
	}
	return nil, fmt.Errorf("storing verification code: %w", repository.ErrCodeExists)
}

// Validate looks up a pending code for the purpose (scoped by email when
// non-nil) and checks the lifetime window. The window's upper bound is
// exclusive: a code checked exactly at created_at+lifetime is expired. The
// record is returned without being consumed.
func (s *VerificationService) Validate(ctx context.Context, code string, purpose model.CodePurpose, email *string) (*model.VerificationCode, error) {
	rec, err := s.codes.FindPending(ctx, code, purpose, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrInvalidCode
		}
		return nil, err
	}
	if !s.now().Before(rec.ExpiresAt(s.lifetime)) {
		return nil, apperr.ErrExpiredCode
	}
	return rec, nil
}

// Consume marks the code used. Consuming twice is a no-op.
func (s *VerificationService) Consume(ctx context.Context, id uint) error {
	return s.codes.MarkConsumed(ctx, id)
}

// randomCode draws a uniform 6-digit code in [100000, 999999] from
// crypto/rand, so code values carry no relation to insertion order.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
