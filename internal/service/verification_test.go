package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/apperr"
	"rental-service/internal/model"
	"rental-service/internal/repository"
)

func TestIssueGeneratesSixDigitCode(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	for i := 0; i < 20; i++ {
		code, err := f.verify.Issue(ctx(), &userID, model.PurposeSignup, nil)
		require.NoError(t, err)
		require.Len(t, code.Code, 6)
		assert.GreaterOrEqual(t, code.Code, "100000")
		assert.LessOrEqual(t, code.Code, "999999")
		assert.True(t, code.Pending)
	}
}

func TestValidateUnknownCode(t *testing.T) {
	f := newFixture()

	_, err := f.verify.Validate(ctx(), "123456", model.PurposeSignup, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)
}

func TestValidateWrongPurpose(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	code, err := f.verify.Issue(ctx(), &userID, model.PurposeSignup, nil)
	require.NoError(t, err)

	_, err = f.verify.Validate(ctx(), code.Code, model.PurposeResetPassword, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)
}

func TestValidateEmailScope(t *testing.T) {
	f := newFixture()
	userID := uuid.New()
	email := "tenant@example.com"

	code, err := f.verify.Issue(ctx(), &userID, model.PurposeResetPassword, &email)
	require.NoError(t, err)

	other := "someone-else@example.com"
	_, err = f.verify.Validate(ctx(), code.Code, model.PurposeResetPassword, &other)
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)

	rec, err := f.verify.Validate(ctx(), code.Code, model.PurposeResetPassword, &email)
	require.NoError(t, err)
	assert.Equal(t, code.ID, rec.ID)
}

func TestValidateExpiryBoundary(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	issued := time.Now()
	f.verify.now = func() time.Time { return issued }
	code, err := f.verify.Issue(ctx(), &userID, model.PurposeSignup, nil)
	require.NoError(t, err)

	// One instant before the window closes: still valid.
	f.verify.now = func() time.Time { return issued.Add(15*time.Minute - time.Nanosecond) }
	_, err = f.verify.Validate(ctx(), code.Code, model.PurposeSignup, nil)
	assert.NoError(t, err)

	// Exactly at created_at+lifetime: expired. The bound is exclusive.
	f.verify.now = func() time.Time { return issued.Add(15 * time.Minute) }
	_, err = f.verify.Validate(ctx(), code.Code, model.PurposeSignup, nil)
	assert.ErrorIs(t, err, apperr.ErrExpiredCode)
}

func TestValidateDoesNotConsume(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	code, err := f.verify.Issue(ctx(), &userID, model.PurposeSignup, nil)
	require.NoError(t, err)

	// Repeated validation succeeds until an explicit consume.
	for i := 0; i < 3; i++ {
		_, err = f.verify.Validate(ctx(), code.Code, model.PurposeSignup, nil)
		require.NoError(t, err)
	}

	require.NoError(t, f.verify.Consume(ctx(), code.ID))
	_, err = f.verify.Validate(ctx(), code.Code, model.PurposeSignup, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidCode)
}

func TestConsumeIsIdempotent(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	code, err := f.verify.Issue(ctx(), &userID, model.PurposeSignup, nil)
	require.NoError(t, err)

	require.NoError(t, f.verify.Consume(ctx(), code.ID))
	assert.NoError(t, f.verify.Consume(ctx(), code.ID))
}

func TestCodeUniquenessScopedToPending(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	rec := &model.VerificationCode{
		UserID: &userID, Code: "482913", Purpose: model.PurposeSignup,
		Pending: true, CreatedAt: time.Now(),
	}
	require.NoError(t, f.store.Codes.Create(ctx(), rec))

	// A second pending code with the same value for the same user is refused.
	dup := &model.VerificationCode{
		UserID: &userID, Code: "482913", Purpose: model.PurposeSignup,
		Pending: true, CreatedAt: time.Now(),
	}
	assert.ErrorIs(t, f.store.Codes.Create(ctx(), dup), repository.ErrCodeExists)

	// Once consumed, the same value can be drawn again for this user.
	require.NoError(t, f.store.Codes.MarkConsumed(ctx(), rec.ID))
	again := &model.VerificationCode{
		UserID: &userID, Code: "482913", Purpose: model.PurposeSignup,
		Pending: true, CreatedAt: time.Now(),
	}
	assert.NoError(t, f.store.Codes.Create(ctx(), again))
}

// collidingCodes fails the first n inserts with ErrCodeExists before
// delegating, standing in for a user whose outstanding codes keep matching
// the drawn value.
type collidingCodes struct {
	repository.CodeRepo
	left int
}

func (c *collidingCodes) Create(ctx context.Context, code *model.VerificationCode) error {
	if c.left > 0 {
		c.left--
		return repository.ErrCodeExists
	}
	return c.CodeRepo.Create(ctx, code)
}

func TestIssueRetriesOnCollision(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	codes := &collidingCodes{CodeRepo: f.store.Codes, left: 2}
	verify := NewVerification(codes, 15*time.Minute)

	code, err := verify.Issue(ctx(), &userID, model.PurposeSignup, nil)
	require.NoError(t, err)
	assert.Len(t, code.Code, 6)

	// With every draw colliding the attempts run out.
	codes.left = 1 << 30
	_, err = verify.Issue(ctx(), &userID, model.PurposeSignup, nil)
	assert.ErrorIs(t, err, repository.ErrCodeExists)
}

func TestExpiredCodeStaysPending(t *testing.T) {
	f := newFixture()
	userID := uuid.New()

	issued := time.Now().Add(-time.Hour)
	f.verify.now = func() time.Time { return issued }
	code, err := f.verify.Issue(ctx(), &userID, model.PurposeSignup, nil)
	require.NoError(t, err)

	f.verify.now = time.Now
	_, err = f.verify.Validate(ctx(), code.Code, model.PurposeSignup, nil)
	assert.ErrorIs(t, err, apperr.ErrExpiredCode)

	// Expired codes are not swept; the record is still there, still pending.
	rec, err := f.store.Codes.FindPending(ctx(), code.Code, model.PurposeSignup, nil)
	require.NoError(t, err)
	assert.True(t, rec.Pending)
}
