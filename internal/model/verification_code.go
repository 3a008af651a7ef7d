package model

import (
	"time"

	"github.com/google/uuid"
)

// CodePurpose labels what a verification code proves control of.
type CodePurpose string

const (
	PurposeSignup        CodePurpose = "SIGNUP"
	PurposeResetPassword CodePurpose = "RESET_PASSWORD"
	PurposeChangeEmail   CodePurpose = "CHANGE_EMAIL"
)

// VerificationCode is a short-lived 6-digit token tied to a user and a
// purpose. The user reference is nullable so codes survive user deletion
// as orphan records; lookups must null-check it. Email snapshots the
// address a reset/change flow started with, independent of the user's
// current email. The (user, code) uniqueness is a partial index over
// pending rows only, so a value the user already consumed can be drawn
// again later.
type VerificationCode struct {
	ID        uint        `json:"id" gorm:"primaryKey"`
	UserID    *uuid.UUID  `json:"user_id,omitempty" gorm:"type:uuid;index:idx_codes_user_code,unique,where:pending"`
	Code      string      `json:"code" gorm:"type:varchar(6);index:idx_codes_user_code,unique,where:pending"`
	Purpose   CodePurpose `json:"purpose" gorm:"type:varchar(30);not null;default:'SIGNUP';index"`
	Email     *string     `json:"email,omitempty" gorm:"type:varchar(255)"`
	Pending   bool        `json:"pending" gorm:"default:true"`
	CreatedAt time.Time   `json:"created_at"`
}

// ExpiresAt returns the instant the code stops being usable. The window is
// an exclusive upper bound: the code is valid strictly before this time.
func (v *VerificationCode) ExpiresAt(lifetime time.Duration) time.Time {
	return v.CreatedAt.Add(lifetime)
}
