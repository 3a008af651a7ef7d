package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"rental-service/internal/model"
	"rental-service/prometheus"
)

// CodeGorm is the PostgreSQL-backed CodeRepo.
type CodeGorm struct{ db *gorm.DB }

func NewCodeGorm(db *gorm.DB) *CodeGorm {
	return &CodeGorm{db: db}
}

func (r *CodeGorm) Create(ctx context.Context, code *model.VerificationCode) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	err := r.db.WithContext(ctx).Create(code).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrCodeExists
	}
	return err
}

func (r *CodeGorm) FindPending(ctx context.Context, code string, purpose model.CodePurpose, email *string) (*model.VerificationCode, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	q := r.db.WithContext(ctx).
		Where("code = ? AND purpose = ? AND pending = ?", code, purpose, true)
	if email != nil {
		q = q.Where("email = ?", *email)
	}

	var rec model.VerificationCode
	if err := q.Order("created_at DESC").First(&rec).Error; err != nil {
		return nil, translate(err)
	}
	return &rec, nil
}

func (r *CodeGorm) MarkConsumed(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	// Idempotent: updating an already-consumed or vanished record affects
	// zero rows and is deliberately not an error.
	return r.db.WithContext(ctx).
		Model(&model.VerificationCode{}).
		Where("id = ?", id).
		Update("pending", false).Error
}
