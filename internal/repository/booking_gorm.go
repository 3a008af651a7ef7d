package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rental-service/internal/model"
	"rental-service/prometheus"
)

// ReservationGorm is the PostgreSQL-backed ReservationRepo.
type ReservationGorm struct{ db *gorm.DB }

func NewReservationGorm(db *gorm.DB) *ReservationGorm {
	return &ReservationGorm{db: db}
}

// CreatePending locks the house row so concurrent requests for the same
// house serialize, then checks for an existing pending reservation and
// inserts in the same transaction.
func (r *ReservationGorm) CreatePending(ctx context.Context, res *model.Reservation, today time.Time) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var house model.House
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&house, "id = ?", res.HouseID).Error; err != nil {
			return translate(err)
		}

		var count int64
		if err := tx.Model(&model.Reservation{}).
			Where("house_id = ? AND user_id = ? AND status = ? AND start_date >= ?",
				res.HouseID, res.UserID, model.ReservationPending, today).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrPendingExists
		}
		return tx.Create(res).Error
	})
}

func (r *ReservationGorm) ByID(ctx context.Context, id uint) (*model.Reservation, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var res model.Reservation
	err := r.db.WithContext(ctx).Preload("House").Preload("User").First(&res, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &res, nil
}

// AcceptExclusive runs the whole acceptance in one transaction and locks the
// house row so a competing acceptance re-reads the Rented status and aborts.
func (r *ReservationGorm) AcceptExclusive(ctx context.Context, reservationID uint) (int64, error) {
	defer prometheus.TrackDBOperation("update")(time.Now())
	var cancelled int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var res model.Reservation
		if err := tx.First(&res, "id = ?", reservationID).Error; err != nil {
			return translate(err)
		}

		var house model.House
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&house, "id = ?", res.HouseID).Error; err != nil {
			return translate(err)
		}
		if house.Status != model.StatusAvailable {
			return ErrHouseUnavailable
		}

		if err := tx.Model(&model.House{}).
			Where("id = ?", house.ID).
			Update("status", model.StatusRented).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.Reservation{}).
			Where("id = ?", res.ID).
			Update("status", model.ReservationAccepted).Error; err != nil {
			return err
		}

		// Competing reservations are removed, not soft-rejected: once the
		// property is rented the pending requests are moot and leftover
		// records would confuse tenants listing their reservations.
		del := tx.Where("house_id = ? AND id <> ?", res.HouseID, res.ID).
			Delete(&model.Reservation{})
		if del.Error != nil {
			return del.Error
		}
		cancelled = del.RowsAffected
		return nil
	})
	return cancelled, err
}

func (r *ReservationGorm) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return r.db.WithContext(ctx).Delete(&model.Reservation{}, id).Error
}

func (r *ReservationGorm) ByUser(ctx context.Context, userID uuid.UUID) ([]model.Reservation, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var out []model.Reservation
	err := r.db.WithContext(ctx).
		Preload("House").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *ReservationGorm) ByLandlord(ctx context.Context, landlordID uuid.UUID, limit int) ([]model.Reservation, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	q := r.db.WithContext(ctx).
		Preload("House").Preload("User").
		Joins("JOIN houses ON houses.id = reservations.house_id").
		Where("houses.landlord_id = ?", landlordID).
		Order("reservations.created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []model.Reservation
	err := q.Find(&out).Error
	return out, err
}

func (r *ReservationGorm) CountByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Reservation{}).
		Joins("JOIN houses ON houses.id = reservations.house_id").
		Where("houses.landlord_id = ?", landlordID).
		Count(&count).Error
	return count, err
}

// VisitGorm is the PostgreSQL-backed VisitRepo.
type VisitGorm struct{ db *gorm.DB }

func NewVisitGorm(db *gorm.DB) *VisitGorm {
	return &VisitGorm{db: db}
}

// CreatePending is the visit counterpart of ReservationGorm.CreatePending.
func (r *VisitGorm) CreatePending(ctx context.Context, v *model.VisitRequest, today time.Time) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var house model.House
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&house, "id = ?", v.HouseID).Error; err != nil {
			return translate(err)
		}

		var count int64
		if err := tx.Model(&model.VisitRequest{}).
			Where("house_id = ? AND user_id = ? AND status = ? AND visit_date >= ?",
				v.HouseID, v.UserID, model.VisitPending, today).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrPendingExists
		}
		return tx.Create(v).Error
	})
}

func (r *VisitGorm) ByID(ctx context.Context, id uint) (*model.VisitRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var v model.VisitRequest
	err := r.db.WithContext(ctx).Preload("House").Preload("User").First(&v, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &v, nil
}

// UpdateStatusFromPending guards the transition in the UPDATE itself: zero
// rows affected means another accept or refuse already moved the visit out
// of Pending.
func (r *VisitGorm) UpdateStatusFromPending(ctx context.Context, id uint, status model.VisitRequestStatus) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	result := r.db.WithContext(ctx).Model(&model.VisitRequest{}).
		Where("id = ? AND status = ?", id, model.VisitPending).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotPending
	}
	return nil
}

func (r *VisitGorm) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return r.db.WithContext(ctx).Delete(&model.VisitRequest{}, id).Error
}

func (r *VisitGorm) ByUser(ctx context.Context, userID uuid.UUID) ([]model.VisitRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var out []model.VisitRequest
	err := r.db.WithContext(ctx).
		Preload("House").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *VisitGorm) ByLandlord(ctx context.Context, landlordID uuid.UUID, limit int) ([]model.VisitRequest, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	q := r.db.WithContext(ctx).
		Preload("House").Preload("User").
		Joins("JOIN houses ON houses.id = visit_requests.house_id").
		Where("houses.landlord_id = ?", landlordID).
		Order("visit_requests.created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []model.VisitRequest
	err := q.Find(&out).Error
	return out, err
}

func (r *VisitGorm) CountPendingByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VisitRequest{}).
		Joins("JOIN houses ON houses.id = visit_requests.house_id").
		Where("houses.landlord_id = ? AND visit_requests.status = ?", landlordID, model.VisitPending).
		Count(&count).Error
	return count, err
}
