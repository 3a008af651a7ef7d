package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rental-service/internal/model"
	"rental-service/prometheus"
)

// HouseGorm is the PostgreSQL-backed HouseRepo.
type HouseGorm struct{ db *gorm.DB }

func NewHouseGorm(db *gorm.DB) *HouseGorm {
	return &HouseGorm{db: db}
}

func (r *HouseGorm) Create(ctx context.Context, house *model.House) error {
	defer prometheus.TrackDBOperation("insert")(time.Now())
	return r.db.WithContext(ctx).Create(house).Error
}

func (r *HouseGorm) ByID(ctx context.Context, id uint) (*model.House, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var h model.House
	err := r.db.WithContext(ctx).
		Preload("Village.Cell.Sector.District").
		First(&h, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &h, nil
}

func (r *HouseGorm) Save(ctx context.Context, house *model.House) error {
	defer prometheus.TrackDBOperation("update")(time.Now())
	return r.db.WithContext(ctx).Save(house).Error
}

func (r *HouseGorm) Delete(ctx context.Context, id uint) error {
	defer prometheus.TrackDBOperation("delete")(time.Now())
	return r.db.WithContext(ctx).Delete(&model.House{}, id).Error
}

func (r *HouseGorm) ByLandlord(ctx context.Context, landlordID uuid.UUID) ([]model.House, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var houses []model.House
	err := r.db.WithContext(ctx).
		Where("landlord_id = ?", landlordID).
		Order("listed_at DESC").
		Find(&houses).Error
	return houses, err
}

// Search filters active, Available listings. The substring query spans the
// house's own text fields and the village/cell/sector/district name chain,
// so it needs the joins regardless of which filters are set.
func (r *HouseGorm) Search(ctx context.Context, f HouseFilter) ([]model.House, int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	q := r.db.WithContext(ctx).Model(&model.House{}).
		Joins("JOIN villages ON villages.id = houses.village_id").
		Joins("JOIN cells ON cells.id = villages.cell_id").
		Joins("JOIN sectors ON sectors.id = cells.sector_id").
		Joins("JOIN districts ON districts.id = sectors.district_id").
		Where("houses.is_active = ? AND houses.status = ?", true, model.StatusAvailable)

	if f.Query != "" {
		like := "%" + f.Query + "%"
		q = q.Where(
			`houses.label ILIKE ? OR houses.description ILIKE ? OR houses.neighborhood ILIKE ?
			 OR houses.street_address ILIKE ? OR villages.name ILIKE ? OR cells.name ILIKE ?
			 OR sectors.name ILIKE ? OR districts.name ILIKE ?`,
			like, like, like, like, like, like, like, like)
	}

	if f.Type != "" {
		q = q.Where("houses.type = ?", f.Type)
	}

	if f.DistrictID > 0 {
		q = q.Where("districts.id = ?", f.DistrictID)
	}

	if f.MinRent > 0 {
		q = q.Where("houses.monthly_rent >= ?", f.MinRent)
	}
	if f.MaxRent > 0 {
		q = q.Where("houses.monthly_rent <= ?", f.MaxRent)
	}

	if f.Bedrooms > 0 {
		if f.BedroomsMin {
			q = q.Where("houses.bedrooms >= ?", f.Bedrooms)
		} else {
			q = q.Where("houses.bedrooms = ?", f.Bedrooms)
		}
	}

	if f.Wifi {
		q = q.Where("houses.has_wifi = ?", true)
	}
	if f.Parking {
		q = q.Where("houses.parkings > 0")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch f.Sort {
	case SortPriceLow:
		q = q.Order("houses.monthly_rent ASC")
	case SortPriceHigh:
		q = q.Order("houses.monthly_rent DESC")
	default:
		q = q.Order("houses.listed_at DESC")
	}

	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var houses []model.House
	if err := q.Preload("Village").Find(&houses).Error; err != nil {
		return nil, 0, err
	}
	return houses, total, nil
}

func (r *HouseGorm) CountByLandlord(ctx context.Context, landlordID uuid.UUID, status model.HouseStatus) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	q := r.db.WithContext(ctx).Model(&model.House{}).Where("landlord_id = ?", landlordID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

func (r *HouseGorm) CountByStatus(ctx context.Context, status model.HouseStatus) (int64, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var count int64
	err := r.db.WithContext(ctx).Model(&model.House{}).
		Where("is_active = ? AND status = ?", true, status).
		Count(&count).Error
	return count, err
}
