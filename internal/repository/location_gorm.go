package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rental-service/internal/model"
	"rental-service/prometheus"
)

// LocationGorm is the PostgreSQL-backed LocationRepo.
type LocationGorm struct{ db *gorm.DB }

func NewLocationGorm(db *gorm.DB) *LocationGorm {
	return &LocationGorm{db: db}
}

func (r *LocationGorm) Countries(ctx context.Context) ([]model.Country, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var out []model.Country
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (r *LocationGorm) ProvincesByCountry(ctx context.Context, countryID uint) ([]model.Province, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var out []model.Province
	err := r.db.WithContext(ctx).Where("country_id = ?", countryID).Order("name").Find(&out).Error
	return out, err
}

func (r *LocationGorm) CitiesByProvince(ctx context.Context, provinceID uint) ([]model.City, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var out []model.City
	err := r.db.WithContext(ctx).Where("province_id = ?", provinceID).Order("name").Find(&out).Error
	return out, err
}

func (r *LocationGorm) DistrictsByCity(ctx context.Context, cityID uint) ([]model.District, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var out []model.District
	err := r.db.WithContext(ctx).Where("city_id = ?", cityID).Order("name").Find(&out).Error
	return out, err
}

func (r *LocationGorm) Districts(ctx context.Context) ([]model.District, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var out []model.District
	err := r.db.WithContext(ctx).Order("name").Find(&out).Error
	return out, err
}

func (r *LocationGorm) SectorsByDistrict(ctx context.Context, districtID uint) ([]model.Sector, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var out []model.Sector
	err := r.db.WithContext(ctx).Where("district_id = ?", districtID).Order("name").Find(&out).Error
	return out, err
}

func (r *LocationGorm) CellsBySector(ctx context.Context, sectorID uint) ([]model.Cell, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var out []model.Cell
	err := r.db.WithContext(ctx).Where("sector_id = ?", sectorID).Order("name").Find(&out).Error
	return out, err
}

func (r *LocationGorm) VillagesByCell(ctx context.Context, cellID uint) ([]model.Village, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var out []model.Village
	err := r.db.WithContext(ctx).Where("cell_id = ?", cellID).Order("name").Find(&out).Error
	return out, err
}

func (r *LocationGorm) VillageByID(ctx context.Context, id uint) (*model.Village, error) {
	defer prometheus.TrackDBOperation("query")(time.Now())
	var v model.Village
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &v, nil
}
