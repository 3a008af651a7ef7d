package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"rental-service/internal/apperr"
	"rental-service/internal/model"
	"rental-service/internal/repository"
	"rental-service/prometheus"
)

// ListingService owns the listing catalogue: public search plus the
// landlord-side CRUD and dashboard.
type ListingService struct {
	houses       repository.HouseRepo
	reservations repository.ReservationRepo
	visits       repository.VisitRepo
	locations    repository.LocationRepo
}

func NewListing(houses repository.HouseRepo, reservations repository.ReservationRepo, visits repository.VisitRepo, locations repository.LocationRepo) *ListingService {
	return &ListingService{
		houses:       houses,
		reservations: reservations,
		visits:       visits,
		locations:    locations,
	}
}

// SyncAvailableGauge resets the available-listings gauge from the store.
// Called at startup so the gauge survives restarts; afterwards the create,
// update, delete, and accept paths keep it incremental.
func (s *ListingService) SyncAvailableGauge(ctx context.Context) error {
	count, err := s.houses.CountByStatus(ctx, model.StatusAvailable)
	if err != nil {
		return err
	}
	prometheus.AvailableHousesGauge.Set(float64(count))
	return nil
}

// Search returns the matching page of active, available listings and the
// total match count.
func (s *ListingService) Search(ctx context.Context, filter repository.HouseFilter) ([]model.House, int64, error) {
	houses, total, err := s.houses.Search(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	prometheus.HouseOperationCounter.WithLabelValues("search").Inc()
	return houses, total, nil
}

// featuredCount is how many newest listings the home page shows.
const featuredCount = 3

// Featured returns the newest available listings for the home page.
func (s *ListingService) Featured(ctx context.Context) ([]model.House, error) {
	houses, _, err := s.houses.Search(ctx, repository.HouseFilter{
		Sort:  repository.SortNewest,
		Limit: featuredCount,
	})
	return houses, err
}

// Get returns a single listing with its location chain.
func (s *ListingService) Get(ctx context.Context, id uint) (*model.House, error) {
	house, err := s.houses.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return house, nil
}

// HouseInput carries the listing form fields.
type HouseInput struct {
	Type          model.HouseType   `json:"type"`
	Status        model.HouseStatus `json:"status"`
	Label         string            `json:"label"`
	VillageID     uint              `json:"village_id"`
	MonthlyRent   int64             `json:"monthly_rent"`
	Neighborhood  string            `json:"neighborhood"`
	StreetAddress string            `json:"street_address"`
	Description   string            `json:"description"`
	Bedrooms      int               `json:"bedrooms"`
	Bathrooms     int               `json:"bathrooms"`
	Surface       int               `json:"surface"`
	HasWifi       bool              `json:"has_wifi"`
	Parkings      int               `json:"parkings"`
}

func (s *ListingService) validateInput(ctx context.Context, in HouseInput) error {
	if !in.Type.Valid() {
		return apperr.Validation("unknown property type %q", in.Type)
	}
	if in.Status != "" && !in.Status.Valid() {
		return apperr.Validation("unknown status %q", in.Status)
	}
	if in.MonthlyRent < 0 {
		return apperr.Validation("monthly rent cannot be negative")
	}
	if in.Bedrooms < 0 || in.Bathrooms < 0 || in.Surface < 0 || in.Parkings < 0 {
		return apperr.Validation("room and surface counts cannot be negative")
	}
	if _, err := s.locations.VillageByID(ctx, in.VillageID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Validation("unknown village %d", in.VillageID)
		}
		return err
	}
	return nil
}

// Create registers a new listing owned by the landlord. Status defaults to
// Available.
func (s *ListingService) Create(ctx context.Context, landlordID uuid.UUID, in HouseInput) (*model.House, error) {
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = model.StatusAvailable
	}
	house := &model.House{
		Type:          in.Type,
		Status:        status,
		Label:         in.Label,
		LandlordID:    &landlordID,
		VillageID:     in.VillageID,
		MonthlyRent:   in.MonthlyRent,
		Neighborhood:  in.Neighborhood,
		StreetAddress: in.StreetAddress,
		Description:   in.Description,
		Bedrooms:      in.Bedrooms,
		Bathrooms:     in.Bathrooms,
		Surface:       in.Surface,
		HasWifi:       in.HasWifi,
		Parkings:      in.Parkings,
		IsActive:      true,
	}
	if err := s.houses.Create(ctx, house); err != nil {
		return nil, err
	}
	prometheus.HouseOperationCounter.WithLabelValues("create").Inc()
	if house.Status == model.StatusAvailable {
		prometheus.AvailableHousesGauge.Inc()
	}
	return house, nil
}

// Update rewrites the editable fields of a listing the landlord owns.
func (s *ListingService) Update(ctx context.Context, landlordID uuid.UUID, houseID uint, in HouseInput) (*model.House, error) {
	house, err := s.owned(ctx, landlordID, houseID)
	if err != nil {
		return nil, err
	}
	if err := s.validateInput(ctx, in); err != nil {
		return nil, err
	}

	wasAvailable := house.Status == model.StatusAvailable
	house.Type = in.Type
	if in.Status != "" {
		house.Status = in.Status
	}
	house.Label = in.Label
	house.VillageID = in.VillageID
	house.MonthlyRent = in.MonthlyRent
	house.Neighborhood = in.Neighborhood
	house.StreetAddress = in.StreetAddress
	house.Description = in.Description
	house.Bedrooms = in.Bedrooms
	house.Bathrooms = in.Bathrooms
	house.Surface = in.Surface
	house.HasWifi = in.HasWifi
	house.Parkings = in.Parkings

	if err := s.houses.Save(ctx, house); err != nil {
		return nil, err
	}
	prometheus.HouseOperationCounter.WithLabelValues("update").Inc()
	if nowAvailable := house.Status == model.StatusAvailable; nowAvailable != wasAvailable {
		if nowAvailable {
			prometheus.AvailableHousesGauge.Inc()
		} else {
			prometheus.AvailableHousesGauge.Dec()
		}
	}
	return house, nil
}

// Delete removes a listing the landlord owns. Reservations and visit
// requests on it cascade away with it.
func (s *ListingService) Delete(ctx context.Context, landlordID uuid.UUID, houseID uint) error {
	house, err := s.owned(ctx, landlordID, houseID)
	if err != nil {
		return err
	}
	if err := s.houses.Delete(ctx, houseID); err != nil {
		return err
	}
	prometheus.HouseOperationCounter.WithLabelValues("delete").Inc()
	if house.Status == model.StatusAvailable {
		prometheus.AvailableHousesGauge.Dec()
	}
	return nil
}

// MyHouses lists the landlord's own listings, newest first.
func (s *ListingService) MyHouses(ctx context.Context, landlordID uuid.UUID) ([]model.House, error) {
	return s.houses.ByLandlord(ctx, landlordID)
}

func (s *ListingService) owned(ctx context.Context, landlordID uuid.UUID, houseID uint) (*model.House, error) {
	house, err := s.houses.ByID(ctx, houseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if !house.OwnedBy(landlordID) {
		return nil, apperr.ErrForbidden
	}
	return house, nil
}

// DashboardStats summarizes a landlord's portfolio for the overview page.
type DashboardStats struct {
	TotalHouses        int64               `json:"total_houses"`
	AvailableHouses    int64               `json:"available_houses"`
	RentedHouses       int64               `json:"rented_houses"`
	TotalReservations  int64               `json:"total_reservations"`
	PendingVisits      int64               `json:"pending_visits"`
	RecentReservations []model.Reservation `json:"recent_reservations"`
	RecentVisits       []model.VisitRequest `json:"recent_visits"`
}

// recentLimit caps the dashboard activity feeds.
const recentLimit = 5

// Dashboard aggregates counts and the latest activity for the landlord.
func (s *ListingService) Dashboard(ctx context.Context, landlordID uuid.UUID) (*DashboardStats, error) {
	stats := &DashboardStats{}

	var err error
	if stats.TotalHouses, err = s.houses.CountByLandlord(ctx, landlordID, ""); err != nil {
		return nil, err
	}
	if stats.AvailableHouses, err = s.houses.CountByLandlord(ctx, landlordID, model.StatusAvailable); err != nil {
		return nil, err
	}
	if stats.RentedHouses, err = s.houses.CountByLandlord(ctx, landlordID, model.StatusRented); err != nil {
		return nil, err
	}
	if stats.TotalReservations, err = s.reservations.CountByLandlord(ctx, landlordID); err != nil {
		return nil, err
	}
	if stats.PendingVisits, err = s.visits.CountPendingByLandlord(ctx, landlordID); err != nil {
		return nil, err
	}
	if stats.RecentReservations, err = s.reservations.ByLandlord(ctx, landlordID, recentLimit); err != nil {
		return nil, err
	}
	if stats.RecentVisits, err = s.visits.ByLandlord(ctx, landlordID, recentLimit); err != nil {
		return nil, err
	}
	return stats, nil
}
