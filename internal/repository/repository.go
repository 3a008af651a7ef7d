package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"rental-service/internal/model"
)

// ErrNotFound keeps storage-level 404s consistent across the GORM and
// in-memory implementations. Services translate it into the user-facing
// taxonomy.
var ErrNotFound = errors.New("record not found")

// ErrHouseUnavailable is returned by AcceptExclusive when the house left
// the Available state before the transaction committed (double-accept race
// or a landlord-driven status change).
var ErrHouseUnavailable = errors.New("house is not available")

// ErrPendingExists is returned by CreatePending when the user already holds
// a pending request on the same house.
var ErrPendingExists = errors.New("pending request already exists")

// ErrNotPending is returned by conditional status updates when the row is no
// longer in the Pending state.
var ErrNotPending = errors.New("request is not pending")

// ErrCodeExists is returned by CodeRepo.Create when the user already holds a
// pending code with the same value. Callers draw a fresh value and retry.
var ErrCodeExists = errors.New("code already outstanding for user")

// UserRepo persists accounts.
type UserRepo interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	ByPhone(ctx context.Context, phone string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	EmailTaken(ctx context.Context, email string) (bool, error)
	PhoneTaken(ctx context.Context, phone string) (bool, error)
	Save(ctx context.Context, user *model.User) error
}

// CodeRepo persists verification codes. FindPending scopes the lookup by
// email snapshot when email is non-nil (reset/change flows); signup codes
// are looked up by code and purpose alone.
type CodeRepo interface {
	Create(ctx context.Context, code *model.VerificationCode) error
	FindPending(ctx context.Context, code string, purpose model.CodePurpose, email *string) (*model.VerificationCode, error)
	// MarkConsumed flips pending to false. Consuming an already-consumed
	// record is a no-op, not an error.
	MarkConsumed(ctx context.Context, id uint) error
}

// SortOrder selects listing search ordering.
type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceLow  SortOrder = "price_low"
	SortPriceHigh SortOrder = "price_high"
)

// HouseFilter mirrors the public search form. Zero values mean "no filter".
type HouseFilter struct {
	Query       string // substring over label, description, neighborhood, address, location names
	Type        model.HouseType
	DistrictID  uint
	MinRent     int64
	MaxRent     int64
	Bedrooms    int  // exact match when > 0
	BedroomsMin bool // when set, Bedrooms is a lower bound ("3+" bucket)
	Wifi        bool
	Parking     bool
	Sort        SortOrder
	Limit       int
	Offset      int
}

// HouseRepo persists listings.
type HouseRepo interface {
	Create(ctx context.Context, house *model.House) error
	ByID(ctx context.Context, id uint) (*model.House, error)
	Save(ctx context.Context, house *model.House) error
	Delete(ctx context.Context, id uint) error
	ByLandlord(ctx context.Context, landlordID uuid.UUID) ([]model.House, error)
	// Search applies the filter to active, Available listings and returns
	// the page plus the total match count.
	Search(ctx context.Context, filter HouseFilter) ([]model.House, int64, error)
	CountByLandlord(ctx context.Context, landlordID uuid.UUID, status model.HouseStatus) (int64, error)
	// CountByStatus counts active listings in the given status.
	CountByStatus(ctx context.Context, status model.HouseStatus) (int64, error)
}

// ReservationRepo persists reservations, including the exclusive-acceptance
// transition.
type ReservationRepo interface {
	// CreatePending inserts the reservation unless the user already holds a
	// pending one on the same house with start date >= today, in which case
	// it returns ErrPendingExists. The duplicate check and the insert commit
	// together.
	CreatePending(ctx context.Context, r *model.Reservation, today time.Time) error
	ByID(ctx context.Context, id uint) (*model.Reservation, error)
	// AcceptExclusive atomically re-checks the house is Available, marks it
	// Rented, marks the reservation Accepted, and deletes every other
	// reservation on the same house. Returns the number of competitors
	// removed, or ErrHouseUnavailable when another acceptance won the race.
	AcceptExclusive(ctx context.Context, reservationID uint) (int64, error)
	Delete(ctx context.Context, id uint) error
	ByUser(ctx context.Context, userID uuid.UUID) ([]model.Reservation, error)
	ByLandlord(ctx context.Context, landlordID uuid.UUID, limit int) ([]model.Reservation, error)
	CountByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error)
}

// VisitRepo persists visit requests. Visits are non-exclusive: accepting
// one never touches the others, and refusal keeps the record.
type VisitRepo interface {
	// CreatePending mirrors ReservationRepo.CreatePending for visit requests.
	CreatePending(ctx context.Context, v *model.VisitRequest, today time.Time) error
	ByID(ctx context.Context, id uint) (*model.VisitRequest, error)
	// UpdateStatusFromPending moves a pending visit to status. It returns
	// ErrNotPending when the row already left the Pending state, so a
	// concurrent accept and refuse cannot overwrite each other.
	UpdateStatusFromPending(ctx context.Context, id uint, status model.VisitRequestStatus) error
	Delete(ctx context.Context, id uint) error
	ByUser(ctx context.Context, userID uuid.UUID) ([]model.VisitRequest, error)
	ByLandlord(ctx context.Context, landlordID uuid.UUID, limit int) ([]model.VisitRequest, error)
	CountPendingByLandlord(ctx context.Context, landlordID uuid.UUID) (int64, error)
}

// LocationRepo serves the cascading location dropdowns and leaf lookups.
type LocationRepo interface {
	Countries(ctx context.Context) ([]model.Country, error)
	ProvincesByCountry(ctx context.Context, countryID uint) ([]model.Province, error)
	CitiesByProvince(ctx context.Context, provinceID uint) ([]model.City, error)
	DistrictsByCity(ctx context.Context, cityID uint) ([]model.District, error)
	Districts(ctx context.Context) ([]model.District, error)
	SectorsByDistrict(ctx context.Context, districtID uint) ([]model.Sector, error)
	CellsBySector(ctx context.Context, sectorID uint) ([]model.Cell, error)
	VillagesByCell(ctx context.Context, cellID uint) ([]model.Village, error)
	VillageByID(ctx context.Context, id uint) (*model.Village, error)
}
