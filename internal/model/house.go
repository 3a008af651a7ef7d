package model

import (
	"time"

	"github.com/google/uuid"
)

// HouseType is the property category.
type HouseType string

const (
	TypeSingleRoom HouseType = "Single Room"
	TypeApartment  HouseType = "Apartment"
	TypeHouse      HouseType = "House"
	TypeVilla      HouseType = "Villa"
	TypeStudio     HouseType = "Studio"
	TypeDuplex     HouseType = "Duplex"
	TypeCondo      HouseType = "Condo"
	TypeTownhouse  HouseType = "Townhouse"
	TypeOffice     HouseType = "Office"
)

// HouseTypes lists every property category, in display order.
var HouseTypes = []HouseType{
	TypeSingleRoom, TypeApartment, TypeHouse, TypeVilla, TypeStudio,
	TypeDuplex, TypeCondo, TypeTownhouse, TypeOffice,
}

// Valid reports whether t is a known property category.
func (t HouseType) Valid() bool {
	for _, known := range HouseTypes {
		if t == known {
			return true
		}
	}
	return false
}

// HouseStatus is the listing availability state. Transitions are
// landlord-driven except Available→Rented, which reservation acceptance
// performs automatically.
type HouseStatus string

const (
	StatusAvailable        HouseStatus = "Available"
	StatusRented           HouseStatus = "Rented"
	StatusUnderMaintenance HouseStatus = "Under Maintenance"
)

// Valid reports whether s is a known listing status.
func (s HouseStatus) Valid() bool {
	switch s {
	case StatusAvailable, StatusRented, StatusUnderMaintenance:
		return true
	}
	return false
}

// House is a rentable property listing. The landlord reference is nullable
// so listings survive landlord deletion; MonthlyRent is kept in cents to
// avoid float drift on range filters.
type House struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	Type          HouseType   `json:"type" gorm:"type:varchar(50);not null;default:'House'"`
	Status        HouseStatus `json:"status" gorm:"type:varchar(50);not null;default:'Available';index"`
	Label         string      `json:"label" gorm:"type:varchar(200)"`
	LandlordID    *uuid.UUID  `json:"landlord_id,omitempty" gorm:"type:uuid;index"`
	VillageID     uint        `json:"village_id" gorm:"index;not null"`
	MonthlyRent   int64       `json:"monthly_rent" gorm:"not null;default:0;check:monthly_rent >= 0"`
	Neighborhood  string      `json:"neighborhood" gorm:"type:varchar(100)"`
	StreetAddress string      `json:"street_address" gorm:"type:varchar(200)"`
	Description   string      `json:"description" gorm:"type:text"`
	Bedrooms      int         `json:"bedrooms" gorm:"default:1"`
	Bathrooms     int         `json:"bathrooms" gorm:"default:1"`
	Surface       int         `json:"surface" gorm:"default:1"`
	HasWifi       bool        `json:"has_wifi" gorm:"default:false"`
	Parkings      int         `json:"parkings" gorm:"default:0"`
	IsActive      bool        `json:"is_active" gorm:"default:true;index"`
	ListedAt      time.Time   `json:"listed_at" gorm:"autoCreateTime;index"`
	UpdatedAt     time.Time   `json:"updated_at"`

	Village Village `json:"village,omitempty" gorm:"foreignKey:VillageID"`
}

// DisplayName returns the label, falling back to the property type, for
// user-facing messages.
func (h *House) DisplayName() string {
	if h.Label != "" {
		return h.Label
	}
	return string(h.Type)
}

// OwnedBy reports whether the given user owns this house. The landlord
// reference may be null for orphaned listings.
func (h *House) OwnedBy(userID uuid.UUID) bool {
	return h.LandlordID != nil && *h.LandlordID == userID
}
