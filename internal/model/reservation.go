package model

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus: Pending → Accepted (terminal). A pending reservation
// may instead be deleted outright (tenant cancel, landlord reject, or
// automatic cancellation when a competing reservation is accepted).
type ReservationStatus string

const (
	ReservationPending  ReservationStatus = "Pending"
	ReservationAccepted ReservationStatus = "Accepted"
)

// Reservation is a tenant's request to rent a house starting on StartDate.
type Reservation struct {
	ID        uint              `json:"id" gorm:"primaryKey"`
	HouseID   uint              `json:"house_id" gorm:"index;not null"`
	UserID    uuid.UUID         `json:"user_id" gorm:"type:uuid;index;not null"`
	StartDate time.Time         `json:"start_date" gorm:"type:date;not null"`
	Guests    int               `json:"guests" gorm:"not null;default:1"`
	Status    ReservationStatus `json:"status" gorm:"type:varchar(20);not null;default:'Pending';index"`
	CreatedAt time.Time         `json:"created_at"`

	House House `json:"house,omitempty" gorm:"foreignKey:HouseID;constraint:OnDelete:CASCADE"`
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// VisitRequestStatus: Pending → Accepted | Refused (both terminal, record
// retained) or deleted by the requester. Unlike reservations, rejection
// keeps the record.
type VisitRequestStatus string

const (
	VisitPending  VisitRequestStatus = "Pending"
	VisitAccepted VisitRequestStatus = "Accepted"
	VisitRefused  VisitRequestStatus = "Refused"
)

// VisitRequest is a tenant's request to tour a house on VisitDate.
// Visits are non-exclusive: accepting one never touches the others.
type VisitRequest struct {
	ID        uint               `json:"id" gorm:"primaryKey"`
	HouseID   uint               `json:"house_id" gorm:"index;not null"`
	UserID    uuid.UUID          `json:"user_id" gorm:"type:uuid;index;not null"`
	VisitDate time.Time          `json:"visit_date" gorm:"type:date;not null"`
	Guests    int                `json:"guests" gorm:"not null;default:1"`
	Message   string             `json:"message" gorm:"type:text"`
	Status    VisitRequestStatus `json:"status" gorm:"type:varchar(20);not null;default:'Pending';index"`
	CreatedAt time.Time          `json:"created_at"`

	House House `json:"house,omitempty" gorm:"foreignKey:HouseID;constraint:OnDelete:CASCADE"`
	User  User  `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}
