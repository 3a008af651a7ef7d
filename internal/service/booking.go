package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rental-service/internal/apperr"
	"rental-service/internal/model"
	"rental-service/internal/repository"
	"rental-service/pkg/mailer"
	"rental-service/prometheus"
)

// BookingService coordinates reservations and visit requests. Reservations
// are exclusive: accepting one rents the house and removes every competitor.
// Visits are not: acceptance and refusal touch only the one record.
type BookingService struct {
	reservations repository.ReservationRepo
	visits       repository.VisitRepo
	houses       repository.HouseRepo
	mail         mailer.Sender
	log          *zap.Logger
	now          func() time.Time
}

func NewBooking(reservations repository.ReservationRepo, visits repository.VisitRepo, houses repository.HouseRepo, mail mailer.Sender, log *zap.Logger) *BookingService {
	return &BookingService{
		reservations: reservations,
		visits:       visits,
		houses:       houses,
		mail:         mail,
		log:          log,
		now:          time.Now,
	}
}

// ReservationInput carries the reservation form fields.
type ReservationInput struct {
	HouseID   uint      `json:"house_id"`
	StartDate time.Time `json:"start_date"`
	Guests    int       `json:"guests"`
}

// CreateReservation validates and persists a pending reservation. A start
// date of today is accepted; yesterday is not.
func (s *BookingService) CreateReservation(ctx context.Context, userID uuid.UUID, in ReservationInput) (*model.Reservation, error) {
	if in.Guests < 1 {
		return nil, apperr.ErrInvalidGuests
	}
	today := dateOnly(s.now())
	start := dateOnly(in.StartDate)
	if start.Before(today) {
		return nil, apperr.ErrPastDate
	}

	house, err := s.requestableHouse(ctx, userID, in.HouseID)
	if err != nil {
		return nil, err
	}

	r := &model.Reservation{
		HouseID:   house.ID,
		UserID:    userID,
		StartDate: start,
		Guests:    in.Guests,
		Status:    model.ReservationPending,
	}
	if err := s.reservations.CreatePending(ctx, r, today); err != nil {
		if errors.Is(err, repository.ErrPendingExists) {
			return nil, apperr.ErrDuplicatePending
		}
		return nil, err
	}
	prometheus.BookingOperationCounter.WithLabelValues("reservation", "create").Inc()
	return r, nil
}

// AcceptReservation rents the house to the requester. The availability
// re-check, the Rented transition, the Accepted transition, and the
// competitor deletion all commit in one transaction; losing the race
// surfaces as Unavailable. Returns the number of competing reservations
// removed so the caller can tell their owners.
func (s *BookingService) AcceptReservation(ctx context.Context, landlordID uuid.UUID, reservationID uint) (*model.Reservation, int64, error) {
	r, err := s.ownedReservation(ctx, landlordID, reservationID)
	if err != nil {
		return nil, 0, err
	}

	cancelled, err := s.reservations.AcceptExclusive(ctx, r.ID)
	if err != nil {
		if errors.Is(err, repository.ErrHouseUnavailable) {
			return nil, 0, apperr.ErrUnavailable
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, 0, apperr.ErrNotFound
		}
		return nil, 0, err
	}
	r.Status = model.ReservationAccepted
	prometheus.BookingOperationCounter.WithLabelValues("reservation", "accept").Inc()
	prometheus.AvailableHousesGauge.Dec()

	s.dispatch(r.User.Email, "Reservation accepted", "reservation_accepted", map[string]string{
		"name":       r.User.FullName(),
		"house":      r.House.DisplayName(),
		"start_date": r.StartDate.Format("2006-01-02"),
	})
	return r, cancelled, nil
}

// RejectReservation deletes a reservation on the landlord's house. No
// rejected record is kept.
func (s *BookingService) RejectReservation(ctx context.Context, landlordID uuid.UUID, reservationID uint) error {
	r, err := s.ownedReservation(ctx, landlordID, reservationID)
	if err != nil {
		return err
	}
	if err := s.reservations.Delete(ctx, r.ID); err != nil {
		return err
	}
	prometheus.BookingOperationCounter.WithLabelValues("reservation", "reject").Inc()

	s.dispatch(r.User.Email, "Reservation declined", "reservation_rejected", map[string]string{
		"name":  r.User.FullName(),
		"house": r.House.DisplayName(),
	})
	return nil
}

// CancelReservation lets the requester withdraw their own reservation.
func (s *BookingService) CancelReservation(ctx context.Context, userID uuid.UUID, reservationID uint) error {
	r, err := s.reservations.ByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	if r.UserID != userID {
		return apperr.ErrForbidden
	}
	if err := s.reservations.Delete(ctx, r.ID); err != nil {
		return err
	}
	prometheus.BookingOperationCounter.WithLabelValues("reservation", "cancel").Inc()
	return nil
}

// MyReservations lists the user's reservations, newest first.
func (s *BookingService) MyReservations(ctx context.Context, userID uuid.UUID) ([]model.Reservation, error) {
	return s.reservations.ByUser(ctx, userID)
}

// VisitInput carries the visit request form fields.
type VisitInput struct {
	HouseID   uint      `json:"house_id"`
	VisitDate time.Time `json:"visit_date"`
	Guests    int       `json:"guests"`
	Message   string    `json:"message"`
}

// CreateVisit validates and persists a pending visit request.
func (s *BookingService) CreateVisit(ctx context.Context, userID uuid.UUID, in VisitInput) (*model.VisitRequest, error) {
	if in.Guests < 1 {
		return nil, apperr.ErrInvalidGuests
	}
	today := dateOnly(s.now())
	date := dateOnly(in.VisitDate)
	if date.Before(today) {
		return nil, apperr.ErrPastDate
	}

	house, err := s.requestableHouse(ctx, userID, in.HouseID)
	if err != nil {
		return nil, err
	}

	v := &model.VisitRequest{
		HouseID:   house.ID,
		UserID:    userID,
		VisitDate: date,
		Guests:    in.Guests,
		Message:   in.Message,
		Status:    model.VisitPending,
	}
	if err := s.visits.CreatePending(ctx, v, today); err != nil {
		if errors.Is(err, repository.ErrPendingExists) {
			return nil, apperr.ErrDuplicatePending
		}
		return nil, err
	}
	prometheus.BookingOperationCounter.WithLabelValues("visit", "create").Inc()
	return v, nil
}

// AcceptVisit approves a pending visit. Other visits on the house are not
// touched.
func (s *BookingService) AcceptVisit(ctx context.Context, landlordID uuid.UUID, visitID uint) (*model.VisitRequest, error) {
	v, err := s.ownedVisit(ctx, landlordID, visitID)
	if err != nil {
		return nil, err
	}
	if v.Status != model.VisitPending {
		return nil, apperr.ErrConflict
	}
	if err := s.visits.UpdateStatusFromPending(ctx, v.ID, model.VisitAccepted); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, apperr.ErrConflict
		}
		return nil, err
	}
	v.Status = model.VisitAccepted
	prometheus.BookingOperationCounter.WithLabelValues("visit", "accept").Inc()

	s.dispatch(v.User.Email, "Visit request accepted", "visit_accepted", map[string]string{
		"name":       v.User.FullName(),
		"house":      v.House.DisplayName(),
		"visit_date": v.VisitDate.Format("2006-01-02"),
	})
	return v, nil
}

// RefuseVisit declines a pending visit. Unlike reservation rejection the
// record is kept, with status Refused.
func (s *BookingService) RefuseVisit(ctx context.Context, landlordID uuid.UUID, visitID uint) (*model.VisitRequest, error) {
	v, err := s.ownedVisit(ctx, landlordID, visitID)
	if err != nil {
		return nil, err
	}
	if v.Status != model.VisitPending {
		return nil, apperr.ErrConflict
	}
	if err := s.visits.UpdateStatusFromPending(ctx, v.ID, model.VisitRefused); err != nil {
		if errors.Is(err, repository.ErrNotPending) {
			return nil, apperr.ErrConflict
		}
		return nil, err
	}
	v.Status = model.VisitRefused
	prometheus.BookingOperationCounter.WithLabelValues("visit", "refuse").Inc()

	s.dispatch(v.User.Email, "Visit request declined", "visit_refused", map[string]string{
		"name":  v.User.FullName(),
		"house": v.House.DisplayName(),
	})
	return v, nil
}

// CancelVisit lets the requester withdraw their own pending visit.
func (s *BookingService) CancelVisit(ctx context.Context, userID uuid.UUID, visitID uint) error {
	v, err := s.visits.ByID(ctx, visitID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.ErrNotFound
		}
		return err
	}
	if v.UserID != userID {
		return apperr.ErrForbidden
	}
	if v.Status != model.VisitPending {
		return apperr.ErrConflict
	}
	if err := s.visits.Delete(ctx, v.ID); err != nil {
		return err
	}
	prometheus.BookingOperationCounter.WithLabelValues("visit", "cancel").Inc()
	return nil
}

// MyVisits lists the user's visit requests, newest first.
func (s *BookingService) MyVisits(ctx context.Context, userID uuid.UUID) ([]model.VisitRequest, error) {
	return s.visits.ByUser(ctx, userID)
}

// LandlordReservations lists every reservation on the landlord's houses,
// newest first.
func (s *BookingService) LandlordReservations(ctx context.Context, landlordID uuid.UUID) ([]model.Reservation, error) {
	return s.reservations.ByLandlord(ctx, landlordID, 0)
}

// LandlordVisits lists every visit request on the landlord's houses, newest
// first.
func (s *BookingService) LandlordVisits(ctx context.Context, landlordID uuid.UUID) ([]model.VisitRequest, error) {
	return s.visits.ByLandlord(ctx, landlordID, 0)
}

// requestableHouse loads the house and applies the checks shared by
// reservation and visit creation.
func (s *BookingService) requestableHouse(ctx context.Context, userID uuid.UUID, houseID uint) (*model.House, error) {
	house, err := s.houses.ByID(ctx, houseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if house.Status != model.StatusAvailable {
		return nil, apperr.ErrUnavailable
	}
	if house.OwnedBy(userID) {
		return nil, apperr.ErrSelfBooking
	}
	return house, nil
}

// ownedReservation loads a reservation and verifies the acting landlord
// owns its house.
func (s *BookingService) ownedReservation(ctx context.Context, landlordID uuid.UUID, id uint) (*model.Reservation, error) {
	r, err := s.reservations.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if !r.House.OwnedBy(landlordID) {
		return nil, apperr.ErrForbidden
	}
	return r, nil
}

func (s *BookingService) ownedVisit(ctx context.Context, landlordID uuid.UUID, id uint) (*model.VisitRequest, error) {
	v, err := s.visits.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	if !v.House.OwnedBy(landlordID) {
		return nil, apperr.ErrForbidden
	}
	return v, nil
}

func (s *BookingService) dispatch(to, subject, template string, ctx map[string]string) {
	if to == "" {
		return
	}
	if err := s.mail.Send(to, subject, template, ctx); err != nil {
		s.log.Error("mail dispatch failed",
			zap.String("template", template),
			zap.String("to", to),
			zap.Error(err))
	}
}

// dateOnly reduces t to its calendar date in t's own location, normalized
// to UTC midnight. Dates arrive from the wire parsed in UTC while the
// server clock runs in its local zone; normalizing both sides makes the
// comparison a pure calendar-day comparison.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
