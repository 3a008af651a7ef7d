package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rental-service/internal/middleware"
	"rental-service/internal/service"
	"rental-service/pkg/logger"
)

// dateLayout is the wire format for start and visit dates.
const dateLayout = "2006-01-02"

// BookingHandler serves the reservation and visit request routes.
type BookingHandler struct {
	booking *service.BookingService
}

func NewBookingHandler(booking *service.BookingService) *BookingHandler {
	return &BookingHandler{booking: booking}
}

func (h *BookingHandler) CreateReservation(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req struct {
		HouseID   uint   `json:"house_id"`
		StartDate string `json:"start_date"`
		Guests    int    `json:"guests"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, log, "Failed to parse reservation request", err)
	}
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return badRequest(c, log, "Invalid start date", err)
	}

	r, err := h.booking.CreateReservation(c.Request().Context(), userID, service.ReservationInput{
		HouseID:   req.HouseID,
		StartDate: start,
		Guests:    req.Guests,
	})
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Reservation created",
		zap.Uint("reservation_id", r.ID),
		zap.Uint("house_id", r.HouseID))
	return c.JSON(http.StatusCreated, echo.Map{"reservation": r})
}

func (h *BookingHandler) AcceptReservation(c echo.Context) error {
	log := logger.FromContext(c)

	landlordID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid reservation id", err)
	}

	r, cancelled, err := h.booking.AcceptReservation(c.Request().Context(), landlordID, id)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Reservation accepted",
		zap.Uint("reservation_id", r.ID),
		zap.Int64("cancelled_competitors", cancelled))
	return c.JSON(http.StatusOK, echo.Map{
		"message":                "Reservation accepted",
		"reservation":            r,
		"cancelled_reservations": cancelled,
	})
}

func (h *BookingHandler) RejectReservation(c echo.Context) error {
	log := logger.FromContext(c)

	landlordID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid reservation id", err)
	}

	if err := h.booking.RejectReservation(c.Request().Context(), landlordID, id); err != nil {
		return fail(c, log, err)
	}

	log.Info("Reservation rejected", zap.Uint("reservation_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Reservation rejected"})
}

func (h *BookingHandler) CancelReservation(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid reservation id", err)
	}

	if err := h.booking.CancelReservation(c.Request().Context(), userID, id); err != nil {
		return fail(c, log, err)
	}

	log.Info("Reservation cancelled", zap.Uint("reservation_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Reservation cancelled"})
}

func (h *BookingHandler) MyReservations(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	reservations, err := h.booking.MyReservations(c.Request().Context(), userID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": reservations})
}

func (h *BookingHandler) CreateVisit(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req struct {
		HouseID   uint   `json:"house_id"`
		VisitDate string `json:"visit_date"`
		Guests    int    `json:"guests"`
		Message   string `json:"message"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, log, "Failed to parse visit request", err)
	}
	date, err := time.Parse(dateLayout, req.VisitDate)
	if err != nil {
		return badRequest(c, log, "Invalid visit date", err)
	}

	v, err := h.booking.CreateVisit(c.Request().Context(), userID, service.VisitInput{
		HouseID:   req.HouseID,
		VisitDate: date,
		Guests:    req.Guests,
		Message:   req.Message,
	})
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Visit request created",
		zap.Uint("visit_id", v.ID),
		zap.Uint("house_id", v.HouseID))
	return c.JSON(http.StatusCreated, echo.Map{"visit_request": v})
}

func (h *BookingHandler) AcceptVisit(c echo.Context) error {
	log := logger.FromContext(c)

	landlordID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid visit id", err)
	}

	v, err := h.booking.AcceptVisit(c.Request().Context(), landlordID, id)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Visit request accepted", zap.Uint("visit_id", v.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Visit request accepted",
		"visit_request": v,
	})
}

func (h *BookingHandler) RefuseVisit(c echo.Context) error {
	log := logger.FromContext(c)

	landlordID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid visit id", err)
	}

	v, err := h.booking.RefuseVisit(c.Request().Context(), landlordID, id)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Visit request refused", zap.Uint("visit_id", v.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Visit request refused",
		"visit_request": v,
	})
}

func (h *BookingHandler) CancelVisit(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid visit id", err)
	}

	if err := h.booking.CancelVisit(c.Request().Context(), userID, id); err != nil {
		return fail(c, log, err)
	}

	log.Info("Visit request cancelled", zap.Uint("visit_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Visit request cancelled"})
}

func (h *BookingHandler) LandlordReservations(c echo.Context) error {
	log := logger.FromContext(c)

	landlordID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	reservations, err := h.booking.LandlordReservations(c.Request().Context(), landlordID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": reservations})
}

func (h *BookingHandler) LandlordVisits(c echo.Context) error {
	log := logger.FromContext(c)

	landlordID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	visits, err := h.booking.LandlordVisits(c.Request().Context(), landlordID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"visit_requests": visits})
}

func (h *BookingHandler) MyVisits(c echo.Context) error {
	log := logger.FromContext(c)

	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	visits, err := h.booking.MyVisits(c.Request().Context(), userID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"visit_requests": visits})
}
