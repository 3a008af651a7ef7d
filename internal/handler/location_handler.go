package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"rental-service/internal/repository"
	"rental-service/pkg/logger"
)

// LocationHandler serves the cascading location dropdowns. Each level is
// keyed by its parent id.
type LocationHandler struct {
	locations repository.LocationRepo
}

func NewLocationHandler(locations repository.LocationRepo) *LocationHandler {
	return &LocationHandler{locations: locations}
}

func (h *LocationHandler) Countries(c echo.Context) error {
	log := logger.FromContext(c)
	countries, err := h.locations.Countries(c.Request().Context())
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"countries": countries})
}

func (h *LocationHandler) Provinces(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid country id", err)
	}
	provinces, err := h.locations.ProvincesByCountry(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"provinces": provinces})
}

func (h *LocationHandler) Cities(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid province id", err)
	}
	cities, err := h.locations.CitiesByProvince(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cities": cities})
}

// Districts lists every district when no city is given; the search filter
// dropdown uses the flat form.
func (h *LocationHandler) Districts(c echo.Context) error {
	log := logger.FromContext(c)
	districts, err := h.locations.Districts(c.Request().Context())
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"districts": districts})
}

func (h *LocationHandler) DistrictsByCity(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid city id", err)
	}
	districts, err := h.locations.DistrictsByCity(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"districts": districts})
}

func (h *LocationHandler) Sectors(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid district id", err)
	}
	sectors, err := h.locations.SectorsByDistrict(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"sectors": sectors})
}

func (h *LocationHandler) Cells(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid sector id", err)
	}
	cells, err := h.locations.CellsBySector(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"cells": cells})
}

func (h *LocationHandler) Villages(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid cell id", err)
	}
	villages, err := h.locations.VillagesByCell(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"villages": villages})
}
