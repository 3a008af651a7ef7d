package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rental-service/internal/middleware"
	"rental-service/internal/model"
	"rental-service/internal/repository"
	"rental-service/internal/service"
	"rental-service/pkg/logger"
)

// searchPageSize is the number of listings per search results page.
const searchPageSize = 9

// HouseHandler serves the public listing search and the landlord CRUD and
// dashboard routes.
type HouseHandler struct {
	listing *service.ListingService
}

func NewHouseHandler(listing *service.ListingService) *HouseHandler {
	return &HouseHandler{listing: listing}
}

// Search handles GET /houses with the filter form as query parameters.
// "bedrooms=3+" selects the three-or-more bucket.
func (h *HouseHandler) Search(c echo.Context) error {
	log := logger.FromContext(c)

	filter := repository.HouseFilter{
		Query:      c.QueryParam("q"),
		Type:       model.HouseType(c.QueryParam("type")),
		DistrictID: uint(queryInt(c, "district")),
		MinRent:    int64(queryInt(c, "min_rent")),
		MaxRent:    int64(queryInt(c, "max_rent")),
		Sort:       repository.SortOrder(c.QueryParam("sort")),
		Limit:      searchPageSize,
	}

	if bedrooms := c.QueryParam("bedrooms"); bedrooms != "" {
		filter.BedroomsMin = strings.HasSuffix(bedrooms, "+")
		n, err := strconv.Atoi(strings.TrimSuffix(bedrooms, "+"))
		if err != nil {
			return badRequest(c, log, "Invalid bedrooms filter", err)
		}
		filter.Bedrooms = n
	}
	filter.Wifi = c.QueryParam("wifi") == "true"
	filter.Parking = c.QueryParam("parking") == "true"

	page := queryInt(c, "page")
	if page < 1 {
		page = 1
	}
	filter.Offset = (page - 1) * searchPageSize

	houses, total, err := h.listing.Search(c.Request().Context(), filter)
	if err != nil {
		return fail(c, log, err)
	}

	pages := int(total) / searchPageSize
	if int(total)%searchPageSize != 0 {
		pages++
	}
	return c.JSON(http.StatusOK, echo.Map{
		"houses": houses,
		"total":  total,
		"page":   page,
		"pages":  pages,
	})
}

// Featured serves the home page feed of newest available listings.
func (h *HouseHandler) Featured(c echo.Context) error {
	log := logger.FromContext(c)

	houses, err := h.listing.Featured(c.Request().Context())
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"houses": houses})
}

func (h *HouseHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)

	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid house id", err)
	}

	house, err := h.listing.Get(c.Request().Context(), id)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"house": house})
}

// Types lists the property categories for the listing form.
func (h *HouseHandler) Types(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"types": model.HouseTypes})
}

func (h *HouseHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	landlordID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	var req service.HouseInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, log, "Failed to parse listing", err)
	}

	house, err := h.listing.Create(c.Request().Context(), landlordID, req)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Listing created",
		zap.Uint("house_id", house.ID),
		zap.String("landlord_id", landlordID.String()))
	return c.JSON(http.StatusCreated, echo.Map{"house": house})
}

func (h *HouseHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)

	landlordID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid house id", err)
	}

	var req service.HouseInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, log, "Failed to parse listing update", err)
	}

	house, err := h.listing.Update(c.Request().Context(), landlordID, id, req)
	if err != nil {
		return fail(c, log, err)
	}

	log.Info("Listing updated", zap.Uint("house_id", house.ID))
	return c.JSON(http.StatusOK, echo.Map{"house": house})
}

func (h *HouseHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)

	landlordID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	id, err := pathID(c)
	if err != nil {
		return badRequest(c, log, "Invalid house id", err)
	}

	if err := h.listing.Delete(c.Request().Context(), landlordID, id); err != nil {
		return fail(c, log, err)
	}

	log.Info("Listing deleted", zap.Uint("house_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Listing deleted"})
}

func (h *HouseHandler) MyHouses(c echo.Context) error {
	log := logger.FromContext(c)

	landlordID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	houses, err := h.listing.MyHouses(c.Request().Context(), landlordID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"houses": houses})
}

func (h *HouseHandler) Dashboard(c echo.Context) error {
	log := logger.FromContext(c)

	landlordID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}

	stats, err := h.listing.Dashboard(c.Request().Context(), landlordID)
	if err != nil {
		return fail(c, log, err)
	}
	return c.JSON(http.StatusOK, stats)
}

// queryInt parses an integer query parameter, returning 0 when absent or
// malformed.
func queryInt(c echo.Context, name string) int {
	n, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return n
}

// pathID parses the :id path parameter.
func pathID(c echo.Context) (uint, error) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(n), err
}
