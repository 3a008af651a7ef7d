package service

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/apperr"
	"rental-service/internal/model"
	"rental-service/internal/repository"
	"rental-service/prometheus"
)

func (f *fixture) seedCatalogue(t *testing.T) (landlord *model.User, gasabo, nyarugenge model.Village) {
	t.Helper()
	landlord = f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")

	gasabo = f.store.Locations.SeedChain(
		"Rwanda", "Kigali City", "Kigali", "Gasabo", "Remera", "Nyabisindu", "Amahoro")
	nyarugenge = f.store.Locations.SeedChain(
		"Rwanda", "Kigali City", "Kigali", "Nyarugenge", "Nyamirambo", "Mumena", "Rugarama")

	houses := []model.House{
		{Type: model.TypeApartment, Label: "Sunny flat", VillageID: gasabo.ID, MonthlyRent: 300_000_00, Bedrooms: 2, HasWifi: true},
		{Type: model.TypeVilla, Label: "Garden villa", VillageID: gasabo.ID, MonthlyRent: 900_000_00, Bedrooms: 4, Parkings: 2},
		{Type: model.TypeStudio, Label: "Compact studio", VillageID: nyarugenge.ID, MonthlyRent: 150_000_00, Bedrooms: 1},
		{Type: model.TypeHouse, Label: "Family home", VillageID: nyarugenge.ID, MonthlyRent: 500_000_00, Bedrooms: 3, HasWifi: true, Parkings: 1},
	}
	for i := range houses {
		houses[i].Status = model.StatusAvailable
		houses[i].LandlordID = &landlord.ID
		houses[i].IsActive = true
		houses[i].ListedAt = time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, f.store.Houses.Create(ctx(), &houses[i]))
	}
	return landlord, gasabo, nyarugenge
}

func labels(houses []model.House) []string {
	out := make([]string, len(houses))
	for i, h := range houses {
		out[i] = h.Label
	}
	return out
}

func TestSearchFilters(t *testing.T) {
	f := newFixture()
	f.seedCatalogue(t)

	t.Run("no filter returns everything newest first", func(t *testing.T) {
		houses, total, err := f.listing.Search(ctx(), repository.HouseFilter{})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Equal(t, []string{"Family home", "Compact studio", "Garden villa", "Sunny flat"}, labels(houses))
	})

	t.Run("type", func(t *testing.T) {
		houses, _, err := f.listing.Search(ctx(), repository.HouseFilter{Type: model.TypeVilla})
		require.NoError(t, err)
		assert.Equal(t, []string{"Garden villa"}, labels(houses))
	})

	t.Run("rent range", func(t *testing.T) {
		houses, _, err := f.listing.Search(ctx(), repository.HouseFilter{
			MinRent: 200_000_00, MaxRent: 600_000_00, Sort: repository.SortPriceLow,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Sunny flat", "Family home"}, labels(houses))
	})

	t.Run("bedrooms exact", func(t *testing.T) {
		houses, _, err := f.listing.Search(ctx(), repository.HouseFilter{Bedrooms: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"Sunny flat"}, labels(houses))
	})

	t.Run("bedrooms three or more", func(t *testing.T) {
		houses, _, err := f.listing.Search(ctx(), repository.HouseFilter{
			Bedrooms: 3, BedroomsMin: true, Sort: repository.SortPriceLow,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"Family home", "Garden villa"}, labels(houses))
	})

	t.Run("amenities", func(t *testing.T) {
		houses, _, err := f.listing.Search(ctx(), repository.HouseFilter{Wifi: true, Parking: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"Family home"}, labels(houses))
	})

	t.Run("substring over location names", func(t *testing.T) {
		houses, _, err := f.listing.Search(ctx(), repository.HouseFilter{Query: "nyamirambo", Sort: repository.SortPriceLow})
		require.NoError(t, err)
		assert.Equal(t, []string{"Compact studio", "Family home"}, labels(houses))
	})

	t.Run("price descending", func(t *testing.T) {
		houses, _, err := f.listing.Search(ctx(), repository.HouseFilter{Sort: repository.SortPriceHigh})
		require.NoError(t, err)
		assert.Equal(t, []string{"Garden villa", "Family home", "Sunny flat", "Compact studio"}, labels(houses))
	})

	t.Run("pagination", func(t *testing.T) {
		houses, total, err := f.listing.Search(ctx(), repository.HouseFilter{
			Sort: repository.SortPriceLow, Limit: 2, Offset: 2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Equal(t, []string{"Family home", "Garden villa"}, labels(houses))
	})
}

func TestSearchByDistrict(t *testing.T) {
	f := newFixture()
	f.seedCatalogue(t)

	districts, err := f.store.Locations.Districts(ctx())
	require.NoError(t, err)
	var gasaboID uint
	for _, d := range districts {
		if d.Name == "Gasabo" {
			gasaboID = d.ID
		}
	}
	require.NotZero(t, gasaboID)

	houses, _, err := f.listing.Search(ctx(), repository.HouseFilter{DistrictID: gasaboID, Sort: repository.SortPriceLow})
	require.NoError(t, err)
	assert.Equal(t, []string{"Sunny flat", "Garden villa"}, labels(houses))
}

func TestSearchExcludesUnavailable(t *testing.T) {
	f := newFixture()
	f.seedCatalogue(t)

	houses, _, err := f.listing.Search(ctx(), repository.HouseFilter{Type: model.TypeVilla})
	require.NoError(t, err)
	require.Len(t, houses, 1)

	villa := houses[0]
	villa.Status = model.StatusUnderMaintenance
	require.NoError(t, f.store.Houses.Save(ctx(), &villa))

	_, total, err := f.listing.Search(ctx(), repository.HouseFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestHouseCRUDOwnership(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	stranger := f.seedUser(model.RoleLandlord, "stranger", "stranger@example.com", "+250788000109", "stranger pass 1")
	village := f.store.Locations.SeedChain(
		"Rwanda", "Kigali City", "Kigali", "Gasabo", "Remera", "Nyabisindu", "Amahoro")

	in := HouseInput{
		Type:        model.TypeApartment,
		Label:       "New flat",
		VillageID:   village.ID,
		MonthlyRent: 200_000_00,
		Bedrooms:    2,
		Bathrooms:   1,
		Surface:     70,
	}
	house, err := f.listing.Create(ctx(), landlord.ID, in)
	require.NoError(t, err)
	assert.Equal(t, model.StatusAvailable, house.Status)
	assert.True(t, house.OwnedBy(landlord.ID))

	in.Label = "Renamed flat"
	_, err = f.listing.Update(ctx(), stranger.ID, house.ID, in)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	updated, err := f.listing.Update(ctx(), landlord.ID, house.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Renamed flat", updated.Label)

	err = f.listing.Delete(ctx(), stranger.ID, house.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
	require.NoError(t, f.listing.Delete(ctx(), landlord.ID, house.ID))

	_, err = f.listing.Get(ctx(), house.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestCreateHouseValidation(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")

	_, err := f.listing.Create(ctx(), landlord.ID, HouseInput{Type: "Castle", VillageID: 1})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	_, err = f.listing.Create(ctx(), landlord.ID, HouseInput{Type: model.TypeHouse, VillageID: 42})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	village := f.store.Locations.SeedChain(
		"Rwanda", "Kigali City", "Kigali", "Gasabo", "Remera", "Nyabisindu", "Amahoro")
	_, err = f.listing.Create(ctx(), landlord.ID, HouseInput{
		Type: model.TypeHouse, VillageID: village.ID, MonthlyRent: -1,
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestDashboard(t *testing.T) {
	f := newFixture()
	landlord, _, _ := f.seedCatalogue(t)
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")

	myHouses, err := f.listing.MyHouses(ctx(), landlord.ID)
	require.NoError(t, err)
	require.Len(t, myHouses, 4)

	r, err := f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{
		HouseID: myHouses[0].ID, StartDate: today(), Guests: 1,
	})
	require.NoError(t, err)
	_, err = f.booking.CreateVisit(ctx(), tenant.ID, VisitInput{
		HouseID: myHouses[1].ID, VisitDate: today(), Guests: 1,
	})
	require.NoError(t, err)

	_, _, err = f.booking.AcceptReservation(ctx(), landlord.ID, r.ID)
	require.NoError(t, err)

	stats, err := f.listing.Dashboard(ctx(), landlord.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.TotalHouses)
	assert.Equal(t, int64(3), stats.AvailableHouses)
	assert.Equal(t, int64(1), stats.RentedHouses)
	assert.Equal(t, int64(1), stats.TotalReservations)
	assert.Equal(t, int64(1), stats.PendingVisits)
	require.Len(t, stats.RecentReservations, 1)
	assert.Equal(t, model.ReservationAccepted, stats.RecentReservations[0].Status)
	require.Len(t, stats.RecentVisits, 1)
}

func TestSyncAvailableGauge(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	h1 := f.seedHouse(landlord.ID, 250_000_00)
	f.seedHouse(landlord.ID, 300_000_00)
	rented := f.seedHouse(landlord.ID, 400_000_00)

	rented.Status = model.StatusRented
	require.NoError(t, f.store.Houses.Save(ctx(), rented))

	// Sync sets the absolute value from the store, regardless of what
	// earlier increments left behind.
	require.NoError(t, f.listing.SyncAvailableGauge(ctx()))
	assert.Equal(t, float64(2), testutil.ToFloat64(prometheus.AvailableHousesGauge))

	// From there the accept path keeps it incremental.
	r, err := f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{
		HouseID: h1.ID, StartDate: today(), Guests: 1,
	})
	require.NoError(t, err)
	_, _, err = f.booking.AcceptReservation(ctx(), landlord.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(1), testutil.ToFloat64(prometheus.AvailableHousesGauge))
}
