package service

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/apperr"
	"rental-service/internal/model"
	"rental-service/internal/repository"
)

func today() time.Time { return dateOnly(time.Now()) }

func TestCreateReservationValidation(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	_, err := f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{
		HouseID: house.ID, StartDate: today(), Guests: 0,
	})
	assert.ErrorIs(t, err, apperr.ErrInvalidGuests)

	// Yesterday is rejected, today is accepted.
	_, err = f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{
		HouseID: house.ID, StartDate: today().AddDate(0, 0, -1), Guests: 2,
	})
	assert.ErrorIs(t, err, apperr.ErrPastDate)

	_, err = f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{
		HouseID: 999, StartDate: today(), Guests: 2,
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = f.booking.CreateReservation(ctx(), landlord.ID, ReservationInput{
		HouseID: house.ID, StartDate: today(), Guests: 2,
	})
	assert.ErrorIs(t, err, apperr.ErrSelfBooking)

	r, err := f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{
		HouseID: house.ID, StartDate: today(), Guests: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReservationPending, r.Status)

	// Second pending reservation on the same house is refused.
	_, err = f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{
		HouseID: house.ID, StartDate: today().AddDate(0, 0, 7), Guests: 2,
	})
	assert.ErrorIs(t, err, apperr.ErrDuplicatePending)
}

func TestCreateReservationTodayAcrossZones(t *testing.T) {
	// Dates arrive from the wire parsed in UTC while the server clock may
	// run in any zone; "today" must be accepted either way.
	zones := map[string]*time.Location{
		"west of UTC": time.FixedZone("UTC-5", -5*60*60),
		"east of UTC": time.FixedZone("UTC+10", 10*60*60),
	}
	for name, loc := range zones {
		t.Run(name, func(t *testing.T) {
			f := newFixture()
			landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
			tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
			house := f.seedHouse(landlord.ID, 250_000_00)

			now := time.Date(2026, 9, 1, 10, 0, 0, 0, loc)
			f.booking.now = func() time.Time { return now }

			start, err := time.Parse("2006-01-02", "2026-09-01")
			require.NoError(t, err)

			_, err = f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{
				HouseID: house.ID, StartDate: start, Guests: 1,
			})
			assert.NoError(t, err)

			yesterday, _ := time.Parse("2006-01-02", "2026-08-31")
			_, err = f.booking.CreateVisit(ctx(), tenant.ID, VisitInput{
				HouseID: house.ID, VisitDate: yesterday, Guests: 1,
			})
			assert.ErrorIs(t, err, apperr.ErrPastDate)
		})
	}
}

func TestCreateReservationConcurrentDuplicates(t *testing.T) {
	// The duplicate check and the insert commit together, so concurrent
	// requests cannot both slip past the check.
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	const workers = 16
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{
				HouseID: house.ID, StartDate: today(), Guests: 1,
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var created, dup int
	for err := range errs {
		switch {
		case err == nil:
			created++
		case errors.Is(err, apperr.ErrDuplicatePending):
			dup++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, created)
	assert.Equal(t, workers-1, dup)

	got, err := f.booking.MyReservations(ctx(), tenant.ID)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestCreateReservationUnavailableHouse(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	house.Status = model.StatusRented
	require.NoError(t, f.store.Houses.Save(ctx(), house))

	_, err := f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{
		HouseID: house.ID, StartDate: today(), Guests: 1,
	})
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestAcceptReservationExclusive(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	t1 := f.seedUser(model.RoleTenant, "tenant1", "tenant1@example.com", "+250788000101", "tenant pass 123")
	t2 := f.seedUser(model.RoleTenant, "tenant2", "tenant2@example.com", "+250788000102", "tenant pass 123")
	t3 := f.seedUser(model.RoleTenant, "tenant3", "tenant3@example.com", "+250788000103", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	r1, err := f.booking.CreateReservation(ctx(), t1.ID, ReservationInput{HouseID: house.ID, StartDate: today(), Guests: 1})
	require.NoError(t, err)
	r2, err := f.booking.CreateReservation(ctx(), t2.ID, ReservationInput{HouseID: house.ID, StartDate: today(), Guests: 2})
	require.NoError(t, err)
	_, err = f.booking.CreateReservation(ctx(), t3.ID, ReservationInput{HouseID: house.ID, StartDate: today(), Guests: 3})
	require.NoError(t, err)

	accepted, cancelled, err := f.booking.AcceptReservation(ctx(), landlord.ID, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ReservationAccepted, accepted.Status)
	assert.Equal(t, int64(2), cancelled)

	// The house is rented and the competitors are gone, not just rejected.
	got, err := f.store.Houses.ByID(ctx(), house.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusRented, got.Status)

	_, err = f.store.Reservations.ByID(ctx(), r2.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	// The winner sees notification mail.
	assert.Equal(t, "reservation_accepted", f.mail.last().Template)
	assert.Equal(t, "tenant1@example.com", f.mail.last().To)
}

func TestAcceptReservationRace(t *testing.T) {
	f := newFixture()
	landlordA := f.seedUser(model.RoleLandlord, "landlordA", "a@example.com", "+250788000100", "landlord pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	house := f.seedHouse(landlordA.ID, 250_000_00)

	r, err := f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{HouseID: house.ID, StartDate: today(), Guests: 1})
	require.NoError(t, err)

	// Simulate a concurrent acceptance committing first: the house left
	// Available before this call re-checks it.
	house.Status = model.StatusRented
	require.NoError(t, f.store.Houses.Save(ctx(), house))

	_, _, err = f.booking.AcceptReservation(ctx(), landlordA.ID, r.ID)
	assert.ErrorIs(t, err, apperr.ErrUnavailable)
}

func TestAcceptReservationAuthorization(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	stranger := f.seedUser(model.RoleLandlord, "stranger", "stranger@example.com", "+250788000109", "stranger pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	r, err := f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{HouseID: house.ID, StartDate: today(), Guests: 1})
	require.NoError(t, err)

	_, _, err = f.booking.AcceptReservation(ctx(), stranger.ID, r.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	err = f.booking.RejectReservation(ctx(), stranger.ID, r.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)
}

func TestRejectReservationDeletes(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	r, err := f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{HouseID: house.ID, StartDate: today(), Guests: 1})
	require.NoError(t, err)

	require.NoError(t, f.booking.RejectReservation(ctx(), landlord.ID, r.ID))

	// No rejected record survives; the house stays available.
	_, err = f.store.Reservations.ByID(ctx(), r.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	got, _ := f.store.Houses.ByID(ctx(), house.ID)
	assert.Equal(t, model.StatusAvailable, got.Status)
}

func TestCancelReservationOwnerOnly(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	other := f.seedUser(model.RoleTenant, "other", "other@example.com", "+250788000102", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	r, err := f.booking.CreateReservation(ctx(), tenant.ID, ReservationInput{HouseID: house.ID, StartDate: today(), Guests: 1})
	require.NoError(t, err)

	err = f.booking.CancelReservation(ctx(), other.ID, r.ID)
	assert.ErrorIs(t, err, apperr.ErrForbidden)

	require.NoError(t, f.booking.CancelReservation(ctx(), tenant.ID, r.ID))
	_, err = f.store.Reservations.ByID(ctx(), r.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVisitsAreNonExclusive(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	t1 := f.seedUser(model.RoleTenant, "tenant1", "tenant1@example.com", "+250788000101", "tenant pass 123")
	t2 := f.seedUser(model.RoleTenant, "tenant2", "tenant2@example.com", "+250788000102", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	v1, err := f.booking.CreateVisit(ctx(), t1.ID, VisitInput{HouseID: house.ID, VisitDate: today(), Guests: 1})
	require.NoError(t, err)
	v2, err := f.booking.CreateVisit(ctx(), t2.ID, VisitInput{HouseID: house.ID, VisitDate: today(), Guests: 2})
	require.NoError(t, err)

	accepted, err := f.booking.AcceptVisit(ctx(), landlord.ID, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VisitAccepted, accepted.Status)

	// The other visit is untouched and the house stays available.
	got, err := f.store.Visits.ByID(ctx(), v2.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VisitPending, got.Status)
	h, _ := f.store.Houses.ByID(ctx(), house.ID)
	assert.Equal(t, model.StatusAvailable, h.Status)
}

func TestRefuseVisitRetainsRecord(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	v, err := f.booking.CreateVisit(ctx(), tenant.ID, VisitInput{HouseID: house.ID, VisitDate: today(), Guests: 1})
	require.NoError(t, err)

	refused, err := f.booking.RefuseVisit(ctx(), landlord.ID, v.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VisitRefused, refused.Status)

	// Unlike reservation rejection, the record survives.
	got, err := f.store.Visits.ByID(ctx(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VisitRefused, got.Status)

	// Terminal states cannot transition again.
	_, err = f.booking.AcceptVisit(ctx(), landlord.ID, v.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestVisitStatusUpdateGuardedOnPending(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	v, err := f.booking.CreateVisit(ctx(), tenant.ID, VisitInput{HouseID: house.ID, VisitDate: today(), Guests: 1})
	require.NoError(t, err)

	// The guard lives in the update itself, so even a caller that read
	// Pending a moment ago cannot overwrite a terminal state.
	require.NoError(t, f.store.Visits.UpdateStatusFromPending(ctx(), v.ID, model.VisitAccepted))
	err = f.store.Visits.UpdateStatusFromPending(ctx(), v.ID, model.VisitRefused)
	assert.ErrorIs(t, err, repository.ErrNotPending)

	got, err := f.store.Visits.ByID(ctx(), v.ID)
	require.NoError(t, err)
	assert.Equal(t, model.VisitAccepted, got.Status)
}

func TestCancelVisitPendingOnly(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	v, err := f.booking.CreateVisit(ctx(), tenant.ID, VisitInput{HouseID: house.ID, VisitDate: today(), Guests: 1})
	require.NoError(t, err)

	_, err = f.booking.AcceptVisit(ctx(), landlord.ID, v.ID)
	require.NoError(t, err)

	err = f.booking.CancelVisit(ctx(), tenant.ID, v.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestDuplicatePendingVisit(t *testing.T) {
	f := newFixture()
	landlord := f.seedUser(model.RoleLandlord, "landlord", "landlord@example.com", "+250788000100", "landlord pass 1")
	tenant := f.seedUser(model.RoleTenant, "tenant", "tenant@example.com", "+250788000101", "tenant pass 123")
	house := f.seedHouse(landlord.ID, 250_000_00)

	_, err := f.booking.CreateVisit(ctx(), tenant.ID, VisitInput{HouseID: house.ID, VisitDate: today(), Guests: 1})
	require.NoError(t, err)

	_, err = f.booking.CreateVisit(ctx(), tenant.ID, VisitInput{HouseID: house.ID, VisitDate: today().AddDate(0, 0, 3), Guests: 1})
	assert.ErrorIs(t, err, apperr.ErrDuplicatePending)
}
