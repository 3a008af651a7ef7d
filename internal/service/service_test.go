package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"rental-service/internal/model"
	"rental-service/internal/repository"
	"rental-service/pkg/config"
	"rental-service/pkg/jwtutil"
)

func init() {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})
}

func ctx() context.Context { return context.Background() }

type sentMail struct {
	To       string
	Subject  string
	Template string
	Context  map[string]string
}

// captureMailer records every send for assertions.
type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (m *captureMailer) Send(to, subject, template string, ctx map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Template: template, Context: ctx})
	return nil
}

func (m *captureMailer) last() sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

func (m *captureMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type fixture struct {
	store    *repository.Memory
	mail     *captureMailer
	verify   *VerificationService
	identity *IdentityService
	listing  *ListingService
	booking  *BookingService
}

func newFixture() *fixture {
	store := repository.NewMemory()
	mail := &captureMailer{}
	log := zap.NewNop()

	verify := NewVerification(store.Codes, 15*time.Minute)
	identity := NewIdentity(store.Users, verify, mail, config.PasswordConfig{MinLength: 8}, log)
	listing := NewListing(store.Houses, store.Reservations, store.Visits, store.Locations)
	booking := NewBooking(store.Reservations, store.Visits, store.Houses, mail, log)

	return &fixture{
		store:    store,
		mail:     mail,
		verify:   verify,
		identity: identity,
		listing:  listing,
		booking:  booking,
	}
}

// seedUser inserts an active account directly into the store.
func (f *fixture) seedUser(role model.Role, username, email, phone, password string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &model.User{
		ID:       uuid.New(),
		Role:     role,
		Username: username,
		Email:    email,
		Phone:    phone,
		Password: string(hash),
		IsActive: true,
	}
	_ = f.store.Users.Create(ctx(), user)
	return user
}

// seedHouse inserts an available listing owned by the landlord, attached to
// a fresh location chain.
func (f *fixture) seedHouse(landlordID uuid.UUID, rent int64) *model.House {
	village := f.store.Locations.SeedChain(
		"Rwanda", "Kigali City", "Kigali", "Gasabo", "Remera", "Nyabisindu", "Amahoro")
	house := &model.House{
		Type:        model.TypeApartment,
		Status:      model.StatusAvailable,
		Label:       "Test listing",
		LandlordID:  &landlordID,
		VillageID:   village.ID,
		MonthlyRent: rent,
		Bedrooms:    2,
		Bathrooms:   1,
		Surface:     80,
		IsActive:    true,
	}
	_ = f.store.Houses.Create(ctx(), house)
	return house
}
