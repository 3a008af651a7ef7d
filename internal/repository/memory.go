package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rental-service/internal/model"
)

// Memory bundles in-memory implementations of every repo interface behind a
// single mutex, so multi-entity operations such as AcceptExclusive are as
// atomic as their SQL counterparts. Used by unit tests and usable as a dev
// backend; the production wiring uses the GORM repos.
type Memory struct {
	s            *memoryStore
	Users        *MemoryUsers
	Codes        *MemoryCodes
	Houses       *MemoryHouses
	Reservations *MemoryReservations
	Visits       *MemoryVisits
	Locations    *MemoryLocations
}

func NewMemory() *Memory {
	s := &memoryStore{
		users:        make(map[uuid.UUID]model.User),
		codes:        make(map[uint]model.VerificationCode),
		houses:       make(map[uint]model.House),
		reservations: make(map[uint]model.Reservation),
		visits:       make(map[uint]model.VisitRequest),
		countries:    make(map[uint]model.Country),
		provinces:    make(map[uint]model.Province),
		cities:       make(map[uint]model.City),
		districts:    make(map[uint]model.District),
		sectors:      make(map[uint]model.Sector),
		cells:        make(map[uint]model.Cell),
		villages:     make(map[uint]model.Village),
	}
	return &Memory{
		s:            s,
		Users:        &MemoryUsers{s: s},
		Codes:        &MemoryCodes{s: s},
		Houses:       &MemoryHouses{s: s},
		Reservations: &MemoryReservations{s: s},
		Visits:       &MemoryVisits{s: s},
		Locations:    &MemoryLocations{s: s},
	}
}

type memoryStore struct {
	mu sync.Mutex

	users map[uuid.UUID]model.User

	codes   map[uint]model.VerificationCode
	codeSeq uint

	houses   map[uint]model.House
	houseSeq uint

	reservations map[uint]model.Reservation
	resSeq       uint

	visits   map[uint]model.VisitRequest
	visitSeq uint

	countries   map[uint]model.Country
	countrySeq  uint
	provinces   map[uint]model.Province
	provinceSeq uint
	cities      map[uint]model.City
	citySeq     uint
	districts   map[uint]model.District
	districtSeq uint
	sectors     map[uint]model.Sector
	sectorSeq   uint
	cells       map[uint]model.Cell
	cellSeq     uint
	villages    map[uint]model.Village
	villageSeq  uint
}

// districtOf walks village → cell → sector to the district id; zero when
// any link is missing.
func (s *memoryStore) districtOf(villageID uint) uint {
	v, ok := s.villages[villageID]
	if !ok {
		return 0
	}
	c, ok := s.cells[v.CellID]
	if !ok {
		return 0
	}
	sec, ok := s.sectors[c.SectorID]
	if !ok {
		return 0
	}
	return sec.DistrictID
}

// locationNames returns the village/cell/sector/district names for the
// substring filter.
func (s *memoryStore) locationNames(villageID uint) []string {
	var names []string
	v, ok := s.villages[villageID]
	if !ok {
		return names
	}
	names = append(names, v.Name)
	c, ok := s.cells[v.CellID]
	if !ok {
		return names
	}
	names = append(names, c.Name)
	sec, ok := s.sectors[c.SectorID]
	if !ok {
		return names
	}
	names = append(names, sec.Name)
	if d, ok := s.districts[sec.DistrictID]; ok {
		names = append(names, d.Name)
	}
	return names
}

// MemoryUsers implements UserRepo.
type MemoryUsers struct{ s *memoryStore }

func (m *MemoryUsers) Create(_ context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.s.users[user.ID] = *user
	return nil
}

func (m *MemoryUsers) ByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	u, ok := m.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m *MemoryUsers) ByUsername(_ context.Context, username string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Username == username })
}

func (m *MemoryUsers) ByPhone(_ context.Context, phone string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Phone == phone })
}

func (m *MemoryUsers) ByEmail(_ context.Context, email string) (*model.User, error) {
	return m.find(func(u model.User) bool { return u.Email == email })
}

func (m *MemoryUsers) EmailTaken(_ context.Context, email string) (bool, error) {
	_, err := m.find(func(u model.User) bool { return u.Email == email })
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *MemoryUsers) PhoneTaken(_ context.Context, phone string) (bool, error) {
	_, err := m.find(func(u model.User) bool { return u.Phone == phone })
	if err == ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (m *MemoryUsers) Save(_ context.Context, user *model.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.users[user.ID] = *user
	return nil
}

func (m *MemoryUsers) find(match func(model.User) bool) (*model.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, u := range m.s.users {
		if match(u) {
			out := u
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

// MemoryCodes implements CodeRepo.
type MemoryCodes struct{ s *memoryStore }

func (m *MemoryCodes) Create(_ context.Context, code *model.VerificationCode) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for _, rec := range m.s.codes {
		if !rec.Pending || rec.Code != code.Code {
			continue
		}
		if rec.UserID != nil && code.UserID != nil && *rec.UserID == *code.UserID {
			return ErrCodeExists
		}
	}
	m.s.codeSeq++
	code.ID = m.s.codeSeq
	if code.CreatedAt.IsZero() {
		code.CreatedAt = time.Now()
	}
	m.s.codes[code.ID] = *code
	return nil
}

func (m *MemoryCodes) FindPending(_ context.Context, code string, purpose model.CodePurpose, email *string) (*model.VerificationCode, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var best *model.VerificationCode
	for _, rec := range m.s.codes {
		if rec.Code != code || rec.Purpose != purpose || !rec.Pending {
			continue
		}
		if email != nil && (rec.Email == nil || *rec.Email != *email) {
			continue
		}
		rec := rec
		if best == nil || rec.CreatedAt.After(best.CreatedAt) {
			best = &rec
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	return best, nil
}

func (m *MemoryCodes) MarkConsumed(_ context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	rec, ok := m.s.codes[id]
	if !ok {
		return nil
	}
	rec.Pending = false
	m.s.codes[id] = rec
	return nil
}

// MemoryHouses implements HouseRepo.
type MemoryHouses struct{ s *memoryStore }

func (m *MemoryHouses) Create(_ context.Context, house *model.House) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.houseSeq++
	house.ID = m.s.houseSeq
	if house.ListedAt.IsZero() {
		house.ListedAt = time.Now()
	}
	m.s.houses[house.ID] = *house
	return nil
}

func (m *MemoryHouses) ByID(_ context.Context, id uint) (*model.House, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	h, ok := m.s.houses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &h, nil
}

func (m *MemoryHouses) Save(_ context.Context, house *model.House) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.s.houses[house.ID] = *house
	return nil
}

func (m *MemoryHouses) Delete(_ context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.houses, id)
	return nil
}

func (m *MemoryHouses) ByLandlord(_ context.Context, landlordID uuid.UUID) ([]model.House, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.House
	for _, h := range m.s.houses {
		if h.OwnedBy(landlordID) {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ListedAt.After(out[j].ListedAt) })
	return out, nil
}

func (m *MemoryHouses) Search(_ context.Context, f HouseFilter) ([]model.House, int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var out []model.House
	for _, h := range m.s.houses {
		if !h.IsActive || h.Status != model.StatusAvailable {
			continue
		}
		if f.Query != "" && !m.matchesQuery(h, f.Query) {
			continue
		}
		if f.Type != "" && h.Type != f.Type {
			continue
		}
		if f.DistrictID > 0 && m.s.districtOf(h.VillageID) != f.DistrictID {
			continue
		}
		if f.MinRent > 0 && h.MonthlyRent < f.MinRent {
			continue
		}
		if f.MaxRent > 0 && h.MonthlyRent > f.MaxRent {
			continue
		}
		if f.Bedrooms > 0 {
			if f.BedroomsMin {
				if h.Bedrooms < f.Bedrooms {
					continue
				}
			} else if h.Bedrooms != f.Bedrooms {
				continue
			}
		}
		if f.Wifi && !h.HasWifi {
			continue
		}
		if f.Parking && h.Parkings == 0 {
			continue
		}
		out = append(out, h)
	}

	switch f.Sort {
	case SortPriceLow:
		sort.Slice(out, func(i, j int) bool { return out[i].MonthlyRent < out[j].MonthlyRent })
	case SortPriceHigh:
		sort.Slice(out, func(i, j int) bool { return out[i].MonthlyRent > out[j].MonthlyRent })
	default:
		sort.Slice(out, func(i, j int) bool { return out[i].ListedAt.After(out[j].ListedAt) })
	}

	total := int64(len(out))
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return nil, total, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, total, nil
}

func (m *MemoryHouses) matchesQuery(h model.House, query string) bool {
	q := strings.ToLower(query)
	fields := []string{h.Label, h.Description, h.Neighborhood, h.StreetAddress}
	fields = append(fields, m.s.locationNames(h.VillageID)...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func (m *MemoryHouses) CountByLandlord(_ context.Context, landlordID uuid.UUID, status model.HouseStatus) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var count int64
	for _, h := range m.s.houses {
		if h.OwnedBy(landlordID) && (status == "" || h.Status == status) {
			count++
		}
	}
	return count, nil
}

func (m *MemoryHouses) CountByStatus(_ context.Context, status model.HouseStatus) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var count int64
	for _, h := range m.s.houses {
		if h.IsActive && h.Status == status {
			count++
		}
	}
	return count, nil
}

// MemoryReservations implements ReservationRepo.
type MemoryReservations struct{ s *memoryStore }

// Create inserts unconditionally. Kept for seeding fixtures; the service
// path goes through CreatePending.
func (m *MemoryReservations) Create(_ context.Context, r *model.Reservation) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.insert(r)
	return nil
}

func (m *MemoryReservations) insert(r *model.Reservation) {
	m.s.resSeq++
	r.ID = m.s.resSeq
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	m.s.reservations[r.ID] = *r
}

func (m *MemoryReservations) CreatePending(_ context.Context, r *model.Reservation, today time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.houses[r.HouseID]; !ok {
		return ErrNotFound
	}
	for _, other := range m.s.reservations {
		if other.HouseID == r.HouseID && other.UserID == r.UserID &&
			other.Status == model.ReservationPending && !other.StartDate.Before(today) {
			return ErrPendingExists
		}
	}
	m.insert(r)
	return nil
}

func (m *MemoryReservations) ByID(_ context.Context, id uint) (*model.Reservation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	r, ok := m.s.reservations[id]
	if !ok {
		return nil, ErrNotFound
	}
	if h, ok := m.s.houses[r.HouseID]; ok {
		r.House = h
	}
	if u, ok := m.s.users[r.UserID]; ok {
		r.User = u
	}
	return &r, nil
}

func (m *MemoryReservations) AcceptExclusive(_ context.Context, reservationID uint) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	res, ok := m.s.reservations[reservationID]
	if !ok {
		return 0, ErrNotFound
	}
	house, ok := m.s.houses[res.HouseID]
	if !ok {
		return 0, ErrNotFound
	}
	if house.Status != model.StatusAvailable {
		return 0, ErrHouseUnavailable
	}

	house.Status = model.StatusRented
	m.s.houses[house.ID] = house

	res.Status = model.ReservationAccepted
	m.s.reservations[res.ID] = res

	var cancelled int64
	for id, other := range m.s.reservations {
		if other.HouseID == res.HouseID && id != res.ID {
			delete(m.s.reservations, id)
			cancelled++
		}
	}
	return cancelled, nil
}

func (m *MemoryReservations) Delete(_ context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.reservations, id)
	return nil
}

func (m *MemoryReservations) ByUser(_ context.Context, userID uuid.UUID) ([]model.Reservation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Reservation
	for _, r := range m.s.reservations {
		if r.UserID == userID {
			if h, ok := m.s.houses[r.HouseID]; ok {
				r.House = h
			}
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryReservations) ByLandlord(_ context.Context, landlordID uuid.UUID, limit int) ([]model.Reservation, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Reservation
	for _, r := range m.s.reservations {
		h, ok := m.s.houses[r.HouseID]
		if !ok || !h.OwnedBy(landlordID) {
			continue
		}
		r.House = h
		if u, ok := m.s.users[r.UserID]; ok {
			r.User = u
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryReservations) CountByLandlord(_ context.Context, landlordID uuid.UUID) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var count int64
	for _, r := range m.s.reservations {
		if h, ok := m.s.houses[r.HouseID]; ok && h.OwnedBy(landlordID) {
			count++
		}
	}
	return count, nil
}

// MemoryVisits implements VisitRepo.
type MemoryVisits struct{ s *memoryStore }

// Create inserts unconditionally, for seeding fixtures.
func (m *MemoryVisits) Create(_ context.Context, v *model.VisitRequest) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	m.insert(v)
	return nil
}

func (m *MemoryVisits) insert(v *model.VisitRequest) {
	m.s.visitSeq++
	v.ID = m.s.visitSeq
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now()
	}
	m.s.visits[v.ID] = *v
}

func (m *MemoryVisits) CreatePending(_ context.Context, v *model.VisitRequest, today time.Time) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	if _, ok := m.s.houses[v.HouseID]; !ok {
		return ErrNotFound
	}
	for _, other := range m.s.visits {
		if other.HouseID == v.HouseID && other.UserID == v.UserID &&
			other.Status == model.VisitPending && !other.VisitDate.Before(today) {
			return ErrPendingExists
		}
	}
	m.insert(v)
	return nil
}

func (m *MemoryVisits) ByID(_ context.Context, id uint) (*model.VisitRequest, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	v, ok := m.s.visits[id]
	if !ok {
		return nil, ErrNotFound
	}
	if h, ok := m.s.houses[v.HouseID]; ok {
		v.House = h
	}
	if u, ok := m.s.users[v.UserID]; ok {
		v.User = u
	}
	return &v, nil
}

func (m *MemoryVisits) UpdateStatusFromPending(_ context.Context, id uint, status model.VisitRequestStatus) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	v, ok := m.s.visits[id]
	if !ok {
		return ErrNotFound
	}
	if v.Status != model.VisitPending {
		return ErrNotPending
	}
	v.Status = status
	m.s.visits[id] = v
	return nil
}

func (m *MemoryVisits) Delete(_ context.Context, id uint) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	delete(m.s.visits, id)
	return nil
}

func (m *MemoryVisits) ByUser(_ context.Context, userID uuid.UUID) ([]model.VisitRequest, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.VisitRequest
	for _, v := range m.s.visits {
		if v.UserID == userID {
			if h, ok := m.s.houses[v.HouseID]; ok {
				v.House = h
			}
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryVisits) ByLandlord(_ context.Context, landlordID uuid.UUID, limit int) ([]model.VisitRequest, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.VisitRequest
	for _, v := range m.s.visits {
		h, ok := m.s.houses[v.HouseID]
		if !ok || !h.OwnedBy(landlordID) {
			continue
		}
		v.House = h
		if u, ok := m.s.users[v.UserID]; ok {
			v.User = u
		}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryVisits) CountPendingByLandlord(_ context.Context, landlordID uuid.UUID) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var count int64
	for _, v := range m.s.visits {
		if v.Status != model.VisitPending {
			continue
		}
		if h, ok := m.s.houses[v.HouseID]; ok && h.OwnedBy(landlordID) {
			count++
		}
	}
	return count, nil
}

// MemoryLocations implements LocationRepo, plus seed helpers for tests.
type MemoryLocations struct{ s *memoryStore }

// SeedChain inserts one full country→village chain and returns the leaf
// village. Handy for tests and dev fixtures.
func (m *MemoryLocations) SeedChain(country, province, city, district, sector, cell, village string) model.Village {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	m.s.countrySeq++
	co := model.Country{ID: m.s.countrySeq, Name: country}
	m.s.countries[co.ID] = co

	m.s.provinceSeq++
	pr := model.Province{ID: m.s.provinceSeq, CountryID: co.ID, Name: province}
	m.s.provinces[pr.ID] = pr

	m.s.citySeq++
	ci := model.City{ID: m.s.citySeq, ProvinceID: pr.ID, Name: city}
	m.s.cities[ci.ID] = ci

	m.s.districtSeq++
	di := model.District{ID: m.s.districtSeq, CityID: ci.ID, Name: district}
	m.s.districts[di.ID] = di

	m.s.sectorSeq++
	se := model.Sector{ID: m.s.sectorSeq, DistrictID: di.ID, Name: sector}
	m.s.sectors[se.ID] = se

	m.s.cellSeq++
	ce := model.Cell{ID: m.s.cellSeq, SectorID: se.ID, Name: cell}
	m.s.cells[ce.ID] = ce

	m.s.villageSeq++
	vi := model.Village{ID: m.s.villageSeq, CellID: ce.ID, Name: village}
	m.s.villages[vi.ID] = vi

	return vi
}

func (m *MemoryLocations) Countries(_ context.Context) ([]model.Country, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]model.Country, 0, len(m.s.countries))
	for _, c := range m.s.countries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryLocations) ProvincesByCountry(_ context.Context, countryID uint) ([]model.Province, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Province
	for _, p := range m.s.provinces {
		if p.CountryID == countryID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryLocations) CitiesByProvince(_ context.Context, provinceID uint) ([]model.City, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.City
	for _, c := range m.s.cities {
		if c.ProvinceID == provinceID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryLocations) DistrictsByCity(_ context.Context, cityID uint) ([]model.District, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.District
	for _, d := range m.s.districts {
		if d.CityID == cityID {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryLocations) Districts(_ context.Context) ([]model.District, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	out := make([]model.District, 0, len(m.s.districts))
	for _, d := range m.s.districts {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryLocations) SectorsByDistrict(_ context.Context, districtID uint) ([]model.Sector, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Sector
	for _, s := range m.s.sectors {
		if s.DistrictID == districtID {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryLocations) CellsBySector(_ context.Context, sectorID uint) ([]model.Cell, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Cell
	for _, c := range m.s.cells {
		if c.SectorID == sectorID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryLocations) VillagesByCell(_ context.Context, cellID uint) ([]model.Village, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	var out []model.Village
	for _, v := range m.s.villages {
		if v.CellID == cellID {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryLocations) VillageByID(_ context.Context, id uint) (*model.Village, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	v, ok := m.s.villages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &v, nil
}
