package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/lib/pq"

	"familytrips/internal/models"
	"familytrips/internal/repository"
)

// memStore is an in-memory stand-in for the repositories
type memStore struct {
	mu          sync.Mutex
	nextID      int64
	families    map[string]*models.Family
	members     map[int64]models.FamilyMember
	preferences map[int64]models.Preference
	itineraries map[int64]models.Itinerary
	clock       time.Time
	listCalls   []models.ItineraryFilter
	failList    error
}

func newMemStore() *memStore {
	return &memStore{
		families:    map[string]*models.Family{},
		members:     map[int64]models.FamilyMember{},
		preferences: map[int64]models.Preference{},
		itineraries: map[int64]models.Itinerary{},
		clock:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Minute)
	return m.clock
}

func (m *memStore) upsertPref(familyID int64, p models.Preference) models.Preference {
	current, ok := m.preferences[familyID]
	p.FamilyID = familyID
	p.TravelType = pq.StringArray(models.NormalizeTags(p.TravelType))
	p.Version = 1
	if ok {
		p.Version = current.Version + 1
	}
	m.preferences[familyID] = p
	return p
}

func (m *memStore) pref(familyID int64) models.Preference {
	if p, ok := m.preferences[familyID]; ok {
		return p
	}
	return models.DefaultPreference(familyID)
}

func (m *memStore) listMembers(familyID int64) []models.FamilyMember {
	out := []models.FamilyMember{}
	for _, mem := range m.members {
		if mem.FamilyID == familyID {
			out = append(out, mem)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FamilyStore

func (m *memStore) Create(ctx context.Context, deviceID, name string, members []models.FamilyMember, pref models.Preference) (*models.FamilyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.families[deviceID]; ok {
		return nil, repository.ErrDuplicate
	}
	now := m.tick()
	f := &models.Family{ID: m.id(), DeviceID: deviceID, Name: name, CreatedAt: now, UpdatedAt: now}
	m.families[deviceID] = f

	for _, mem := range members {
		mem.ID = m.id()
		mem.FamilyID = f.ID
		m.members[mem.ID] = mem
	}
	p := m.upsertPref(f.ID, pref)
	return &models.FamilyProfile{Family: *f, Members: m.listMembers(f.ID), Preference: p}, nil
}

func (m *memStore) GetByDeviceID(ctx context.Context, deviceID string) (*models.Family, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if f, ok := m.families[deviceID]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, nil
}

func (m *memStore) GetProfile(ctx context.Context, family *models.Family) (*models.FamilyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &models.FamilyProfile{Family: *family, Members: m.listMembers(family.ID), Preference: m.pref(family.ID)}, nil
}

func (m *memStore) UpdateProfile(ctx context.Context, familyID int64, upd models.ProfileUpdate) (*models.FamilyProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var family *models.Family
	for _, f := range m.families {
		if f.ID == familyID {
			family = f
		}
	}
	if family == nil {
		return nil, repository.ErrNotFound
	}

	if upd.Preferences != nil {
		current := m.pref(familyID)
		if v := upd.Preferences.Version; v != nil && *v != current.Version {
			return nil, repository.ErrStaleVersion
		}
		m.upsertPref(familyID, current.Merge(*upd.Preferences))
	}
	if upd.Name != nil {
		family.Name = *upd.Name
	}
	return &models.FamilyProfile{Family: *family, Members: m.listMembers(familyID), Preference: m.pref(familyID)}, nil
}

func (m *memStore) GetTags(ctx context.Context, familyID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pref(familyID).Tags(), nil
}

// memMembers adapts memStore to MemberStore, whose method names overlap FamilyStore
type memMembers struct{ *memStore }

func (m memMembers) Get(ctx context.Context, familyID, memberID int64) (*models.FamilyMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mem, ok := m.members[memberID]; ok && mem.FamilyID == familyID {
		return &mem, nil
	}
	return nil, nil
}

func (m memMembers) Create(ctx context.Context, mem models.FamilyMember) (*models.FamilyMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	mem.ID = m.id()
	m.members[mem.ID] = mem
	return &mem, nil
}

func (m memMembers) Update(ctx context.Context, mem models.FamilyMember) (*models.FamilyMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.members[mem.ID]
	if !ok || current.FamilyID != mem.FamilyID {
		return nil, nil
	}
	m.members[mem.ID] = mem
	return &mem, nil
}

func (m memMembers) Delete(ctx context.Context, familyID, memberID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.members[memberID]
	if !ok || current.FamilyID != familyID {
		return false, nil
	}
	delete(m.members, memberID)
	return true, nil
}

// memCatalog adapts memStore to ItineraryStore and CatalogStore
type memCatalog struct{ *memStore }

func (m memCatalog) addItinerary(title string, price float64, days int, tags ...string) models.Itinerary {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	it := models.Itinerary{ID: m.id(), Title: title, Price: price, DurationDays: days, Tags: tags, CreatedAt: now, UpdatedAt: now}
	m.itineraries[it.ID] = it
	return it
}

func matches(it models.Itinerary, f models.ItineraryFilter) bool {
	if f.MinPrice != nil && it.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && it.Price > *f.MaxPrice {
		return false
	}
	if f.MinDuration != nil && it.DurationDays < *f.MinDuration {
		return false
	}
	if f.MaxDuration != nil && it.DurationDays > *f.MaxDuration {
		return false
	}
	if len(f.Tags) > 0 && !overlaps(it.Tags, f.Tags) {
		return false
	}
	if len(f.PreferenceTags) > 0 && !overlaps(it.Tags, f.PreferenceTags) {
		return false
	}
	return true
}

// overlaps mirrors the && array operator
func overlaps(tags, want []string) bool {
	for _, w := range want {
		for _, t := range tags {
			if t == w {
				return true
			}
		}
	}
	return false
}

func (m memCatalog) filtered(f models.ItineraryFilter) []models.Itinerary {
	out := []models.Itinerary{}
	for _, it := range m.itineraries {
		if matches(it, f) {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m memCatalog) List(ctx context.Context, f models.ItineraryFilter) ([]models.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls = append(m.listCalls, f)
	if m.failList != nil {
		return nil, m.failList
	}
	out := m.filtered(f)
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []models.Itinerary{}, nil
		}
		out = out[f.Offset:]
	}
	if f.Limit > 0 && f.Limit < len(out) {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m memCatalog) Count(ctx context.Context, f models.ItineraryFilter) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.filtered(f)), nil
}

func (m memCatalog) GetByID(ctx context.Context, id int64) (*models.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it, ok := m.itineraries[id]; ok {
		return &it, nil
	}
	return nil, nil
}

func (m memCatalog) Create(ctx context.Context, it models.Itinerary) (*models.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.tick()
	it.ID = m.id()
	it.CreatedAt, it.UpdatedAt = now, now
	m.itineraries[it.ID] = it
	return &it, nil
}

func (m memCatalog) Update(ctx context.Context, it models.Itinerary) (*models.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, ok := m.itineraries[it.ID]
	if !ok {
		return nil, nil
	}
	it.CreatedAt = current.CreatedAt
	it.UpdatedAt = m.tick()
	m.itineraries[it.ID] = it
	return &it, nil
}

func (m memCatalog) Delete(ctx context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.itineraries[id]; !ok {
		return false, nil
	}
	delete(m.itineraries, id)
	return true, nil
}

func (m memCatalog) ListAll(ctx context.Context) ([]models.Itinerary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}
	out := []models.Itinerary{}
	for _, it := range m.itineraries {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m memCatalog) Import(ctx context.Context, items []models.Itinerary, clear bool) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if clear {
		m.itineraries = map[int64]models.Itinerary{}
	}
	for _, it := range items {
		it.ID = m.id()
		m.itineraries[it.ID] = it
	}
	return len(items), nil
}
