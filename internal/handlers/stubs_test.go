package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"familytrips/internal/models"
	"familytrips/internal/security"
	"familytrips/internal/service"
)

type stubItineraries struct {
	query   service.MatchQuery
	result  *service.MatchResult
	items   map[int64]*models.Itinerary
	created []models.ItineraryInput
	err     error
}

func (s *stubItineraries) Match(_ context.Context, q service.MatchQuery) (*service.MatchResult, error) {
	s.query = q
	if s.err != nil {
		return nil, s.err
	}
	if s.result == nil {
		return &service.MatchResult{Items: []models.Itinerary{}}, nil
	}
	return s.result, nil
}

func (s *stubItineraries) Get(_ context.Context, id int64) (*models.Itinerary, error) {
	if it, ok := s.items[id]; ok {
		return it, nil
	}
	return nil, service.ErrItineraryNotFound
}

func (s *stubItineraries) Create(_ context.Context, in models.ItineraryInput) (*models.Itinerary, error) {
	s.created = append(s.created, in)
	it := in.ToItinerary()
	it.ID = int64(len(s.created))
	return &it, nil
}

func (s *stubItineraries) Update(_ context.Context, id int64, in models.ItineraryInput) (*models.Itinerary, error) {
	if _, ok := s.items[id]; !ok {
		return nil, service.ErrItineraryNotFound
	}
	it := in.ToItinerary()
	it.ID = id
	s.items[id] = &it
	return &it, nil
}

func (s *stubItineraries) Delete(_ context.Context, id int64) error {
	if _, ok := s.items[id]; !ok {
		return service.ErrItineraryNotFound
	}
	delete(s.items, id)
	return nil
}

type stubFamilies struct {
	profiles map[string]*models.FamilyProfile
	update   models.ProfileUpdate
	err      error
}

func (s *stubFamilies) Onboard(_ context.Context, req models.OnboardingRequest) (*models.FamilyProfile, error) {
	if s.err != nil {
		return nil, s.err
	}
	if _, ok := s.profiles[req.DeviceID]; ok {
		return nil, service.ErrDeviceRegistered
	}
	p := &models.FamilyProfile{
		Family:     models.Family{ID: int64(len(s.profiles) + 1), DeviceID: req.DeviceID, Name: req.Name},
		Members:    []models.FamilyMember{},
		Preference: models.DefaultPreference(int64(len(s.profiles) + 1)),
	}
	s.profiles[req.DeviceID] = p
	return p, nil
}

func (s *stubFamilies) GetProfile(_ context.Context, deviceID string) (*models.FamilyProfile, error) {
	if p, ok := s.profiles[deviceID]; ok {
		return p, nil
	}
	return nil, service.ErrFamilyNotFound
}

func (s *stubFamilies) UpdateProfile(_ context.Context, deviceID string, upd models.ProfileUpdate) (*models.FamilyProfile, error) {
	s.update = upd
	if s.err != nil {
		return nil, s.err
	}
	p, ok := s.profiles[deviceID]
	if !ok {
		return nil, service.ErrFamilyNotFound
	}
	if upd.Preferences != nil {
		p.Preference = p.Preference.Merge(*upd.Preferences)
		p.Preference.Version++
	}
	return p, nil
}

func (s *stubFamilies) AddMember(_ context.Context, deviceID string, in models.MemberInput) (*models.FamilyMember, error) {
	p, ok := s.profiles[deviceID]
	if !ok {
		return nil, service.ErrFamilyNotFound
	}
	m := in.ToMember(p.ID)
	m.ID = int64(len(p.Members) + 1)
	p.Members = append(p.Members, m)
	return &m, nil
}

func (s *stubFamilies) UpdateMember(_ context.Context, deviceID string, memberID int64, in models.MemberInput) (*models.FamilyMember, error) {
	p, ok := s.profiles[deviceID]
	if !ok {
		return nil, service.ErrFamilyNotFound
	}
	for i := range p.Members {
		if p.Members[i].ID == memberID {
			m := in.ToMember(p.ID)
			m.ID = memberID
			p.Members[i] = m
			return &m, nil
		}
	}
	return nil, service.ErrMemberNotFound
}

func (s *stubFamilies) RemoveMember(_ context.Context, deviceID string, memberID int64) error {
	p, ok := s.profiles[deviceID]
	if !ok {
		return service.ErrFamilyNotFound
	}
	for i := range p.Members {
		if p.Members[i].ID == memberID {
			p.Members = append(p.Members[:i], p.Members[i+1:]...)
			return nil
		}
	}
	return service.ErrMemberNotFound
}

// profileStore backs a real FamilyService with a single stored profile
type profileStore struct {
	profile *models.FamilyProfile
}

func (s *profileStore) Create(context.Context, string, string, []models.FamilyMember, models.Preference) (*models.FamilyProfile, error) {
	return nil, service.ErrDeviceRegistered
}

func (s *profileStore) GetByDeviceID(_ context.Context, deviceID string) (*models.Family, error) {
	if s.profile == nil || s.profile.DeviceID != deviceID {
		return nil, nil
	}
	f := s.profile.Family
	return &f, nil
}

func (s *profileStore) GetProfile(context.Context, *models.Family) (*models.FamilyProfile, error) {
	return s.profile, nil
}

func (s *profileStore) UpdateProfile(_ context.Context, _ int64, upd models.ProfileUpdate) (*models.FamilyProfile, error) {
	if upd.Name != nil {
		s.profile.Name = *upd.Name
	}
	if upd.Preferences != nil {
		s.profile.Preference = s.profile.Preference.Merge(*upd.Preferences)
		s.profile.Preference.Version++
	}
	return s.profile, nil
}

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

type testServer struct {
	handler     http.Handler
	itineraries *stubItineraries
	families    *stubFamilies
	tokens      *security.TokenManager
}

func newTestServer(t *testing.T, secret string) *testServer {
	t.Helper()
	ts := &testServer{
		itineraries: &stubItineraries{items: map[int64]*models.Itinerary{}},
		families:    &stubFamilies{profiles: map[string]*models.FamilyProfile{}},
		tokens:      security.NewTokenManager(secret, "familytrips"),
	}
	ts.handler = NewRouter(RouterConfig{
		CORSOrigins:       []string{"*"},
		RateLimitDisabled: true,
	}, Deps{
		Families:    ts.families,
		Itineraries: ts.itineraries,
		Tokens:      ts.tokens,
		DB:          stubPinger{},
	})
	return ts
}

func (ts *testServer) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func sampleItinerary(id int64, title string, tags ...string) *models.Itinerary {
	return &models.Itinerary{
		ID:           id,
		Title:        title,
		DurationDays: 5,
		Price:        450,
		Tags:         tags,
		CreatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
	}
}
