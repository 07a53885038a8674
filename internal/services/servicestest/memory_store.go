// Package servicestest provides an in-memory PrayerStore for tests.
package servicestest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/models"
	"github.com/ahmetcoskunkizilkaya/fajr-tracker/internal/services"
	"github.com/google/uuid"
)

// MemoryStore keeps users and prayer records in maps. It enforces the same
// (user, date) uniqueness and ordering contracts as the PostgreSQL store.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[uuid.UUID]models.User
	records []models.PrayerRecord

	// Err, when set, is returned by every method to simulate storage outages.
	Err error
}

var _ services.PrayerStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[uuid.UUID]models.User)}
}

// AddUser registers an account and returns it with ID and CreatedAt filled.
func (s *MemoryStore) AddUser(username, fullName string, isAdmin bool) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	u := models.User{
		ID:        uuid.New(),
		Username:  username,
		FullName:  fullName,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now(),
	}
	s.users[u.ID] = u
	return u
}

// RecordCount reports how many records exist for userID on date.
func (s *MemoryStore) RecordCount(userID uuid.UUID, date time.Time) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, r := range s.records {
		if r.UserID == userID && r.PrayerDate.Equal(date) {
			n++
		}
	}
	return n
}

func (s *MemoryStore) FindRecord(_ context.Context, userID uuid.UUID, date time.Time) (*models.PrayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	for _, r := range s.records {
		if r.UserID == userID && r.PrayerDate.Equal(date) {
			rec := r
			return &rec, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateRecord(_ context.Context, record *models.PrayerRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}

	for _, r := range s.records {
		if r.UserID == record.UserID && r.PrayerDate.Equal(record.PrayerDate) {
			return services.ErrAlreadyRecorded
		}
	}
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	record.CreatedAt = time.Now()
	s.records = append(s.records, *record)
	return nil
}

func (s *MemoryStore) ListRecords(_ context.Context, userID uuid.UUID) ([]models.PrayerRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	var out []models.PrayerRecord
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PrayerDate.Before(out[j].PrayerDate)
	})
	return out, nil
}

func (s *MemoryStore) Standings(_ context.Context) ([]services.Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	byUser := make(map[uuid.UUID]*services.Standing)
	for _, r := range s.records {
		st, ok := byUser[r.UserID]
		if !ok {
			st = &services.Standing{UserID: r.UserID}
			byUser[r.UserID] = st
		}
		st.TotalPoints += r.TotalPoints
		st.DaysRecorded++
	}

	out := make([]services.Standing, 0, len(byUser))
	for _, st := range byUser {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.DaysRecorded != b.DaysRecorded {
			return a.DaysRecorded > b.DaysRecorded
		}
		return a.UserID.String() < b.UserID.String()
	})
	return out, nil
}

func (s *MemoryStore) StudentSummaries(_ context.Context) ([]services.StudentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	byUser := make(map[uuid.UUID]*services.StudentSummary)
	for _, u := range s.users {
		if u.IsAdmin {
			continue
		}
		byUser[u.ID] = &services.StudentSummary{
			ID:        u.ID,
			Username:  u.Username,
			FullName:  u.FullName,
			CreatedAt: u.CreatedAt,
		}
	}
	for _, r := range s.records {
		if sum, ok := byUser[r.UserID]; ok {
			sum.TotalPoints += r.TotalPoints
			sum.DaysRecorded++
		}
	}

	out := make([]services.StudentSummary, 0, len(byUser))
	for _, sum := range byUser {
		out = append(out, *sum)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.DaysRecorded != b.DaysRecorded {
			return a.DaysRecorded > b.DaysRecorded
		}
		if a.FullName != b.FullName {
			return a.FullName < b.FullName
		}
		return a.ID.String() < b.ID.String()
	})
	return out, nil
}

func (s *MemoryStore) FindStudent(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.Err != nil {
		return nil, s.Err
	}

	u, ok := s.users[id]
	if !ok || u.IsAdmin {
		return nil, nil
	}
	return &u, nil
}

// FixedDate is a DateResolver that always answers Date; Set moves it.
type FixedDate struct {
	mu   sync.Mutex
	Date string
}

func (f *FixedDate) Today() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Date
}

func (f *FixedDate) Set(date string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Date = date
}
