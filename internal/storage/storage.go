// Package storage persists the student roster, parsed timetables, and sync
// status in a single JSON file under the data directory. Writes replace the
// whole value; there is no merging.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/student"
	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/timetable"
)

// Sync status values derived from each run's outcome tally.
const (
	StatusPending = "pending"
	StatusSynced  = "synced"
	StatusPartial = "partial"
	StatusFailed  = "failed"
)

const rosterFilename = "students.json"

// Record is one student's stored state.
type Record struct {
	student.Student
	Timetable     *timetable.Timetable `json:"timetable,omitempty"`
	EventsCreated int                  `json:"eventsCreated"`
	LastSynced    *time.Time           `json:"lastSynced,omitempty"`
	SyncStatus    string               `json:"syncStatus"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

type rosterFile struct {
	Students    []*Record `json:"students"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Store handles roster persistence.
type Store struct {
	path string
	data rosterFile
}

// Open loads the roster from dataDir, creating the directory if needed.
// A missing roster file yields an empty store.
func Open(dataDir string) (*Store, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{path: filepath.Join(dataDir, rosterFilename)}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parsing roster: %w", err)
	}
	return s, nil
}

func (s *Store) save() error {
	s.data.LastUpdated = time.Now().UTC()

	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding roster: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("writing roster: %w", err)
	}
	return nil
}

// Import upserts students by registration number. Existing records keep their
// timetable and sync state; new records start pending with no events.
func (s *Store) Import(students []student.Student) ([]*Record, error) {
	now := time.Now().UTC()
	for _, st := range students {
		if existing, ok := s.Get(st.RegNo); ok {
			existing.Name = st.Name
			existing.Phone = st.Phone
			existing.UpdatedAt = now
			continue
		}
		s.data.Students = append(s.data.Students, &Record{
			Student:    st,
			SyncStatus: StatusPending,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
	}
	if err := s.save(); err != nil {
		return nil, err
	}
	return s.data.Students, nil
}

// All returns every stored record in import order.
func (s *Store) All() []*Record {
	return s.data.Students
}

// Get returns the record for a registration number.
func (s *Store) Get(regNo string) (*Record, bool) {
	for _, r := range s.data.Students {
		if r.RegNo == regNo {
			return r, true
		}
	}
	return nil, false
}

// UpdateTimetable replaces a student's stored timetable wholesale.
func (s *Store) UpdateTimetable(regNo string, tt *timetable.Timetable) error {
	r, ok := s.Get(regNo)
	if !ok {
		return fmt.Errorf("student not found: %s", regNo)
	}
	r.Timetable = tt
	r.UpdatedAt = time.Now().UTC()
	return s.save()
}

// UpdateSyncStatus records the outcome of a sync run.
func (s *Store) UpdateSyncStatus(regNo, status string, eventsCreated int) error {
	r, ok := s.Get(regNo)
	if !ok {
		return fmt.Errorf("student not found: %s", regNo)
	}
	now := time.Now().UTC()
	r.SyncStatus = status
	r.EventsCreated = eventsCreated
	r.LastSynced = &now
	r.UpdatedAt = now
	return s.save()
}

// Delete removes a student. It reports whether a record was removed.
func (s *Store) Delete(regNo string) (bool, error) {
	for i, r := range s.data.Students {
		if r.RegNo == regNo {
			s.data.Students = append(s.data.Students[:i], s.data.Students[i+1:]...)
			return true, s.save()
		}
	}
	return false, nil
}
