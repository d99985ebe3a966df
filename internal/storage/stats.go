package storage

import (
	"sort"
	"time"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/timetable"
)

// Stats summarizes roster and sync state for the dashboard view.
type Stats struct {
	TotalStudents int              `json:"totalStudents"`
	Synced        int              `json:"synced"`
	Partial       int              `json:"partial"`
	Pending       int              `json:"pending"`
	Failed        int              `json:"failed"`
	TotalEvents   int              `json:"totalEvents"`
	Students      []StudentSummary `json:"students"`
}

// StudentSummary is one dashboard row.
type StudentSummary struct {
	RegNo         string     `json:"regNo"`
	Name          string     `json:"name"`
	Phone         string     `json:"phone"`
	Section       string     `json:"section"`
	TotalClasses  int        `json:"totalClasses"`
	Rooms         []string   `json:"rooms"`
	SyncStatus    string     `json:"syncStatus"`
	EventsCreated int        `json:"eventsCreated"`
	LastSynced    *time.Time `json:"lastSynced,omitempty"`
}

// Stats aggregates the stored roster.
func (s *Store) Stats() Stats {
	stats := Stats{Students: make([]StudentSummary, 0, len(s.data.Students))}

	for _, r := range s.data.Students {
		stats.TotalStudents++
		switch r.SyncStatus {
		case StatusSynced:
			stats.Synced++
		case StatusPartial:
			stats.Partial++
		case StatusFailed:
			stats.Failed++
		default:
			stats.Pending++
		}
		stats.TotalEvents += r.EventsCreated

		summary := StudentSummary{
			RegNo:         r.RegNo,
			Name:          r.Name,
			Phone:         r.Phone,
			SyncStatus:    r.SyncStatus,
			EventsCreated: r.EventsCreated,
			LastSynced:    r.LastSynced,
			Rooms:         []string{},
		}
		if r.Timetable != nil {
			summary.Section = r.Timetable.Section
			summary.TotalClasses = len(r.Timetable.Classes)
			summary.Rooms = distinctRooms(r.Timetable.Classes)
		}
		stats.Students = append(stats.Students, summary)
	}

	return stats
}

// ScheduleEntry is one class occurrence in the combined cross-student view.
type ScheduleEntry struct {
	Time    string `json:"time"`
	Course  string `json:"course"`
	Room    string `json:"room"`
	Type    string `json:"type"`
	Student string `json:"student"`
	RegNo   string `json:"regNo"`
	Section string `json:"section"`
}

// Schedule builds a combined per-day view across all students, each day's
// entries sorted by time. When day is non-empty, only that day is included.
func (s *Store) Schedule(day string) map[string][]ScheduleEntry {
	days := timetable.Weekdays
	if day != "" {
		days = []string{day}
	}

	schedule := make(map[string][]ScheduleEntry, len(days))
	for _, d := range days {
		schedule[d] = []ScheduleEntry{}
	}

	for _, r := range s.data.Students {
		if r.Timetable == nil {
			continue
		}
		for _, c := range r.Timetable.Classes {
			entries, ok := schedule[c.Day]
			if !ok {
				continue
			}
			section := c.Section
			if section == "" {
				section = r.Timetable.Section
			}
			schedule[c.Day] = append(entries, ScheduleEntry{
				Time:    c.StartTime + " - " + c.EndTime,
				Course:  c.Course,
				Room:    c.Room,
				Type:    string(c.Type),
				Student: r.Name,
				RegNo:   r.RegNo,
				Section: section,
			})
		}
	}

	for _, d := range days {
		entries := schedule[d]
		sort.Slice(entries, func(i, j int) bool { return entries[i].Time < entries[j].Time })
	}

	return schedule
}

func distinctRooms(classes []timetable.ClassSlot) []string {
	seen := make(map[string]bool)
	rooms := make([]string, 0, len(classes))
	for _, c := range classes {
		if c.Room != "" && !seen[c.Room] {
			seen[c.Room] = true
			rooms = append(rooms, c.Room)
		}
	}
	return rooms
}
