// Package timetable defines the normalized weekly schedule model produced by
// extraction and consumed by calendar sync.
package timetable

import "time"

// ClassType describes how a class is delivered.
type ClassType string

const (
	Lecture   ClassType = "Lecture"
	Practical ClassType = "Practical"
	Tutorial  ClassType = "Tutorial"
	Lab       ClassType = "Lab"
)

// ClassSlot is one scheduled occurrence of a class. StartTime/EndTime are
// 24-hour "HH:00" strings and are empty when the time slot label could not
// be parsed. Course is always set; a cell that yields no course yields no
// ClassSlot at all.
type ClassSlot struct {
	Day       string    `json:"day"`
	StartTime string    `json:"startTime,omitempty"`
	EndTime   string    `json:"endTime,omitempty"`
	Course    string    `json:"course"`
	Room      string    `json:"room"`
	Section   string    `json:"section,omitempty"`
	Type      ClassType `json:"type"`
}

// Complete reports whether the slot carries everything calendar sync needs.
func (c ClassSlot) Complete() bool {
	return c.Day != "" && c.StartTime != "" && c.EndTime != ""
}

// Timetable is the extraction result for one student. Section holds the
// first non-empty section seen in table scan order. Error is set when no
// usable table was found; an error timetable carries no classes.
type Timetable struct {
	RegNo    string      `json:"regNo"`
	Section  string      `json:"section"`
	Classes  []ClassSlot `json:"classes"`
	ParsedAt time.Time   `json:"parsedAt"`
	Error    string      `json:"error,omitempty"`
}

// New creates an empty timetable for a student.
func New(regNo string) *Timetable {
	return &Timetable{
		RegNo:    regNo,
		Classes:  []ClassSlot{},
		ParsedAt: time.Now().UTC(),
	}
}

// NewError creates a timetable marking an extraction that found no usable table.
func NewError(regNo, diagnostic string) *Timetable {
	t := New(regNo)
	t.Error = diagnostic
	return t
}

// Add appends a class and bubbles its section up to the table level if none
// has been recorded yet. The first class with a non-empty section wins.
func (t *Timetable) Add(c ClassSlot) {
	if c.Section != "" && t.Section == "" {
		t.Section = c.Section
	}
	t.Classes = append(t.Classes, c)
}

// HasClasses reports whether extraction produced at least one class.
func (t *Timetable) HasClasses() bool {
	return t != nil && len(t.Classes) > 0
}
