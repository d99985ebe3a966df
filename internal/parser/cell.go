package parser

import (
	"regexp"
	"strings"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/timetable"
)

// Cell texts arrive in at least three incompatible layouts. Each layout gets
// its own matcher; matchers are tried in order and the first hit wins. Keeping
// the capture-to-field mapping next to its pattern makes tiers independently
// removable.
type cellMatcher func(text string) (fields, bool)

type fields struct {
	course  string
	room    string
	section string
	typ     timetable.ClassType
}

var cellMatchers = []cellMatcher{
	matchStructured,
	matchCompact,
	matchGeneric,
}

// Tier 1, structured form: "Lecture / G:All C:CSE310 / R: 25-301 / S:K22EI".
var structuredPattern = regexp.MustCompile(
	`(?i)(Lecture|Practical|Tutorial|Lab)\s*/?\s*G:\S*\s*C:([A-Z]+\d+)\s*/?\s*R:\s*([^\s/]+)\s*/?\s*S:(\S+)`)

func matchStructured(text string) (fields, bool) {
	m := structuredPattern.FindStringSubmatch(text)
	if m == nil {
		return fields{}, false
	}
	return fields{
		course:  strings.TrimSpace(m[2]),
		room:    strings.TrimSpace(m[3]),
		section: strings.TrimSpace(m[4]),
		typ:     normalizeType(m[1]),
	}, true
}

// Tier 2, compact form: "INT219 Lec 25-306 K22FL".
var compactPattern = regexp.MustCompile(
	`(?i)([A-Z]+\d+)\s+(Lec|Prac|Lab|Tut)\w*\s+(\d+[-\d]*)\s+([A-Z0-9]+)`)

var typeAbbrev = map[string]timetable.ClassType{
	"lec":  timetable.Lecture,
	"prac": timetable.Practical,
	"lab":  timetable.Lab,
	"tut":  timetable.Tutorial,
}

func matchCompact(text string) (fields, bool) {
	m := compactPattern.FindStringSubmatch(text)
	if m == nil {
		return fields{}, false
	}
	typ, ok := typeAbbrev[strings.ToLower(m[2])]
	if !ok {
		typ = timetable.Lecture
	}
	return fields{
		course:  strings.TrimSpace(m[1]),
		room:    strings.TrimSpace(m[3]),
		section: strings.TrimSpace(m[4]),
		typ:     typ,
	}, true
}

// Tier 3, generic fallback: course-code and room shaped tokens anywhere in
// the text. Room defaults to TBD when absent.
var (
	coursePattern = regexp.MustCompile(`\b([A-Z]{2,4}\d{3,4})\b`)
	roomPattern   = regexp.MustCompile(`\b(\d{1,2}[-\s]?\d{2,4})\b`)

	// sectionPattern covers both "S:<token>" markers and bare tokens shaped
	// like the institution's section codes (e.g. "K22EI"). The bare-token
	// shape is an inferred convention; keep it here rather than inlined.
	sectionPattern = regexp.MustCompile(`(?i)S:\s*([A-Z0-9]+)|([A-Z]\d{2}[A-Z]{2})`)
)

func matchGeneric(text string) (fields, bool) {
	m := coursePattern.FindStringSubmatch(text)
	if m == nil {
		return fields{}, false
	}

	room := "TBD"
	if rm := roomPattern.FindStringSubmatch(text); rm != nil {
		room = rm[1]
	}

	typ := timetable.Lecture
	if strings.Contains(strings.ToLower(text), "prac") {
		typ = timetable.Practical
	}

	return fields{
		course:  m[1],
		room:    room,
		section: extractSection(text),
		typ:     typ,
	}, true
}

func extractSection(text string) string {
	m := sectionPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// normalizeType canonicalizes a matched type word ("LECTURE", "practical").
func normalizeType(word string) timetable.ClassType {
	if word == "" {
		return timetable.Lecture
	}
	return timetable.ClassType(strings.ToUpper(word[:1]) + strings.ToLower(word[1:]))
}

// ExtractClass parses a single cell's trimmed text into a class record.
// It returns false for administrative placeholders and for cells where no
// tier matched: a cell either yields a fully-identified class or nothing.
func ExtractClass(text, slotLabel, day string) (timetable.ClassSlot, bool) {
	text = strings.TrimSpace(text)
	if text == "" || text == "-" {
		return timetable.ClassSlot{}, false
	}
	if strings.Contains(strings.ToLower(text), "project work") {
		return timetable.ClassSlot{}, false
	}

	for _, match := range cellMatchers {
		f, ok := match(text)
		if !ok {
			continue
		}
		start, end := timetable.ParseTimeSlot(slotLabel)
		return timetable.ClassSlot{
			Day:       day,
			StartTime: start,
			EndTime:   end,
			Course:    f.course,
			Room:      f.room,
			Section:   f.section,
			Type:      f.typ,
		}, true
	}

	return timetable.ClassSlot{}, false
}
