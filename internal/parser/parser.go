// Package parser turns raw portal markup into normalized timetables. The
// portal emits at least three response shapes (full page, asynchronous delta
// update, pasted capture block); the shape is sniffed once up front and each
// shape is handled by its own parse path.
package parser

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/timetable"
)

// Parser extracts timetables from raw markup. Parse misses are never errors:
// the worst outcome is a timetable with an Error diagnostic and no classes.
type Parser struct {
	log *zap.Logger
}

// New creates a Parser. A nil logger disables logging.
func New(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log}
}

type responseShape int

const (
	shapeDocument responseShape = iota
	shapeDelta
)

// detectShape classifies a raw response. Asynchronous delta payloads carry
// pipe-delimited update-panel markers instead of a complete document.
func detectShape(raw string) responseShape {
	if strings.Contains(raw, "|updatePanel|") || strings.Contains(raw, "pageRedirect") {
		return shapeDelta
	}
	return shapeDocument
}

// Parse extracts the timetable for one student from a raw portal response.
func (p *Parser) Parse(raw, regNo string) *timetable.Timetable {
	p.log.Debug("parsing response",
		zap.String("regNo", regNo),
		zap.Int("length", len(raw)))

	switch detectShape(raw) {
	case shapeDelta:
		p.log.Debug("detected delta update payload", zap.String("regNo", regNo))
		return p.parseDelta(raw, regNo)
	default:
		return p.parseDocument(raw, regNo)
	}
}

// parseDocument handles a complete page. The timetable table is the one whose
// text mentions a weekday and an AM/PM marker; that heuristic separates it
// from layout and navigation tables. Candidates are scanned in document order
// and the first one yielding at least one class wins.
func (p *Parser) parseDocument(raw, regNo string) *timetable.Timetable {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		p.log.Warn("unreadable markup", zap.String("regNo", regNo), zap.Error(err))
		return timetable.NewError(regNo, "unreadable markup: "+err.Error())
	}

	tables := doc.Find("table")
	p.log.Debug("scanning document", zap.String("regNo", regNo), zap.Int("tables", tables.Length()))

	tt := timetable.New(regNo)
	tables.EachWithBreak(func(i int, table *goquery.Selection) bool {
		if !isTimetableTable(table.Text()) {
			return true
		}
		p.scanTable(table, tt)
		return !tt.HasClasses()
	})

	if !tt.HasClasses() {
		// Fall back to the portal's report-viewer container.
		viewer := doc.Find(`#ReportViewer, [id*="ReportViewer"]`)
		if viewer.Length() > 0 {
			if table := viewer.Find("table").First(); table.Length() > 0 {
				p.scanTable(table, tt)
				p.log.Info("used report viewer fallback",
					zap.String("regNo", regNo),
					zap.Int("classes", len(tt.Classes)))
				return tt
			}
		}
		if !hasTimetableCandidate(tables) {
			p.log.Warn("no timetable table found", zap.String("regNo", regNo))
			return timetable.NewError(regNo, "no timetable table found")
		}
	}

	p.log.Info("extracted classes",
		zap.String("regNo", regNo),
		zap.Int("classes", len(tt.Classes)),
		zap.String("section", tt.Section))
	return tt
}

// isTimetableTable applies the weekday + AM/PM heuristic.
func isTimetableTable(text string) bool {
	if !timetable.ContainsWeekday(text) {
		return false
	}
	return strings.Contains(text, "AM") || strings.Contains(text, "PM")
}

func hasTimetableCandidate(tables *goquery.Selection) bool {
	found := false
	tables.EachWithBreak(func(i int, table *goquery.Selection) bool {
		if isTimetableTable(table.Text()) {
			found = true
			return false
		}
		return true
	})
	return found
}

// scanTable walks a qualifying table. Row 0 is the header row; in every
// following row column 0 holds the time-slot label and the remaining columns
// are matched against the day-column map. Unmapped columns are ignored.
func (p *Parser) scanTable(table *goquery.Selection, tt *timetable.Timetable) {
	rows := table.Find("tr")

	var headers []string
	rows.First().Find("td, th").Each(func(i int, cell *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(cell.Text()))
	})
	dayColumns := mapDayColumns(headers)
	if len(dayColumns) == 0 {
		return
	}

	rows.Each(func(rowIndex int, row *goquery.Selection) {
		if rowIndex == 0 {
			return
		}

		var slotLabel string
		row.Find("td, th").Each(func(colIndex int, cell *goquery.Selection) {
			text := strings.TrimSpace(cell.Text())
			if colIndex == 0 {
				slotLabel = text
				return
			}

			day, ok := dayColumns[colIndex]
			if !ok {
				return
			}

			if class, ok := ExtractClass(text, slotLabel, day); ok {
				tt.Add(class)
			}
		})
	})
}

// mapDayColumns maps header cell indexes to canonical weekday names.
// Multiple headers may map to the same day; headers with no day name are
// dropped.
func mapDayColumns(headers []string) map[int]string {
	columns := make(map[int]string)
	for i, header := range headers {
		if day, ok := timetable.MatchDay(header); ok {
			columns[i] = day
		}
	}
	return columns
}
