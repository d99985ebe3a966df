package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/Ankitrj3/Encrypt-Edge-TIme-Table/internal/timetable"
)

// Delta payloads are not well-formed documents, so table fragments are
// lifted out structurally before handing them to the normal table scan.
var tableFragmentPattern = regexp.MustCompile(`(?is)<table[^>]*>.*?</table>`)

// parseDelta handles an asynchronous update payload: every embedded table
// fragment mentioning a weekday is a candidate, and the first one yielding
// at least one class wins.
func (p *Parser) parseDelta(raw, regNo string) *timetable.Timetable {
	fragments := tableFragmentPattern.FindAllString(raw, -1)
	p.log.Debug("scanning delta payload",
		zap.String("regNo", regNo),
		zap.Int("fragments", len(fragments)))

	tt := timetable.New(regNo)
	for _, fragment := range fragments {
		if !timetable.ContainsWeekday(fragment) {
			continue
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
		if err != nil {
			continue
		}
		p.scanTable(doc.Find("table"), tt)
		if tt.HasClasses() {
			break
		}
	}

	if len(fragments) == 0 {
		return timetable.NewError(regNo, "no table fragments in delta payload")
	}

	p.log.Info("extracted classes from delta payload",
		zap.String("regNo", regNo),
		zap.Int("classes", len(tt.Classes)))
	return tt
}
