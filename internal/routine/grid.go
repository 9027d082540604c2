package routine

import (
	"regexp"
	"strings"

	"github.com/julianstephens/cohort/internal/constants"
	"github.com/julianstephens/cohort/internal/models"
)

// Grid is the raw cell text of a routine sheet, row major. Rows may have
// different lengths.
type Grid [][]string

// Cell returns the trimmed text at (row, col) or "" when out of range.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return strings.TrimSpace(g[row][col])
}

// Blank reports whether every cell of the grid is empty.
func (g Grid) Blank() bool {
	for _, row := range g {
		for _, c := range row {
			if strings.TrimSpace(c) != "" {
				return false
			}
		}
	}
	return true
}

// Viewer is the part of a profile the parser filters on.
type Viewer struct {
	Section  models.Section
	Subjects []string
}

// Outcome explains why a parse produced what it did.
type Outcome string

const (
	OutcomeOK            Outcome = "ok"
	OutcomeNoHeaderFound Outcome = "no_header_found"
	OutcomeFetchFailed   Outcome = "fetch_failed"
	OutcomeEmptyGrid     Outcome = "empty_grid"
)

// Slot is a time-slot column discovered in the header.
type Slot struct {
	Col   int
	Label string
}

// Result is the parsed timetable. ByDate is never nil.
type Result struct {
	ByDate    models.ByDate
	Outcome   Outcome
	HeaderRow int
	Slots     []Slot
}

// OK reports whether the sheet was recognized.
func (r Result) OK() bool {
	return r.Outcome == OutcomeOK
}

var dateHeaderRe = regexp.MustCompile(`(?i)\b(date|day)s?\b`)

// Parser turns a Grid into a timetable. The zero value is ready to use.
type Parser struct {
	Dates Dates
}

// Parse runs the default Parser.
func Parse(grid Grid, layout Layout, viewer Viewer) Result {
	return Parser{}.Parse(grid, layout, viewer)
}

// Parse walks the grid with the given layout. It never fails: a sheet that
// cannot be read yields an empty timetable and an explanatory Outcome.
func (p Parser) Parse(grid Grid, layout Layout, viewer Viewer) Result {
	res := Result{ByDate: models.ByDate{}, HeaderRow: -1}
	if len(grid) == 0 || grid.Blank() {
		res.Outcome = OutcomeEmptyGrid
		return res
	}

	header, slots, start := findHeader(grid, layout)
	if header < 0 {
		res.Outcome = OutcomeNoHeaderFound
		return res
	}
	res.HeaderRow = header
	res.Slots = slots
	res.Outcome = OutcomeOK

	type dedupKey struct {
		date, slot, subject, sections string
	}
	seen := make(map[dedupKey]struct{})

	current := ""
	carried := make(map[int]string, len(slots))

	for r := start; r < len(grid); r++ {
		if raw := grid.Cell(r, layout.DateCol); raw != "" {
			t, ok := p.Dates.Parse(raw)
			if !ok {
				current = ""
				clear(carried)
				continue
			}
			if key := DateKey(t); key != current {
				current = key
				clear(carried)
			}
		}
		if current == "" {
			continue
		}

		for _, slot := range slots {
			text := grid.Cell(r, slot.Col)
			if text == "" {
				text = carried[slot.Col]
			} else {
				carried[slot.Col] = text
			}
			if text == "" {
				continue
			}

			for _, e := range layout.Extract(text) {
				if viewer.Section != "" && !e.VisibleTo(viewer.Section) {
					continue
				}
				if layout.FilterSubjects && !MatchesPicked(e.Subject, e.Type, viewer.Subjects) {
					continue
				}
				k := dedupKey{current, slot.Label, strings.ToUpper(e.Subject), e.sectionKey(viewer.Section)}
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				res.ByDate[current] = append(res.ByDate[current], models.ScheduleEntry{
					Time:    slot.Label,
					Subject: e.Subject,
					Room:    e.Room,
					Type:    e.Type,
				})
			}
		}
	}
	return res
}

// findHeader returns the header row, its slots and the first data row.
// The header is the first of the leading rows with enough time labels in
// the slot window. Failing that, a row headed "Date"/"Day" is accepted when
// its non-time slot cells can be filled from the labels of the next rows.
func findHeader(grid Grid, layout Layout) (int, []Slot, int) {
	limit := min(constants.HeaderScanRows, len(grid))
	for r := 0; r < limit; r++ {
		if slots := slotsIn(grid, r, layout); len(slots) >= layout.MinHits {
			return r, slots, r + 1
		}
	}

	for r := 0; r < limit; r++ {
		if !dateHeaderRe.MatchString(grid.Cell(r, layout.DateCol)) {
			continue
		}
		if slots := probeSlots(grid, r, layout); len(slots) >= layout.MinHits {
			return r, slots, r + 1
		}
	}
	return -1, nil, 0
}

// probeSlots takes each slot column's label from the header row or, when
// that cell is not a time, from the first of the following probe rows that
// has one. Rows carrying a date are data and are never probed.
func probeSlots(grid Grid, header int, layout Layout) []Slot {
	var slots []Slot
	for c := layout.SlotFrom; c <= layout.SlotTo; c++ {
		if v := grid.Cell(header, c); IsTimeLabel(v) {
			slots = append(slots, Slot{Col: c, Label: collapseSpace(v)})
			continue
		}
		for probe := header + 1; probe <= header+constants.HeaderProbeRows && probe < len(grid); probe++ {
			if grid.Cell(probe, layout.DateCol) != "" {
				break
			}
			if v := grid.Cell(probe, c); IsTimeLabel(v) {
				slots = append(slots, Slot{Col: c, Label: collapseSpace(v)})
				break
			}
		}
	}
	return slots
}

func slotsIn(grid Grid, row int, layout Layout) []Slot {
	var slots []Slot
	for c := layout.SlotFrom; c <= layout.SlotTo; c++ {
		if v := grid.Cell(row, c); IsTimeLabel(v) {
			slots = append(slots, Slot{Col: c, Label: collapseSpace(v)})
		}
	}
	return slots
}

// LayoutFor returns the sheet layout of a cohort.
func LayoutFor(c models.Cohort) Layout {
	if c == models.CohortJunior {
		return JuniorLayout
	}
	return SeniorLayout
}
