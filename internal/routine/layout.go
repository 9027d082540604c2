package routine

// Layout describes where a cohort's routine sheet keeps its data. Columns are
// zero based, so column B is 1 and C..J is 2..9.
type Layout struct {
	Name     string
	DateCol  int
	SlotFrom int
	SlotTo   int
	// MinHits is the number of time labels a row needs to count as the header.
	MinHits int
	Extract Extractor
	// FilterSubjects applies the viewer's picked subjects as an allow-list.
	FilterSubjects bool
}

// SeniorLayout reads dates from column B and slots from C..J.
var SeniorLayout = Layout{
	Name:           "senior",
	DateCol:        1,
	SlotFrom:       2,
	SlotTo:         9,
	MinHits:        3,
	Extract:        ExtractSenior,
	FilterSubjects: true,
}

// JuniorLayout reads dates from column A and slots from C..G. Juniors see
// every subject of their section.
var JuniorLayout = Layout{
	Name:     "junior",
	DateCol:  0,
	SlotFrom: 2,
	SlotTo:   6,
	MinHits:  2,
	Extract:  ExtractJunior,
}
