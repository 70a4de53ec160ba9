package chart

// Type is the chart shape suggested for a selection.
type Type string

const (
	TypeRadar Type = "radar"
	TypeBar   Type = "bar"
	TypeLine  Type = "line"
	TypePie   Type = "pie"
	TypeNone  Type = ""
)

// maxBarIndicators is the largest indicator cardinality that still reads
// well as grouped bars in a multi-session comparison. Above it the
// heuristic falls back to radar.
const maxBarIndicators = 10

// Decide picks the chart shape for the current selection. Rules are
// evaluated in order, first match wins:
//
//  1. nothing selected → none;
//  2. one session with exactly one positive indicator → bar (a single
//     value compares better as a bar than a one-point radar);
//  3. one session otherwise → radar (the canonical multi-indicator
//     profile);
//  4. several sessions with ≤10 indicators and ≤10 positive ones → bar;
//  5. otherwise → radar.
//
// The result is advisory; the consuming UI may override it. The function
// is pure so it stays independently testable.
func Decide(data SeriesData, selectedDates []string) Type {
	if len(selectedDates) == 0 {
		return TypeNone
	}

	positive := countPositive(data)
	if len(selectedDates) == 1 {
		if positive == 1 {
			return TypeBar
		}
		return TypeRadar
	}

	if len(data.Perguntas) <= maxBarIndicators && positive <= maxBarIndicators {
		return TypeBar
	}
	return TypeRadar
}

// countPositive counts indicators with a positive value in at least one
// selected series.
func countPositive(data SeriesData) int {
	count := 0
	for i := range data.Perguntas {
		for _, s := range data.Series {
			if i < len(s.Data) && s.Data[i] > 0 {
				count++
				break
			}
		}
	}
	return count
}
