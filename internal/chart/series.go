// Package chart turns recorded sessions into normalized series data and
// decides which chart shape best represents a selection.
package chart

import (
	"sort"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

// IndicatorInfo describes one charted indicator.
type IndicatorInfo struct {
	Chave string `json:"chave"` // stable identifier: indicator id when present, else the map key
	Sigla string `json:"sigla,omitempty"`
	Texto string `json:"texto,omitempty"`
	Label string `json:"label"`
}

// Series is one session's values, aligned with SeriesData.Categories.
type Series struct {
	Name string    `json:"name"`
	Data []float64 `json:"data"`
}

// SeriesData is the normalized chart input for the rendering layer.
type SeriesData struct {
	Series     []Series        `json:"series"`
	Categories []string        `json:"categories"`
	Perguntas  []IndicatorInfo `json:"perguntas"`
}

// BuildSeries filters sessions to the selected dates and produces one
// series per session over the union of their indicators. Indicators are
// deduplicated by identifier (the indicator's own id when present,
// otherwise its map key), labeled preferring sigla over texto over the
// raw key, and sorted by identifier so legends and axes stay stable when
// the selection changes. Absent or not-yet-computed values chart as 0.
func BuildSeries(sessions []model.SessionRecord, selectedDates []string) SeriesData {
	filtered := filterSessions(sessions, selectedDates)
	infos := collectIndicators(filtered)

	data := SeriesData{Perguntas: infos}
	for _, info := range infos {
		data.Categories = append(data.Categories, info.Label)
	}
	for _, rec := range filtered {
		s := Series{Name: rec.Label()}
		for _, info := range infos {
			s.Data = append(s.Data, indicatorValue(rec, info.Chave))
		}
		data.Series = append(data.Series, s)
	}
	return data
}

// BarRow is one indicator's values across the selected sessions.
type BarRow struct {
	Label  string    `json:"label"`
	Values []float64 `json:"values"`
}

// BarData is the bar/column pivot of the same selection: one row per
// indicator, one column per session.
type BarData struct {
	Sessions []string `json:"sessions"`
	Rows     []BarRow `json:"rows"`
}

// BuildBarData pivots the filtered sessions into bar form.
func BuildBarData(sessions []model.SessionRecord, selectedDates []string) BarData {
	filtered := filterSessions(sessions, selectedDates)
	infos := collectIndicators(filtered)

	var data BarData
	for _, rec := range filtered {
		data.Sessions = append(data.Sessions, rec.Label())
	}
	for _, info := range infos {
		row := BarRow{Label: info.Label}
		for _, rec := range filtered {
			row.Values = append(row.Values, indicatorValue(rec, info.Chave))
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// PieSlice is one indicator of a single session.
type PieSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// BuildPieData extracts a single session's indicator map as pie slices,
// in the same stable identifier order as the other builders.
func BuildPieData(rec model.SessionRecord) []PieSlice {
	infos := collectIndicators([]model.SessionRecord{rec})
	var slices []PieSlice
	for _, info := range infos {
		slices = append(slices, PieSlice{Name: info.Label, Value: indicatorValue(rec, info.Chave)})
	}
	return slices
}

func filterSessions(sessions []model.SessionRecord, selectedDates []string) []model.SessionRecord {
	selected := make(map[string]struct{}, len(selectedDates))
	for _, d := range selectedDates {
		selected[d] = struct{}{}
	}
	var out []model.SessionRecord
	for _, rec := range sessions {
		if _, ok := selected[rec.Data]; !ok {
			continue
		}
		if !rec.Chartable() {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func collectIndicators(sessions []model.SessionRecord) []IndicatorInfo {
	byChave := make(map[string]IndicatorInfo)
	for _, rec := range sessions {
		for key, ind := range rec.Indices {
			chave := ind.ID
			if chave == "" {
				chave = key
			}
			if _, ok := byChave[chave]; ok {
				continue
			}
			label := ind.Sigla
			if label == "" {
				label = ind.Texto
			}
			if label == "" {
				label = key
			}
			byChave[chave] = IndicatorInfo{Chave: chave, Sigla: ind.Sigla, Texto: ind.Texto, Label: label}
		}
	}

	infos := make([]IndicatorInfo, 0, len(byChave))
	for _, info := range byChave {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Chave < infos[j].Chave })
	return infos
}

func indicatorValue(rec model.SessionRecord, chave string) float64 {
	for key, ind := range rec.Indices {
		id := ind.ID
		if id == "" {
			id = key
		}
		if id == chave {
			if !ind.Valido {
				return 0
			}
			return ind.Valor
		}
	}
	return 0
}
