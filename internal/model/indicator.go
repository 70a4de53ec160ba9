package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Indicator is the normalized form of one computed index value.
//
// The calculation backend is loose about what it puts into the indices
// map: sometimes a bare number, sometimes a numeric string, sometimes an
// object carrying valor plus display metadata. UnmarshalJSON is the single
// normalization point for all of those shapes; everything downstream works
// with this struct only.
type Indicator struct {
	ID    string  `json:"id,omitempty"`
	Texto string  `json:"texto,omitempty"`
	Sigla string  `json:"sigla,omitempty"`
	Valor float64 `json:"valor"`

	// Valido is false when the backend has not produced a usable number
	// yet ("awaiting calculation"). Such indicators chart as zero.
	Valido bool `json:"-"`
}

// UnmarshalJSON accepts a bare number, a numeric string, or an object
// with {valor, sigla, texto, id}.
func (ind *Indicator) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*ind = Indicator{}
		return nil
	}

	switch trimmed[0] {
	case '{':
		var obj struct {
			ID    string          `json:"id"`
			Texto string          `json:"texto"`
			Sigla string          `json:"sigla"`
			Valor json.RawMessage `json:"valor"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		valor, ok := coerceNumber(obj.Valor)
		*ind = Indicator{ID: obj.ID, Texto: obj.Texto, Sigla: obj.Sigla, Valor: valor, Valido: ok}
		return nil
	default:
		valor, ok := coerceNumber(data)
		*ind = Indicator{Valor: valor, Valido: ok}
		return nil
	}
}

// coerceNumber extracts a float64 from a raw JSON number or numeric
// string. Anything else yields (0, false).
func coerceNumber(raw json.RawMessage) (float64, bool) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, false
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		trimmed = strings.TrimSpace(s)
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// SessionRecord is one completed instance of answering a form on a given
// date, with the computed indices the backend produced for it.
type SessionRecord struct {
	ID               string               `json:"id,omitempty"`
	FormularioID     string               `json:"formulario_id,omitempty"`
	Data             string               `json:"data"`
	FormularioTitulo string               `json:"formulario_titulo,omitempty"`
	Indices          map[string]Indicator `json:"indices"`
}

// Chartable reports whether the record carries at least one computed
// index. Records without indices are free-text-only entries and never
// feed the chart transformer.
func (r SessionRecord) Chartable() bool {
	return len(r.Indices) > 0
}

// Label is the display name used for the record's series: the linked form
// title when present, otherwise the raw date.
func (r SessionRecord) Label() string {
	if r.FormularioTitulo != "" {
		return r.FormularioTitulo
	}
	return r.Data
}
