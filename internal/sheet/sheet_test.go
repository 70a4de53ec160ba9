package sheet

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"period space", "A. B. C", []string{"A", "B", "C"}},
		{"newline", "A\nB\nC", []string{"A", "B", "C"}},
		{"semicolon", "A; B; C", []string{"A", "B", "C"}},
		{"comma", "A,B,C", []string{"A", "B", "C"}},
		{"no delimiter", "Adquirido com ajuda", []string{"Adquirido com ajuda"}},
		{"blank", "   ", nil},
		{"comma inside, semicolon wins", "Sim, sempre; Não, nunca", []string{"Sim, sempre", "Não, nunca"}},
		{"period space beats comma", "Nível 1. Nível 2, parcial", []string{"Nível 1", "Nível 2, parcial"}},
		{"empty tokens dropped", "A;;B; ;C", []string{"A", "B", "C"}},
		{"single trailing delimiter", "A;", []string{"A;"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseOptions(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseOptions(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFromRows(t *testing.T) {
	rows := []map[string]string{
		{
			"Ordem": "1", "Texto": "Contato visual", "Sigla": "cv!",
			"Tipo": "numero", "Obrigatória": "TRUE",
		},
		{
			"Texto": "Aquisição global", "Sigla": "AQ",
			"Tipo": "PERCENTUAL", "Fórmula": "",
		},
		{
			"Ordem": "3", "Texto": "Preensão", "Sigla": "PR",
			"Tipo": "MULTIPLA", "Opções": "Baixa; Média; Alta", "Obrigatória": "true",
		},
		{
			"Texto": "Observações", "Tipo": "",
		},
	}

	qs := FromRows(rows)
	if len(qs) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(qs))
	}

	if qs[0].Tipo != model.TipoNumero || qs[0].Sigla != "CV" || !qs[0].Obrigatoria {
		t.Errorf("row 1 mapped wrong: %+v", qs[0])
	}
	if qs[1].Formula != "PERCENTUAL(P1:P2)" {
		t.Errorf("blank PERCENTUAL formula must be synthesized from row position, got %q", qs[1].Formula)
	}
	if qs[1].Ordem != 2 {
		t.Errorf("missing Ordem must default to row position, got %d", qs[1].Ordem)
	}
	if !reflect.DeepEqual(qs[2].Opcoes, []string{"Baixa", "Média", "Alta"}) {
		t.Errorf("options not parsed: %v", qs[2].Opcoes)
	}
	if !qs[2].Obrigatoria {
		t.Error("lowercase true must count as obrigatória")
	}
	if qs[3].Tipo != model.TipoTexto {
		t.Errorf("blank tipo must default to TEXTO, got %q", qs[3].Tipo)
	}

	// Fresh distinct ids, never reused from the source sheet.
	seen := map[string]bool{}
	for _, q := range qs {
		if q.ID == "" || seen[q.ID] {
			t.Fatalf("missing or duplicate id: %+v", qs)
		}
		seen[q.ID] = true
	}
}

func TestFromRowsUnknownTipo(t *testing.T) {
	qs := FromRows([]map[string]string{{"Texto": "X", "Tipo": "ESCALA"}})
	if qs[0].Tipo != model.TipoTexto {
		t.Errorf("unknown tipo must normalize to TEXTO, got %q", qs[0].Tipo)
	}
}

func TestRoundTrip(t *testing.T) {
	original := []model.Question{
		{Ordem: 1, Texto: "Contato visual", Sigla: "CV", Tipo: model.TipoNumero, Obrigatoria: true},
		{Ordem: 2, Texto: "Comentários", Sigla: "COM", Tipo: model.TipoTexto},
		{Ordem: 3, Texto: "Preensão", Sigla: "PR", Tipo: model.TipoMultipla,
			Opcoes: []string{"Baixa", "Média", "Alta"}},
		{Ordem: 4, Texto: "Soma motora", Sigla: "SM", Tipo: model.TipoFormula, Formula: "P1+P3"},
		{Ordem: 5, Texto: "Aquisição", Sigla: "AQ", Tipo: model.TipoPercentual, Formula: "PERCENTUAL(P1:P4)"},
	}

	back := FromRows(ToRows(original))
	if len(back) != len(original) {
		t.Fatalf("round trip changed question count: %d != %d", len(back), len(original))
	}
	for i, want := range original {
		got := back[i]
		got.ID = "" // ids are regenerated on import by design
		want.ID = ""
		if !reflect.DeepEqual(got, want) {
			t.Errorf("question %d round trip mismatch:\n got %+v\nwant %+v", i+1, got, want)
		}
	}
}

func TestCSVRoundTrip(t *testing.T) {
	qs := []model.Question{
		{Ordem: 1, Texto: "Contato visual", Sigla: "CV", Tipo: model.TipoNumero, Obrigatoria: true},
		{Ordem: 2, Texto: "Preensão", Sigla: "PR", Tipo: model.TipoMultipla,
			Opcoes: []string{"Baixa", "Média"}},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, qs); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	back := FromRows(rows)
	if len(back) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(back))
	}
	if back[0].Sigla != "CV" || !back[0].Obrigatoria {
		t.Errorf("row 1 mismatch: %+v", back[0])
	}
	if !reflect.DeepEqual(back[1].Opcoes, []string{"Baixa", "Média"}) {
		t.Errorf("options mismatch: %v", back[1].Opcoes)
	}
}

func TestReadCSVSemicolonSeparated(t *testing.T) {
	in := strings.NewReader("Ordem;Texto;Sigla;Tipo\n1;Contato visual;CV;NUMERO\n")
	rows, err := ReadCSV(in)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 1 || rows[0]["Texto"] != "Contato visual" {
		t.Fatalf("unexpected rows: %v", rows)
	}
}

func TestReadCSVFailures(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("empty file must fail")
	}
	// Unbalanced quotes fail the whole read; no partial import.
	if _, err := ReadCSV(strings.NewReader("Texto\n\"unterminated\n")); err == nil {
		t.Error("malformed CSV must fail")
	}
}
