package protocol

import (
	"regexp"
	"testing"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

func TestNormalizeSigla(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normal", "CV", "CV"},
		{"lowercase", "im_fina", "IM_FINA"},
		{"accents and spaces", "coord. motora", "COORDMOTORA"},
		{"punctuation stripped", "a-b/c.d", "ABCD"},
		{"truncated to 16", "ABCDEFGHIJKLMNOPQRSTU", "ABCDEFGHIJKLMNOP"},
		{"empty", "", ""},
		{"only invalid chars", "ção!?", "O"},
	}
	shape := regexp.MustCompile(`^[A-Z0-9_]{0,16}$`)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeSigla(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeSigla(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if !shape.MatchString(got) {
				t.Errorf("NormalizeSigla(%q) = %q violates shape", tt.in, got)
			}
			if again := NormalizeSigla(got); again != got {
				t.Errorf("not idempotent: NormalizeSigla(%q) = %q", got, again)
			}
		})
	}
}

func TestDefaultPercentFormula(t *testing.T) {
	if got := DefaultPercentFormula(3); got != "PERCENTUAL(P1:P3)" {
		t.Errorf("got %q", got)
	}
	if !ValidPercentFormula(DefaultPercentFormula(12)) {
		t.Error("synthesized formula must satisfy its own pattern")
	}
}

func checkDense(t *testing.T, qs []model.Question) {
	t.Helper()
	for i, q := range qs {
		if q.Ordem != i+1 {
			t.Fatalf("ordem not dense at %d: %+v", i, qs)
		}
	}
}

func TestRenumberAfterMutations(t *testing.T) {
	var qs []model.Question
	for _, texto := range []string{"A", "B", "C", "D"} {
		qs = Append(qs, model.Question{Texto: texto, Tipo: model.TipoTexto})
		checkDense(t, qs)
	}

	// Appended questions get fresh distinct ids.
	seen := map[string]bool{}
	for _, q := range qs {
		if q.ID == "" || seen[q.ID] {
			t.Fatalf("missing or duplicate id in %+v", qs)
		}
		seen[q.ID] = true
	}

	qs = Remove(qs, qs[1].ID)
	checkDense(t, qs)
	if len(qs) != 3 || qs[1].Texto != "C" {
		t.Fatalf("unexpected list after remove: %+v", qs)
	}

	qs = Move(qs, 2, 0)
	checkDense(t, qs)
	if qs[0].Texto != "D" || qs[1].Texto != "A" || qs[2].Texto != "C" {
		t.Fatalf("unexpected list after move: %+v", qs)
	}

	// Removing an unknown id leaves the list alone.
	same := Remove(qs, "nope")
	if len(same) != len(qs) {
		t.Fatal("remove of unknown id changed the list")
	}

	// Out-of-range moves are no-ops.
	if got := Move(qs, -1, 2); len(got) != len(qs) || got[0].Texto != qs[0].Texto {
		t.Fatal("out-of-range move changed the list")
	}
}

func TestMoveMiddle(t *testing.T) {
	var qs []model.Question
	for _, texto := range []string{"A", "B", "C", "D", "E"} {
		qs = Append(qs, model.Question{Texto: texto, Tipo: model.TipoTexto})
	}
	qs = Move(qs, 1, 3)
	checkDense(t, qs)
	got := ""
	for _, q := range qs {
		got += q.Texto
	}
	if got != "ACDBE" {
		t.Errorf("expected ACDBE, got %s", got)
	}
}
