// Package protocol implements the schema rules for clinical assessment
// forms: sigla normalization, dense question ordering, structural
// mutations, and the validation engine that gates persistence.
package protocol

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

// SiglaMaxLen is the maximum length of a question's short code.
const SiglaMaxLen = 16

var (
	siglaInvalid   = regexp.MustCompile(`[^A-Z0-9_]`)
	percentFormula = regexp.MustCompile(`^PERCENTUAL\(P\d+:P\d+\)$`)
)

// NormalizeSigla uppercases s, strips every character outside [A-Z0-9_]
// and truncates to SiglaMaxLen. The result always matches
// ^[A-Z0-9_]{0,16}$ and normalization is idempotent.
func NormalizeSigla(s string) string {
	up := strings.ToUpper(strings.TrimSpace(s))
	up = siglaInvalid.ReplaceAllString(up, "")
	if len(up) > SiglaMaxLen {
		up = up[:SiglaMaxLen]
	}
	return up
}

// DefaultPercentFormula synthesizes the conventional percentage-of-
// acquisition window for a question at the given 1-based position.
func DefaultPercentFormula(pos int) string {
	return fmt.Sprintf("PERCENTUAL(P1:P%d)", pos)
}

// ValidPercentFormula reports whether s matches the fixed
// PERCENTUAL(Pn:Pm) syntax.
func ValidPercentFormula(s string) bool {
	return percentFormula.MatchString(s)
}

// Renumber returns a copy of qs with Ordem rewritten to exactly 1..N.
// Every structural mutation goes through here so ordering is never
// re-derived inline at call sites.
func Renumber(qs []model.Question) []model.Question {
	out := make([]model.Question, len(qs))
	copy(out, qs)
	for i := range out {
		out[i].Ordem = i + 1
	}
	return out
}
