package protocol

import (
	"fmt"
	"strings"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

// ViolationKind identifies which schema rule a violation comes from.
type ViolationKind string

const (
	KindNomeVazio       ViolationKind = "nome_vazio"
	KindSemPerguntas    ViolationKind = "sem_perguntas"
	KindFormulaVazia    ViolationKind = "formula_vazia"
	KindFormulaInvalida ViolationKind = "formula_invalida"
	KindOpcoesMinimas   ViolationKind = "opcoes_minimas"
	KindTextoVazio      ViolationKind = "texto_vazio"
)

// Violation is one schema rule failure.
type Violation struct {
	Field      string        `json:"field"`
	QuestionID string        `json:"question_id,omitempty"`
	Kind       ViolationKind `json:"kind"`
	Message    string        `json:"message"`
}

// Validate checks a form against the schema rules and returns the
// (possibly repaired) form together with every violation found. All
// rules are evaluated; nothing short-circuits, so one pass reports every
// problem.
//
// Two repairs are applied by convention rather than rejected:
//   - a PERCENTUAL question with a blank formula gets the default
//     PERCENTUAL(P1:Pn) window for its position before the pattern check;
//   - Obrigatoria is cleared on computed questions, since a computed
//     value is never required from a respondent.
//
// Callers must persist the returned form, not their original, so repairs
// are never silently lost.
func Validate(f model.Form) (model.Form, []Violation) {
	var violations []Violation

	if strings.TrimSpace(f.Nome) == "" {
		violations = append(violations, Violation{
			Field:   "nome",
			Kind:    KindNomeVazio,
			Message: "nome do formulário é obrigatório",
		})
	}

	if len(f.Perguntas) == 0 {
		violations = append(violations, Violation{
			Field:   "perguntas",
			Kind:    KindSemPerguntas,
			Message: "o formulário precisa de ao menos uma pergunta",
		})
	}

	repaired := append([]model.Question(nil), f.Perguntas...)
	for i := range repaired {
		q := &repaired[i]

		if q.Tipo.Computed() {
			q.Obrigatoria = false
		}

		switch q.Tipo {
		case model.TipoFormula:
			if strings.TrimSpace(q.Formula) == "" {
				violations = append(violations, Violation{
					Field:      "formula",
					QuestionID: q.ID,
					Kind:       KindFormulaVazia,
					Message:    fmt.Sprintf("pergunta %d: fórmula não pode ficar em branco", i+1),
				})
			}
		case model.TipoPercentual:
			if strings.TrimSpace(q.Formula) == "" {
				q.Formula = DefaultPercentFormula(i + 1)
			}
			if !ValidPercentFormula(q.Formula) {
				violations = append(violations, Violation{
					Field:      "formula",
					QuestionID: q.ID,
					Kind:       KindFormulaInvalida,
					Message:    fmt.Sprintf("pergunta %d: fórmula deve seguir o padrão PERCENTUAL(Pn:Pm)", i+1),
				})
			}
		case model.TipoMultipla:
			if countDistinct(q.Opcoes) < 2 {
				violations = append(violations, Violation{
					Field:      "opcoes",
					QuestionID: q.ID,
					Kind:       KindOpcoesMinimas,
					Message:    fmt.Sprintf("pergunta %d: múltipla escolha precisa de ao menos 2 opções distintas", i+1),
				})
			}
		}

		if strings.TrimSpace(q.Texto) == "" {
			violations = append(violations, Violation{
				Field:      "texto",
				QuestionID: q.ID,
				Kind:       KindTextoVazio,
				Message:    fmt.Sprintf("pergunta %d: texto não pode ficar em branco", i+1),
			})
		}
	}

	f.Perguntas = repaired
	return f, violations
}

func countDistinct(opts []string) int {
	seen := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		o = strings.TrimSpace(o)
		if o == "" {
			continue
		}
		seen[o] = struct{}{}
	}
	return len(seen)
}
