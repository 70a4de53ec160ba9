package sheet

import (
	"strconv"
	"strings"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

// optionJoin is the separator used to serialize MULTIPLA options into a
// single cell. Options containing this exact sequence do not survive a
// round trip; see the package doc.
const optionJoin = ", "

// ToRows serializes questions into export rows, one per question, using
// the Columns order.
func ToRows(qs []model.Question) []map[string]string {
	rows := make([]map[string]string, 0, len(qs))
	for _, q := range qs {
		obrigatoria := "FALSE"
		if q.Obrigatoria {
			obrigatoria = "TRUE"
		}
		rows = append(rows, map[string]string{
			ColOrdem:       strconv.Itoa(q.Ordem),
			ColTexto:       q.Texto,
			ColSigla:       q.Sigla,
			ColTipo:        string(q.Tipo),
			ColFormula:     q.Formula,
			ColOpcoes:      strings.Join(q.Opcoes, optionJoin),
			ColObrigatoria: obrigatoria,
		})
	}
	return rows
}
