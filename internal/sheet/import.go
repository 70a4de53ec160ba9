package sheet

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
	"github.com/kallleva/Projeto-aba-sub000/internal/protocol"
)

// Column names of the import/export contract. Export always writes the
// accented spellings; import accepts both spellings so exported sheets
// and hand-made ones load the same way.
const (
	ColOrdem       = "Ordem"
	ColTexto       = "Texto"
	ColSigla       = "Sigla"
	ColTipo        = "Tipo"
	ColFormula     = "Fórmula"
	ColOpcoes      = "Opções"
	ColObrigatoria = "Obrigatória"
)

// Columns is the export column order.
var Columns = []string{ColOrdem, ColTexto, ColSigla, ColTipo, ColFormula, ColOpcoes, ColObrigatoria}

// FromRows converts spreadsheet rows into questions. Per row: Tipo is
// uppercased (blank or unknown becomes TEXTO), Sigla is normalized, a
// blank PERCENTUAL formula gets the default window for its row position,
// Obrigatória is true only for the literal TRUE/true, Ordem defaults to
// the 1-based row position, and ids are freshly generated so imported
// questions never collide with existing ones.
func FromRows(rows []map[string]string) []model.Question {
	var qs []model.Question
	for i, row := range rows {
		tipo := model.QuestionType(strings.ToUpper(strings.TrimSpace(row[ColTipo])))
		if !tipo.Valid() {
			tipo = model.TipoTexto
		}

		q := model.Question{
			ID:      uuid.NewString(),
			Texto:   strings.TrimSpace(row[ColTexto]),
			Sigla:   protocol.NormalizeSigla(row[ColSigla]),
			Tipo:    tipo,
			Formula: strings.TrimSpace(cell(row, ColFormula, "Formula")),
		}

		if tipo == model.TipoPercentual && q.Formula == "" {
			q.Formula = protocol.DefaultPercentFormula(i + 1)
		}
		if tipo == model.TipoMultipla {
			q.Opcoes = ParseOptions(cell(row, ColOpcoes, "Opcoes"))
		}

		switch cell(row, ColObrigatoria, "Obrigatoria") {
		case "TRUE", "true":
			q.Obrigatoria = !tipo.Computed()
		}

		q.Ordem = i + 1
		if ord, err := strconv.Atoi(strings.TrimSpace(row[ColOrdem])); err == nil && ord > 0 {
			q.Ordem = ord
		}

		qs = append(qs, q)
	}
	return qs
}

// cell reads the first present key from the row.
func cell(row map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := row[k]; ok {
			return v
		}
	}
	return ""
}
