package model

// FormPayload is the create/update request body for a form. Field rules
// here cover only structural well-formedness; the cross-field schema rules
// live in the protocol package.
type FormPayload struct {
	Nome      string            `json:"nome" validate:"required"`
	Descricao string            `json:"descricao"`
	Categoria string            `json:"categoria" validate:"required,oneof=avaliacao evolucao pei relatorio"`
	Perguntas []QuestionPayload `json:"perguntas" validate:"dive"`
}

// QuestionPayload is one question in a FormPayload. ID is present only
// when updating an existing question; new questions get fresh ids.
type QuestionPayload struct {
	ID          string   `json:"id,omitempty"`
	Texto       string   `json:"texto"`
	Sigla       string   `json:"sigla"`
	Tipo        string   `json:"tipo" validate:"omitempty,oneof=TEXTO NUMERO BOOLEANO MULTIPLA FORMULA PERCENTUAL"`
	Obrigatoria bool     `json:"obrigatoria"`
	Formula     string   `json:"formula,omitempty"`
	Opcoes      []string `json:"opcoes,omitempty"`
}

// Form converts the payload into the domain model. Ordem is assigned by
// position; callers renumber and validate before persisting.
func (p FormPayload) Form() Form {
	f := Form{
		Nome:      p.Nome,
		Descricao: p.Descricao,
		Categoria: Category(p.Categoria),
	}
	for i, qp := range p.Perguntas {
		tipo := QuestionType(qp.Tipo)
		if qp.Tipo == "" {
			tipo = TipoTexto
		}
		f.Perguntas = append(f.Perguntas, Question{
			ID:          qp.ID,
			Ordem:       i + 1,
			Texto:       qp.Texto,
			Sigla:       qp.Sigla,
			Tipo:        tipo,
			Obrigatoria: qp.Obrigatoria,
			Formula:     qp.Formula,
			Opcoes:      qp.Opcoes,
		})
	}
	return f
}

// RecordPayload is the create request body for a session record. Indices
// are accepted in any of the backend's shapes (see Indicator).
type RecordPayload struct {
	FormularioID     string               `json:"formulario_id" validate:"required"`
	Data             string               `json:"data" validate:"required,datetime=2006-01-02"`
	FormularioTitulo string               `json:"formulario_titulo,omitempty"`
	Indices          map[string]Indicator `json:"indices"`
}

// ChartRequest selects the records to chart.
type ChartRequest struct {
	FormularioID string   `json:"formulario_id" validate:"required"`
	Datas        []string `json:"datas" validate:"dive,datetime=2006-01-02"`
}

// LoginPayload is the login request body.
type LoginPayload struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
