package llm

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

const narrativeSystemPrompt = "Você é um assistente clínico que redige relatórios de evolução " +
	"para terapia ABA. Escreva em português, em prosa corrida, tom profissional. " +
	"Baseie-se somente nos dados fornecidos; nunca invente valores ou datas."

// maxPromptRunes caps the free-text portion of the prompt so a single
// pathological record cannot blow the context window.
const maxPromptRunes = 10000

var sessionTagRegex = regexp.MustCompile(`(?i)</?\s*(dados-sessao|system-instructions)\b[^>]*>`)

// buildNarrativePrompt renders the form structure and the chronological
// index values into a prompt. Pure function, tested without a live API.
func buildNarrativePrompt(form model.Form, records []model.SessionRecord) string {
	var sb strings.Builder

	sb.WriteString("PROTOCOLO: " + form.Nome + "\n")
	if form.Descricao != "" {
		sb.WriteString("DESCRIÇÃO: " + sanitizeText(form.Descricao) + "\n")
	}
	sb.WriteString(fmt.Sprintf("CATEGORIA: %s\n\n", form.Categoria))

	sb.WriteString("INDICADORES DO PROTOCOLO:\n")
	for _, q := range form.Perguntas {
		line := fmt.Sprintf("- %s (%s, tipo %s)", q.Texto, q.Sigla, q.Tipo)
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	sb.WriteString("SESSÕES REGISTRADAS (ordem cronológica):\n")
	for _, rec := range records {
		sb.WriteString("Sessão de " + rec.Data)
		if rec.FormularioTitulo != "" {
			sb.WriteString(" (" + sanitizeText(rec.FormularioTitulo) + ")")
		}
		sb.WriteString(":\n")
		for _, chave := range sortedKeys(rec.Indices) {
			ind := rec.Indices[chave]
			label := ind.Sigla
			if label == "" {
				label = chave
			}
			if !ind.Valido {
				sb.WriteString(fmt.Sprintf("  %s: sem valor calculado\n", label))
				continue
			}
			sb.WriteString(fmt.Sprintf("  %s: %.2f\n", label, ind.Valor))
		}
	}
	sb.WriteString("\nEscreva um relatório narrativo de evolução cobrindo as sessões acima.\n")

	return capRunes(sb.String(), maxPromptRunes)
}

// sanitizeText strips tag-like sequences that could smuggle instructions
// through user-entered descriptions.
func sanitizeText(s string) string {
	return strings.TrimSpace(sessionTagRegex.ReplaceAllString(s, ""))
}

func capRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "\n\n[Dados truncados por tamanho]"
}

func sortedKeys(m map[string]model.Indicator) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
