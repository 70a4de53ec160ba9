package protocol

import (
	"fmt"
	"strings"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

// maxGroupExamples caps how many offending question texts are listed per
// rule. Display-only: the violation data itself is never truncated.
const maxGroupExamples = 3

// ViolationGroup is the presentation form of all violations of one rule.
type ViolationGroup struct {
	Kind     ViolationKind `json:"kind"`
	Field    string        `json:"field"`
	Count    int           `json:"count"`
	Examples []string      `json:"examples,omitempty"`
	More     int           `json:"more,omitempty"`
}

// Summarize groups violations by rule in first-seen order and attaches
// up to maxGroupExamples offending question texts per group, with More
// carrying the remainder for a "+N more" suffix.
func Summarize(violations []Violation, qs []model.Question) []ViolationGroup {
	textByID := make(map[string]string, len(qs))
	for _, q := range qs {
		textByID[q.ID] = q.Texto
	}

	index := make(map[ViolationKind]int)
	var groups []ViolationGroup
	for _, v := range violations {
		i, ok := index[v.Kind]
		if !ok {
			i = len(groups)
			index[v.Kind] = i
			groups = append(groups, ViolationGroup{Kind: v.Kind, Field: v.Field})
		}
		groups[i].Count++
		if v.QuestionID == "" {
			continue
		}
		text := textByID[v.QuestionID]
		if text == "" {
			text = v.QuestionID
		}
		if len(groups[i].Examples) < maxGroupExamples {
			groups[i].Examples = append(groups[i].Examples, text)
		} else {
			groups[i].More++
		}
	}
	return groups
}

// String renders the group as a single human-readable line, for logs and
// the CLI.
func (g ViolationGroup) String() string {
	var sb strings.Builder
	sb.WriteString(string(g.Kind))
	if len(g.Examples) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(g.Examples, ", "))
		if g.More > 0 {
			sb.WriteString(fmt.Sprintf(" +%d", g.More))
		}
	}
	return sb.String()
}
