package protocol

import (
	"github.com/google/uuid"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

// Append adds q to the end of the question list, assigning a fresh id
// when the question has none, and renumbers.
func Append(qs []model.Question, q model.Question) []model.Question {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	q.Sigla = NormalizeSigla(q.Sigla)
	return Renumber(append(append([]model.Question(nil), qs...), q))
}

// Remove drops the question with the given id and renumbers. The input
// is returned unchanged when no question matches.
func Remove(qs []model.Question, id string) []model.Question {
	out := make([]model.Question, 0, len(qs))
	found := false
	for _, q := range qs {
		if q.ID == id {
			found = true
			continue
		}
		out = append(out, q)
	}
	if !found {
		return qs
	}
	return Renumber(out)
}

// Move shifts the question at index from to index to and renumbers.
// Out-of-range indices leave the list unchanged.
func Move(qs []model.Question, from, to int) []model.Question {
	if from < 0 || from >= len(qs) || to < 0 || to >= len(qs) || from == to {
		return qs
	}
	out := make([]model.Question, 0, len(qs))
	out = append(out, qs...)
	q := out[from]
	out = append(out[:from], out[from+1:]...)
	rest := append([]model.Question(nil), out[to:]...)
	out = append(append(out[:to], q), rest...)
	return Renumber(out)
}
