package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

// CreateForm stores a form with its questions in one transaction and
// returns the new form id. Question ids are kept when supplied (client
// temporary ids become permanent) and generated otherwise.
func (s *Store) CreateForm(f model.Form) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := f.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()
	_, err = tx.Exec(
		`INSERT INTO formularios (id, nome, categoria, descricao, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, f.Nome, f.Categoria, f.Descricao, now, now,
	)
	if err != nil {
		return "", err
	}

	if err := insertQuestions(tx, id, f.Perguntas); err != nil {
		return "", err
	}

	return id, tx.Commit()
}

// UpdateForm rewrites a form and replaces its question set in one
// transaction. Returns sql.ErrNoRows when the form does not exist.
func (s *Store) UpdateForm(f model.Form) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		`UPDATE formularios SET nome = ?, categoria = ?, descricao = ?, updated_at = ? WHERE id = ?`,
		f.Nome, f.Categoria, f.Descricao, time.Now(), f.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(`DELETE FROM perguntas WHERE formulario_id = ?`, f.ID); err != nil {
		return err
	}
	if err := insertQuestions(tx, f.ID, f.Perguntas); err != nil {
		return err
	}

	return tx.Commit()
}

func insertQuestions(tx *sql.Tx, formID string, qs []model.Question) error {
	for _, q := range qs {
		if q.ID == "" {
			q.ID = uuid.NewString()
		}
		opcoes, err := json.Marshal(q.Opcoes)
		if err != nil {
			return fmt.Errorf("marshal opções: %w", err)
		}
		_, err = tx.Exec(
			`INSERT INTO perguntas (id, formulario_id, ordem, texto, sigla, tipo, obrigatoria, formula, opcoes)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			q.ID, formID, q.Ordem, q.Texto, q.Sigla, q.Tipo, q.Obrigatoria, q.Formula, string(opcoes),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetForm returns a form with its questions ordered by ordem.
func (s *Store) GetForm(id string) (model.Form, error) {
	var f model.Form
	err := s.db.QueryRow(
		`SELECT id, nome, categoria, descricao, created_at, updated_at FROM formularios WHERE id = ?`, id,
	).Scan(&f.ID, &f.Nome, &f.Categoria, &f.Descricao, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return f, err
	}

	rows, err := s.db.Query(
		`SELECT id, ordem, texto, sigla, tipo, obrigatoria, formula, opcoes
		 FROM perguntas WHERE formulario_id = ? ORDER BY ordem`, id,
	)
	if err != nil {
		return f, err
	}
	defer rows.Close()
	for rows.Next() {
		var q model.Question
		var opcoes string
		if err := rows.Scan(&q.ID, &q.Ordem, &q.Texto, &q.Sigla, &q.Tipo, &q.Obrigatoria, &q.Formula, &opcoes); err != nil {
			return f, err
		}
		if err := json.Unmarshal([]byte(opcoes), &q.Opcoes); err != nil {
			return f, fmt.Errorf("unmarshal opções for %s: %w", q.ID, err)
		}
		f.Perguntas = append(f.Perguntas, q)
	}
	return f, rows.Err()
}

// ListForms returns forms without their questions, newest first.
// An empty categoria means no filtering.
func (s *Store) ListForms(categoria string) ([]model.Form, error) {
	query := `SELECT id, nome, categoria, descricao, created_at, updated_at FROM formularios`
	var args []any
	if categoria != "" {
		query += ` WHERE categoria = ?`
		args = append(args, categoria)
	}
	query += ` ORDER BY updated_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var forms []model.Form
	for rows.Next() {
		var f model.Form
		if err := rows.Scan(&f.ID, &f.Nome, &f.Categoria, &f.Descricao, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		forms = append(forms, f)
	}
	return forms, rows.Err()
}

// DeleteForm removes a form, its questions, its records, and their
// indices.
func (s *Store) DeleteForm(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM registro_indices WHERE registro_id IN (SELECT id FROM registros WHERE formulario_id = ?)`, id,
	); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM registros WHERE formulario_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM perguntas WHERE formulario_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM formularios WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// FormCount returns the number of stored forms.
func (s *Store) FormCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM formularios`).Scan(&count)
	return count, err
}
