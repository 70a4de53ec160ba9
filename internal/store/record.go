package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

// CreateRecord stores a session record with its indices in one
// transaction and returns the record id. A NULL valor marks an index the
// calculation backend has not produced yet.
func (s *Store) CreateRecord(rec model.SessionRecord) (string, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	id := rec.ID
	if id == "" {
		id = uuid.NewString()
	}
	_, err = tx.Exec(
		`INSERT INTO registros (id, formulario_id, data, formulario_titulo, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		id, rec.FormularioID, rec.Data, rec.FormularioTitulo, time.Now(),
	)
	if err != nil {
		return "", err
	}

	for chave, ind := range rec.Indices {
		valor := sql.NullFloat64{Float64: ind.Valor, Valid: ind.Valido}
		_, err := tx.Exec(
			`INSERT INTO registro_indices (registro_id, chave, indicador_id, texto, sigla, valor)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, chave, ind.ID, ind.Texto, ind.Sigla, valor,
		)
		if err != nil {
			return "", err
		}
	}

	return id, tx.Commit()
}

// GetRecord returns a record with its indices.
func (s *Store) GetRecord(id string) (model.SessionRecord, error) {
	var rec model.SessionRecord
	err := s.db.QueryRow(
		`SELECT id, formulario_id, data, formulario_titulo FROM registros WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.FormularioID, &rec.Data, &rec.FormularioTitulo)
	if err != nil {
		return rec, err
	}
	rec.Indices, err = s.recordIndices(id)
	return rec, err
}

// ListRecords returns all records of a form, oldest first, with their
// indices loaded.
func (s *Store) ListRecords(formID string) ([]model.SessionRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, formulario_id, data, formulario_titulo FROM registros
		 WHERE formulario_id = ? ORDER BY data, created_at`, formID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.SessionRecord
	for rows.Next() {
		var rec model.SessionRecord
		if err := rows.Scan(&rec.ID, &rec.FormularioID, &rec.Data, &rec.FormularioTitulo); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range records {
		records[i].Indices, err = s.recordIndices(records[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) recordIndices(recordID string) (map[string]model.Indicator, error) {
	rows, err := s.db.Query(
		`SELECT chave, indicador_id, texto, sigla, valor FROM registro_indices WHERE registro_id = ?`, recordID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	indices := make(map[string]model.Indicator)
	for rows.Next() {
		var chave string
		var ind model.Indicator
		var valor sql.NullFloat64
		if err := rows.Scan(&chave, &ind.ID, &ind.Texto, &ind.Sigla, &valor); err != nil {
			return nil, err
		}
		ind.Valor = valor.Float64
		ind.Valido = valor.Valid
		indices[chave] = ind
	}
	return indices, rows.Err()
}

// DeleteRecord removes a record and its indices.
func (s *Store) DeleteRecord(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM registro_indices WHERE registro_id = ?`, id); err != nil {
		return err
	}
	res, err := tx.Exec(`DELETE FROM registros WHERE id = ?`, id)
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
