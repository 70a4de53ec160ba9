package sheet

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/kallleva/Projeto-aba-sub000/internal/model"
)

// ReadCSV parses a question sheet. The first line is the header; the
// field separator is sniffed from it (clinics commonly export
// semicolon-separated files from localized spreadsheet apps). Any parse
// error fails the whole read: imports are all-or-nothing.
func ReadCSV(r io.Reader) ([]map[string]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = sniffSeparator(data)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sheet: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse sheet: empty file")
	}

	header := records[0]
	var rows []map[string]string
	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		row := make(map[string]string, len(header))
		for i, col := range header {
			col = strings.TrimSpace(col)
			if col == "" || i >= len(rec) {
				continue
			}
			row[col] = rec[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteCSV writes questions as a comma-separated sheet with the contract
// header.
func WriteCSV(w io.Writer, qs []model.Question) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range ToRows(qs) {
		rec := make([]string, len(Columns))
		for i, col := range Columns {
			rec[i] = row[col]
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// sniffSeparator picks ';' when the header line has more semicolons than
// commas, otherwise ','.
func sniffSeparator(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func blankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
