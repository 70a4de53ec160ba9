package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kallleva/Projeto-aba-sub000/internal/i18n"
	"github.com/kallleva/Projeto-aba-sub000/internal/sheet"
)

// maxImportSize bounds uploaded sheets. Clinic protocols are a few
// hundred rows at most.
const maxImportSize = 4 << 20

// handleImportQuestions replaces a form's questions with the contents of
// an uploaded CSV sheet. All-or-nothing: a bad file leaves the form
// untouched.
func (h *Handler) handleImportQuestions(w http.ResponseWriter, r *http.Request) {
	form, err := h.store.GetForm(chi.URLParam(r, "formID"))
	if errors.Is(err, sql.ErrNoRows) {
		jsonError(w, r, http.StatusNotFound, "FormNotFound")
		return
	}
	if err != nil {
		slog.Error("get form for import", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, _, err := r.FormFile("arquivo")
	if err != nil {
		jsonError(w, r, http.StatusBadRequest, "ImportEmptyFile")
		return
	}
	defer file.Close()

	rows, err := sheet.ReadCSV(file)
	if err != nil {
		slog.Warn("import sheet rejected", "form", form.ID, "error", err)
		jsonError(w, r, http.StatusUnprocessableEntity, "ImportInvalidCSV")
		return
	}

	questions := sheet.FromRows(rows)
	if len(questions) == 0 {
		jsonError(w, r, http.StatusUnprocessableEntity, "ImportNoQuestions")
		return
	}

	form.Perguntas = questions
	repaired, groups := prepareForm(form)
	if groups != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"erro":      i18n.T(r.Context(), "FormInvalid"),
			"violacoes": groups,
		})
		return
	}

	if err := h.store.UpdateForm(repaired); err != nil {
		slog.Error("import update form", "form", form.ID, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	slog.Info("imported questions", "form", form.ID, "count", len(questions))
	writeJSON(w, http.StatusOK, map[string]any{
		"mensagem":   i18n.Tp(r.Context(), "ImportDone", len(questions)),
		"formulario": repaired,
	})
}

// handleExportQuestions streams a form's questions as a CSV download.
func (h *Handler) handleExportQuestions(w http.ResponseWriter, r *http.Request) {
	form, err := h.store.GetForm(chi.URLParam(r, "formID"))
	if errors.Is(err, sql.ErrNoRows) {
		jsonError(w, r, http.StatusNotFound, "FormNotFound")
		return
	}
	if err != nil {
		slog.Error("get form for export", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", form.Nome+".csv"))
	if err := sheet.WriteCSV(w, form.Perguntas); err != nil {
		slog.Error("write export", "form", form.ID, "error", err)
	}
}
