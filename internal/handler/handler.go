package handler

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/kallleva/Projeto-aba-sub000/internal/chart"
	"github.com/kallleva/Projeto-aba-sub000/internal/i18n"
	"github.com/kallleva/Projeto-aba-sub000/internal/llm"
	"github.com/kallleva/Projeto-aba-sub000/internal/model"
	"github.com/kallleva/Projeto-aba-sub000/internal/protocol"
	"github.com/kallleva/Projeto-aba-sub000/internal/store"
)

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	store    *store.Store
	llm      *llm.Client // nil when no AI endpoint is configured
	validate *validator.Validate
	memo     *chart.Memo
	config   model.ServerConfig
}

// New creates a new Handler.
func New(s *store.Store, l *llm.Client, cfg model.ServerConfig) *Handler {
	return &Handler{
		store:    s,
		llm:      l,
		validate: validator.New(),
		memo:     &chart.Memo{},
		config:   cfg,
	}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(h.requireAuth)

		r.Get("/api/formularios", h.handleListForms)
		r.Get("/api/formularios/{formID}", h.handleGetForm)
		r.Get("/api/formularios/{formID}/perguntas/exportar", h.handleExportQuestions)
		r.Get("/api/registros", h.handleListRecords)
		r.Get("/api/registros/{recordID}", h.handleGetRecord)
		r.Post("/api/graficos/series", h.handleChartSeries)

		r.Group(func(r chi.Router) {
			r.Use(requireRole(model.UserRoleTherapist, model.UserRoleAdmin))

			r.Post("/api/formularios", h.handleCreateForm)
			r.Put("/api/formularios/{formID}", h.handleUpdateForm)
			r.Delete("/api/formularios/{formID}", h.handleDeleteForm)
			r.Post("/api/formularios/{formID}/perguntas/importar", h.handleImportQuestions)
			r.Post("/api/registros", h.handleCreateRecord)
			r.Delete("/api/registros/{recordID}", h.handleDeleteRecord)
			r.Post("/api/relatorios/narrativa", h.handleNarrative)
		})

		r.Route("/admin/users", func(r chi.Router) {
			r.Use(requireRole(model.UserRoleAdmin))
			r.Get("/", h.handleListUsers)
			r.Post("/", h.handleCreateUser)
			r.Post("/{userID}/toggle", h.handleToggleUserActive)
		})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// jsonError writes a localized error message for the given message id.
func jsonError(w http.ResponseWriter, r *http.Request, status int, msgID string) {
	writeJSON(w, status, map[string]string{"erro": i18n.T(r.Context(), msgID)})
}

// decodeValid decodes the JSON body into v and runs struct validation.
func (h *Handler) decodeValid(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return h.validate.Struct(v)
}

// prepareForm normalizes a submitted form and runs the schema rules.
// Violations come back grouped for the API response; the repaired form is
// what gets persisted.
func prepareForm(f model.Form) (model.Form, []protocol.ViolationGroup) {
	for i := range f.Perguntas {
		f.Perguntas[i].Sigla = protocol.NormalizeSigla(f.Perguntas[i].Sigla)
	}
	f.Perguntas = protocol.Renumber(f.Perguntas)

	repaired, violations := protocol.Validate(f)
	if len(violations) > 0 {
		return repaired, protocol.Summarize(violations, repaired.Perguntas)
	}
	return repaired, nil
}

func (h *Handler) handleListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := h.store.ListForms(r.URL.Query().Get("categoria"))
	if err != nil {
		slog.Error("list forms", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if forms == nil {
		forms = []model.Form{}
	}
	writeJSON(w, http.StatusOK, forms)
}

func (h *Handler) handleGetForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.store.GetForm(chi.URLParam(r, "formID"))
	if errors.Is(err, sql.ErrNoRows) {
		jsonError(w, r, http.StatusNotFound, "FormNotFound")
		return
	}
	if err != nil {
		slog.Error("get form", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *Handler) handleCreateForm(w http.ResponseWriter, r *http.Request) {
	var payload model.FormPayload
	if err := h.decodeValid(r, &payload); err != nil {
		jsonError(w, r, http.StatusBadRequest, "InvalidPayload")
		return
	}

	form, groups := prepareForm(payload.Form())
	if groups != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"erro":      i18n.T(r.Context(), "FormInvalid"),
			"violacoes": groups,
		})
		return
	}

	id, err := h.store.CreateForm(form)
	if err != nil {
		slog.Error("create form", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	form.ID = id
	writeJSON(w, http.StatusCreated, form)
}

func (h *Handler) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	var payload model.FormPayload
	if err := h.decodeValid(r, &payload); err != nil {
		jsonError(w, r, http.StatusBadRequest, "InvalidPayload")
		return
	}

	form, groups := prepareForm(payload.Form())
	if groups != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"erro":      i18n.T(r.Context(), "FormInvalid"),
			"violacoes": groups,
		})
		return
	}

	form.ID = chi.URLParam(r, "formID")
	err := h.store.UpdateForm(form)
	if errors.Is(err, sql.ErrNoRows) {
		jsonError(w, r, http.StatusNotFound, "FormNotFound")
		return
	}
	if err != nil {
		slog.Error("update form", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *Handler) handleDeleteForm(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteForm(chi.URLParam(r, "formID"))
	if errors.Is(err, sql.ErrNoRows) {
		jsonError(w, r, http.StatusNotFound, "FormNotFound")
		return
	}
	if err != nil {
		slog.Error("delete form", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCreateRecord(w http.ResponseWriter, r *http.Request) {
	var payload model.RecordPayload
	if err := h.decodeValid(r, &payload); err != nil {
		jsonError(w, r, http.StatusBadRequest, "InvalidPayload")
		return
	}

	if _, err := h.store.GetForm(payload.FormularioID); errors.Is(err, sql.ErrNoRows) {
		jsonError(w, r, http.StatusNotFound, "FormNotFound")
		return
	} else if err != nil {
		slog.Error("get form", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	rec := model.SessionRecord{
		FormularioID:     payload.FormularioID,
		Data:             payload.Data,
		FormularioTitulo: payload.FormularioTitulo,
		Indices:          payload.Indices,
	}
	id, err := h.store.CreateRecord(rec)
	if err != nil {
		slog.Error("create record", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	rec.ID = id
	writeJSON(w, http.StatusCreated, rec)
}

func (h *Handler) handleListRecords(w http.ResponseWriter, r *http.Request) {
	formID := r.URL.Query().Get("formulario_id")
	if formID == "" {
		jsonError(w, r, http.StatusBadRequest, "InvalidPayload")
		return
	}
	records, err := h.store.ListRecords(formID)
	if err != nil {
		slog.Error("list records", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []model.SessionRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (h *Handler) handleGetRecord(w http.ResponseWriter, r *http.Request) {
	rec, err := h.store.GetRecord(chi.URLParam(r, "recordID"))
	if errors.Is(err, sql.ErrNoRows) {
		jsonError(w, r, http.StatusNotFound, "RecordNotFound")
		return
	}
	if err != nil {
		slog.Error("get record", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) handleDeleteRecord(w http.ResponseWriter, r *http.Request) {
	err := h.store.DeleteRecord(chi.URLParam(r, "recordID"))
	if errors.Is(err, sql.ErrNoRows) {
		jsonError(w, r, http.StatusNotFound, "RecordNotFound")
		return
	}
	if err != nil {
		slog.Error("delete record", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleChartSeries(w http.ResponseWriter, r *http.Request) {
	var req model.ChartRequest
	if err := h.decodeValid(r, &req); err != nil {
		jsonError(w, r, http.StatusBadRequest, "InvalidPayload")
		return
	}

	records, err := h.store.ListRecords(req.FormularioID)
	if err != nil {
		slog.Error("list records for chart", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := h.memo.BuildSeries(records, req.Datas)
	tipo := chart.Decide(data, req.Datas)

	resp := map[string]any{
		"tipo":       tipo,
		"series":     data.Series,
		"categorias": data.Categories,
		"perguntas":  data.Perguntas,
	}
	switch tipo {
	case chart.TypeBar:
		resp["barras"] = chart.BuildBarData(records, req.Datas)
	case chart.TypePie:
		sessions := records
		if len(sessions) > 0 {
			resp["pizza"] = chart.BuildPieData(sessions[len(sessions)-1])
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleNarrative(w http.ResponseWriter, r *http.Request) {
	if h.llm == nil {
		jsonError(w, r, http.StatusServiceUnavailable, "NarrativeUnavailable")
		return
	}

	var req struct {
		FormularioID string `json:"formulario_id" validate:"required"`
	}
	if err := h.decodeValid(r, &req); err != nil {
		jsonError(w, r, http.StatusBadRequest, "InvalidPayload")
		return
	}

	form, err := h.store.GetForm(req.FormularioID)
	if errors.Is(err, sql.ErrNoRows) {
		jsonError(w, r, http.StatusNotFound, "FormNotFound")
		return
	}
	if err != nil {
		slog.Error("get form for narrative", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	records, err := h.store.ListRecords(req.FormularioID)
	if err != nil {
		slog.Error("list records for narrative", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if len(records) == 0 {
		jsonError(w, r, http.StatusUnprocessableEntity, "NarrativeNoRecords")
		return
	}

	text, err := h.llm.GenerateNarrative(r.Context(), form, records)
	if err != nil {
		slog.Error("generate narrative", "form", form.ID, "error", err)
		http.Error(w, "narrative generation failed", http.StatusBadGateway)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"relatorio": text})
}
