package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	appI18n "github.com/kallleva/Projeto-aba-sub000/internal/i18n"
	"github.com/kallleva/Projeto-aba-sub000/internal/model"
	"github.com/kallleva/Projeto-aba-sub000/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	if err := appI18n.Init("pt"); err != nil {
		t.Fatalf("init i18n: %v", err)
	}
	s, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("senha12345"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if _, err := s.CreateUser(model.User{
		Username:     "ana",
		DisplayName:  "Ana",
		PasswordHash: string(hash),
		Role:         model.UserRoleTherapist,
		Active:       true,
	}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	h := New(s, nil, model.ServerConfig{Lang: "pt"})
	r := chi.NewRouter()
	r.Use(appI18n.Middleware("pt"))
	h.Routes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, s
}

func login(t *testing.T, srv *httptest.Server) *http.Cookie {
	t.Helper()
	resp, err := http.Post(srv.URL+"/login", "application/json",
		strings.NewReader(`{"username":"ana","password":"senha12345"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d", resp.StatusCode)
	}
	for _, c := range resp.Cookies() {
		if c.Name == sessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func doJSON(t *testing.T, srv *httptest.Server, cookie *http.Cookie, method, path, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

func TestAuthRequired(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/formularios")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without session, got %d", resp.StatusCode)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/login", "application/json",
		strings.NewReader(`{"username":"ana","password":"errada1234"}`))
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", resp.StatusCode)
	}
}

func TestCreateFormValidationGate(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := login(t, srv)

	// MULTIPLA with one option never persists.
	bad := `{
		"nome": "Protocolo",
		"categoria": "avaliacao",
		"perguntas": [
			{"texto": "Preensão", "sigla": "pr", "tipo": "MULTIPLA", "opcoes": ["Baixa"]}
		]
	}`
	resp := doJSON(t, srv, cookie, "POST", "/api/formularios", bad)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	var errBody struct {
		Erro      string            `json:"erro"`
		Violacoes []json.RawMessage `json:"violacoes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err != nil {
		t.Fatalf("decode 422 body: %v", err)
	}
	if errBody.Erro == "" || len(errBody.Violacoes) == 0 {
		t.Errorf("422 body missing violations: %+v", errBody)
	}

	// Adding a second option fixes it; sigla comes back normalized and a
	// blank PERCENTUAL formula is synthesized.
	good := `{
		"nome": "Protocolo",
		"categoria": "avaliacao",
		"perguntas": [
			{"texto": "Preensão", "sigla": "pr", "tipo": "MULTIPLA", "opcoes": ["Baixa", "Alta"]},
			{"texto": "Aquisição", "sigla": "aq", "tipo": "PERCENTUAL"}
		]
	}`
	resp = doJSON(t, srv, cookie, "POST", "/api/formularios", good)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created model.Form
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode created form: %v", err)
	}
	if created.ID == "" {
		t.Error("created form has no id")
	}
	if created.Perguntas[0].Sigla != "PR" {
		t.Errorf("sigla not normalized: %q", created.Perguntas[0].Sigla)
	}
	if created.Perguntas[1].Formula != "PERCENTUAL(P1:P2)" {
		t.Errorf("formula not synthesized: %q", created.Perguntas[1].Formula)
	}
}

func TestRecordAndChartFlow(t *testing.T) {
	srv, s := newTestServer(t)
	cookie := login(t, srv)

	formID, err := s.CreateForm(model.Form{
		Nome:      "Evolução",
		Categoria: model.CategoriaEvolucao,
		Perguntas: []model.Question{
			{Ordem: 1, Texto: "Contato visual", Sigla: "CV", Tipo: model.TipoNumero},
		},
	})
	if err != nil {
		t.Fatalf("create form: %v", err)
	}

	// Backend-shaped indices: bare number and numeric string both land.
	body := `{
		"formulario_id": "` + formID + `",
		"data": "2025-03-01",
		"indices": {"cv": 3, "pr": "4.5"}
	}`
	resp := doJSON(t, srv, cookie, "POST", "/api/registros", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create record: expected 201, got %d", resp.StatusCode)
	}

	resp = doJSON(t, srv, cookie, "POST", "/api/graficos/series",
		`{"formulario_id": "`+formID+`", "datas": ["2025-03-01"]}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("chart series: expected 200, got %d", resp.StatusCode)
	}
	var chartResp struct {
		Tipo       string            `json:"tipo"`
		Categorias []string          `json:"categorias"`
		Series     []json.RawMessage `json:"series"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&chartResp); err != nil {
		t.Fatalf("decode chart response: %v", err)
	}
	if chartResp.Tipo == "" || len(chartResp.Series) != 1 {
		t.Errorf("unexpected chart response: %+v", chartResp)
	}
}

func TestNarrativeUnavailableWithoutLLM(t *testing.T) {
	srv, s := newTestServer(t)
	cookie := login(t, srv)

	formID, _ := s.CreateForm(model.Form{
		Nome: "Evolução", Categoria: model.CategoriaEvolucao,
		Perguntas: []model.Question{{Ordem: 1, Texto: "CV", Sigla: "CV", Tipo: model.TipoNumero}},
	})

	resp := doJSON(t, srv, cookie, "POST", "/api/relatorios/narrativa",
		`{"formulario_id": "`+formID+`"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without LLM, got %d", resp.StatusCode)
	}
}

func TestAdminRoutesForbiddenForTherapist(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := login(t, srv)

	resp := doJSON(t, srv, cookie, "GET", "/admin/users/", "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for therapist on admin route, got %d", resp.StatusCode)
	}
}
