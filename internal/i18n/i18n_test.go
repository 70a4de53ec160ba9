package i18n

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func initLang(t *testing.T, lang string) context.Context {
	t.Helper()
	if err := Init(lang); err != nil {
		t.Fatalf("Init(%q): %v", lang, err)
	}
	loc := NewLocalizer(lang)
	return WithLocalizer(context.Background(), loc)
}

func TestTranslatePortuguese(t *testing.T) {
	ctx := initLang(t, "pt")

	got := T(ctx, "AppTitle")
	if got != "Prontuário ABA" {
		t.Errorf("T(AppTitle) = %q, want 'Prontuário ABA'", got)
	}

	got = T(ctx, "LoginError")
	if got != "Usuário ou senha inválidos." {
		t.Errorf("T(LoginError) = %q", got)
	}
}

func TestTranslateEnglish(t *testing.T) {
	ctx := initLang(t, "en")

	got := T(ctx, "AppTitle")
	if got != "ABA Records" {
		t.Errorf("T(AppTitle) = %q, want 'ABA Records'", got)
	}
}

func TestPluralTranslation(t *testing.T) {
	ctx := initLang(t, "en")

	got1 := Tp(ctx, "ImportDone", 1)
	if got1 != "1 question imported." {
		t.Errorf("Tp(ImportDone, 1) = %q", got1)
	}

	got5 := Tp(ctx, "ImportDone", 5)
	if got5 != "5 questions imported." {
		t.Errorf("Tp(ImportDone, 5) = %q", got5)
	}
}

func TestMissingKey(t *testing.T) {
	ctx := initLang(t, "pt")

	got := T(ctx, "NonExistentKey")
	if got != "NonExistentKey" {
		t.Errorf("T(NonExistentKey) = %q, want id echoed back", got)
	}
}

func TestMiddlewareLanguageResolution(t *testing.T) {
	if err := Init("pt"); err != nil {
		t.Fatalf("Init: %v", err)
	}

	var got string
	h := Middleware("pt")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = T(r.Context(), "AppTitle")
	}))

	// Default language.
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	if got != "Prontuário ABA" {
		t.Errorf("default lang: got %q", got)
	}

	// Query parameter wins.
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/?lang=en", nil))
	if got != "ABA Records" {
		t.Errorf("lang=en: got %q", got)
	}

	// Accept-Language header.
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got != "ABA Records" {
		t.Errorf("Accept-Language en: got %q", got)
	}
}
