package model

import (
	"context"
	"time"
)

// QuestionType is the type of a protocol question.
type QuestionType string

const (
	TipoTexto      QuestionType = "TEXTO"
	TipoNumero     QuestionType = "NUMERO"
	TipoBooleano   QuestionType = "BOOLEANO"
	TipoMultipla   QuestionType = "MULTIPLA"
	TipoFormula    QuestionType = "FORMULA"
	TipoPercentual QuestionType = "PERCENTUAL"
)

// Valid reports whether t is one of the six question types.
func (t QuestionType) Valid() bool {
	switch t {
	case TipoTexto, TipoNumero, TipoBooleano, TipoMultipla, TipoFormula, TipoPercentual:
		return true
	}
	return false
}

// Computed reports whether the question's value is produced by the
// calculation backend rather than answered by a respondent.
func (t QuestionType) Computed() bool {
	return t == TipoFormula || t == TipoPercentual
}

// Category is the clinical category of a form.
type Category string

const (
	CategoriaAvaliacao Category = "avaliacao"
	CategoriaEvolucao  Category = "evolucao"
	CategoriaPEI       Category = "pei"
	CategoriaRelatorio Category = "relatorio"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoriaAvaliacao, CategoriaEvolucao, CategoriaPEI, CategoriaRelatorio:
		return true
	}
	return false
}

// Question is one item of a protocol form.
//
// Ordem is the 1-based position and is kept dense (exactly 1..N) by
// protocol.Renumber after every structural mutation. Formula is set only
// for FORMULA and PERCENTUAL questions; Opcoes only for MULTIPLA.
type Question struct {
	ID          string       `json:"id,omitempty"`
	Ordem       int          `json:"ordem"`
	Texto       string       `json:"texto"`
	Sigla       string       `json:"sigla"`
	Tipo        QuestionType `json:"tipo"`
	Obrigatoria bool         `json:"obrigatoria"`
	Formula     string       `json:"formula,omitempty"`
	Opcoes      []string     `json:"opcoes,omitempty"`
}

// Form is a named ordered collection of questions used as a clinical
// assessment instrument.
type Form struct {
	ID        string     `json:"id,omitempty"`
	Nome      string     `json:"nome"`
	Categoria Category   `json:"categoria"`
	Descricao string     `json:"descricao"`
	Perguntas []Question `json:"perguntas"`
	CreatedAt time.Time  `json:"created_at,omitzero"`
	UpdatedAt time.Time  `json:"updated_at,omitzero"`
}

// UserRole represents a user's access level.
type UserRole string

const (
	// UserRoleTherapist is a therapist user role.
	UserRoleTherapist UserRole = "terapeuta"
	// UserRoleReception is a reception-desk user role.
	UserRoleReception UserRole = "recepcao"
	// UserRoleAdmin is an admin user role.
	UserRoleAdmin UserRole = "admin"
)

// User represents a system user.
type User struct {
	ID           int64
	Username     string
	DisplayName  string
	PasswordHash string
	Role         UserRole
	Active       bool
	CreatedAt    time.Time
}

// AuthSession represents an authentication session.
type AuthSession struct {
	ID        string
	UserID    int64
	CreatedAt time.Time
	ExpiresAt time.Time
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

// ServerConfig holds runtime server parameters set via CLI flags.
type ServerConfig struct {
	Lang          string // default message language (pt, en)
	SecureCookies bool   // Secure flag on session cookies (disable for local dev)
}
