package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/controle-estoque/internal/domain"
	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	"github.com/jhoicas/controle-estoque/pkg/jwt"
)

// TokenEnv variable con el token de sesión cuando no se pasa --token.
const TokenEnv = "CONTROLE_TOKEN"

// Session datos de la sesión tomados del token.
type Session struct {
	UserID int64
	Name   string
	Role   string
}

// IsAdmin indica si la sesión puede resolver solicitudes.
func (s Session) IsAdmin() bool { return s.Role == entity.RoleAdmin }

// session valida el token de --token o de CONTROLE_TOKEN.
func (a *App) session(cmd *cobra.Command) (Session, error) {
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = os.Getenv(TokenEnv)
	}
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return Session{}, domain.ErrUnauthorized
	}
	claims, err := jwt.Parse(a.SessionSecret, token)
	if err != nil {
		return Session{}, domain.ErrUnauthorized
	}
	return Session{UserID: claims.UserID, Name: claims.Name, Role: claims.Role}, nil
}

// requireAdmin sesión válida con rol ADMINISTRADOR.
func (a *App) requireAdmin(cmd *cobra.Command) (Session, error) {
	s, err := a.session(cmd)
	if err != nil {
		return s, err
	}
	if !s.IsAdmin() {
		return s, domain.ErrForbidden
	}
	return s, nil
}
