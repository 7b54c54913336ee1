package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/controle-estoque/internal/domain"
	"github.com/jhoicas/controle-estoque/internal/domain/entity"
	"github.com/jhoicas/controle-estoque/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, name, email, password_hash, role, access_count, failed_access_count, last_access_at,
	alert_message, alert_priority, alert_sender, alert_created_at, created_at`

// UserRepo implementación del puerto UserRepository sobre SQLite (usable con db o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Create persiste un nuevo usuario y completa su ID.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (name, email, password_hash, role, access_count, failed_access_count, last_access_at,
			alert_message, alert_priority, alert_sender, alert_created_at, created_at)
		VALUES (:name, :email, :password_hash, :role, :access_count, :failed_access_count, :last_access_at,
			:alert_message, :alert_priority, :alert_sender, :alert_created_at, :created_at)`
	res, err := sqlx.NamedExecContext(ctx, r.q, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			if strings.Contains(err.Error(), "users.name") {
				return domain.ErrNameAlreadyExists
			}
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	return r.getOne(ctx, "get user by id", `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

// GetByEmail obtiene un usuario por email, sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, "get user by email", `SELECT `+userColumns+` FROM users WHERE email = ? LIMIT 1`, strings.TrimSpace(email))
}

// GetByName obtiene un usuario por nombre, sin distinguir mayúsculas.
func (r *UserRepo) GetByName(ctx context.Context, name string) (*entity.User, error) {
	return r.getOne(ctx, "get user by name", `SELECT `+userColumns+` FROM users WHERE name = ? LIMIT 1`, strings.TrimSpace(name))
}

func (r *UserRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.User, error) {
	var u entity.User
	if err := sqlx.GetContext(ctx, r.q, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

// Update actualiza datos, rol, contraseña y aviso del usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET name = :name, email = :email, password_hash = :password_hash, role = :role,
			alert_message = :alert_message, alert_priority = :alert_priority, alert_sender = :alert_sender,
			alert_created_at = :alert_created_at
		WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, r.q, query, user)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// RecordAccess registra un intento de acceso.
func (r *UserRepo) RecordAccess(ctx context.Context, id int64, success bool, at time.Time) error {
	query := `UPDATE users SET failed_access_count = failed_access_count + 1 WHERE id = ?`
	args := []any{id}
	if success {
		query = `UPDATE users SET access_count = access_count + 1, last_access_at = ? WHERE id = ?`
		args = []any{at, id}
	}
	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("record access: %w", err)
	}
	return nil
}

// List lista usuarios por nombre.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	var list []*entity.User
	if err := sqlx.SelectContext(ctx, r.q, &list, `SELECT `+userColumns+` FROM users ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

// Delete elimina un usuario por ID.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
