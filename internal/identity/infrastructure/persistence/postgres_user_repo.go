// Package persistence contains the storage implementations for users.
package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresUserRepository implements domain.Repository using PostgreSQL.
type PostgresUserRepository struct {
	conn database.Connection
}

// NewPostgresUserRepository creates a new PostgreSQL user repository.
func NewPostgresUserRepository(conn database.Connection) *PostgresUserRepository {
	return &PostgresUserRepository{conn: conn}
}

const pgUserColumns = `id, name, email, role, profile_image_url, created_at, updated_at`

// Save upserts the user.
func (r *PostgresUserRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, role, profile_image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			profile_image_url = EXCLUDED.profile_image_url,
			updated_at = EXCLUDED.updated_at
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		user.ID(),
		user.Name(),
		user.Email(),
		string(user.Role()),
		user.ProfileImageURL(),
		user.CreatedAt(),
		user.UpdatedAt(),
	)
	if err != nil {
		return sharedDomain.Storagef("save user", err)
	}
	return nil
}

// FindByID retrieves a user by their ID.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + pgUserColumns + ` FROM users WHERE id = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	user, err := scanPgUser(exec.QueryRow(ctx, query, id))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, sharedDomain.Storagef("find user", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by their email address.
func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + pgUserColumns + ` FROM users WHERE email = $1`

	exec := database.ExecutorFromContext(ctx, r.conn)
	user, err := scanPgUser(exec.QueryRow(ctx, query, email))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, sharedDomain.Storagef("find user", err)
	}
	return user, nil
}

// FindAll retrieves all users, ordered by name.
func (r *PostgresUserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + pgUserColumns + ` FROM users ORDER BY name`
	return r.queryUsers(ctx, query)
}

// FindAdmins retrieves all users with the admin role.
func (r *PostgresUserRepository) FindAdmins(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + pgUserColumns + ` FROM users WHERE role = $1 ORDER BY name`
	return r.queryUsers(ctx, query, string(domain.RoleAdmin))
}

func (r *PostgresUserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("query users", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanPgUser(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan user", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanPgUser(row rowScanner) (*domain.User, error) {
	var (
		id                   uuid.UUID
		name, email, role    string
		profileImageURL      *string
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&id, &name, &email, &role, &profileImageURL, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateUser(id, name, email, domain.Role(role), profileImageURL, createdAt, updatedAt), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}
