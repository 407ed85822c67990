package persistence

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskhive/internal/identity/domain"
	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/felixgeelhaar/taskhive/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteUserRepository implements domain.Repository using SQLite.
type SQLiteUserRepository struct {
	conn database.Connection
}

// NewSQLiteUserRepository creates a new SQLite user repository.
func NewSQLiteUserRepository(conn database.Connection) *SQLiteUserRepository {
	return &SQLiteUserRepository{conn: conn}
}

const sqliteUserColumns = `id, name, email, role, profile_image_url, created_at, updated_at`

// Save upserts the user.
func (r *SQLiteUserRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, role, profile_image_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			profile_image_url = excluded.profile_image_url,
			updated_at = excluded.updated_at
	`

	exec := database.ExecutorFromContext(ctx, r.conn)
	_, err := exec.Exec(ctx, query,
		user.ID().String(),
		user.Name(),
		user.Email(),
		string(user.Role()),
		user.ProfileImageURL(),
		user.CreatedAt().UTC(),
		user.UpdatedAt().UTC(),
	)
	if err != nil {
		return sharedDomain.Storagef("save user", err)
	}
	return nil
}

// FindByID retrieves a user by their ID.
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + sqliteUserColumns + ` FROM users WHERE id = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	user, err := scanSQLiteUser(exec.QueryRow(ctx, query, id.String()))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, sharedDomain.Storagef("find user", err)
	}
	return user, nil
}

// FindByEmail retrieves a user by their email address.
func (r *SQLiteUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + sqliteUserColumns + ` FROM users WHERE email = ?`

	exec := database.ExecutorFromContext(ctx, r.conn)
	user, err := scanSQLiteUser(exec.QueryRow(ctx, query, email))
	if err != nil {
		if database.IsNoRows(err) {
			return nil, domain.ErrUserNotFound
		}
		return nil, sharedDomain.Storagef("find user", err)
	}
	return user, nil
}

// FindAll retrieves all users, ordered by name.
func (r *SQLiteUserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + sqliteUserColumns + ` FROM users ORDER BY name`
	return r.queryUsers(ctx, query)
}

// FindAdmins retrieves all users with the admin role.
func (r *SQLiteUserRepository) FindAdmins(ctx context.Context) ([]*domain.User, error) {
	query := `SELECT ` + sqliteUserColumns + ` FROM users WHERE role = ? ORDER BY name`
	return r.queryUsers(ctx, query, string(domain.RoleAdmin))
}

func (r *SQLiteUserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, sharedDomain.Storagef("query users", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := scanSQLiteUser(rows)
		if err != nil {
			return nil, sharedDomain.Storagef("scan user", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func scanSQLiteUser(row rowScanner) (*domain.User, error) {
	var (
		idStr                string
		name, email, role    string
		profileImageURL      *string
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&idStr, &name, &email, &role, &profileImageURL, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateUser(id, name, email, domain.Role(role), profileImageURL, createdAt, updatedAt), nil
}
