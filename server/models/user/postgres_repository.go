package user

import (
	"database/sql"
	"time"

	"filebin/server/bsql"

	"github.com/lib/pq"
)

// PostgresRepository handles user database operations
type PostgresRepository struct {
	db *bsql.DB
}

// NewPostgresRepository creates a new PostgresRepository
func NewPostgresRepository(db *bsql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// CreateUser inserts a new user into the database
func (r *PostgresRepository) CreateUser(username, hashedPassword string) (*User, error) {
	now := time.Now()

	id, err := r.db.Insert("users", map[string]interface{}{
		"username":   username,
		"password":   hashedPassword,
		"created_at": now,
	})

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				return nil, ErrUserExists
			}
		}
		return nil, err
	}

	return &User{
		ID:        id,
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: now,
	}, nil
}

// GetUserByUsername retrieves a user by username
func (r *PostgresRepository) GetUserByUsername(username string) (*User, bool) {
	return r.scanUser(
		`SELECT id, username, password, created_at, last_login_at FROM users WHERE username = $1`,
		username,
	)
}

// GetUserByID retrieves a user by ID
func (r *PostgresRepository) GetUserByID(id int64) (*User, bool) {
	return r.scanUser(
		`SELECT id, username, password, created_at, last_login_at FROM users WHERE id = $1`,
		id,
	)
}

// UpdateLastLogin stamps the user's last successful login
func (r *PostgresRepository) UpdateLastLogin(userID int64) error {
	_, err := r.db.Exec(
		`UPDATE users SET last_login_at = $1 WHERE id = $2`,
		time.Now(), userID,
	)
	return err
}

func (r *PostgresRepository) scanUser(query string, arg interface{}) (*User, bool) {
	var user User
	var lastLogin sql.NullTime

	err := r.db.QueryRow(query, arg).Scan(
		&user.ID, &user.Username, &user.Password, &user.CreatedAt, &lastLogin,
	)
	if err != nil {
		return nil, false
	}

	if lastLogin.Valid {
		user.LastLoginAt = &lastLogin.Time
	}
	return &user, true
}
