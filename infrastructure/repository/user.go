package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/eulademuhizi/malaria-dashboard-api/infrastructure/database/postgres"
	"github.com/eulademuhizi/malaria-dashboard-api/internal/domain"
)

const usersTable = "users"

var userColumns = []string{
	"id",
	"name",
	"lastname",
	"email",
	"password_hash",
	"active",
	"role_id",
	"deleted",
	"deleted_at",
	"created_at",
	"updated_at",
}

type UserRepository interface {
	CreateUser(user *domain.User) (*domain.User, error)
	GetUserByEmail(email string) (*domain.User, error)
	GetUserByID(id int) (*domain.User, error)
	ListUser() ([]*domain.User, error)
	UpdateUser(user *domain.User) error
	UpdatePassword(userID int, passwordHash string) error
}

type userRepository struct {
	conn *postgres.Connection
}

func NewUserRepository(conn *postgres.Connection) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (r *userRepository) CreateUser(user *domain.User) (*domain.User, error) {
	sqlQuery, args, err := squirrel.
		Insert(usersTable).
		Columns("name", "lastname", "email", "password_hash", "active", "role_id").
		Values(user.Name, user.Lastname, user.Email, user.PasswordHash, user.Active, user.RoleID).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building user insert: %w", err)
	}

	row := r.conn.QueryRow(sqlQuery, args...)
	if err := row.Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt); err != nil {
		return nil, fmt.Errorf("inserting user: %w", err)
	}

	return user, nil
}

func (r *userRepository) GetUserByEmail(email string) (*domain.User, error) {
	return r.getUserWhere(squirrel.Eq{"email": email, "deleted": false})
}

func (r *userRepository) GetUserByID(id int) (*domain.User, error) {
	return r.getUserWhere(squirrel.Eq{"id": id, "deleted": false})
}

func (r *userRepository) ListUser() ([]*domain.User, error) {
	sqlQuery, args, err := squirrel.
		Select(userColumns...).
		From(usersTable).
		Where(squirrel.Eq{"deleted": false}).
		OrderBy("name ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building users query: %w", err)
	}

	rows, err := r.conn.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, user)
	}

	return users, rows.Err()
}

func (r *userRepository) UpdateUser(user *domain.User) error {
	sqlQuery, args, err := squirrel.
		Update(usersTable).
		Set("name", user.Name).
		Set("lastname", user.Lastname).
		Set("email", user.Email).
		Set("active", user.Active).
		Set("role_id", user.RoleID).
		Set("deleted", user.Deleted).
		Set("deleted_at", user.DeletedAt).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": user.ID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building user update: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}

	return nil
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	sqlQuery, args, err := squirrel.
		Update(usersTable).
		Set("password_hash", passwordHash).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("building password update: %w", err)
	}

	_, err = r.conn.Exec(sqlQuery, args...)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}

	return nil
}

func (r *userRepository) getUserWhere(where squirrel.Eq) (*domain.User, error) {
	sqlQuery, args, err := squirrel.
		Select(userColumns...).
		From(usersTable).
		Where(where).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building user query: %w", err)
	}

	row := r.conn.QueryRow(sqlQuery, args...)
	user, err := scanUser(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scanning user: %w", err)
	}

	return user, nil
}

func scanUser(scan func(...interface{}) error) (*domain.User, error) {
	user := &domain.User{}
	err := scan(
		&user.ID,
		&user.Name,
		&user.Lastname,
		&user.Email,
		&user.PasswordHash,
		&user.Active,
		&user.RoleID,
		&user.Deleted,
		&user.DeletedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return user, nil
}
