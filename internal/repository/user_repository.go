package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/coursehub/internal/model"
	"github.com/iliyamo/coursehub/internal/utils"
)

// NewUser is the input to UserRepo.Create.  Password is plain text; the
// repository hashes it.
type NewUser struct {
	Email     string
	Password  string
	Role      model.Role
	FirstName string
	LastName  string
	Bio       *string
}

// UserRepo is the credential store.  It owns password hashing so a plain
// password never reaches SQL.
type UserRepo struct {
	db   *sql.DB
	cost int
}

func NewUserRepo(db *sql.DB, bcryptCost int) *UserRepo { return &UserRepo{db: db, cost: bcryptCost} }

const selectUser = `SELECT u.id, u.email, u.password_hash, u.role, u.created_at, u.updated_at,
       p.first_name, p.last_name, p.bio
FROM users u
JOIN profiles p ON p.user_id = u.id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u    model.User
		role string
		bio  sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &role, &u.CreatedAt, &u.UpdatedAt,
		&u.Profile.FirstName, &u.Profile.LastName, &bio); err != nil {
		return nil, err
	}
	u.Role = model.Role(role)
	if bio.Valid {
		b := bio.String
		u.Profile.Bio = &b
	}
	return &u, nil
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// Create hashes the password and inserts the user and profile rows in one
// transaction.  A taken email yields ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, in NewUser) (*model.User, error) {
	hash, err := utils.HashPassword(in.Password, r.cost)
	if err != nil {
		return nil, err
	}
	role := in.Role
	if !role.Valid() {
		role = model.RoleUser
	}

	var id uint64
	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			"INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)",
			normalizeEmail(in.Email), hash, string(role))
		if err != nil {
			return translate(err)
		}
		lastID, err := res.LastInsertId()
		if err != nil {
			return err
		}
		id = uint64(lastID)
		_, err = tx.ExecContext(ctx,
			"INSERT INTO profiles (user_id, first_name, last_name, bio) VALUES (?, ?, ?, ?)",
			id, in.FirstName, in.LastName, in.Bio)
		return translate(err)
	})
	if err != nil {
		return nil, err
	}
	return r.FindOrFailByID(ctx, id)
}

// FindByEmail returns nil, nil when no user has that email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+" WHERE u.email = ? LIMIT 1", normalizeEmail(email)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// FindOrFailByID returns ErrNotFound when the user does not exist.
func (r *UserRepo) FindOrFailByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, selectUser+" WHERE u.id = ? LIMIT 1", id))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

// ExistsByEmail is a cheap existence probe.
func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, "SELECT 1 FROM users WHERE email = ? LIMIT 1", normalizeEmail(email)).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// List returns every user ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, selectUser+" ORDER BY u.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateProfile overwrites the profile of user id.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, p model.Profile) (*model.User, error) {
	if _, err := r.FindOrFailByID(ctx, id); err != nil {
		return nil, err
	}
	if _, err := r.db.ExecContext(ctx,
		"UPDATE profiles SET first_name = ?, last_name = ?, bio = ? WHERE user_id = ?",
		p.FirstName, p.LastName, p.Bio, id); err != nil {
		return nil, err
	}
	return r.FindOrFailByID(ctx, id)
}

// Delete removes the user; profile, enrollments and payments cascade.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
