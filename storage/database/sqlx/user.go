package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/edutrack/backend/core/user"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type userRepository struct {
	db *sqlx.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *sqlx.DB) *userRepository {
	return &userRepository{db: db}
}

type userRow struct {
	ID            int       `db:"id"`
	Username      string    `db:"username"`
	Name          string    `db:"name"`
	Lastname      string    `db:"lastname"`
	Email         string    `db:"email"`
	Birthdate     null.Time `db:"birthdate"`
	Role          string    `db:"role"`
	InstitutionID null.Int  `db:"institution_id"`
	IsActive      bool      `db:"is_active"`
	PasswordHash  []byte    `db:"password_hash"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
	LastLogin     null.Time `db:"last_login"`
}

func (r userRow) toUser() user.User {
	usr := user.User{
		ID:           r.ID,
		Username:     r.Username,
		Name:         r.Name,
		Lastname:     r.Lastname,
		Email:        r.Email,
		Role:         r.Role,
		IsActive:     r.IsActive,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.Birthdate.Valid {
		usr.Birthdate = r.Birthdate.Time.Format("2006-01-02")
	}
	if r.InstitutionID.Valid {
		usr.InstitutionID = r.InstitutionID.Int
	}
	if r.LastLogin.Valid {
		usr.LastLogin = r.LastLogin.Time
	}
	return usr
}

func newUserRow(usr user.User) userRow {
	row := userRow{
		ID:           usr.ID,
		Username:     usr.Username,
		Name:         usr.Name,
		Lastname:     usr.Lastname,
		Email:        usr.Email,
		Role:         usr.Role,
		IsActive:     usr.IsActive,
		PasswordHash: usr.PasswordHash,
		CreatedAt:    usr.CreatedAt,
		UpdatedAt:    usr.UpdatedAt,
	}
	if usr.Birthdate != "" {
		if t, err := time.Parse("2006-01-02", usr.Birthdate); err == nil {
			row.Birthdate = null.TimeFrom(t)
		}
	}
	if usr.InstitutionID != 0 {
		row.InstitutionID = null.IntFrom(usr.InstitutionID)
	}
	if !usr.LastLogin.IsZero() {
		row.LastLogin = null.TimeFrom(usr.LastLogin)
	}
	return row
}

const selectUser = `
SELECT id, username, name, lastname, email, birthdate, role, institution_id,
       is_active, password_hash, created_at, updated_at, last_login
FROM "user"`

func (repo *userRepository) CheckUsernameUniqueness(ctx context.Context, username, email string, excludedUsers ...user.User) error {
	qb := psql.Select("username", "email").
		From(`"user"`).
		Where(sq.Or{sq.Eq{"username": username}, sq.Eq{"email": email}})
	if len(excludedUsers) > 0 {
		ids := make([]int, 0, len(excludedUsers))
		for _, usr := range excludedUsers {
			ids = append(ids, usr.ID)
		}
		qb = qb.Where(sq.NotEq{"id": ids})
	}
	query, args, err := qb.ToSql()
	if err != nil {
		return err
	}

	var rows []struct {
		Username string `db:"username"`
		Email    string `db:"email"`
	}
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return err
	}
	for _, row := range rows {
		if row.Username == username {
			return user.ErrUsernameExists
		}
		if row.Email == email {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	const q = `
INSERT INTO "user" (username, name, lastname, email, birthdate, role, institution_id,
                    is_active, password_hash, created_at, updated_at)
VALUES (:username, :name, :lastname, :email, :birthdate, :role, :institution_id,
        :is_active, :password_hash, :created_at, :updated_at)
RETURNING id`

	stmt, err := repo.db.PrepareNamedContext(ctx, q)
	if err != nil {
		return user.User{}, err
	}
	defer func() { _ = stmt.Close() }()

	if err := stmt.GetContext(ctx, &usr.ID, newUserRow(usr)); err != nil {
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, selectUser+" ORDER BY id"); err != nil {
		return nil, err
	}
	return toUsers(rows), nil
}

func (repo *userRepository) GetUserByID(ctx context.Context, id int) (user.User, error) {
	return repo.getUser(ctx, selectUser+" WHERE id = $1", id)
}

func (repo *userRepository) GetUserByUsername(ctx context.Context, username string) (user.User, error) {
	return repo.getUser(ctx, selectUser+" WHERE username = $1", username)
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.getUser(ctx, selectUser+" WHERE email = $1", email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(ctx context.Context, username string) (user.User, error) {
	return repo.getUser(ctx, selectUser+" WHERE username = $1 OR email = $1", username)
}

func (repo *userRepository) getUser(ctx context.Context, query string, args ...interface{}) (user.User, error) {
	var row userRow
	if err := repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return row.toUser(), nil
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter) ([]user.User, error) {
	qb := psql.Select("id", "username", "name", "lastname", "email", "birthdate", "role",
		"institution_id", "is_active", "password_hash", "created_at", "updated_at", "last_login").
		From(`"user"`).
		OrderBy("id")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		qb = qb.Where(sq.Or{
			sq.ILike{"username": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"name": pattern},
			sq.ILike{"lastname": pattern},
		})
	}
	if filter.Role != "" {
		qb = qb.Where(sq.Eq{"role": filter.Role})
	}
	if filter.InstitutionID != 0 {
		qb = qb.Where(sq.Eq{"institution_id": filter.InstitutionID})
	}
	if filter.IsActive != nil {
		qb = qb.Where(sq.Eq{"is_active": *filter.IsActive})
	}
	if !filter.CreatedFrom.IsZero() {
		qb = qb.Where(sq.GtOrEq{"created_at": filter.CreatedFrom.UTC()})
	}
	if !filter.CreatedTo.IsZero() {
		qb = qb.Where(sq.LtOrEq{"created_at": filter.CreatedTo.UTC()})
	}

	query, args, err := qb.ToSql()
	if err != nil {
		return nil, err
	}
	var rows []userRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}
	return toUsers(rows), nil
}

func (repo *userRepository) UpdateUser(ctx context.Context, usr user.User, isActive *bool) (user.User, error) {
	orig, err := repo.GetUserByID(ctx, usr.ID)
	if err != nil {
		return user.User{}, err
	}

	// only save set fields
	if usr.Username != "" {
		orig.Username = usr.Username
	}
	if usr.Name != "" {
		orig.Name = usr.Name
	}
	if usr.Lastname != "" {
		orig.Lastname = usr.Lastname
	}
	if usr.Email != "" {
		orig.Email = usr.Email
	}
	if usr.Birthdate != "" {
		orig.Birthdate = usr.Birthdate
	}
	if usr.Role != "" {
		orig.Role = usr.Role
	}
	if usr.InstitutionID != 0 {
		orig.InstitutionID = usr.InstitutionID
	}
	if usr.PasswordHash != nil {
		orig.PasswordHash = usr.PasswordHash
	}
	if !usr.LastLogin.IsZero() {
		orig.LastLogin = usr.LastLogin
	}
	if !usr.UpdatedAt.IsZero() {
		orig.UpdatedAt = usr.UpdatedAt
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}

	const q = `
UPDATE "user"
SET username = :username, name = :name, lastname = :lastname, email = :email,
    birthdate = :birthdate, role = :role, institution_id = :institution_id,
    is_active = :is_active, password_hash = :password_hash,
    updated_at = :updated_at, last_login = :last_login
WHERE id = :id`

	if _, err := repo.db.NamedExecContext(ctx, q, newUserRow(orig)); err != nil {
		return user.User{}, err
	}
	return orig, nil
}

func (repo *userRepository) DeleteUsersByID(ctx context.Context, ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	query, args, err := sqlx.In(`DELETE FROM "user" WHERE id IN (?)`, ids)
	if err != nil {
		return err
	}
	_, err = repo.db.ExecContext(ctx, repo.db.Rebind(query), args...)
	return err
}

func (repo *userRepository) CountUsersByRole(ctx context.Context, role string) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM "user" WHERE role = $1`, role)
	return count, err
}

func toUsers(rows []userRow) []user.User {
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toUser())
	}
	return users
}
