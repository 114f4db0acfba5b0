package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/gyanhq/campus/core/account"
)

type accountUserRow struct {
	ID             int       `db:"id"`
	Name           string    `db:"name"`
	Email          string    `db:"email"`
	IsActive       bool      `db:"is_active"`
	Roles          string    `db:"roles"` // comma-separated
	UniversityCode string    `db:"university_code"`
	PasswordHash   []byte    `db:"password_hash"`
	CreatedAt      null.Time `db:"created_at"`
	UpdatedAt      null.Time `db:"updated_at"`
	LastLogin      null.Time `db:"last_login"`
}

func (r accountUserRow) unpack() account.User {
	var roles []string
	if r.Roles != "" {
		roles = strings.Split(r.Roles, ",")
	}
	return account.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		IsActive:       r.IsActive,
		Roles:          roles,
		UniversityCode: r.UniversityCode,
		PasswordHash:   r.PasswordHash,
		CreatedAt:      r.CreatedAt.Time,
		UpdatedAt:      r.UpdatedAt.Time,
		LastLogin:      r.LastLogin.Time,
	}
}

type accountRepository struct {
	db *sqlx.DB
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *sqlx.DB) *accountRepository {
	return &accountRepository{db: db}
}

func (repo accountRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return account.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo accountRepository) CheckUserUniqueness(email string, excludedUsers ...account.User) error {
	exclIDs := make([]int, 0, len(excludedUsers))
	for _, u := range excludedUsers {
		exclIDs = append(exclIDs, u.ID)
	}
	if len(exclIDs) == 0 {
		exclIDs = append(exclIDs, 0)
	}

	query, args, err := sqlx.In(
		`SELECT EXISTS (SELECT 1 FROM account_user WHERE email = ? AND id NOT IN (?))`,
		email, exclIDs,
	)
	if err != nil {
		return errors.Wrap(err, "checking account uniqueness")
	}

	var exists bool
	if err = repo.db.Get(&exists, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "checking account uniqueness")
	}
	if exists {
		return account.ErrEmailExists
	}
	return nil
}

func (repo accountRepository) CreateUser(u account.User) (account.User, error) {
	var id int
	err := repo.db.QueryRow(
		`INSERT INTO account_user (name, email, is_active, roles, university_code, password_hash, created_at, updated_at, last_login)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9) RETURNING id`,
		u.Name, u.Email, u.IsActive, strings.Join(u.Roles, ","), u.UniversityCode, u.PasswordHash,
		u.CreatedAt, u.UpdatedAt, null.NewTime(u.LastLogin, !u.LastLogin.IsZero()),
	).Scan(&id)
	if err != nil {
		return account.User{}, errors.Wrap(err, "inserting account")
	}
	u.ID = id
	return u, nil
}

func (repo accountRepository) GetUserByID(id int) (account.User, error) {
	var r accountUserRow
	if err := repo.db.Get(&r, `SELECT * FROM account_user WHERE id = $1`, id); err != nil {
		return account.User{}, repo.trapNoRowsErr(err, "getting account")
	}
	return r.unpack(), nil
}

func (repo accountRepository) GetUserByEmail(email string) (account.User, error) {
	var r accountUserRow
	if err := repo.db.Get(&r, `SELECT * FROM account_user WHERE email = $1`, email); err != nil {
		return account.User{}, repo.trapNoRowsErr(err, "getting account")
	}
	return r.unpack(), nil
}

func (repo accountRepository) FilterUsers(filter account.QueryFilter) ([]account.User, error) {
	query := `SELECT * FROM account_user WHERE 1=1`
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + itoa(len(args))
	}

	if filter.Search != "" {
		p := arg("%" + strings.ToLower(filter.Search) + "%")
		query += ` AND (LOWER(name) LIKE ` + p + ` OR LOWER(email) LIKE ` + p + `)`
	}
	if filter.Role != "" {
		query += ` AND roles LIKE ` + arg("%"+filter.Role+"%")
	}
	if filter.IsActive != nil {
		query += ` AND is_active = ` + arg(*filter.IsActive)
	}
	if filter.UniversityCode != "" {
		query += ` AND university_code = ` + arg(filter.UniversityCode)
	}
	query += ` ORDER BY name ASC`

	var rows []accountUserRow
	if err := repo.db.Select(&rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering accounts")
	}
	users := make([]account.User, 0, len(rows))
	for _, r := range rows {
		users = append(users, r.unpack())
	}
	return users, nil
}

func (repo accountRepository) UpdateUser(u account.User) (account.User, error) {
	res, err := repo.db.Exec(
		`UPDATE account_user SET name = $1, email = $2, is_active = $3, roles = $4, password_hash = $5,
			updated_at = $6, last_login = $7
		 WHERE id = $8`,
		u.Name, u.Email, u.IsActive, strings.Join(u.Roles, ","), u.PasswordHash,
		u.UpdatedAt, null.NewTime(u.LastLogin, !u.LastLogin.IsZero()), u.ID,
	)
	if err != nil {
		return account.User{}, errors.Wrap(err, "updating account")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return account.User{}, account.ErrNotFound
	}
	return repo.GetUserByID(u.ID)
}
