package inmemdb

import (
	"sort"
	"strings"

	"github.com/gyanhq/campus/core/account"
)

type accountRepository struct {
	db *accountTable
}

var _ account.Repository = (*accountRepository)(nil) // interface compliance check

func NewAccountRepository(db *DB) *accountRepository {
	return &accountRepository{db: db.account}
}

func (repo *accountRepository) query() []account.User {
	users := make([]account.User, 0, len(repo.db.table))
	for _, u := range repo.db.table {
		users = append(users, *u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users
}

func (repo *accountRepository) CheckUserUniqueness(email string, excludedUsers ...account.User) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	excluded := func(u account.User) bool {
		for _, excl := range excludedUsers {
			if u.ID == excl.ID {
				return true
			}
		}
		return false
	}

	for _, u := range repo.query() {
		if u.Email == email && !excluded(u) {
			return account.ErrEmailExists
		}
	}
	return nil
}

func (repo *accountRepository) CreateUser(u account.User) (account.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.pkCount++
	u.ID = repo.db.pkCount
	repo.db.table[u.ID] = &u
	return u, nil
}

func (repo *accountRepository) GetUserByID(id int) (account.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if u, ok := repo.db.table[id]; ok {
		return *u, nil
	}
	return account.User{}, account.ErrNotFound
}

func (repo *accountRepository) GetUserByEmail(email string) (account.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, u := range repo.query() {
		if u.Email == email {
			return u, nil
		}
	}
	return account.User{}, account.ErrNotFound
}

func (repo *accountRepository) FilterUsers(filter account.QueryFilter) ([]account.User, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	matches := make([]account.User, 0)
	search := strings.ToLower(filter.Search)
	for _, u := range repo.query() {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Email), search) {
			continue
		}
		if filter.Role != "" && !u.RoleStartsWith(filter.Role) {
			continue
		}
		if filter.IsActive != nil && u.IsActive != *filter.IsActive {
			continue
		}
		if filter.UniversityCode != "" && u.UniversityCode != filter.UniversityCode {
			continue
		}
		matches = append(matches, u)
	}
	return matches, nil
}

func (repo *accountRepository) UpdateUser(u account.User) (account.User, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[u.ID]; !ok {
		return account.User{}, account.ErrNotFound
	}
	repo.db.table[u.ID] = &u
	return u, nil
}
