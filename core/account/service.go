package account

import (
	"errors"
	"time"

	"github.com/gyanhq/campus/core"
)

var (
	ErrNotFound           = errors.New("account not found")
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrAuthFailed         = errors.New("invalid email or password")
	ErrAccountDeactivated = errors.New("account deactivated")
)

type (
	Repository interface {
		CheckUserUniqueness(email string, excludedUsers ...User) error
		CreateUser(u User) (User, error)
		GetUserByID(id int) (User, error)
		GetUserByEmail(email string) (User, error)
		FilterUsers(filter QueryFilter) ([]User, error)
		UpdateUser(u User) (User, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string, excl ...User) error {
	if err := svc.repo.CheckUserUniqueness(email, excl...); err != nil {
		if err == ErrEmailExists {
			return core.NewConflictError(err)
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		Name:           nu.Name,
		Email:          nu.Email,
		IsActive:       true,
		Roles:          nu.Roles,
		UniversityCode: nu.UniversityCode,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

func (svc *Service) GetByID(id int) (User, error) {
	return svc.repo.GetUserByID(id)
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true))
}

func (svc *Service) Query(filter QueryFilter) ([]User, error) {
	return svc.repo.FilterUsers(filter)
}

func (svc *Service) Update(orig User, uu UpdateUser) (User, error) {
	usr := orig
	if uu.Name != "" {
		usr.Name = uu.Name
	}
	if uu.Email != "" {
		usr.Email = uu.Email
	}
	if uu.IsActive != nil {
		usr.IsActive = *uu.IsActive
	}
	if uu.Roles != nil {
		usr.Roles = uu.Roles
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	usr.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateUser(usr)
}

// Authenticate checks the credentials and records the login time.
func (svc *Service) Authenticate(email, pwd string) (User, error) {
	usr, err := svc.GetByEmail(email)
	if err != nil {
		return User{}, ErrAuthFailed
	}
	if err := usr.CheckPassword(pwd); err != nil {
		return User{}, ErrAuthFailed
	}
	if !usr.IsActive {
		return User{}, ErrAccountDeactivated
	}

	usr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateUser(usr)
}
