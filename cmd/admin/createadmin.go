package main

import (
	"time"

	"github.com/gyanhq/campus/core"
	"github.com/gyanhq/campus/core/account"
)

// createAdmin updates or creates an owner account.
func (cli *commandLine) createAdmin(name, email, universityCode, pwd string) error {
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)

	usr, err := cli.accountRepo.GetUserByEmail(email)
	if err != nil {
		if err != account.ErrNotFound {
			return err
		}
		usr = account.User{
			Name:      name,
			Email:     email,
			CreatedAt: time.Now().UTC(),
		}
	}
	usr.Roles = []string{account.RoleAdminOwner}
	usr.UniversityCode = universityCode
	usr.IsActive = true
	usr.UpdatedAt = time.Now().UTC()
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}

	if usr.ID == 0 {
		_, err = cli.accountRepo.CreateUser(usr)
	} else {
		_, err = cli.accountRepo.UpdateUser(usr)
	}
	return err
}
