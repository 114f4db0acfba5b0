package account

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundtrip(t *testing.T) {
	var usr User
	require.NoError(t, usr.SetPassword("Secret123!"))
	assert.NoError(t, usr.CheckPassword("Secret123!"))
	assert.Error(t, usr.CheckPassword("secret123!"))
}

func TestRoleChecks(t *testing.T) {
	tests := []struct {
		name             string
		roles            []string
		admin, accountant bool
	}{
		{"none", nil, false, false},
		{"admin", []string{RoleAdmin}, true, false},
		{"owner", []string{RoleAdminOwner}, true, false},
		{"accountant", []string{RoleAccountant}, false, true},
		{"operator", []string{RoleOperator}, false, false},
		{"mixed", []string{RoleOperator, RoleAccountant}, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr := User{Roles: tt.roles}
			assert.Equal(t, tt.admin, usr.IsAdmin())
			assert.Equal(t, tt.accountant, usr.IsAccountant())
		})
	}
}

func TestAllRolesValidation(t *testing.T) {
	validate := validator.New()
	require.NoError(t, RegisterRoleValidators(validate))

	nu := NewUser{
		Name:            "Asha Verma",
		Email:           "asha@example.com",
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
		Roles:           []string{RoleAccountant},
		UniversityCode:  "GYAN001",
	}
	assert.NoError(t, validate.Struct(&nu))

	nu.Roles = []string{"superuser:"}
	assert.Error(t, validate.Struct(&nu))

	nu.Roles = nil
	assert.NoError(t, validate.Struct(&nu))

	nu.PasswordConfirm = "different"
	assert.Error(t, validate.Struct(&nu))
}
