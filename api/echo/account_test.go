package echoapi

import (
	"net/http"
	"testing"

	"github.com/gyanhq/campus/core/account"
)

func TestAccountAPILogin(t *testing.T) {
	usr := newTestUser(t, "Login User", "login@test.local", []string{account.RoleAccountant})

	req, rec := newRequest(http.MethodPost, "/v1/accounts/login",
		marshallObj(t, LoginRequest{Email: usr.Email, Password: "Secret123!"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: code = %d; body = %s", rec.Code, rec.Body.String())
	}
	var resp LoginResponse
	decodeBody(t, rec, &resp)
	if resp.Token == "" {
		t.Fatal("login: empty token")
	}

	// the token works against an authed endpoint
	req, rec = newAuthRequest(http.MethodGet, "/v1/accounts/me", resp.Token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("me: code = %d; body = %s", rec.Code, rec.Body.String())
	}
	var me account.User
	decodeBody(t, rec, &me)
	if me.Email != usr.Email {
		t.Errorf("me: email = %q; want %q", me.Email, usr.Email)
	}

	req, rec = newRequest(http.MethodPost, "/v1/accounts/login",
		marshallObj(t, LoginRequest{Email: usr.Email, Password: "wrong"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad password: code = %d; want %d", rec.Code, http.StatusBadRequest)
	}

	req, rec = newRequest(http.MethodPost, "/v1/accounts/login",
		marshallObj(t, LoginRequest{Email: "nobody@test.local", Password: "whatever"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown email: code = %d; want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestAccountAPILoginDeactivated(t *testing.T) {
	usr := newTestUser(t, "Gone User", "gone@test.local", []string{account.RoleOperator})
	inactive := false
	if _, err := accountSvc.Update(usr, account.UpdateUser{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivating: %v", err)
	}

	req, rec := newRequest(http.MethodPost, "/v1/accounts/login",
		marshallObj(t, LoginRequest{Email: usr.Email, Password: "Secret123!"}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("deactivated login: code = %d; want %d", rec.Code, http.StatusForbidden)
	}
}

func TestAccountAPIAdminOnly(t *testing.T) {
	accountant := newTestUser(t, "Plain Acct", "plain.acct@test.local", []string{account.RoleAccountant})
	admin := newTestUser(t, "Boss", "boss@test.local", []string{account.RoleAdmin})

	req, rec := newAuthRequest(http.MethodGet, "/v1/accounts", getToken(t, accountant))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("list as accountant: code = %d; want %d", rec.Code, http.StatusForbidden)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/accounts", getToken(t, admin))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("list as admin: code = %d; body = %s", rec.Code, rec.Body.String())
	}

	// register
	req, rec = newAuthRequest(http.MethodPost, "/v1/accounts/register", getToken(t, admin),
		marshallObj(t, account.NewUser{
			Name:            "New Operator",
			Email:           "new.op@test.local",
			Password:        "Secret123!",
			PasswordConfirm: "Secret123!",
			Roles:           []string{account.RoleOperator},
			UniversityCode:  "GYAN001",
		}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: code = %d; body = %s", rec.Code, rec.Body.String())
	}

	// duplicate email clashes
	req, rec = newAuthRequest(http.MethodPost, "/v1/accounts/register", getToken(t, admin),
		marshallObj(t, account.NewUser{
			Name:            "Dup Operator",
			Email:           "new.op@test.local",
			Password:        "Secret123!",
			PasswordConfirm: "Secret123!",
			UniversityCode:  "GYAN001",
		}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate register: code = %d; want %d", rec.Code, http.StatusConflict)
	}
}

func TestUniversityAPI(t *testing.T) {
	usr := newTestUser(t, "Uni Viewer", "uni.viewer@test.local", []string{account.RoleOperator})

	req, rec := newAuthRequest(http.MethodGet, "/v1/universities", getToken(t, usr))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("universities: code = %d", rec.Code)
	}
	var unis []struct {
		Code string `json:"code"`
		Name string `json:"name"`
	}
	decodeBody(t, rec, &unis)
	if len(unis) != 2 || unis[0].Code != "GYAN001" {
		t.Errorf("universities: got %+v", unis)
	}

	req, rec = newAuthRequest(http.MethodGet, "/v1/universities/GYAN999", getToken(t, usr))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown university: code = %d; want %d", rec.Code, http.StatusNotFound)
	}
}
