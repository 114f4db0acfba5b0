package echoapi

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/gyanhq/campus/core"
	"github.com/gyanhq/campus/core/account"
)

var (
	apiConf *core.Config

	// appJWTConfig is the default JWT auth middleware config.
	appJWTConfig middleware.JWTConfig

	contextUserKey = "user"
)

func initAuth(conf *core.Config) {
	apiConf = conf
	appJWTConfig = middleware.JWTConfig{
		SigningKey:    conf.SecretKey,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "userToken",
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt   int64    `json:"oriat,omitempty"`
	Name           string   `json:"name,omitempty"`
	Email          string   `json:"email,omitempty"`
	IsAdmin        bool     `json:"is_admin,omitempty"`
	IsAccountant   bool     `json:"is_accountant,omitempty"`
	Roles          []string `json:"roles,omitempty"`
	UniversityCode string   `json:"university_code,omitempty"`
}

func GetUserClaims(usr account.User, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    apiConf.AppName,
			Subject:   strconv.Itoa(usr.ID),
			Audience:  "Campus",
			ExpiresAt: now.Add(apiConf.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt:   oriat,
		Name:           usr.Name,
		Email:          usr.Email,
		IsAdmin:        usr.IsAdmin(),
		IsAccountant:   usr.IsAccountant(),
		Roles:          usr.Roles,
		UniversityCode: usr.UniversityCode,
	}
	return claims
}

func authenticate(email, pwd string, svc *account.Service) (*Claims, error) {
	usr, err := svc.Authenticate(email, pwd)
	if err != nil {
		switch err {
		case account.ErrAuthFailed:
			return nil, errAuthenticationFailed
		case account.ErrAccountDeactivated:
			return nil, errAccountDeactivated
		}
		return nil, errors.Wrap(err, "authenticating")
	}
	return GetUserClaims(usr), nil
}

// GenerateToken generates a signed JWT token string representing the user Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey.([]byte))
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextUser(ctx echo.Context, svc *account.Service, clms ...Claims) (account.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(account.User); ok {
		return usr, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return account.User{}, errors.Wrap(err, "getting context claims")
		}
	}

	uid, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return account.User{}, errors.Wrap(err, "parsing claims subject")
	}

	usr, err := svc.GetByID(uid)
	if err != nil {
		return account.User{}, errors.Wrap(err, "finding account by ID")
	}
	ctx.Set(contextUserKey, usr)
	return usr, nil
}

func refreshToken(ctx echo.Context, svc *account.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	usr, err := getContextUser(ctx, svc, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context user")
	}

	// check if user is still active
	if !usr.IsActive {
		return "", errAccountDeactivated
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(apiConf.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := GetUserClaims(usr, claims.OrigIssuedAt)
	token, err := GenerateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}
