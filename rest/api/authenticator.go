package api

import (
	"regexp"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/paperstreet/paperbroker/env"
	"github.com/paperstreet/paperbroker/models"
	"github.com/paperstreet/paperbroker/pberrors"
)

const tokenTTL = 24 * time.Hour

type Claims struct {
	AccountID uint `json:"account_id"`
	Admin     bool `json:"admin"`
	jwt.StandardClaims
}

// IssueToken signs a bearer token for the account.
func IssueToken(acct *models.Account) (string, error) {
	claims := &Claims{
		AccountID: acct.ID,
		Admin:     acct.Admin,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  time.Now().Unix(),
			ExpiresAt: time.Now().Add(tokenTTL).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret())
}

type Authenticator interface {
	Authenticate(Context) error
}

type authenticator struct{}

func NewAuthenticator() Authenticator {
	return &authenticator{}
}

var matcher = regexp.MustCompile("Bearer (.*)")

func (a *authenticator) Authenticate(ctx Context) error {
	header := ctx.Request().Header.Get("Authorization")

	match := matcher.FindStringSubmatch(header)
	if len(match) < 2 {
		return pberrors.Unauthorized.WithMsg("missing or malformed authorization header")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(match[1], claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret(), nil
	})
	if err != nil || !token.Valid {
		return pberrors.Unauthorized.WithMsg("invalid token")
	}

	ctx.Authorize(claims.AccountID, claims.Admin)

	// assign account_id for tracking purpose
	ctx.Values().Set("account_id", claims.AccountID)

	return nil
}

func secret() []byte {
	return []byte(env.GetVar("JWT_SECRET"))
}
