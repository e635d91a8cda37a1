package authorization

import (
	"os"
	"time"

	"github.com/cristalhq/jwt/v4"
	"github.com/mitchellh/mapstructure"

	"github.com/isinghranjeet/eassy-to-rent-backend/domain"
	apperrors "github.com/isinghranjeet/eassy-to-rent-backend/errors"
)

const tokenLifetime = 24 * time.Hour

func signingKey() []byte {
	return []byte(os.Getenv("SECRET_KEY"))
}

// GenerateToken issues an HS256 token carrying the principal claims.
func GenerateToken(principal domain.Principal) (string, error) {
	signer, err := jwt.NewSignerHS(jwt.HS256, signingKey())
	if err != nil {
		return "", err
	}

	claims := map[string]string{
		"userId":   principal.UserID,
		"username": principal.Username,
		"userType": string(principal.UserType),
		"exp":      time.Now().Add(tokenLifetime).Format(time.RFC3339),
	}

	builder := jwt.NewBuilder(signer)
	token, err := builder.Build(claims)
	if err != nil {
		return "", err
	}
	return token.String(), nil
}

// VerifyToken checks the signature and decodes the claims into a typed
// principal.
func VerifyToken(raw string) (domain.Principal, error) {
	verifier, err := jwt.NewVerifierHS(jwt.HS256, signingKey())
	if err != nil {
		return domain.Principal{}, err
	}

	var claims map[string]string
	if err := jwt.ParseClaims([]byte(raw), verifier, &claims); err != nil {
		return domain.Principal{}, apperrors.ErrUnauthorized
	}

	if exp, ok := claims["exp"]; ok {
		expiry, err := time.Parse(time.RFC3339, exp)
		if err != nil || time.Now().After(expiry) {
			return domain.Principal{}, apperrors.ErrUnauthorized
		}
	}

	var principal domain.Principal
	if err := mapstructure.Decode(claims, &principal); err != nil {
		return domain.Principal{}, apperrors.ErrUnauthorized
	}
	return principal, nil
}
