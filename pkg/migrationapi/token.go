package migrationapi

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	srvErrors "github.com/kubev2v/spo-migrator/pkg/errors"
)

// TokenSource returns the bearer token sent with each request.
type TokenSource func(ctx context.Context) (string, error)

func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) {
		return checkToken(token, time.Now())
	}
}

// FileToken reads the token from path on every call so a refreshed token is picked up.
func FileToken(path string) TokenSource {
	return func(context.Context) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read token file: %w", err)
		}
		return checkToken(strings.TrimSpace(string(data)), time.Now())
	}
}

// checkToken rejects empty tokens and JWTs past their expiration time.
// The signature is not verified, SharePoint does that. Opaque tokens are passed through.
func checkToken(token string, now time.Time) (string, error) {
	if token == "" {
		return "", fmt.Errorf("access token is empty")
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		zap.S().Named("migration_api").Debugw("access token is not a jwt, skipping expiry check", "error", err)
		return token, nil
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil {
		return "", fmt.Errorf("invalid access token expiration: %w", err)
	}
	if exp != nil && !exp.After(now) {
		return "", srvErrors.NewTokenExpiredError(exp.Time)
	}

	return token, nil
}
