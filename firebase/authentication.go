package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"firebase.google.com/go/v4/auth"
)

var ErrMissingToken = errors.New("header de autorização ausente")

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

var _ TokenVerifier = (*auth.Client)(nil)

// BearerToken extrai o token de um header "Authorization: Bearer <token>".
func BearerToken(header string) (string, error) {
	rest, hasScheme := strings.CutPrefix(strings.TrimSpace(header), "Bearer")
	token := strings.TrimSpace(rest)
	// "Bearerxyz" não é um esquema Bearer.
	if hasScheme && rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		token = strings.TrimSpace(header)
	}
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

func VerifyUserToken(ctx context.Context, verifier TokenVerifier, header string) (*auth.Token, error) {
	token, err := BearerToken(header)
	if err != nil {
		return nil, err
	}

	verifiedToken, err := verifier.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar token: %w", err)
	}

	return verifiedToken, nil
}
