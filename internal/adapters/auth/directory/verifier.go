package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shelter-status/internal/ports/auth"
)

var (
	ErrTokenEmpty = errors.New("token is empty")
)

// Verifier implementa auth.AuthVerifier contra el Identity Directory.
// Se instancia desde main/router cuando DIRECTORY_URL está configurada.
type Verifier struct {
	client *Client
}

func NewVerifier(client *Client) *Verifier {
	return &Verifier{client: client}
}

func (v *Verifier) Verify(ctx context.Context, token string) (auth.Claims, error) {
	if v == nil || v.client == nil {
		return auth.Claims{}, ErrDirectoryNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrTokenEmpty
	}

	claims, err := v.client.ResolveToken(ctx, token)
	if err != nil {
		return auth.Claims{}, fmt.Errorf("directory verify failed: %w", err)
	}

	claims.UserID = strings.TrimSpace(claims.UserID)
	if claims.UserID == "" {
		return auth.Claims{}, errors.New("directory claims missing subject id")
	}

	return claims, nil
}
