package directory

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"shelter-status/internal/platform/httpclient"
	"shelter-status/internal/ports/auth"
)

var (
	ErrDirectoryNotConfigured = errors.New("directory client not configured")
	ErrDirectoryUnauthorized  = errors.New("directory unauthorized")
	ErrDirectoryUpstream      = errors.New("directory upstream error")
)

// Config del cliente del Identity Directory.
// BaseURL y APIKey normalmente vienen de env vars en quien lo instancia.
type Config struct {
	BaseURL string
	APIKey  string

	// Opcional: header donde va la API key. Default "X-Api-Key".
	APIKeyHeader string

	Timeout time.Duration
}

type Client struct {
	http         *httpclient.Client
	apiKey       string
	apiKeyHeader string
}

func NewClient(cfg Config) (*Client, error) {
	h := strings.TrimSpace(cfg.APIKeyHeader)
	if h == "" {
		h = "X-Api-Key"
	}

	hc, err := httpclient.NewWithBaseURL(strings.TrimSpace(cfg.BaseURL), cfg.Timeout)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:         hc,
		apiKey:       strings.TrimSpace(cfg.APIKey),
		apiKeyHeader: h,
	}, nil
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.http != nil && c.http.BaseURL != "" && c.apiKey != ""
}

// ResolveToken pide al directory la identidad detrás de un token:
// {subject_id, role, team_lead_id}. El core confía en esa tripleta.
func (c *Client) ResolveToken(ctx context.Context, token string) (auth.Claims, error) {
	if !c.IsConfigured() {
		return auth.Claims{}, ErrDirectoryNotConfigured
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return auth.Claims{}, ErrDirectoryUnauthorized
	}

	var out struct {
		SubjectID  string `json:"subject_id"`
		Role       string `json:"role"`
		TeamLeadID string `json:"team_lead_id"`
	}

	err := c.http.DoJSON(ctx, http.MethodPost, "/v1/identities/resolve",
		map[string]string{
			c.apiKeyHeader:  c.apiKey,
			"Authorization": "Bearer " + token,
		},
		map[string]string{"token": token},
		&out,
	)
	if err != nil {
		var httpErr *httpclient.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.StatusCode == http.StatusUnauthorized || httpErr.StatusCode == http.StatusForbidden {
				return auth.Claims{}, ErrDirectoryUnauthorized
			}
			return auth.Claims{}, fmt.Errorf("%w: status=%d", ErrDirectoryUpstream, httpErr.StatusCode)
		}
		return auth.Claims{}, fmt.Errorf("%w: %v", ErrDirectoryUpstream, err)
	}

	out.SubjectID = strings.TrimSpace(out.SubjectID)
	if out.SubjectID == "" {
		return auth.Claims{}, errors.New("directory response missing subject_id")
	}

	return auth.Claims{
		UserID:     out.SubjectID,
		Role:       strings.TrimSpace(out.Role),
		TeamLeadID: strings.TrimSpace(out.TeamLeadID),
	}, nil
}
