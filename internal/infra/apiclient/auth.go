package apiclient

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/runoshun/taskboard/internal/domain"
	"golang.org/x/oauth2"
)

// Login exchanges username and password for a bearer token using the
// OAuth2 password grant against POST /auth/login (form-encoded).
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.endpoint("/auth/login"),
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)

	tok, err := conf.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) && rerr.Response != nil {
			return "", statusError(rerr.Response.StatusCode, rerr.Body)
		}
		if strings.Contains(err.Error(), "missing access_token") {
			return "", domain.ErrNoAccessToken
		}
		var apiErr *Error
		if errors.As(err, &apiErr) {
			return "", apiErr
		}
		return "", transportError(err)
	}
	if tok.AccessToken == "" {
		return "", domain.ErrNoAccessToken
	}
	c.logger.Debug(0, "auth", "token received for "+username)
	return tok.AccessToken, nil
}

// Me fetches GET /auth/me with the given token.
func (c *Client) Me(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrNotLoggedIn
	}
	var user domain.User
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me", token: token, out: &user}); err != nil {
		return nil, err
	}
	return &user, nil
}
