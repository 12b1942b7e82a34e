// Package oauth completes an authorization-code login against an external
// identity provider and resolves the signed-in identity.
package oauth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/ghiblifav/internal/common"
	"github.com/dmitrijs2005/ghiblifav/internal/netx"
	"golang.org/x/oauth2"
)

// DefaultLoginMethod is recorded when the provider does not report one.
const DefaultLoginMethod = "oauth"

// Identity is what the provider knows about the signed-in user.
type Identity struct {
	OpenID      string
	Name        string
	Email       string
	LoginMethod string
}

// IdentityProvider is the login-completion seam used by the HTTP layer.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*Identity, error)
}

type Config struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	UserInfoURL  string
	RedirectURL  string
	Scopes       []string
}

// Provider implements IdentityProvider with golang.org/x/oauth2 and a JSON
// userinfo endpoint.
type Provider struct {
	config      *oauth2.Config
	userInfoURL string
}

func NewProvider(c Config) *Provider {
	return &Provider{
		config: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Scopes:       c.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  c.AuthURL,
				TokenURL: c.TokenURL,
			},
		},
		userInfoURL: c.UserInfoURL,
	}
}

func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// userInfo accepts both the OIDC "sub" claim and an explicit "openId".
type userInfo struct {
	OpenID      string `json:"openId"`
	Sub         string `json:"sub"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	LoginMethod string `json:"loginMethod"`
	Platform    string `json:"platform"`
}

// Exchange trades code for a token and fetches the user's identity with it.
func (p *Provider) Exchange(ctx context.Context, code string) (*Identity, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", common.ErrInvalidArgument)
	}

	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: token exchange failed: %w", common.ErrorUnauthorized, err)
	}

	var info userInfo
	if err := netx.GetJSON(ctx, p.config.Client(ctx, token), p.userInfoURL, &info); err != nil {
		return nil, fmt.Errorf("userinfo: %w", err)
	}

	id := &Identity{
		OpenID:      info.OpenID,
		Name:        info.Name,
		Email:       info.Email,
		LoginMethod: info.LoginMethod,
	}
	if id.OpenID == "" {
		id.OpenID = info.Sub
	}
	if id.LoginMethod == "" {
		id.LoginMethod = info.Platform
	}
	if id.LoginMethod == "" {
		id.LoginMethod = DefaultLoginMethod
	}
	if id.OpenID == "" {
		return nil, errors.New("userinfo: no subject in response")
	}

	return id, nil
}
