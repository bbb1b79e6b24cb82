// Package oauth covers the server side of Google sign-in: consent URL,
// code exchange and profile lookup. Issuing API tokens for the resolved
// identity stays with the auth service.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleProfileEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

var (
	ErrCodeExchange       = errors.New("authorization code exchange failed")
	ErrProfileFetch       = errors.New("could not fetch the Google profile")
	ErrOAuthNotConfigured = errors.New("Google sign-in is not configured")
)

// GoogleProfile is the subset of the userinfo payload the API consumes
type GoogleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// GoogleProvider drives the Google OAuth consent flow
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider builds the provider. An empty client id or secret
// leaves it disabled; callers check Enabled before use.
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// Enabled reports whether client credentials were supplied
func (p *GoogleProvider) Enabled() bool {
	return p.config.ClientID != "" && p.config.ClientSecret != ""
}

// ConsentURL returns the Google consent page URL carrying the given state
func (p *GoogleProvider) ConsentURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades the authorization code for an access token
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCodeExchange, err)
	}
	return token, nil
}

// Profile fetches the signed-in user's Google profile
func (p *GoogleProvider) Profile(ctx context.Context, token *oauth2.Token) (*GoogleProfile, error) {
	resp, err := p.config.Client(ctx, token).Get(googleProfileEndpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrProfileFetch, resp.StatusCode, string(body))
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProfileFetch, err)
	}
	return &profile, nil
}
