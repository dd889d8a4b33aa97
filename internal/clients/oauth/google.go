package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"cinetrack/proj/internal/services/auth"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

var googleScopes = []string{
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

type GoogleClient struct {
	log         *slog.Logger
	cfg         *oauth2.Config
	userInfoURL string
	timeout     time.Duration
}

func NewGoogle(log *slog.Logger, clientID, clientSecret, redirectURL string, timeout time.Duration) *GoogleClient {
	return &GoogleClient{
		log: log,
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     google.Endpoint,
			Scopes:       googleScopes,
		},
		userInfoURL: googleUserInfoURL,
		timeout:     timeout,
	}
}

func (c *GoogleClient) AuthCodeURL(state string) string {
	return c.cfg.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

type googleUserInfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	GivenName     string `json:"given_name"`
	Picture       string `json:"picture"`
}

// Exchange trades the authorization code for a token and fetches the profile
// of the account it belongs to.
func (c *GoogleClient) Exchange(ctx context.Context, code string) (*auth.OAuthUser, error) {
	const op = "oauth.GoogleClient.Exchange"
	log := c.log.With("op", op)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	token, err := c.cfg.Exchange(ctx, code)
	if err != nil {
		log.Error("Error exchanging code", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	resp, err := c.cfg.Client(ctx, token).Do(req)
	if err != nil {
		log.Error("Error fetching userinfo", "errMsg", err.Error())
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: userinfo responded with %s", op, resp.Status)
	}
	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("%s: decoding userinfo: %w", op, err)
	}
	if info.Email == "" || !info.VerifiedEmail {
		return nil, fmt.Errorf("%s: google account has no verified email", op)
	}
	return &auth.OAuthUser{Email: info.Email, GivenName: info.GivenName, Picture: info.Picture}, nil
}
