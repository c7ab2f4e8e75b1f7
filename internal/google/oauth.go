package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// OOB is the out-of-band redirect URI for installed applications.
const OOB = "urn:ietf:wg:oauth:2.0:oob"

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return HasTokenForAccount("default")
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	_, err := os.ReadFile(tokenFile(account))
	return err == nil
}

// GetAuthURL returns the OAuth URL for user authorization
func GetAuthURL() string {
	conf := getOAuthConfig()
	return conf.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// SaveToken exchanges an authorization code for tokens and saves them for the
// default account
func SaveToken(ctx context.Context, authCode string) error {
	return SaveTokenForAccount(ctx, "default", authCode)
}

// SaveTokenForAccount exchanges an authorization code for tokens and saves
// them for the specified account
func SaveTokenForAccount(ctx context.Context, account, authCode string) error {
	conf := getOAuthConfig()

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	file := tokenFile(account)
	if err := os.MkdirAll(filepath.Dir(file), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(file, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// getOAuthConfig returns the OAuth2 configuration for the Gmail scopes
// mailsweep requires. Trash and archive only need gmail.modify; emptying the
// trash permanently deletes messages, which requires the full mail scope.
func getOAuthConfig() *oauth2.Config {
	clientID := os.Getenv("MAILSWEEP_GOOGLE_CLIENT_ID")
	clientSecret := os.Getenv("MAILSWEEP_GOOGLE_CLIENT_SECRET")

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  OOB,
		Scopes: []string{
			"https://mail.google.com/", // Full Gmail access, needed for messages.delete
		},
	}
}

// GetTokenSourceForAccount returns an OAuth2 token source for the stored token
// of the specified account. Returns an error if no valid token exists.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	conf := getOAuthConfig()

	slurp, err := os.ReadFile(tokenFile(account))
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s", account)
	}

	tok, err := ParseToken(string(slurp))
	if err != nil {
		return nil, err
	}

	ts := conf.TokenSource(ctx, tok)

	// Validate the token before handing it out
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}

	return ts, nil
}

// ParseToken parses the cached "accessToken refreshToken" token file format.
// The expiry is set in the past so the token source refreshes on first use.
func ParseToken(data string) (*oauth2.Token, error) {
	f := strings.Fields(strings.TrimSpace(data))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format: expected two fields, got %d", len(f))
	}
	return &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	}, nil
}

// GetHTTPClientForAccount returns an HTTP client configured with OAuth2
// authentication for the specified account
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}
	return oauth2.NewClient(ctx, ts), nil
}

// tokenFile returns the token cache path for an account.
func tokenFile(account string) string {
	name := "google.token"
	if account != "" && account != "default" {
		name = "google-" + account + ".token"
	}
	return filepath.Join(userCacheDir(), "mailsweep", name)
}

// userCacheDir returns the base directory for cached credentials.
func userCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return dir
	}
	if runtime.GOOS == "windows" {
		return os.Getenv("LOCALAPPDATA")
	}
	return filepath.Join(os.Getenv("HOME"), ".cache")
}
