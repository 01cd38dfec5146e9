package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"github.com/example/wordwise/pkg/models"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleEndpoint is Google's OAuth 2.0 endpoint.
var GoogleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// GoogleConfig configures GoogleProvider.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	// RedirectURL must point at a loopback address, e.g. http://127.0.0.1:8085/callback.
	RedirectURL string
}

// GoogleProvider runs the authorization code flow with a loopback redirect.
type GoogleProvider struct {
	oauth       *oauth2.Config
	userInfoURL string
	// openURL shows the consent URL to the user.
	openURL func(string)
	log     *slog.Logger
}

type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

func NewGoogleProvider(cfg GoogleConfig, openURL func(string), logger *slog.Logger) *GoogleProvider {
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     GoogleEndpoint,
		},
		userInfoURL: googleUserInfoURL,
		openURL:     openURL,
		log:         logger.With("provider", "google"),
	}
}

// Login waits for Google to redirect back with an authorization code, exchanges it and
// fetches the user's profile.
func (p *GoogleProvider) Login(ctx context.Context) (models.Identity, error) {
	redirect, err := url.Parse(p.oauth.RedirectURL)
	if err != nil {
		return models.Identity{}, fmt.Errorf("parse redirect url: %w", err)
	}
	ln, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return models.Identity{}, fmt.Errorf("listen for oauth callback: %w", err)
	}

	state, err := generateState()
	if err != nil {
		ln.Close()
		return models.Identity{}, err
	}

	type callback struct {
		code string
		err  error
	}
	results := make(chan callback, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(redirect.Path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		var cb callback
		switch {
		case q.Get("state") != state:
			cb.err = errors.New("invalid oauth state")
		case q.Get("error") != "":
			cb.err = fmt.Errorf("oauth error: %s", q.Get("error"))
		case q.Get("code") == "":
			cb.err = errors.New("oauth callback without code")
		default:
			cb.code = q.Get("code")
		}
		if cb.err != nil {
			http.Error(w, cb.err.Error(), http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "Signed in. You can close this window.")
		}
		select {
		case results <- cb:
		default:
		}
	})
	srv := &http.Server{Handler: mux}
	go srv.Serve(ln)
	defer srv.Close()

	p.openURL(p.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline))

	var cb callback
	select {
	case <-ctx.Done():
		return models.Identity{}, ctx.Err()
	case cb = <-results:
	}
	if cb.err != nil {
		return models.Identity{}, cb.err
	}

	token, err := p.oauth.Exchange(ctx, cb.code)
	if err != nil {
		p.log.Error("failed to exchange code", slog.String("error", err.Error()))
		return models.Identity{}, fmt.Errorf("exchange code: %w", err)
	}

	info, err := p.userInfo(ctx, token)
	if err != nil {
		p.log.Error("failed to get user info", slog.String("error", err.Error()))
		return models.Identity{}, err
	}
	return models.Identity{
		ID:      info.ID,
		Name:    info.Name,
		Email:   info.Email,
		Picture: info.Picture,
	}, nil
}

func (p *GoogleProvider) userInfo(ctx context.Context, token *oauth2.Token) (googleUserInfo, error) {
	resp, err := p.oauth.Client(ctx, token).Get(p.userInfoURL)
	if err != nil {
		return googleUserInfo{}, fmt.Errorf("get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return googleUserInfo{}, fmt.Errorf("get user info: status %d: %s", resp.StatusCode, body)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserInfo{}, fmt.Errorf("decode user info: %w", err)
	}
	if info.Email == "" {
		return googleUserInfo{}, errors.New("user info has no email")
	}
	return info, nil
}

// Logout is local only; the stored session is dropped by the caller.
func (p *GoogleProvider) Logout(context.Context) error {
	return nil
}

func generateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate oauth state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
