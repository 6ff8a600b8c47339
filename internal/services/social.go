package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/example/salon/internal/config"
	"github.com/example/salon/internal/models"
	"github.com/example/salon/internal/repositories"
	"github.com/example/salon/internal/utils"
)

// Social login providers.
const (
	ProviderGoogle   = "google"
	ProviderFacebook = "facebook"
)

// ErrUnknownProvider is returned for providers other than Google and Facebook.
var ErrUnknownProvider = errors.New("unknown social provider")

// SocialService signs users in with a provider access token and exchanges Google
// authorization codes.
type SocialService struct {
	users  repositories.UserRepository
	auth   *AuthService
	cfg    *config.Config
	client *http.Client
	oauth  *oauth2.Config
	log    *zap.Logger
}

// NewSocialService constructs a SocialService.
func NewSocialService(users repositories.UserRepository, auth *AuthService, cfg *config.Config, log *zap.Logger) *SocialService {
	return &SocialService{
		users:  users,
		auth:   auth,
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		oauth: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleCallbackURL,
			Endpoint: oauth2.Endpoint{
				TokenURL:  cfg.GoogleTokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		log: log,
	}
}

type providerProfile struct {
	ID    string `json:"id"`
	Sub   string `json:"sub"`
	Email string `json:"email"`
}

// Login fetches the provider profile behind accessToken, gets or creates the user owning
// its email and issues a token pair.
func (s *SocialService) Login(ctx context.Context, provider, accessToken string) (*models.User, utils.TokenPair, error) {
	if strings.TrimSpace(accessToken) == "" {
		return nil, utils.TokenPair{}, models.NewFieldError("access_token", "This field is required.")
	}

	var endpoint string
	switch provider {
	case ProviderGoogle:
		endpoint = s.cfg.GoogleUserInfoURL
	case ProviderFacebook:
		endpoint = s.cfg.FacebookGraphURL + "/me?fields=id,email"
	default:
		return nil, utils.TokenPair{}, ErrUnknownProvider
	}

	profile, err := s.fetchProfile(ctx, endpoint, accessToken)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}
	if profile.Email == "" {
		return nil, utils.TokenPair{}, ErrProviderRejected
	}

	user, created, err := s.users.GetOrCreateByEmail(ctx, models.NormalizeEmail(profile.Email))
	if err != nil {
		return nil, utils.TokenPair{}, err
	}
	if !user.IsActive {
		return nil, utils.TokenPair{}, ErrInvalidCredentials
	}
	if created {
		s.log.Info("user created from social login", zap.String("provider", provider), zap.String("user_id", user.ID.String()))
	}

	pair, err := s.auth.IssueTokens(user)
	if err != nil {
		return nil, utils.TokenPair{}, err
	}
	return user, pair, nil
}

// ExchangeCode trades a Google authorization code for tokens and returns them as JSON.
// Fields beyond the standard token set (id_token, scope) are relayed as well.
func (s *SocialService) ExchangeCode(ctx context.Context, code string) (json.RawMessage, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		var rerr *oauth2.RetrieveError
		if errors.As(err, &rerr) {
			s.log.Warn("google code exchange failed", zap.Int("status", rerr.Response.StatusCode))
			return nil, ErrProviderRejected
		}
		return nil, fmt.Errorf("google code exchange: %w", err)
	}

	out := map[string]interface{}{"access_token": token.AccessToken}
	if token.TokenType != "" {
		out["token_type"] = token.TokenType
	}
	if token.RefreshToken != "" {
		out["refresh_token"] = token.RefreshToken
	}
	if !token.Expiry.IsZero() {
		out["expires_in"] = int64(time.Until(token.Expiry).Round(time.Second).Seconds())
	}
	for _, key := range []string{"id_token", "scope"} {
		if v := token.Extra(key); v != nil {
			out[key] = v
		}
	}
	return json.Marshal(out)
}

func (s *SocialService) fetchProfile(ctx context.Context, endpoint, accessToken string) (*providerProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("profile request build: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	body, status, err := s.do(req)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, ErrProviderRejected
	}

	var profile providerProfile
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, ErrProviderRejected
	}
	return &profile, nil
}

func (s *SocialService) do(req *http.Request) ([]byte, int, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("provider read: %w", err)
	}
	return body, resp.StatusCode, nil
}
