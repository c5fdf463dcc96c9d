package authn

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

const defaultSignInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// FirebaseConfig carries what the Firebase-backed provider needs.
// WebAPIKey is the public browser key; the Admin SDK credentials stay
// server-only (file path or application default credentials).
type FirebaseConfig struct {
	// CredentialsFile points at a service account JSON; nil uses ADC.
	CredentialsFile *string
	// WebAPIKey is required for the password sign-in REST call.
	WebAPIKey string
	// SignInEndpoint overrides the Identity Toolkit URL (auth emulator).
	SignInEndpoint string
	// HTTPClient overrides the client used for REST calls; nil gets a
	// 15s-timeout default.
	HTTPClient *http.Client
}

// FirebaseProvider implements Provider on top of the Firebase Admin SDK.
// Password sign-in goes through the Identity Toolkit REST API because the
// Admin SDK intentionally does not expose the password grant.
type FirebaseProvider struct {
	client   *firebaseauth.Client
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewFirebaseProvider initializes the Firebase app and returns a provider.
func NewFirebaseProvider(ctx context.Context, cfg FirebaseConfig) (*FirebaseProvider, error) {
	if strings.TrimSpace(cfg.WebAPIKey) == "" {
		return nil, fmt.Errorf("firebase provider: web api key is required")
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != nil && *cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(*cfg.CredentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}

	endpoint := cfg.SignInEndpoint
	if endpoint == "" {
		endpoint = defaultSignInEndpoint
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return &FirebaseProvider{
		client:   client,
		apiKey:   cfg.WebAPIKey,
		endpoint: endpoint,
		http:     httpClient,
	}, nil
}

// Auth exposes the underlying Admin SDK client for token verification middleware.
func (p *FirebaseProvider) Auth() *firebaseauth.Client {
	return p.client
}

func (p *FirebaseProvider) CreateUser(ctx context.Context, email, password string) (Principal, error) {
	params := (&firebaseauth.UserToCreate{}).
		Email(strings.TrimSpace(email)).
		Password(password).
		EmailVerified(true)

	record, err := p.client.CreateUser(ctx, params)
	if err != nil {
		if firebaseauth.IsEmailAlreadyExists(err) {
			return Principal{}, ErrUserExists
		}
		return Principal{}, fmt.Errorf("create auth user: %w", err)
	}

	return Principal{
		UID:           record.UID,
		Email:         record.Email,
		EmailVerified: record.EmailVerified,
	}, nil
}

func (p *FirebaseProvider) DeleteUser(ctx context.Context, uid string) error {
	if err := p.client.DeleteUser(ctx, uid); err != nil {
		if firebaseauth.IsUserNotFound(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete auth user: %w", err)
	}
	return nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Email   string `json:"email"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (p *FirebaseProvider) SignInWithPassword(ctx context.Context, email, password string) (Principal, error) {
	payload, err := json.Marshal(signInRequest{
		Email:             strings.TrimSpace(email),
		Password:          password,
		ReturnSecureToken: true,
	})
	if err != nil {
		return Principal{}, fmt.Errorf("marshal sign-in request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"?key="+p.apiKey, bytes.NewReader(payload))
	if err != nil {
		return Principal{}, fmt.Errorf("build sign-in request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return Principal{}, fmt.Errorf("sign in: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Principal{}, fmt.Errorf("read sign-in response: %w", err)
	}

	var parsed signInResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Principal{}, fmt.Errorf("decode sign-in response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && isCredentialError(parsed.Error.Message) {
			return Principal{}, ErrInvalidCredentials
		}
		message := "unknown error"
		if parsed.Error != nil {
			message = parsed.Error.Message
		}
		return Principal{}, fmt.Errorf("sign in failed (status %d): %s", resp.StatusCode, message)
	}

	return Principal{UID: parsed.LocalID, Email: parsed.Email, EmailVerified: true}, nil
}

// isCredentialError matches the Identity Toolkit error codes that mean the
// caller supplied bad credentials rather than the service failing.
func isCredentialError(code string) bool {
	switch {
	case strings.HasPrefix(code, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(code, "INVALID_PASSWORD"),
		strings.HasPrefix(code, "EMAIL_NOT_FOUND"),
		strings.HasPrefix(code, "USER_DISABLED"):
		return true
	}
	return false
}

var _ Provider = (*FirebaseProvider)(nil)
