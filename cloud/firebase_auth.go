package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"chat-sync-app/security"

	"firebase.google.com/go/v4/auth"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com"

type signInResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
}

type identityError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// FirebaseAuth implements security.Authenticator with Firebase
// Authentication. Password sign-in goes through the Identity Toolkit REST
// API because the Admin SDK cannot check passwords.
type FirebaseAuth struct {
	Client   *auth.Client
	APIKey   string
	Endpoint string
	HTTP     *http.Client
}

func NewFirebaseAuth(client *auth.Client, apiKey string) *FirebaseAuth {
	return &FirebaseAuth{Client: client, APIKey: apiKey, Endpoint: identityToolkitURL, HTTP: http.DefaultClient}
}

var _ security.Authenticator = (*FirebaseAuth)(nil)

func (a *FirebaseAuth) SignUp(ctx context.Context, email, password string) (string, error) {
	params := (&auth.UserToCreate{}).Email(strings.TrimSpace(email)).Password(password)
	user, err := a.Client.CreateUser(ctx, params)
	if auth.IsEmailAlreadyExists(err) {
		return "", security.ErrEmailTaken
	}
	if err != nil {
		return "", fmt.Errorf("create firebase user: %w", err)
	}
	return user.UID, nil
}

func (a *FirebaseAuth) SignIn(ctx context.Context, email, password string) (*security.Session, error) {
	endpoint := fmt.Sprintf("%s/v1/accounts:signInWithPassword?key=%s", a.Endpoint, url.QueryEscape(a.APIKey))
	payload, err := json.Marshal(map[string]any{
		"email":             strings.TrimSpace(email),
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := a.HTTP.Do(request)
	if err != nil {
		return nil, fmt.Errorf("sign in request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read sign in response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var identityErr identityError
		_ = json.Unmarshal(body, &identityErr)
		if resp.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("%w: %s", security.ErrInvalidCredentials, identityErr.Error.Message)
		}
		return nil, fmt.Errorf("sign in: status %d: %s", resp.StatusCode, identityErr.Error.Message)
	}

	var signIn signInResponse
	if err := json.Unmarshal(body, &signIn); err != nil {
		return nil, fmt.Errorf("decode sign in response: %w", err)
	}
	if signIn.IDToken == "" || signIn.LocalID == "" {
		return nil, errors.New("sign in response without token")
	}
	return security.NewSession(a, signIn.LocalID, signIn.IDToken), nil
}

func (a *FirebaseAuth) Verify(ctx context.Context, token string) (*security.Session, error) {
	verified, err := a.Client.VerifyIDTokenAndCheckRevoked(ctx, token)
	if err != nil {
		return nil, errors.Join(security.ErrInvalidToken, err)
	}
	return security.NewSession(a, verified.UID, token), nil
}

// SignOut revokes the user's refresh tokens, which also fails later
// revocation-checked verification of ID tokens issued before now.
func (a *FirebaseAuth) SignOut(ctx context.Context, token string) error {
	verified, err := a.Client.VerifyIDToken(ctx, token)
	if err != nil {
		return errors.Join(security.ErrInvalidToken, err)
	}
	if err := a.Client.RevokeRefreshTokens(ctx, verified.UID); err != nil {
		return fmt.Errorf("revoke tokens of %s: %w", verified.UID, err)
	}
	return nil
}

func (a *FirebaseAuth) DeleteAccount(ctx context.Context, userID string) error {
	if err := a.Client.DeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("delete firebase user %s: %w", userID, err)
	}
	return nil
}
