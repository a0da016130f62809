package auth

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

var ErrInvalidGoogleToken = errors.New("invalid google id token")

// GoogleUser is the identity extracted from a verified Google ID token.
type GoogleUser struct {
	ID    string
	Email string
	Name  string
}

// GoogleVerifier checks Google sign-in ID tokens against the app client ID.
type GoogleVerifier struct {
	clientID string
	// ability to inject the token validation func (for unit and dev testing)
	ValidateFunc func(ctx context.Context, idToken, audience string) (*idtoken.Payload, error)
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID:     clientID,
		ValidateFunc: idtoken.Validate,
	}
}

func (gv *GoogleVerifier) Verify(ctx context.Context, token string) (*GoogleUser, error) {
	payload, err := gv.ValidateFunc(ctx, token, gv.clientID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidGoogleToken, err)
	}

	if payload.Subject == "" {
		return nil, fmt.Errorf("%w: subject missing", ErrInvalidGoogleToken)
	}

	googleUser := &GoogleUser{
		ID: payload.Subject,
	}
	if email, ok := payload.Claims["email"].(string); ok {
		googleUser.Email = email
	}
	if name, ok := payload.Claims["name"].(string); ok {
		googleUser.Name = name
	}

	return googleUser, nil
}
