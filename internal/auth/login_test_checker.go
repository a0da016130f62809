package auth

import (
	"context"

	"github.com/google/uuid"
)

type LoginTestChecker struct {
	LoggedSessions map[string]uuid.UUID
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		LoggedSessions: map[string]uuid.UUID{},
	}
}

func (c *LoginTestChecker) IsLogged(_ context.Context, token string) (bool, error) {
	_, ok := c.LoggedSessions[token]
	return ok, nil
}

func (c *LoginTestChecker) LoggedUserID(_ context.Context, token string) (uuid.UUID, error) {
	userID, ok := c.LoggedSessions[token]
	if !ok {
		return uuid.Nil, ErrNotLoggedIn
	}
	return userID, nil
}
