package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

var ErrNotLoggedIn = errors.New("not logged in")

type LoginChecker struct {
	ttl         time.Duration
	redisClient *redis.Client
}

func NewLoginChecker(ttl time.Duration, redisClient *redis.Client) *LoginChecker {
	return &LoginChecker{
		ttl:         ttl,
		redisClient: redisClient,
	}
}

func (lc *LoginChecker) IsLogged(ctx context.Context, token string) (bool, error) {
	_, err := lc.LoggedUserID(ctx, token)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotLoggedIn):
		return false, nil
	default:
		return false, err
	}
}

// LoggedUserID resolves the session token to the user that created the
// session. Expired and unknown tokens yield ErrNotLoggedIn.
func (lc *LoginChecker) LoggedUserID(ctx context.Context, token string) (uuid.UUID, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := lc.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return uuid.Nil, ErrNotLoggedIn
		}
		return uuid.Nil, err
	}

	userID, createdAt, err := parseSessionValue(cmd.Val())
	if err != nil {
		return uuid.Nil, err
	}

	sessionDuration := time.Since(createdAt)
	if sessionDuration > lc.ttl {
		return uuid.Nil, ErrNotLoggedIn
	}

	return userID, nil
}
