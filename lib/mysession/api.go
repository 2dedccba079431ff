package mysession

import (
	"context"
	"time"
)

// Storage keys match the names the web client used in browser local-storage.
const (
	TokenKey          = "token"
	UserKey           = "user"
	LoginTimestampKey = "loginTimestamp"

	DefaultRole = "USER"
)

// User is the minimal projection persisted next to the credential.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

//go:generate mockgen -source=api.go -package mysession -destination session_mock.go Session
type Session interface {
	Token(c context.Context) (string, bool, error)
	StoreToken(c context.Context, token string) error
	User(c context.Context) (User, bool, error)
	StoreUser(c context.Context, user User) error
	StoreLoginTimestamp(c context.Context, when time.Time) error
	Purge(c context.Context) error
}
