package mysession

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sportsequipment/shopclient/lib/mystore"
)

// sessionVault keeps the three session values in a plain string store,
// the user projection as a JSON document. This mirrors the flat key
// layout of the original browser storage one-to-one.
type sessionVault struct {
	store mystore.Store[string]
}

func New(store mystore.Store[string]) Session {
	return &sessionVault{
		store: store,
	}
}

func (v *sessionVault) Token(c context.Context) (string, bool, error) {
	return v.store.Get(c, TokenKey)
}

func (v *sessionVault) StoreToken(c context.Context, token string) error {
	return v.store.Put(c, TokenKey, token)
}

func (v *sessionVault) User(c context.Context) (User, bool, error) {
	raw, found, err := v.store.Get(c, UserKey)
	if err != nil || !found {
		return User{}, false, err
	}

	user := User{}
	err = json.Unmarshal([]byte(raw), &user)
	if err != nil {
		return User{}, false, fmt.Errorf("error parsing stored user: %s", err)
	}

	return user, true, nil
}

func (v *sessionVault) StoreUser(c context.Context, user User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("error marshalling user: %s", err)
	}

	return v.store.Put(c, UserKey, string(raw))
}

func (v *sessionVault) StoreLoginTimestamp(c context.Context, when time.Time) error {
	return v.store.Put(c, LoginTimestampKey, when.Format(time.RFC3339))
}

func (v *sessionVault) Purge(c context.Context) error {
	for _, key := range []string{TokenKey, UserKey, LoginTimestampKey} {
		err := v.store.Delete(c, key)
		if err != nil {
			return err
		}
	}

	return nil
}
