package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/sportsequipment/shopclient/apiclient"
	"github.com/sportsequipment/shopclient/lib/myevents"
	"github.com/sportsequipment/shopclient/lib/mypublisher"
	"github.com/sportsequipment/shopclient/lib/mysession"
	"github.com/sportsequipment/shopclient/lib/mystore"
	"github.com/sportsequipment/shopclient/lib/mytime"
	"github.com/sportsequipment/shopclient/lib/myuuid"
	"github.com/sportsequipment/shopclient/services/auth/authevents"
)

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": expiresAt.Unix(),
	}).SignedString([]byte("test-secret"))
	assert.NoError(t, err)
	return token
}

func setup(t *testing.T, ctrl *gomock.Controller) (context.Context, *Service, *apiclient.MockClient, mysession.Session, *mytime.MockNower, *[]myevents.EventEnvelope) {
	t.Helper()
	c := context.TODO()

	store, _, err := mystore.NewInMemoryStore[string](c)
	assert.NoError(t, err)
	session := mysession.New(store)

	client := apiclient.NewMockClient(ctrl)
	nower := mytime.NewMockNower(ctrl)

	publisher := mypublisher.New(mytime.RealNower{}, myuuid.RealUUIDer{})
	events := []myevents.EventEnvelope{}
	publisher.Subscribe(authevents.TopicName, func(c context.Context, envelope myevents.EventEnvelope) {
		events = append(events, envelope)
	})

	sut := NewService(client, session, publisher, nower)

	return c, sut, client, session, nower, &events
}

func TestLogin(t *testing.T) {

	t.Run("Successful login stores session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// setup
		c, sut, client, session, nower, events := setup(t, ctrl)

		// given
		client.EXPECT().Post(gomock.Any(), "/auth/login", []byte(`{"username":"admin","password":"x"}`)).
			Return([]byte(`{"token":"a.b.c","username":"admin","id":1,"role":"ADMIN"}`), nil)
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		resp, err := sut.Login(c, Credentials{Username: "admin", Password: "x"})

		// then
		assert.NoError(t, err)
		assert.Equal(t, "a.b.c", resp.BearerToken())

		token, found, err := session.Token(c)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "a.b.c", token)

		user, found, err := session.User(c)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, mysession.User{ID: 1, Username: "admin", Role: "ADMIN"}, user)

		assert.Len(t, *events, 1)
		assert.Equal(t, "session.created", (*events)[0].EventTypeName)
	})

	t.Run("Login accepts accessToken field name", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, client, session, nower, _ := setup(t, ctrl)

		// given
		client.EXPECT().Post(gomock.Any(), "/auth/login", gomock.Any()).
			Return([]byte(`{"accessToken":"x.y.z","username":"marc","id":7}`), nil)
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		_, err := sut.Login(c, Credentials{Username: "marc", Password: "secret"})

		// then
		assert.NoError(t, err)

		token, found, err := session.Token(c)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "x.y.z", token)

		// and the role defaulted to the non-privileged one
		user, found, err := session.User(c)
		assert.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, "USER", user.Role)
	})

	t.Run("Login response without credential stores nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, client, session, _, events := setup(t, ctrl)

		// given
		client.EXPECT().Post(gomock.Any(), "/auth/login", gomock.Any()).
			Return([]byte(`{"message":"please verify your email"}`), nil)

		// when
		_, err := sut.Login(c, Credentials{Username: "marc", Password: "secret"})

		// then
		assert.NoError(t, err)

		_, found, err := session.Token(c)
		assert.NoError(t, err)
		assert.False(t, found)
		assert.Len(t, *events, 0)
	})
}

func TestIsAuthenticated(t *testing.T) {

	t.Run("No stored credential", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, _, _, _, _ := setup(t, ctrl)

		// when/then
		assert.False(t, sut.IsAuthenticated(c))
	})

	t.Run("Credential without user projection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, _, session, _, _ := setup(t, ctrl)

		// given
		assert.NoError(t, session.StoreToken(c, signedToken(t, time.Now().Add(time.Hour))))

		// when/then
		assert.False(t, sut.IsAuthenticated(c))
	})

	t.Run("Valid unexpired credential", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, _, session, nower, _ := setup(t, ctrl)

		// given
		assert.NoError(t, session.StoreToken(c, signedToken(t, mytime.ExampleTime.Add(time.Hour))))
		assert.NoError(t, session.StoreUser(c, mysession.User{ID: 1, Username: "admin", Role: "ADMIN"}))
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when/then
		assert.True(t, sut.IsAuthenticated(c))
	})

	t.Run("Expired credential purges the session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, _, session, nower, events := setup(t, ctrl)

		// given
		assert.NoError(t, session.StoreToken(c, signedToken(t, mytime.ExampleTime.Add(-time.Hour))))
		assert.NoError(t, session.StoreUser(c, mysession.User{ID: 1, Username: "admin", Role: "ADMIN"}))
		nower.EXPECT().Now().Return(mytime.ExampleTime)

		// when
		authenticated := sut.IsAuthenticated(c)

		// then
		assert.False(t, authenticated)

		_, found, err := session.Token(c)
		assert.NoError(t, err)
		assert.False(t, found)

		assert.Len(t, *events, 1)
		assert.Equal(t, "session.destroyed", (*events)[0].EventTypeName)
	})

	t.Run("Malformed credential purges the session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, _, session, _, _ := setup(t, ctrl)

		// given: not a three-segment token
		assert.NoError(t, session.StoreToken(c, "just-an-opaque-string"))
		assert.NoError(t, session.StoreUser(c, mysession.User{ID: 1, Username: "admin", Role: "ADMIN"}))

		// when
		authenticated := sut.IsAuthenticated(c)

		// then
		assert.False(t, authenticated)

		_, found, err := session.Token(c)
		assert.NoError(t, err)
		assert.False(t, found)
	})
}

func TestRoles(t *testing.T) {

	t.Run("HasRole compares case-insensitively", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, _, session, _, _ := setup(t, ctrl)

		// given
		assert.NoError(t, session.StoreUser(c, mysession.User{ID: 1, Username: "admin", Role: "ADMIN"}))

		// when/then
		assert.True(t, sut.HasRole(c, "admin"))
		assert.True(t, sut.HasRole(c, "Admin"))
		assert.False(t, sut.HasRole(c, "user"))
	})

	t.Run("HasRole without session", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		c, sut, _, _, _, _ := setup(t, ctrl)

		// when/then
		assert.False(t, sut.HasRole(c, "admin"))
	})
}

func TestLogout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, sut, _, session, _, events := setup(t, ctrl)

	// given
	assert.NoError(t, session.StoreToken(c, "a.b.c"))
	assert.NoError(t, session.StoreUser(c, mysession.User{ID: 1, Username: "admin", Role: "ADMIN"}))

	// when
	err := sut.Logout(c)

	// then
	assert.NoError(t, err)

	_, found, err := session.Token(c)
	assert.NoError(t, err)
	assert.False(t, found)

	_, found = sut.CurrentUser(c)
	assert.False(t, found)

	assert.Len(t, *events, 1)
	assert.Equal(t, "session.destroyed", (*events)[0].EventTypeName)
}

func TestRegisterAndReset(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	c, sut, client, _, _, _ := setup(t, ctrl)

	t.Run("Register", func(t *testing.T) {
		client.EXPECT().Post(gomock.Any(), "/auth/register", gomock.Any()).
			Return([]byte(`{"message":"User registered successfully"}`), nil)

		resp, err := sut.Register(c, RegistrationRequest{Username: "marc", Email: "marc@example.com", Password: "secret"})
		assert.NoError(t, err)
		assert.Equal(t, "User registered successfully", resp.Message)
	})

	t.Run("Register admin uses the privileged endpoint", func(t *testing.T) {
		client.EXPECT().Post(gomock.Any(), "/auth/register-admin", gomock.Any()).
			Return([]byte(`{"message":"Admin registered successfully"}`), nil)

		resp, err := sut.RegisterAdmin(c, RegistrationRequest{Username: "root", Email: "root@example.com", Password: "secret"})
		assert.NoError(t, err)
		assert.Equal(t, "Admin registered successfully", resp.Message)
	})

	t.Run("Reset password posts the email", func(t *testing.T) {
		client.EXPECT().Post(gomock.Any(), "/auth/reset-password", []byte(`{"email":"marc@example.com"}`)).
			Return([]byte(`{"message":"Reset mail sent"}`), nil)

		resp, err := sut.ResetPassword(c, "marc@example.com")
		assert.NoError(t, err)
		assert.Equal(t, "Reset mail sent", resp.Message)
	})
}
