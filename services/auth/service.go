package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/sportsequipment/shopclient/apiclient"
	"github.com/sportsequipment/shopclient/lib/myerrors"
	"github.com/sportsequipment/shopclient/lib/mylog"
	"github.com/sportsequipment/shopclient/lib/mypublisher"
	"github.com/sportsequipment/shopclient/lib/mysession"
	"github.com/sportsequipment/shopclient/lib/mytime"
	"github.com/sportsequipment/shopclient/services/auth/authevents"
)

type Service struct {
	client    apiclient.Client
	session   mysession.Session
	publisher mypublisher.Publisher
	nower     mytime.Nower
	logger    mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(client apiclient.Client, session mysession.Session, publisher mypublisher.Publisher, nower mytime.Nower) *Service {
	return &Service{
		client:    client,
		session:   session,
		publisher: publisher,
		nower:     nower,
		logger:    mylog.New("auth"),
	}
}

func (s *Service) Login(c context.Context, credentials Credentials) (LoginResponse, error) {
	s.logger.Log(c, credentials.Username, mylog.SeverityInfo, "Logging in user %s", credentials.Username)

	payload, err := json.Marshal(credentials)
	if err != nil {
		return LoginResponse{}, myerrors.NewInternalError(fmt.Errorf("error marshalling credentials: %s", err))
	}

	body, err := s.client.Post(c, "/auth/login", payload)
	if err != nil {
		s.logger.Log(c, credentials.Username, mylog.SeverityError, "Login failed: %s", err)

		return LoginResponse{}, err
	}

	resp := LoginResponse{}
	err = json.Unmarshal(body, &resp)
	if err != nil {
		return LoginResponse{}, myerrors.NewInternalError(fmt.Errorf("error parsing login response: %s", err))
	}

	token := resp.BearerToken()
	if token != "" {
		role := resp.Role
		if role == "" {
			role = mysession.DefaultRole
		}

		user := mysession.User{
			ID:       resp.ID,
			Username: resp.Username,
			Role:     role,
		}

		err = s.storeSession(c, token, user)
		if err != nil {
			return LoginResponse{}, err
		}

		err = s.publisher.Publish(c, authevents.TopicName, authevents.SessionCreated{
			UserUID:  fmt.Sprintf("%d", user.ID),
			Username: user.Username,
			Role:     user.Role,
		})
		if err != nil {
			s.logger.Log(c, credentials.Username, mylog.SeverityError, "Error publishing session-created: %s", err)
		}
	}

	return resp, nil
}

func (s *Service) storeSession(c context.Context, token string, user mysession.User) error {
	err := s.session.StoreToken(c, token)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error storing credential: %s", err))
	}

	err = s.session.StoreUser(c, user)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error storing user: %s", err))
	}

	err = s.session.StoreLoginTimestamp(c, s.nower.Now())
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error storing login timestamp: %s", err))
	}

	return nil
}

func (s *Service) Register(c context.Context, registration RegistrationRequest) (MessageResponse, error) {
	return s.register(c, "/auth/register", registration)
}

// RegisterAdmin performs the privileged registration variant.
func (s *Service) RegisterAdmin(c context.Context, registration RegistrationRequest) (MessageResponse, error) {
	return s.register(c, "/auth/register-admin", registration)
}

func (s *Service) register(c context.Context, path string, registration RegistrationRequest) (MessageResponse, error) {
	s.logger.Log(c, registration.Username, mylog.SeverityInfo, "Registering user %s", registration.Username)

	payload, err := json.Marshal(registration)
	if err != nil {
		return MessageResponse{}, myerrors.NewInternalError(fmt.Errorf("error marshalling registration: %s", err))
	}

	body, err := s.client.Post(c, path, payload)
	if err != nil {
		s.logger.Log(c, registration.Username, mylog.SeverityError, "Registration failed: %s", err)

		return MessageResponse{}, err
	}

	resp := MessageResponse{}
	err = json.Unmarshal(body, &resp)
	if err != nil {
		return MessageResponse{}, myerrors.NewInternalError(fmt.Errorf("error parsing registration response: %s", err))
	}

	return resp, nil
}

func (s *Service) ResetPassword(c context.Context, email string) (MessageResponse, error) {
	s.logger.Log(c, email, mylog.SeverityInfo, "Requesting password reset for %s", email)

	payload, err := json.Marshal(ResetPasswordRequest{Email: email})
	if err != nil {
		return MessageResponse{}, myerrors.NewInternalError(fmt.Errorf("error marshalling reset request: %s", err))
	}

	body, err := s.client.Post(c, "/auth/reset-password", payload)
	if err != nil {
		return MessageResponse{}, err
	}

	resp := MessageResponse{}
	err = json.Unmarshal(body, &resp)
	if err != nil {
		return MessageResponse{}, myerrors.NewInternalError(fmt.Errorf("error parsing reset response: %s", err))
	}

	return resp, nil
}

func (s *Service) Logout(c context.Context) error {
	return s.destroySession(c, authevents.ReasonLogout)
}

func (s *Service) destroySession(c context.Context, reason string) error {
	s.logger.Log(c, "", mylog.SeverityInfo, "Destroying session (%s)", reason)

	err := s.session.Purge(c)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error purging session: %s", err))
	}

	err = s.publisher.Publish(c, authevents.TopicName, authevents.SessionDestroyed{Reason: reason})
	if err != nil {
		s.logger.Log(c, "", mylog.SeverityError, "Error publishing session-destroyed: %s", err)
	}

	return nil
}

func (s *Service) CurrentUser(c context.Context) (mysession.User, bool) {
	user, found, err := s.session.User(c)
	if err != nil {
		s.logger.Log(c, "", mylog.SeverityWarn, "Error reading stored user: %s", err)

		return mysession.User{}, false
	}

	return user, found
}

// IsAuthenticated requires both a stored credential and a stored user, and
// an unexpired expiry claim inside the credential. An expired or
// undecodable credential destroys the session as a side effect.
func (s *Service) IsAuthenticated(c context.Context) bool {
	token, found, err := s.session.Token(c)
	if err != nil || !found || token == "" {
		return false
	}

	_, found, err = s.session.User(c)
	if err != nil || !found {
		return false
	}

	if len(strings.Split(token, ".")) != 3 {
		s.expireSession(c, "credential is not a three-segment token")

		return false
	}

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		s.expireSession(c, fmt.Sprintf("credential could not be decoded: %s", err))

		return false
	}

	// A credential without an expiry claim does not expire.
	exp, ok := claims["exp"].(float64)
	if ok && s.nower.Now().After(time.Unix(int64(exp), 0)) {
		s.expireSession(c, "credential expired")

		return false
	}

	return true
}

func (s *Service) expireSession(c context.Context, why string) {
	s.logger.Log(c, "", mylog.SeverityWarn, "Treating session as unauthenticated: %s", why)

	err := s.destroySession(c, authevents.ReasonExpired)
	if err != nil {
		s.logger.Log(c, "", mylog.SeverityError, "Error destroying session: %s", err)
	}
}

// HasRole compares case-insensitively.
func (s *Service) HasRole(c context.Context, role string) bool {
	user, found := s.CurrentUser(c)
	if !found {
		return false
	}

	return strings.EqualFold(user.Role, role)
}
