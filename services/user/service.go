package user

import (
	"context"
	"encoding/json"
	"fmt"

	formcodec "github.com/go-playground/form/v4"

	"github.com/sportsequipment/shopclient/apiclient"
	"github.com/sportsequipment/shopclient/lib/myerrors"
	"github.com/sportsequipment/shopclient/lib/mylog"
)

type Service struct {
	client  apiclient.Client
	encoder *formcodec.Encoder
	logger  mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func NewService(client apiclient.Client) *Service {
	return &Service{
		client:  client,
		encoder: formcodec.NewEncoder(),
		logger:  mylog.New("user"),
	}
}

// Me returns the profile of the calling user.
func (s *Service) Me(c context.Context) (User, error) {
	body, err := s.client.Get(c, "/users/me")
	if err != nil {
		return User{}, err
	}

	return parseUser(body)
}

func (s *Service) Update(c context.Context, userID int64, request UpdateRequest) (User, error) {
	s.logger.Log(c, "user", mylog.SeverityInfo, "Updating profile of user %d", userID)

	body, err := json.Marshal(request)
	if err != nil {
		return User{}, myerrors.NewInternalError(fmt.Errorf("error marshalling update request: %s", err))
	}

	respBody, err := s.client.Put(c, fmt.Sprintf("/users/%d", userID), body)
	if err != nil {
		return User{}, err
	}

	return parseUser(respBody)
}

// ChangePassword sends both passwords as query parameters, matching the
// backend contract.
func (s *Service) ChangePassword(c context.Context, oldPassword string, newPassword string) error {
	s.logger.Log(c, "user", mylog.SeverityInfo, "Changing password")

	query, err := s.encoder.Encode(changePasswordParams{OldPassword: oldPassword, NewPassword: newPassword})
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error encoding password params: %s", err))
	}

	_, err = s.client.Put(c, "/users/change-password?"+query.Encode(), nil)

	return err
}

// List returns all users, requires the ADMIN role.
func (s *Service) List(c context.Context) ([]User, error) {
	body, err := s.client.Get(c, "/users")
	if err != nil {
		return nil, err
	}

	users := []User{}
	err = json.Unmarshal(body, &users)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error parsing user list: %s", err))
	}

	return users, nil
}

func (s *Service) Get(c context.Context, userID int64) (User, error) {
	body, err := s.client.Get(c, fmt.Sprintf("/users/%d", userID))
	if err != nil {
		return User{}, err
	}

	return parseUser(body)
}

func (s *Service) Delete(c context.Context, userID int64) error {
	s.logger.Log(c, "user", mylog.SeverityInfo, "Deleting user %d", userID)

	_, err := s.client.Delete(c, fmt.Sprintf("/users/%d", userID))

	return err
}

// ChangeRole assigns a new role, requires the ADMIN role.
func (s *Service) ChangeRole(c context.Context, userID int64, role string) (User, error) {
	s.logger.Log(c, "user", mylog.SeverityInfo, "Changing role of user %d to %s", userID, role)

	query, err := s.encoder.Encode(changeRoleParams{Role: role})
	if err != nil {
		return User{}, myerrors.NewInternalError(fmt.Errorf("error encoding role param: %s", err))
	}

	body, err := s.client.Put(c, fmt.Sprintf("/users/%d/role?%s", userID, query.Encode()), nil)
	if err != nil {
		return User{}, err
	}

	return parseUser(body)
}

func parseUser(body []byte) (User, error) {
	result := User{}
	err := json.Unmarshal(body, &result)
	if err != nil {
		return User{}, myerrors.NewInternalError(fmt.Errorf("error parsing user: %s", err))
	}

	return result, nil
}
