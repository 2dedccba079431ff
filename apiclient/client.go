package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/sportsequipment/shopclient/lib/mycontext"
	"github.com/sportsequipment/shopclient/lib/myerrors"
	"github.com/sportsequipment/shopclient/lib/myhttpclient"
	"github.com/sportsequipment/shopclient/lib/mylog"
	"github.com/sportsequipment/shopclient/lib/mypublisher"
	"github.com/sportsequipment/shopclient/lib/mysession"
	"github.com/sportsequipment/shopclient/lib/myuuid"
	"github.com/sportsequipment/shopclient/services/auth/authevents"
)

const (
	bearerPrefix = "Bearer "

	localBaseURL = "http://localhost:8080/api"
)

type sessionAwareClient struct {
	baseURL    string
	sender     myhttpclient.HTTPSender
	session    mysession.Session
	redirector Redirector
	publisher  mypublisher.Publisher
	uuider     myuuid.UUIDer
	logger     mylog.Logger
}

// Use dependency injection to isolate the infrastructure and easy testing
func New(baseURL string, sender myhttpclient.HTTPSender, session mysession.Session, redirector Redirector, publisher mypublisher.Publisher, uuider myuuid.UUIDer) Client {
	return &sessionAwareClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		sender:     sender,
		session:    session,
		redirector: redirector,
		publisher:  publisher,
		uuider:     uuider,
		logger:     mylog.New("apiclient"),
	}
}

// ResolveBaseURL prefers an explicit override and otherwise derives the
// address from the deployment mode, like the web client did.
func ResolveBaseURL(override string, environment string, productionHost string) string {
	if override != "" {
		return strings.TrimSuffix(override, "/")
	}

	if environment == "production" && productionHost != "" {
		return "https://" + productionHost + "/api"
	}

	return localBaseURL
}

func (ac *sessionAwareClient) Get(c context.Context, path string) ([]byte, error) {
	return ac.do(c, http.MethodGet, path, nil, nil)
}

func (ac *sessionAwareClient) Post(c context.Context, path string, body []byte) ([]byte, error) {
	return ac.do(c, http.MethodPost, path, body, nil)
}

func (ac *sessionAwareClient) Put(c context.Context, path string, body []byte) ([]byte, error) {
	return ac.do(c, http.MethodPut, path, body, nil)
}

func (ac *sessionAwareClient) Delete(c context.Context, path string) ([]byte, error) {
	return ac.do(c, http.MethodDelete, path, nil, nil)
}

func (ac *sessionAwareClient) PostMultipart(c context.Context, path string, fieldName string, fileName string, data []byte) ([]byte, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	part, err := writer.CreateFormFile(fieldName, fileName)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error creating multipart body: %s", err))
	}

	_, err = part.Write(data)
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error writing multipart body: %s", err))
	}

	err = writer.Close()
	if err != nil {
		return nil, myerrors.NewInternalError(fmt.Errorf("error finalizing multipart body: %s", err))
	}

	return ac.do(c, http.MethodPost, path, buf.Bytes(), map[string]string{
		"Content-Type": writer.FormDataContentType(),
	})
}

func (ac *sessionAwareClient) do(c context.Context, method string, path string, body []byte, extraHeaders map[string]string) ([]byte, error) {
	correlationID := ac.uuider.Create()
	c = mycontext.WithCorrelationID(c, correlationID)

	headers := map[string]string{
		"X-Correlation-ID": correlationID,
	}
	for name, value := range extraHeaders {
		headers[name] = value
	}

	if !isAuthPath(path) {
		err := ac.attachBearer(c, path, headers)
		if err != nil {
			return nil, err
		}
	}

	status, respBody, err := ac.sender.Send(c, method, ac.baseURL+path, body, headers)
	if err != nil {
		ac.logger.Log(c, path, mylog.SeverityError, "No response for %s %s: %s", method, path, err)

		return nil, myerrors.NewConnectivityError(err)
	}

	if status == http.StatusUnauthorized {
		return nil, ac.onUnauthorized(c, method, path)
	}

	if status < http.StatusOK || status >= http.StatusMultipleChoices {
		message := extractMessage(respBody, fmt.Sprintf("%s %s failed with status %d", method, path, status))
		ac.logger.Log(c, path, mylog.SeverityWarn, "Error response for %s %s: %d (%s)", method, path, status, message)

		return nil, myerrors.NewHTTPError(status, fmt.Errorf("%s", message))
	}

	return respBody, nil
}

// attachBearer adds the stored credential. A credential that already
// carries the "Bearer " prefix is a known data-entry defect of the
// backend contract: strip it and persist the corrected value.
func (ac *sessionAwareClient) attachBearer(c context.Context, path string, headers map[string]string) error {
	token, found, err := ac.session.Token(c)
	if err != nil {
		return myerrors.NewInternalError(fmt.Errorf("error reading stored credential: %s", err))
	}
	if !found || token == "" {
		// Anonymous request: no Authorization header at all.
		return nil
	}

	if strings.HasPrefix(token, bearerPrefix) {
		token = strings.TrimPrefix(token, bearerPrefix)
		err = ac.session.StoreToken(c, token)
		if err != nil {
			ac.logger.Log(c, path, mylog.SeverityWarn, "Could not persist corrected credential: %s", err)
		}
	}

	headers["Authorization"] = bearerPrefix + token

	return nil
}

// onUnauthorized terminally handles a 401: the session is gone, the user
// has to log in again. Purge everything, announce it, redirect.
func (ac *sessionAwareClient) onUnauthorized(c context.Context, method string, path string) error {
	ac.logger.Log(c, path, mylog.SeverityWarn, "Unauthorized on %s %s: destroying session", method, path)

	err := ac.session.Purge(c)
	if err != nil {
		ac.logger.Log(c, path, mylog.SeverityError, "Error purging session: %s", err)
	}

	err = ac.publisher.Publish(c, authevents.TopicName, authevents.SessionDestroyed{
		Reason: authevents.ReasonUnauthorized,
	})
	if err != nil {
		ac.logger.Log(c, path, mylog.SeverityError, "Error publishing session-destroyed: %s", err)
	}

	ac.redirector.RedirectToLogin(c, path)

	return myerrors.NewUnauthorizedError(fmt.Errorf("unauthorized, login required"))
}

func isAuthPath(path string) bool {
	return strings.HasPrefix(path, "/auth/") || strings.HasSuffix(path, "/login")
}

func extractMessage(body []byte, fallback string) string {
	payload := struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}{}

	err := json.Unmarshal(body, &payload)
	if err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	return fallback
}
