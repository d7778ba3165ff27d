package api

import (
	"context"
	"net/url"
	"strings"

	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/httpclient"
	"github.com/sayah-app/sayah-go/internal/logger"
)

const registeredMessage = "User registered successfully"

// Register creates an account. Anything but a 2xx reply carrying the
// registration confirmation is an authentication error.
func (c *Client) Register(ctx context.Context, creds Credentials) error {
	if err := validateCredentials(creds); err != nil {
		return err
	}

	resp, err := c.http.PostForm(ctx, c.endpoint(pathRegister), url.Values{
		"username": {creds.Username},
		"password": {creds.Password},
	})
	if err != nil {
		return transportError(err, errors.CategoryAuth, pathRegister)
	}

	r, err := c.readResponse(resp)
	if err != nil {
		return transportError(err, errors.CategoryAuth, pathRegister)
	}

	if !r.ok() {
		return serverError(r.errorMessage(), errors.CategoryAuth, pathRegister, r.status)
	}
	if r.data.Message != registeredMessage {
		msg := r.data.Error
		if msg == "" {
			msg = "Registration failed."
		}
		return serverError(msg, errors.CategoryAuth, pathRegister, r.status)
	}

	c.log.Info("account registered")
	return nil
}

// Login authenticates and returns the session identifier. The identifier is
// taken from the JSON sessionId field, falling back to the session cookie.
// A rejected login is an authentication error; a successful login without any
// identifier is a session error.
func (c *Client) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	if err := validateCredentials(creds); err != nil {
		return nil, err
	}

	body, contentType, err := httpclient.MultipartBody(map[string]string{
		"username": creds.Username,
		"password": creds.Password,
	})
	if err != nil {
		return nil, transportError(err, errors.CategoryAuth, pathLogin)
	}

	resp, err := c.http.Post(ctx, c.endpoint(pathLogin), contentType, body)
	if err != nil {
		return nil, transportError(err, errors.CategoryAuth, pathLogin)
	}

	r, err := c.readResponse(resp)
	if err != nil {
		return nil, transportError(err, errors.CategoryAuth, pathLogin)
	}

	if !r.ok() {
		return nil, serverError(r.errorMessage(), errors.CategoryAuth, pathLogin, r.status)
	}
	if r.data.Success == nil || !*r.data.Success {
		msg := r.data.Error
		if msg == "" {
			msg = "Login failed."
		}
		return nil, serverError(msg, errors.CategoryAuth, pathLogin, r.status)
	}

	sessionID := r.data.SessionID
	if sessionID == "" {
		for _, cookie := range r.cookies {
			if cookie.Name == c.cookieName && cookie.Value != "" {
				sessionID = cookie.Value
				break
			}
		}
	}
	if sessionID == "" {
		return nil, errors.New(errors.ErrSession).
			Component("api").
			Category(errors.CategorySession).
			Context("endpoint", pathLogin).
			Build()
	}

	c.log.Info("login succeeded", logger.Bool("session_from_cookie", r.data.SessionID == ""))
	return &LoginResult{SessionID: sessionID}, nil
}

func validateCredentials(creds Credentials) error {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return errors.Newf("Please enter both username and password.").
			Component("api").
			Category(errors.CategoryValidation).
			Build()
	}
	return nil
}
