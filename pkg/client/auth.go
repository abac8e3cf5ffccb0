package client

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// DefaultVerificationPoll is how often WaitForEmailVerification asks the server.
const DefaultVerificationPoll = 5 * time.Second

// RegisterRequest is the sign-up form. StudentID is the ten digit student number.
type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	StudentID  string `json:"studentID"`
	University string `json:"university,omitempty"`
	Faculty    string `json:"faculty,omitempty"`
	Department string `json:"department,omitempty"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates an account and signs in with it. The server mails a
// verification code to the address.
func (c *Client) Register(ctx context.Context, in RegisterRequest) (*User, error) {
	var resp struct {
		User *User `json:"user"`
	}
	req, err := jsonRequest(http.MethodPost, "/auth/register", in)
	if err != nil {
		return nil, err
	}
	req.anonymous = true
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	if _, err := c.Login(ctx, in.Email, in.Password); err != nil {
		return resp.User, err
	}
	return c.session.User(), nil
}

// Login signs in and stores the tokens in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*User, error) {
	req, err := jsonRequest(http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	req.anonymous = true
	var resp tokenResponse
	if err := c.do(ctx, req, &resp); err != nil {
		return nil, err
	}
	c.session.signIn(resp.AccessToken, resp.RefreshToken, resp.User)
	return c.session.User(), nil
}

// Refresh replaces the access token using the stored refresh token.
func (c *Client) Refresh(ctx context.Context) error {
	if c.session.RefreshToken() == "" {
		return errors.New("no refresh token")
	}
	return c.refresh(ctx)
}

// Logout revokes the tokens on the server. The local session is cleared even
// when the server call fails.
func (c *Client) Logout(ctx context.Context) error {
	defer c.session.Clear()
	if !c.session.Authenticated() {
		return nil
	}
	return c.call(ctx, http.MethodPost, "/auth/logout", map[string]string{
		"refresh_token": c.session.RefreshToken(),
	}, nil)
}

// VerifyEmail submits the six digit code mailed at registration.
func (c *Client) VerifyEmail(ctx context.Context, email, code string) error {
	req, err := jsonRequest(http.MethodPost, "/auth/verify-email", map[string]string{
		"email": email,
		"code":  code,
	})
	if err != nil {
		return err
	}
	req.anonymous = true
	if err := c.do(ctx, req, &messageResponse{}); err != nil {
		return err
	}
	if u := c.session.User(); u != nil && u.Email == email {
		c.session.setEmailVerified(true)
	}
	return nil
}

// ResendVerification mails a fresh code to the signed-in user.
func (c *Client) ResendVerification(ctx context.Context) error {
	return c.call(ctx, http.MethodPost, "/auth/resend-verification", nil, nil)
}

// EmailVerified asks the server whether the signed-in user has verified.
func (c *Client) EmailVerified(ctx context.Context) (bool, error) {
	var resp struct {
		EmailVerified bool `json:"emailVerified"`
	}
	if err := c.call(ctx, http.MethodGet, "/auth/status", nil, &resp); err != nil {
		return false, err
	}
	if resp.EmailVerified {
		c.session.setEmailVerified(true)
	}
	return resp.EmailVerified, nil
}

// WaitForEmailVerification polls the verification status every interval until
// it turns true. Network failures are retried; an API error or ctx ending
// stops the wait.
func (c *Client) WaitForEmailVerification(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultVerificationPoll
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		verified, err := c.EmailVerified(ctx)
		switch {
		case err == nil && verified:
			return nil
		case err != nil && !errors.Is(err, ErrNetwork):
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
