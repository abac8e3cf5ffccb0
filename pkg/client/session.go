package client

import "sync"

// Session holds the tokens and the signed-in user. It is safe for concurrent use.
type Session struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	user         *User
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

func (s *Session) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *Session) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshToken
}

// User returns a copy of the signed-in user, or nil.
func (s *Session) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Authenticated reports whether an access token is held.
func (s *Session) Authenticated() bool {
	return s.AccessToken() != ""
}

// Restore loads previously persisted tokens, e.g. after an app restart.
func (s *Session) Restore(accessToken, refreshToken string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = accessToken, refreshToken
}

func (s *Session) signIn(accessToken, refreshToken string, user *User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken, s.user = accessToken, refreshToken, user
}

func (s *Session) setAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *Session) setEmailVerified(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user != nil {
		s.user.EmailVerified = v
	}
}

// Clear forgets tokens and user.
func (s *Session) Clear() {
	s.signIn("", "", nil)
}
