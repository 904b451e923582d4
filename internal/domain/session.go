package domain

// User is the identity returned by GET /auth/me.
type User struct {
	Username string `json:"username" yaml:"username"`
	Role     string `json:"role" yaml:"role"`
}

// Session holds the bearer token and the signed-in user.
// A nil *Session means nobody is signed in.
type Session struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// Username returns the signed-in username, or an empty string for a nil session.
func (s *Session) Username() string {
	if s == nil {
		return ""
	}
	return s.User.Username
}

// HasToken reports whether the session carries a bearer token.
func (s *Session) HasToken() bool {
	return s != nil && s.Token != ""
}

// AuthMode decides when task endpoints receive the bearer token.
type AuthMode string

const (
	// AuthWhenAvailable sends the token whenever one exists.
	AuthWhenAvailable AuthMode = "when-available"
	// AuthAlways requires a token; task calls fail locally without one.
	AuthAlways AuthMode = "always"
	// AuthNever never sends the token to task endpoints.
	AuthNever AuthMode = "never"
)

// IsValid returns true if the mode is a known value.
func (m AuthMode) IsValid() bool {
	switch m {
	case AuthWhenAvailable, AuthAlways, AuthNever:
		return true
	}
	return false
}
