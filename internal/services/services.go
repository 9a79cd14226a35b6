// package services defines the HTTP boundary to the Forma API
package services

// TokenStore persists the access/refresh token pair between runs.
//
// An absent token is reported as an empty string, not an error; errors are
// reserved for storage failures.
type TokenStore interface {
	AccessToken() (string, error)
	RefreshToken() (string, error)
	SetAccessToken(token string) error
	SetTokens(access, refresh string) error
	Clear() error
}
