package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"agro-chat/domain"
)

// CustomClaims defines the structure of the data the marketplace stores inside
// its JWTs.
type CustomClaims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// ViewerID extracts the viewer identity from the bearer token issued at login.
// The token is decoded without signature verification: the client is not the
// trust boundary, the backend re-validates it on every request. Any missing or
// undecodable token falls back to the fixed guest identity so the conversation
// store always has a usable key.
func ViewerID(token string) string {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.GuestViewerID
	}

	claims := &CustomClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return domain.GuestViewerID
	}
	if claims.UserID == "" {
		return domain.GuestViewerID
	}
	return claims.UserID
}
