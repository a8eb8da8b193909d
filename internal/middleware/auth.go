package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"nurture/internal/config"
	apperrors "nurture/internal/errors"
	"nurture/internal/services"
)

// SessionCookieName is the HttpOnly cookie carrying the session token.
const SessionCookieName = "nurture_session"

const (
	userIDKey    = "userID"
	sessionIDKey = "sessionID"
	tokenIssuer  = "nurture-api"
)

// getJWTKey returns the JWT key from configuration
func getJWTKey() []byte {
	return []byte(config.Get().JWTSecret)
}

// SessionClaims represents the claims in a session token. The token is only
// a pointer to a server-side session row; revoking the row invalidates it.
type SessionClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

// GenerateSessionToken signs a token for the given session, valid until
// expiresAt.
func GenerateSessionToken(userID, sessionID string, expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := &SessionClaims{
		UserID:    userID,
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   userID,
			ID:        sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(getJWTKey())
}

// ParseSessionToken validates the signature and expiry of a session token.
func ParseSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTKey(), nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil || !token.Valid {
		return nil, errors.New("invalid session token")
	}
	if claims.UserID == "" || claims.SessionID == "" {
		return nil, errors.New("session token is missing claims")
	}
	return claims, nil
}

// SessionToken extracts the raw token from the session cookie, falling back
// to an "Authorization: Bearer" header.
func SessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// AuthMiddleware verifies the session token and checks that its session row
// is still active, then sets the user and session ids in the context.
func AuthMiddleware(sessions services.SessionServicer) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := SessionToken(c)
		if tokenString == "" {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		claims, err := ParseSessionToken(tokenString)
		if err != nil {
			abortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		if _, err := sessions.ValidateSession(claims.SessionID, claims.UserID); err != nil {
			abortWithError(c, err)
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(sessionIDKey, claims.SessionID)
		c.Next()
	}
}

// UserID returns the authenticated user id, or "" on public routes.
func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// SessionID returns the authenticated session id, or "" on public routes.
func SessionID(c *gin.Context) string {
	return c.GetString(sessionIDKey)
}

// abortWithError stops the chain and leaves err on the context for
// ErrorHandler to render.
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func errorBody(appErr *apperrors.AppError) gin.H {
	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	return body
}
