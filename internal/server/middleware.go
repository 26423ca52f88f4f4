package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/raflibima25/go-electroshop/internal/auth"
	"github.com/raflibima25/go-electroshop/internal/models"
)

// callerKey is the gin context key holding the authenticated shopper
const callerKey = "caller"

var errNoCaller = errors.New("request has no authenticated caller")

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. On failure it returns the message sent back with the 401.
func bearerToken(header string) (token, problem string) {
	if header == "" {
		return "", "Authorization header is missing"
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", "Invalid authorization header format"
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", "Empty token"
	}
	return token, ""
}

// caller returns the shopper loaded by requireUser
func caller(c *gin.Context) (*auth.SessionData, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil, false
	}
	who, ok := v.(*auth.SessionData)
	return who, ok
}

func deny(c *gin.Context, log zerolog.Logger, status int, message string, err error) {
	log.Warn().Err(err).Str("path", c.FullPath()).Int("status", status).Msg(message)
	fail(c, status, message)
	c.Abort()
}

// requireUser rejects requests without a valid token for an existing user.
// Tokens outlive deleted accounts, so the user is looked up every time.
func requireUser(db *gorm.DB, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, problem := bearerToken(c.GetHeader("Authorization"))
		if problem != "" {
			deny(c, log, http.StatusUnauthorized, problem, nil)
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			deny(c, log, http.StatusUnauthorized, "Invalid token", err)
			return
		}

		var user models.User
		if err := models.FindByID(db, claims.UserID(), &user); err != nil {
			deny(c, log, http.StatusUnauthorized, "User not found", err)
			return
		}

		c.Set(callerKey, &auth.SessionData{
			UserID:  user.ID,
			Email:   user.Email,
			Name:    user.Name,
			IsAdmin: user.IsAdmin,
		})
		c.Next()
	}
}

// requireAdmin must run after requireUser
func requireAdmin(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		who, ok := caller(c)
		if !ok {
			deny(c, log, http.StatusUnauthorized, "Unauthorized", errNoCaller)
			return
		}
		if !who.IsAdmin {
			deny(c, log, http.StatusForbidden, "Access denied: Admin privileges required",
				fmt.Errorf("user %s is not an admin", who.UserID))
			return
		}
		c.Next()
	}
}
