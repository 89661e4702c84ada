package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Ayash-Bera/mentor/backend/internal/auth"
	"github.com/Ayash-Bera/mentor/backend/internal/models"
	"github.com/Ayash-Bera/mentor/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const userKey = "user"

type AuthMiddleware struct {
	tokens *auth.TokenManager
	users  models.UserRepository
	logger *logrus.Logger
}

func NewAuthMiddleware(tokens *auth.TokenManager, users models.UserRepository, logger *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, logger: logger}
}

// RequireAuth verifies the bearer token and loads the user it names.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Token is missing", nil)
			c.Abort()
			return
		}

		userID, err := am.tokens.Parse(tokenString)
		if err != nil {
			am.logger.WithError(err).Debug("Rejected bearer token")
			utils.ErrorResponse(c, http.StatusUnauthorized, "Token is invalid", nil)
			c.Abort()
			return
		}

		user, err := am.users.GetByID(c.Request.Context(), userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.ErrorResponse(c, http.StatusUnauthorized, "User not found", nil)
			c.Abort()
			return
		}
		if err != nil {
			am.logger.WithError(err).WithField("user_id", userID).Error("Failed to load authenticated user")
			utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to load user", nil)
			c.Abort()
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentUser returns the user stored by RequireAuth.
func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
