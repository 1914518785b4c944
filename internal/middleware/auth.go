package middleware

import (
	"net/http"
	"strings"

	"biometric-service/internal/model"
	"biometric-service/pkg/jwtutil"
	"biometric-service/pkg/logger"
	"biometric-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const currentUserKey = "current_user"

// CurrentUser returns the authenticated user placed in the context by Auth.
// The second return is false on routes that did not pass through Auth.
func CurrentUser(c echo.Context) (*model.User, bool) {
	user, ok := c.Get(currentUserKey).(*model.User)
	return user, ok
}

// Auth validates the bearer token from the Authorization header, re-resolves
// the subject against the user table and rejects tokens whose embedded role
// no longer matches the stored role. Any role change therefore invalidates
// every outstanding token for that user.
func Auth(db *gorm.DB, tokens *jwtutil.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromContext(c)

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				log.Error("Missing Authorization header")
				prometheus.RecordAuthError("missing_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Error("Invalid Authorization header format")
				prometheus.RecordAuthError("invalid_auth_format")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
			}

			claims, err := tokens.Verify(parts[1])
			if err != nil {
				log.Error("Invalid JWT token", zap.Error(err))
				prometheus.RecordAuthError("invalid_token")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			var user model.User
			if result := db.Where("email = ?", claims.Subject).First(&user); result.Error != nil {
				log.Error("Token subject not found", zap.String("email", claims.Subject))
				prometheus.RecordAuthError("subject_not_found")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			// The stored role must exactly equal the role claimed at issue
			// time; a stale claim means the token predates a role change.
			if user.Role != claims.Role {
				log.Error("Stale role claim",
					zap.String("email", user.Email),
					zap.String("claimed_role", string(claims.Role)),
					zap.String("stored_role", string(user.Role)))
				prometheus.RecordAuthError("stale_role")
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
			}

			c.Set(currentUserKey, &user)
			return next(c)
		}
	}
}
