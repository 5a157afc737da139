package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"outland-server/internal/models"
)

// TokenVerifier определяет функцию, которая проверяет строку токена и возвращает claims.
// Ошибки могут быть models.ErrTokenInvalid, models.ErrTokenExpired, models.ErrTokenMalformed и т.д.
type TokenVerifier func(ctx context.Context, tokenString string) (*models.Claims, error)

// EchoAuthMiddleware создает Echo middleware для проверки JWT.
// Оно извлекает Bearer-токен, верифицирует его с помощью предоставленного
// verifier и добавляет UserID/Roles в контекст запроса.
func EchoAuthMiddleware(verifier TokenVerifier, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			log := logger.With(zap.String("path", req.URL.Path))

			authHeader := req.Header.Get("Authorization")
			if authHeader == "" {
				log.Warn("Authorization header missing")
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: Missing token")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				log.Warn("Malformed Authorization header")
				return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized: Malformed token header")
			}
			tokenString := parts[1]

			claims, err := verifier(req.Context(), tokenString)
			if err != nil {
				msg := "Unauthorized: Invalid token"
				if errors.Is(err, models.ErrTokenExpired) {
					msg = "Unauthorized: Token expired"
				} else if !errors.Is(err, models.ErrTokenMalformed) && !errors.Is(err, models.ErrTokenInvalid) {
					log.Error("Unexpected token verification error", zap.Error(err))
					return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error during token verification")
				}
				log.Warn("Token verification failed", zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, msg)
			}

			// Добавляем информацию в контекст запроса
			ctx := context.WithValue(req.Context(), models.UserContextKey, claims.UserID)
			ctx = context.WithValue(ctx, models.RolesContextKey, claims.Roles)
			c.SetRequest(req.WithContext(ctx))

			log.Debug("User authorized", zap.String("userID", claims.UserID.String()), zap.Strings("roles", claims.Roles))
			return next(c)
		}
	}
}
