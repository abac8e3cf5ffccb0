package middleware

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"unihub/internal/auth"
	apperrors "unihub/internal/errors"
)

const contextKey = "user"

func unauthorized(msg string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, apperrors.ErrorResponse{Error: msg, Code: "UNAUTHORIZED"})
}

// JWT validates HS256 bearer tokens and stores the parsed *jwt.Token with
// *auth.Claims in the context.
func JWT(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:    jwtService.Secret(),
		SigningMethod: echojwt.AlgorithmHS256,
		ContextKey:    contextKey,
		TokenLookup:   "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return unauthorized("missing, invalid or expired token")
		},
	})
}

// RejectRevoked refuses access tokens that were blacklisted on logout.
// It must run after JWT.
func RejectRevoked(tokens auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims := Claims(c)
			if claims == nil {
				return unauthorized("missing token")
			}
			revoked, err := tokens.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, apperrors.ErrorResponse{
					Error: "failed to check token",
					Code:  "INTERNAL_ERROR",
				}).SetInternal(err)
			}
			if revoked {
				return unauthorized("token has been revoked")
			}
			return next(c)
		}
	}
}

// Claims returns the authenticated caller's claims, or nil outside secured routes.
func Claims(c echo.Context) *auth.Claims {
	token, ok := c.Get(contextKey).(*jwt.Token)
	if !ok {
		return nil
	}
	claims, _ := token.Claims.(*auth.Claims)
	return claims
}

// UserID returns the authenticated caller's id, or 0 outside secured routes.
func UserID(c echo.Context) uint {
	if claims := Claims(c); claims != nil {
		return claims.UserID
	}
	return 0
}
