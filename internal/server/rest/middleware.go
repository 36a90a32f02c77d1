package rest

import (
	"net/http"

	"github.com/dmitrijs2005/chirpy/internal/common"
	"github.com/dmitrijs2005/chirpy/internal/server/auth"
	"github.com/labstack/echo/v4"
)

const userIDKey = "userID"

// accessTokenMiddleware rejects requests without a valid access token and
// stores the token subject under userIDKey.
func (s *HTTPServer) accessTokenMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, err := auth.ExtractBearerToken(c.Request().Header.Get(common.AuthorizationHeaderName))
		if err != nil {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "missing token"})
		}

		userID, err := s.auth.Authenticate(token)
		if err != nil {
			s.logger.Debug(c.Request().Context(), "access token rejected", "error", err)
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		}

		c.Set(userIDKey, userID)
		return next(c)
	}
}
