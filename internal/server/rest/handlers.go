package rest

import (
	"math"
	"net/http"
	"time"

	"github.com/dmitrijs2005/chirpy/internal/common"
	"github.com/dmitrijs2005/chirpy/internal/server/auth"
	"github.com/dmitrijs2005/chirpy/internal/server/models"
	"github.com/labstack/echo/v4"
)

type credentialsRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	ExpiresInSeconds int64  `json:"expiresInSeconds,omitempty"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type loginResponse struct {
	userResponse
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}
}

func (s *HTTPServer) healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (s *HTTPServer) register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	user, err := s.auth.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusCreated, newUserResponse(user))
}

// maxExpiresInSeconds is the largest value that converts to a time.Duration.
const maxExpiresInSeconds = int64(math.MaxInt64 / int64(time.Second))

func expiresIn(seconds int64) time.Duration {
	if seconds > maxExpiresInSeconds {
		seconds = maxExpiresInSeconds
	}
	return time.Duration(seconds) * time.Second
}

func (s *HTTPServer) login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
	}

	res, err := s.auth.Login(c.Request().Context(), req.Email, req.Password, expiresIn(req.ExpiresInSeconds))
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, loginResponse{
		userResponse: newUserResponse(res.User),
		Token:        res.AccessToken,
		RefreshToken: res.RefreshToken,
	})
}

func (s *HTTPServer) refresh(c echo.Context) error {
	token, err := auth.ExtractBearerToken(c.Request().Header.Get(common.AuthorizationHeaderName))
	if err != nil {
		return s.writeError(c, err)
	}

	access, err := s.auth.Refresh(c.Request().Context(), token)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, tokenResponse{Token: access})
}

func (s *HTTPServer) revoke(c echo.Context) error {
	token, err := auth.ExtractBearerToken(c.Request().Header.Get(common.AuthorizationHeaderName))
	if err != nil {
		return s.writeError(c, err)
	}

	if err := s.auth.Revoke(c.Request().Context(), token); err != nil {
		return s.writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *HTTPServer) me(c echo.Context) error {
	userID, _ := c.Get(userIDKey).(string)

	user, err := s.auth.Me(c.Request().Context(), userID)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(http.StatusOK, newUserResponse(user))
}
