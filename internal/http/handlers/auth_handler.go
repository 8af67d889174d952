package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/nutritrack/internal/auth"
)

// LoginRequest carries the shared app password.
type LoginRequest struct {
	Password string `json:"password" binding:"required" example:"correct horse battery staple"`
}

// LoginResponse returns the session token for non-browser clients; browsers
// use the cookie set alongside it.
type LoginResponse struct {
	Success bool   `json:"success" example:"true"`
	Token   string `json:"token"`
}

// Login godoc
// @ID          login
// @Summary     Log in
// @Description Checks the app password and starts a session. The token is set as an HttpOnly cookie and also returned for CLI use.
// @Tags        Auth
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.LoginRequest  true  "Password"
// @Success     200   {object}  handlers.LoginResponse
// @Failure     400   {object}  handlers.ErrorResponse "Bad request"
// @Failure     401   {object}  handlers.ErrorResponse "Incorrect password"
// @Failure     500   {object}  handlers.ErrorResponse "Internal error"
// @Router      /auth/login [post]
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "password required")
		return
	}

	tok, err := h.sessions.Login(req.Password, h.now())
	if errors.Is(err, auth.ErrInvalidPassword) {
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "incorrect password")
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not start session")
		return
	}

	h.setSessionCookie(c, tok, int(h.sessions.TTL().Seconds()))
	ok(c, http.StatusOK, LoginResponse{Success: true, Token: tok})
}

// Logout godoc
// @ID          logout
// @Summary     Log out
// @Description Clears the session cookie. Tokens already handed to CLI clients stay valid until they expire.
// @Tags        Auth
// @Success     204  {string} string "No Content"
// @Router      /auth/logout [post]
func (h *Handlers) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	noContent(c)
}

func (h *Handlers) setSessionCookie(c *gin.Context, value string, maxAge int) {
	name := h.cookie.Name
	if name == "" {
		name = auth.CookieName
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", h.cookie.Secure, true)
}
