package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/habbitapp/habbit/internal/application"
	"github.com/habbitapp/habbit/pkg/helpers"
	"github.com/habbitapp/habbit/pkg/response"
	"github.com/habbitapp/habbit/pkg/validation"
)

type AuthHandler struct {
	Service *application.AuthService
	Cookies *helpers.CookieManager
	Logger  *logrus.Logger
}

func NewAuthHandler(service *application.AuthService, cookies *helpers.CookieManager, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Service: service, Cookies: cookies, Logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

// Register POST /api/auth/register {email, password}
func (h *AuthHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	u, err := h.Service.Register(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrInvalidInput):
		resp := response.Error[any](c, http.StatusBadRequest, "invalid input", nil)
		c.JSON(resp.Status, resp)
	case errors.Is(err, application.ErrConflict):
		resp := response.Error[any](c, http.StatusConflict, "email already registered", nil)
		c.JSON(resp.Status, resp)
	case errors.Is(err, application.ErrDeliveryFailed):
		// the account exists; the caller has to go through resend
		resp := response.Error[any](c, http.StatusBadGateway, "verification email could not be sent", nil)
		c.JSON(resp.Status, resp)
	case err != nil:
		h.internal(c, err, "register failed")
	default:
		resp := response.Success(c, http.StatusCreated, gin.H{"user_id": u.ID, "email": u.Email}, "registered; check your email to verify")
		c.JSON(resp.Status, resp)
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login POST /api/auth/login {email, password}
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	u, bearer, exp, err := h.Service.Login(c.Request.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, application.ErrInvalidCredentials):
		resp := response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
		c.JSON(resp.Status, resp)
	case errors.Is(err, application.ErrNotVerified):
		resp := response.Error[any](c, http.StatusForbidden, "email not verified", nil)
		c.JSON(resp.Status, resp)
	case err != nil:
		h.internal(c, err, "login failed")
	default:
		h.Cookies.SetSession(c, bearer, exp)
		resp := response.Success(c, http.StatusOK, gin.H{"user_id": u.ID, "email": u.Email}, "logged in")
		c.JSON(resp.Status, resp)
	}
}

type resendRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// Resend POST /api/auth/resend {email}
// Responds 200 whether or not the email maps to an account.
func (h *AuthHandler) Resend(c *gin.Context) {
	var req resendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		c.JSON(resp.Status, resp)
		return
	}
	if err := h.Service.ResendVerification(c.Request.Context(), req.Email); err != nil {
		if errors.Is(err, application.ErrInvalidInput) {
			resp := response.Error[any](c, http.StatusBadRequest, "invalid input", nil)
			c.JSON(resp.Status, resp)
			return
		}
		h.internal(c, err, "resend failed")
		return
	}
	resp := response.Success[any](c, http.StatusOK, nil, "if the account exists, a verification email is on its way")
	c.JSON(resp.Status, resp)
}

// Verify GET /api/auth/verify?token=SECRET
func (h *AuthHandler) Verify(c *gin.Context) {
	secret := c.Query("token")
	err := h.Service.VerifyEmail(c.Request.Context(), secret)
	switch {
	case errors.Is(err, application.ErrInvalidToken):
		resp := response.Error[any](c, http.StatusBadRequest, "invalid token", nil)
		c.JSON(resp.Status, resp)
	case errors.Is(err, application.ErrExpiredToken):
		resp := response.Error[any](c, http.StatusGone, "expired token", nil)
		c.JSON(resp.Status, resp)
	case err != nil:
		h.internal(c, err, "verify failed")
	default:
		resp := response.Success(c, http.StatusOK, gin.H{"verified": true}, "email verified")
		c.JSON(resp.Status, resp)
	}
}

// Logout POST /api/auth/logout
// Revokes the session behind the cookie, if any, and clears the cookie.
// Safe to call without a valid session.
func (h *AuthHandler) Logout(c *gin.Context) {
	bearer, _ := c.Cookie(helpers.SessionCookieName)
	if err := h.Service.Logout(c.Request.Context(), bearer); err != nil {
		h.internal(c, err, "logout failed")
		return
	}
	h.Cookies.ClearSession(c)
	resp := response.Success[any](c, http.StatusOK, nil, "logged out")
	c.JSON(resp.Status, resp)
}

// Me GET /api/me (session required)
func (h *AuthHandler) Me(c *gin.Context) {
	uid := c.GetString("userID")
	u, err := h.Service.GetUser(c.Request.Context(), uid)
	if err != nil {
		resp := response.Error[any](c, http.StatusUnauthorized, "unauthorized", nil)
		c.JSON(resp.Status, resp)
		return
	}
	resp := response.Success(c, http.StatusOK, gin.H{"user_id": u.ID, "email": u.Email, "email_verified": u.EmailVerified}, "current user")
	c.JSON(resp.Status, resp)
}

func (h *AuthHandler) internal(c *gin.Context, err error, msg string) {
	if h.Logger != nil {
		h.Logger.WithError(err).Error(msg)
	}
	resp := response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	c.JSON(resp.Status, resp)
}
