package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"civicsync-dashboard/middlewares"
	"civicsync-dashboard/services"
)

// CookieConfig controls the auth_token cookie set at login.
type CookieConfig struct {
	Domain     string
	Production bool
	MaxAge     time.Duration
}

type AuthController struct {
	auth   *services.AuthService
	cookie CookieConfig
}

func NewAuthController(auth *services.AuthService, cookie CookieConfig) *AuthController {
	// cross-origin cookies in production must not pin a domain
	if cookie.Production {
		cookie.Domain = ""
	}
	return &AuthController{auth: auth, cookie: cookie}
}

// Login handles staff login
func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, sess, err := ac.auth.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	ac.setCookie(c, token, int(ac.cookie.MaxAge.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"user":      sess.User,
		"expiresAt": sess.ExpiresAt,
	})
}

// Logout ends the session and clears the auth_token cookie
func (ac *AuthController) Logout(c *gin.Context) {
	sess, ok := middlewares.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	if err := ac.auth.Logout(c.Request.Context(), sess.ID); err != nil {
		respondError(c, err)
		return
	}

	ac.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

// GetMe returns the signed-in staff member
func (ac *AuthController) GetMe(c *gin.Context) {
	sess, ok := middlewares.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      sess.User,
		"createdAt": sess.CreatedAt,
		"expiresAt": sess.ExpiresAt,
	})
}

func (ac *AuthController) setCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middlewares.AuthCookieName,
		Value:    value,
		MaxAge:   maxAge,
		Path:     "/",
		Domain:   ac.cookie.Domain,
		Secure:   ac.cookie.Production,
		HttpOnly: true,
		SameSite: http.SameSiteNoneMode,
	})
}
