package server

import (
	"net/http"
	"time"

	"fundbridge/models"
	"fundbridge/service"

	"github.com/gin-gonic/gin"
)

type signUpRequest struct {
	Email       string      `json:"email" binding:"required,email"`
	Password    string      `json:"password" binding:"required"`
	DisplayName string      `json:"display_name" binding:"required"`
	Role        models.Role `json:"role" binding:"required"`
	CompanyName string      `json:"company_name"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "a valid email, password, display_name and role are required")
		return
	}

	session, err := s.services.Auth.SignUp(c.Request.Context(), service.SignUpRequest{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Role:        req.Role,
		CompanyName: req.CompanyName,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	s.setSessionCookie(c, session)
	c.JSON(http.StatusCreated, session)
}

func (s *Server) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "email and password are required")
		return
	}

	session, err := s.services.Auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	s.setSessionCookie(c, session)
	c.JSON(http.StatusOK, session)
}

func (s *Server) signOut(c *gin.Context) {
	http.SetCookie(c.Writer, s.cookie("", -1))
	c.JSON(http.StatusOK, gin.H{"message": "signed out"})
}

func (s *Server) me(c *gin.Context) {
	profile, err := s.services.Users.GetProfile(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (s *Server) setSessionCookie(c *gin.Context, session *models.Session) {
	maxAge := int(session.ExpiresAt.Sub(s.now()) / time.Second)
	if maxAge <= 0 {
		maxAge = -1
	}
	http.SetCookie(c.Writer, s.cookie(session.Token, maxAge))
}

func (s *Server) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     tokenCookie,
		Value:    value,
		Path:     "/",
		Domain:   s.cfg.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   s.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}
}
