package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/service"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin verifies credentials and issues a session token.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := s.services.Users.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Generic message; never reveal which part of the credential failed.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := s.sessions.Issue(user)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"token": token, "user": user})
}

// handleMe returns the caller's own record.
func (s *Server) handleMe(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	user, err := s.services.Users.Me(c.Request.Context(), sess)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": user})
}

// handleUpdateProfile upserts the caller's profile.
func (s *Server) handleUpdateProfile(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	profile, err := s.services.Users.UpdateProfile(c.Request.Context(), sess, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"profile": profile})
}

// handleListUsers returns all users. Administrators only.
func (s *Server) handleListUsers(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	users, err := s.services.Users.List(c.Request.Context(), sess)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"users": users})
}

// handleGetUser fetches a single user. Administrators only.
func (s *Server) handleGetUser(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	user, err := s.services.Users.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": user})
}

// handleCreateUser creates a new user. Administrators only.
func (s *Server) handleCreateUser(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := s.services.Users.Create(c.Request.Context(), sess, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"user": user})
}

// handleUpdateUser applies a partial update to a user. Administrators only.
func (s *Server) handleUpdateUser(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req service.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := s.services.Users.Update(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"user": user})
}

// handleDeleteUser removes a user. Administrators only.
func (s *Server) handleDeleteUser(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := s.services.Users.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
