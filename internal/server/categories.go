package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/service"
)

// handleListCategories returns the caller's categories.
func (s *Server) handleListCategories(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	categories, err := s.services.Categories.List(c.Request.Context(), sess)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"categories": categories})
}

// handleCreateCategory creates a category owned by the caller.
func (s *Server) handleCreateCategory(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req service.CategoryInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	category, err := s.services.Categories.Create(c.Request.Context(), sess, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"category": category})
}

// handleUpdateCategory renames or recolors one of the caller's categories.
func (s *Server) handleUpdateCategory(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req service.CategoryUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	category, err := s.services.Categories.Update(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"category": category})
}

// handleDeleteCategory removes one of the caller's categories.
func (s *Server) handleDeleteCategory(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := s.services.Categories.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
