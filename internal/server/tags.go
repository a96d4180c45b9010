package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/service"
)

// handleListTags returns the caller's tags.
func (s *Server) handleListTags(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	tags, err := s.services.Tags.List(c.Request.Context(), sess)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tags": tags})
}

// handleCreateTag creates a tag owned by the caller.
func (s *Server) handleCreateTag(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req service.TagInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tag, err := s.services.Tags.Create(c.Request.Context(), sess, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"tag": tag})
}

// handleUpdateTag renames or recolors one of the caller's tags.
func (s *Server) handleUpdateTag(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req service.TagUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	tag, err := s.services.Tags.Update(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tag": tag})
}

// handleDeleteTag removes one of the caller's tags.
func (s *Server) handleDeleteTag(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := s.services.Tags.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
