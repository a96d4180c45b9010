package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/service"
)

// handleListProjects returns all projects visible to the caller.
func (s *Server) handleListProjects(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	projects, err := s.services.Projects.List(c.Request.Context(), sess)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"projects": projects})
}

// handleGetProject fetches a single project.
func (s *Server) handleGetProject(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	project, err := s.services.Projects.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// handleCreateProject creates a new project entity.
func (s *Server) handleCreateProject(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req service.ProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	project, err := s.services.Projects.Create(c.Request.Context(), sess, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"project": project})
}

// handleUpdateProject applies a partial update to an existing project.
func (s *Server) handleUpdateProject(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req service.ProjectUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	project, err := s.services.Projects.Update(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"project": project})
}

// handleDeleteProject removes a project. Its tasks remain, unparented.
func (s *Server) handleDeleteProject(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := s.services.Projects.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}
