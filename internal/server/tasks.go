package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskhub/internal/service"
)

// handleListTasks fetches the tasks visible to the caller.
func (s *Server) handleListTasks(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	tasks, err := s.services.Tasks.List(c.Request.Context(), sess)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"tasks": tasks})
}

// handleGetTask fetches a single task with its tags and categories.
func (s *Server) handleGetTask(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	task, err := s.services.Tasks.Get(c.Request.Context(), sess, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleCreateTask inserts a new task.
func (s *Server) handleCreateTask(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req service.TaskInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := s.services.Tasks.Create(c.Request.Context(), sess, req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusCreated, gin.H{"task": task})
}

// handleUpdateTask applies a partial update to a task.
func (s *Server) handleUpdateTask(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	var req service.TaskUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	task, err := s.services.Tasks.Update(c.Request.Context(), sess, c.Param("id"), req)
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDeleteTask removes a task and detaches its tag and category links.
func (s *Server) handleDeleteTask(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	if err := s.services.Tasks.Delete(c.Request.Context(), sess, c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"status": "deleted"})
}

// handleAttachTag links one of the caller's tags to a task.
func (s *Server) handleAttachTag(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	task, err := s.services.Tasks.AttachTag(c.Request.Context(), sess, c.Param("id"), c.Param("tagID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDetachTag unlinks a tag from a task.
func (s *Server) handleDetachTag(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	task, err := s.services.Tasks.DetachTag(c.Request.Context(), sess, c.Param("id"), c.Param("tagID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleAttachCategory links one of the caller's categories to a task.
func (s *Server) handleAttachCategory(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	task, err := s.services.Tasks.AttachCategory(c.Request.Context(), sess, c.Param("id"), c.Param("categoryID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}

// handleDetachCategory unlinks a category from a task.
func (s *Server) handleDetachCategory(c *gin.Context) {
	sess, ok := s.session(c)
	if !ok {
		return
	}
	task, err := s.services.Tasks.DetachCategory(c.Request.Context(), sess, c.Param("id"), c.Param("categoryID"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	respondSuccess(c, http.StatusOK, gin.H{"task": task})
}
