package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/priyankgupta/doi-monitor/internal/service"
	"github.com/priyankgupta/doi-monitor/internal/session"
)

type SessionHandler struct {
	sessions *session.Manager
	service  *service.DOIService
}

func NewSessionHandler(sessions *session.Manager, service *service.DOIService) *SessionHandler {
	return &SessionHandler{sessions: sessions, service: service}
}

type createSessionRequest struct {
	DatasetID string `json:"dataset_id" binding:"required"`
	Days      int    `json:"days"`
}

// Create opens a session over an ingested dataset.
func (h *SessionHandler) Create(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dataset_id is required"})
		return
	}
	if req.Days < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return
	}

	if _, err := h.service.Dataset(req.DatasetID); err != nil {
		respondPipelineError(c, err)
		return
	}

	days := req.Days
	if days == 0 {
		days = h.service.DefaultWindowDays()
	}

	c.JSON(http.StatusCreated, h.sessions.Create(req.DatasetID, days))
}

// Get returns the session state.
func (h *SessionHandler) Get(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, sess)
}

type updateSelectionRequest struct {
	Dimension string `json:"dimension" binding:"required"`
	Value     string `json:"value"`
}

// UpdateSelection changes one filter dimension ("sku", "city" or "pan") and
// returns the resulting session state after the reset rules are applied.
func (h *SessionHandler) UpdateSelection(c *gin.Context) {
	var req updateSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dimension is required"})
		return
	}

	sess, err := h.sessions.ApplySelection(c.Param("id"), req.Dimension, req.Value)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			respondPipelineError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess)
}

type updateWindowRequest struct {
	Days int `json:"days" binding:"required"`
}

// UpdateWindow changes the session's analysis window length.
func (h *SessionHandler) UpdateWindow(c *gin.Context) {
	var req updateWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days is required"})
		return
	}

	sess, err := h.sessions.SetWindow(c.Param("id"), req.Days)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			respondPipelineError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess)
}

// GetReport computes the view for the session's current selection.
func (h *SessionHandler) GetReport(c *gin.Context) {
	sess, err := h.sessions.Get(c.Param("id"))
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	result, err := h.service.View(c.Request.Context(), sess.DatasetID, sess.WindowDays, sess.Selection)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
