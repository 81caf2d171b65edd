package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/priyankgupta/doi-monitor/internal/domain"
	"github.com/priyankgupta/doi-monitor/internal/service"
)

type DatasetHandler struct {
	service        *service.DOIService
	maxUploadBytes int64
}

func NewDatasetHandler(service *service.DOIService, maxUploadBytes int64) *DatasetHandler {
	return &DatasetHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Upload ingests a workbook sent as multipart field "file".
func (h *DatasetHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided"})
		return
	}

	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error": fmt.Sprintf("file exceeds the %d MB upload limit", h.maxUploadBytes>>20),
		})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot open uploaded file"})
		return
	}
	defer f.Close()

	info, err := h.service.Ingest(f)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.JSON(http.StatusCreated, info)
}

// GetOptions returns the SKU and city filter choices for a dataset.
func (h *DatasetHandler) GetOptions(c *gin.Context) {
	days, ok := parseWindowDays(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return
	}

	options, err := h.service.Options(c.Param("id"), days)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, options)
}

// GetReport computes a view from query parameters without session state.
// The sku, city and pan parameters each treat "None" (or absence) as
// unselected, matching the dropdown vocabulary.
func (h *DatasetHandler) GetReport(c *gin.Context) {
	days, ok := parseWindowDays(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "days must be a positive integer"})
		return
	}

	sel, ok := selectionFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pan must be one of None, Product Wise, City Wise"})
		return
	}

	result, err := h.service.View(c.Request.Context(), c.Param("id"), days, sel)
	if err != nil {
		respondPipelineError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// parseWindowDays reads the optional days query parameter. Zero means "use
// the configured default window".
func parseWindowDays(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("days"))
	if raw == "" {
		return 0, true
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days < 1 {
		return 0, false
	}
	return days, true
}

func selectionFromQuery(c *gin.Context) (domain.Selection, bool) {
	pan, ok := domain.ParsePanMode(c.Query("pan"))
	if !ok {
		return domain.Selection{}, false
	}
	return domain.Selection{
		SKU:  strings.TrimSpace(c.Query("sku")),
		City: strings.TrimSpace(c.Query("city")),
		Pan:  pan,
	}, true
}
