package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/priyankgupta/doi-monitor/internal/pipeline/doi"
	"github.com/priyankgupta/doi-monitor/internal/service"
	"github.com/priyankgupta/doi-monitor/internal/session"
)

// respondPipelineError maps pipeline and lookup failures onto HTTP statuses:
// bad input data is 422, unknown identifiers are 404, anything else is 500.
func respondPipelineError(c *gin.Context, err error) {
	var (
		schemaErr *doi.SchemaError
		parseErr  *doi.ParseError
		emptyErr  *doi.EmptyDataError
	)

	switch {
	case errors.As(err, &schemaErr), errors.As(err, &parseErr), errors.As(err, &emptyErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrDatasetNotFound), errors.Is(err, session.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "details": err.Error()})
	}
}
