package server

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/models"
	"github.com/princesssaffron/Z-PrincessSaffron-sub000/internal/service"
)

// respondError maps domain errors onto HTTP statuses. Anything unmapped is
// treated as a store failure and kept opaque to the client.
func respondError(c *gin.Context, err error) {
	switch {
	case models.IsNotFound(err):
		c.JSON(404, gin.H{"error": err.Error()})
	case models.IsOutOfStock(err),
		models.IsInsufficientStock(err),
		models.IsDuplicateReview(err),
		models.IsAlreadyCancelled(err),
		models.IsInvalidTransition(err),
		models.IsConflict(err):
		c.JSON(409, gin.H{"error": err.Error()})
	case models.IsForbidden(err):
		c.JSON(403, gin.H{"error": err.Error()})
	case models.IsValidation(err):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(401, gin.H{"error": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(500, gin.H{"error": "internal error"})
	}
}
