package handlers

import (
	"errors"
	"net/http"

	"gamestore/models"

	"github.com/gin-gonic/gin"
)

// writeError maps service-level failures onto HTTP statuses. Unknown errors
// become 500 so nothing is silently swallowed.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrCompanyNotFound),
		errors.Is(err, models.ErrGameNotFound),
		errors.Is(err, models.ErrAssetNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrCompanyExists),
		errors.Is(err, models.ErrAssetConflict):
		status = http.StatusConflict
	case errors.Is(err, models.ErrCompanyNotApproved):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, models.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	}

	c.JSON(status, gin.H{"error": err.Error()})
}
