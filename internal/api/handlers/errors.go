package handlers

import (
	"errors"
	"net/http"

	"github.com/Ayash-Bera/mentor/backend/internal/apperr"
	"github.com/Ayash-Bera/mentor/backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RespondError writes the error envelope for err. Server-side failures are
// logged and their cause is not echoed to the client.
func RespondError(c *gin.Context, logger *logrus.Logger, err error) {
	status := apperr.HTTPStatus(err)
	message := http.StatusText(status)
	var fields []string

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		if appErr.Message != "" {
			message = appErr.Message
		}
		fields = appErr.Fields
	}

	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithField("status", status).Error(message)
	}

	utils.FieldErrorResponse(c, status, message, nil, fields)
}
