package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"micro-casino-engine/internal/services"
)

// statusFor maps engine errors onto HTTP statuses. Anything unrecognised is a
// server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrInvalidBet):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrRoundNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrInvalidRoundState),
		errors.Is(err, services.ErrBettingClosed),
		errors.Is(err, services.ErrAlreadyCashedOut),
		errors.Is(err, services.ErrTooLate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Error(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(status, gin.H{
		"error":   msg,
		"details": err.Error(),
	})
}

func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", fe.Field()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("field %s must be one of [%s]", fe.Field(), fe.Param()))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("field %s must satisfy %s=%s", fe.Field(), fe.ActualTag(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", fe.Field()))
		}
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request",
		"details": strings.Join(msgs, ", "),
	})
}
