package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-terminal/internal/contact"
)

const maxContactBodyBytes = 32 * 1024

type contactResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	ID      string `json:"id,omitempty"`
}

func (s *Server) submitContact(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxContactBodyBytes)

	var fields contact.Fields
	if err := c.ShouldBind(&fields); err != nil {
		logRejection(c, "contact", "bad_body", err.Error())
		status := http.StatusBadRequest
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, contactResponse{Status: "failure", Code: "BAD_REQUEST", Message: "request body must be form or JSON data"})
		return
	}

	receipt, err := s.contact.Submit(c.Request.Context(), fields, "web")
	if err != nil {
		status, resp := contactFailure(err)
		logRejection(c, "contact", strings.ToLower(resp.Code), err.Error())
		c.JSON(status, resp)
		return
	}
	c.JSON(http.StatusOK, contactResponse{Status: "success", Message: receipt.Message, ID: receipt.ID})
}

func contactFailure(err error) (int, contactResponse) {
	if errors.Is(err, contact.ErrInvalidSubmission) {
		return http.StatusBadRequest, contactResponse{
			Status:  "failure",
			Code:    "INVALID_SUBMISSION",
			Message: strings.TrimPrefix(err.Error(), contact.ErrInvalidSubmission.Error()+": "),
		}
	}
	var friendly *contact.FriendlyError
	if errors.As(err, &friendly) {
		status := http.StatusBadGateway
		switch friendly.Code {
		case "RELAY_RATE_LIMITED":
			status = http.StatusTooManyRequests
		case "RELAY_NOT_CONFIGURED":
			status = http.StatusServiceUnavailable
		case "RELAY_TIMEOUT":
			status = http.StatusGatewayTimeout
		}
		return status, contactResponse{Status: "failure", Code: friendly.Code, Message: friendly.Message}
	}
	return http.StatusInternalServerError, contactResponse{Status: "failure", Code: "INTERNAL", Message: "The message could not be sent."}
}
