package services

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/meetscribe/internal/client/client"
	"github.com/dmitrijs2005/meetscribe/internal/client/models"
	"github.com/dmitrijs2005/meetscribe/internal/common"
)

const genericMessage = "Something went wrong. Please try again."

// UserMessage turns err into text for the user. Messages sent by the backend
// win; otherwise the error class picks the copy.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var quota *common.QuotaError
	if errors.As(err, &quota) {
		if quota.Registered {
			return fmt.Sprintf("You have used all %d analyses for today. Your quota resets tomorrow.", quota.Limit)
		}
		return fmt.Sprintf("Guests can run %d analysis per day. Register for a free account to get %d per day.",
			quota.Limit, models.RegisteredDailyLimit)
	}

	var verr *common.ValidationError
	if errors.As(err, &verr) && !verr.Empty() {
		return "Please check your input: " + fieldList(verr)
	}

	if msg := client.ServerMessage(err); msg != "" {
		return msg
	}

	switch {
	case errors.Is(err, common.ErrBusy):
		return "An analysis is already running. Please wait for it to finish."
	case errors.Is(err, common.ErrNotFound):
		return "No account or meeting matches that."
	case errors.Is(err, common.ErrInvalidCredentials):
		return "Invalid email or password."
	case errors.Is(err, common.ErrConflict):
		return "An account with this email already exists."
	case errors.Is(err, common.ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.Is(err, common.ErrQuotaExceeded):
		return "The daily usage limit has been reached."
	case errors.Is(err, common.ErrMigration):
		return "Your account was created, but your meeting history could not be transferred. It is still available on this device."
	case errors.Is(err, client.ErrUnavailable):
		return "The server could not be reached. Check your connection and try again."
	case errors.Is(err, client.ErrServer):
		return "The server had a problem. Please try again later."
	}
	return genericMessage
}

func fieldList(verr *common.ValidationError) string {
	s := ""
	for i, f := range verr.Fields {
		if i > 0 {
			s += "; "
		}
		s += f.Field + " " + f.Message
	}
	return s
}
