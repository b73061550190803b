package request

import (
	"strings"
	"time"

	"rsvp-service/internal/usecase/commands"
)

type CreateReservationRequest struct {
	UserID     string    `json:"user_id" binding:"required"`
	ResourceID string    `json:"resource_id" binding:"required"`
	StartTime  time.Time `json:"start_time" binding:"required"`
	EndTime    time.Time `json:"end_time" binding:"required"`
	Status     *string   `json:"status,omitempty"`
	Note       *string   `json:"note,omitempty"`
}

func (r CreateReservationRequest) ToParams() commands.ReserveParams {
	params := commands.ReserveParams{
		UserID:     strings.TrimSpace(r.UserID),
		ResourceID: strings.TrimSpace(r.ResourceID),
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
	}

	if r.Status != nil {
		params.Status = strings.TrimSpace(*r.Status)
	}
	if r.Note != nil {
		trimmed := strings.TrimSpace(*r.Note)
		if trimmed != "" {
			params.Note = &trimmed
		}
	}

	return params
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateNoteRequest struct {
	// empty string clears the note
	Note string `json:"note"`
}

type SearchReservationsQuery struct {
	ResourceID *string    `form:"resource_id"`
	UserID     *string    `form:"user_id"`
	Status     *string    `form:"status"`
	From       *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To         *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
}
