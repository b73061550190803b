package response

import (
	"time"

	"rsvp-service/internal/usecase/queries"
)

type ReservationResponse struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"userId"`
	ResourceID string    `json:"resourceId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Status     string    `json:"status"`
	Note       *string   `json:"note,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func FromReservationView(view *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{
		ID:         view.ID,
		UserID:     view.UserID,
		ResourceID: view.ResourceID,
		StartTime:  view.StartTime,
		EndTime:    view.EndTime,
		Status:     view.Status,
		Note:       view.Note,
		CreatedAt:  view.CreatedAt,
		UpdatedAt:  view.UpdatedAt,
	}
}

func FromReservationViews(views []*queries.ReservationView) []*ReservationResponse {
	result := make([]*ReservationResponse, len(views))
	for i, view := range views {
		result[i] = FromReservationView(view)
	}
	return result
}
