//go:build unit || e2e

package builder

import (
	"time"

	domrsvp "rsvp-service/internal/domain/reservation"
	reqdto "rsvp-service/internal/handler/dto/request"
	"rsvp-service/internal/usecase/commands"
	"rsvp-service/internal/usecase/queries"
)

type ReservationBuilder struct {
	UserID     string
	ResourceID string
	StartTime  time.Time
	EndTime    time.Time
	Status     string
	Note       string
}

func NewReservationBuilder() *ReservationBuilder {
	start := time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC)
	return &ReservationBuilder{
		UserID:     "user-1",
		ResourceID: "room-101",
		StartTime:  start,
		EndTime:    start.Add(2 * time.Hour),
		Status:     "",
		Note:       "team meeting",
	}
}

func (b *ReservationBuilder) With(mutate func(*ReservationBuilder)) *ReservationBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *ReservationBuilder) BuildDomain() (*domrsvp.Reservation, error) {
	span, err := domrsvp.NewTimeSpan(b.StartTime, b.EndTime)
	if err != nil {
		return nil, err
	}
	return domrsvp.NewReservation(
		b.UserID,
		b.ResourceID,
		span,
		domrsvp.Status(b.Status),
		domrsvp.NewNote(b.Note),
	)
}

func (b *ReservationBuilder) BuildParams() commands.ReserveParams {
	params := commands.ReserveParams{
		UserID:     b.UserID,
		ResourceID: b.ResourceID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Status:     b.Status,
	}
	if b.Note != "" {
		note := b.Note
		params.Note = &note
	}
	return params
}

func (b *ReservationBuilder) BuildView(id int64) *queries.ReservationView {
	status := b.Status
	if status == "" {
		status = domrsvp.StatusPending.String()
	}
	view := &queries.ReservationView{
		ID:         id,
		UserID:     b.UserID,
		ResourceID: b.ResourceID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Status:     status,
		CreatedAt:  b.StartTime.Add(-24 * time.Hour),
		UpdatedAt:  b.StartTime.Add(-24 * time.Hour),
	}
	if b.Note != "" {
		note := b.Note
		view.Note = &note
	}
	return view
}

func (b *ReservationBuilder) BuildCreateRequestDTO() reqdto.CreateReservationRequest {
	req := reqdto.CreateReservationRequest{
		UserID:     b.UserID,
		ResourceID: b.ResourceID,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
	}
	if b.Status != "" {
		status := b.Status
		req.Status = &status
	}
	if b.Note != "" {
		note := b.Note
		req.Note = &note
	}
	return req
}
