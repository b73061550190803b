//go:build unit

package reservation_test

import (
	"testing"
	"time"

	"rsvp-service/internal/domain/reservation"
	"rsvp-service/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReservation(t *testing.T) {
	t.Run("defaults to pending when status is empty", func(t *testing.T) {
		r, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusPending, r.Status())
		assert.False(t, r.IsPersisted())
		assert.True(t, r.IsActive())
		assert.Equal(t, "user-1", r.UserID())
		assert.Equal(t, "room-101", r.ResourceID())
	})

	t.Run("accepts explicit confirmed", func(t *testing.T) {
		r, err := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.Status = "confirmed" }).
			BuildDomain()
		require.NoError(t, err)

		assert.Equal(t, reservation.StatusConfirmed, r.Status())
	})

	t.Run("rejects cancelled as initial status", func(t *testing.T) {
		_, err := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.Status = "cancelled" }).
			BuildDomain()

		assert.ErrorIs(t, err, reservation.ErrInvalidInitialStatus)
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.Status = "archived" }).
			BuildDomain()

		assert.ErrorIs(t, err, reservation.ErrInvalidStatus)
	})

	t.Run("rejects empty user id", func(t *testing.T) {
		_, err := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.UserID = "" }).
			BuildDomain()

		assert.ErrorIs(t, err, reservation.ErrEmptyUserID)
	})

	t.Run("rejects empty resource id", func(t *testing.T) {
		_, err := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.ResourceID = "" }).
			BuildDomain()

		assert.ErrorIs(t, err, reservation.ErrEmptyResourceID)
	})

	t.Run("rejects zero time span", func(t *testing.T) {
		_, err := reservation.NewReservation("user-1", "room-101", reservation.TimeSpan{}, "", reservation.Note{})

		assert.ErrorIs(t, err, reservation.ErrInvalidTimeSpan)
	})
}

func TestReservationTransitionTo(t *testing.T) {
	t.Run("pending to confirmed", func(t *testing.T) {
		r, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		require.NoError(t, r.TransitionTo(reservation.StatusConfirmed))
		assert.Equal(t, reservation.StatusConfirmed, r.Status())
	})

	t.Run("confirmed to cancelled deactivates the reservation", func(t *testing.T) {
		r, err := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.Status = "confirmed" }).
			BuildDomain()
		require.NoError(t, err)

		require.NoError(t, r.TransitionTo(reservation.StatusCancelled))
		assert.Equal(t, reservation.StatusCancelled, r.Status())
		assert.False(t, r.IsActive())
	})

	t.Run("same state is rejected", func(t *testing.T) {
		r, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		err = r.TransitionTo(reservation.StatusPending)
		assert.ErrorIs(t, err, reservation.ErrInvalidTransition)
		assert.Equal(t, reservation.StatusPending, r.Status(), "status must not change on rejection")
	})

	t.Run("cancelled is terminal", func(t *testing.T) {
		r := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.Status = "confirmed" })
		entity, err := r.BuildDomain()
		require.NoError(t, err)
		require.NoError(t, entity.TransitionTo(reservation.StatusCancelled))

		assert.ErrorIs(t, entity.TransitionTo(reservation.StatusPending), reservation.ErrInvalidTransition)
		assert.ErrorIs(t, entity.TransitionTo(reservation.StatusConfirmed), reservation.ErrInvalidTransition)
	})

	t.Run("unknown target status", func(t *testing.T) {
		r, err := builder.NewReservationBuilder().BuildDomain()
		require.NoError(t, err)

		assert.ErrorIs(t, r.TransitionTo(reservation.Status("archived")), reservation.ErrInvalidStatus)
	})
}

func TestReconstructReservation(t *testing.T) {
	now := time.Date(2030, 5, 30, 9, 0, 0, 0, time.UTC)
	span, err := reservation.NewTimeSpan(now.Add(time.Hour), now.Add(3*time.Hour))
	require.NoError(t, err)

	r := reservation.ReconstructReservation(
		42,
		"user-7", "court-2",
		span,
		reservation.StatusCancelled,
		reservation.NewNote("rainout"),
		now, now.Add(time.Minute),
	)

	assert.Equal(t, int64(42), r.ID())
	assert.True(t, r.IsPersisted())
	assert.False(t, r.IsActive())
	assert.Equal(t, reservation.StatusCancelled, r.Status())
	assert.Equal(t, "rainout", r.Note().String())
	assert.Equal(t, now, r.CreatedAt())
	assert.Equal(t, now.Add(time.Minute), r.UpdatedAt())
}
