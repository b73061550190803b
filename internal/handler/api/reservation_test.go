//go:build unit

package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rsvp-service/internal/domain/reservation"
	"rsvp-service/internal/handler/api"
	"rsvp-service/internal/pkg/errs"
	"rsvp-service/internal/usecase/commands"
	"rsvp-service/internal/usecase/queries"
	"rsvp-service/tests/common/builder"
	commandsmock "rsvp-service/tests/mock/commands"
	queriesmock "rsvp-service/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type handlerFixture struct {
	commands *commandsmock.MockReservationCommands
	queries  *queriesmock.MockReservationQueries
	engine   *gin.Engine
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctrl := gomock.NewController(t)
	cmds := commandsmock.NewMockReservationCommands(ctrl)
	qrys := queriesmock.NewMockReservationQueries(ctrl)
	h := api.NewReservationHandler(cmds, qrys)

	engine := gin.New()
	group := engine.Group("/api/reservations")
	group.POST("", h.Create)
	group.GET("", h.Search)
	group.GET("/:id", h.Get)
	group.PATCH("/:id/status", h.ChangeStatus)
	group.PATCH("/:id/note", h.UpdateNote)
	group.DELETE("/:id", h.Delete)

	return &handlerFixture{commands: cmds, queries: qrys, engine: engine}
}

func (f *handlerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func TestReservationHandler_Create(t *testing.T) {
	t.Run("201 on success", func(t *testing.T) {
		f := newHandlerFixture(t)
		b := builder.NewReservationBuilder()
		f.commands.EXPECT().
			Reserve(gomock.Any(), b.BuildParams()).
			Return(b.BuildView(1), nil)

		rec := f.do(t, http.MethodPost, "/api/reservations", b.BuildCreateRequestDTO())

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, float64(1), resp["id"])
		assert.Equal(t, "room-101", resp["resourceId"])
		assert.Equal(t, "pending", resp["status"])
	})

	t.Run("400 on malformed body", func(t *testing.T) {
		f := newHandlerFixture(t)

		req := httptest.NewRequest(http.MethodPost, "/api/reservations", bytes.NewReader([]byte("{not json")))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		f.engine.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 on missing required fields", func(t *testing.T) {
		f := newHandlerFixture(t)

		rec := f.do(t, http.MethodPost, "/api/reservations", map[string]any{"user_id": "user-1"})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 on invalid time span", func(t *testing.T) {
		f := newHandlerFixture(t)
		b := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.EndTime = b.StartTime })
		f.commands.EXPECT().
			Reserve(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(assert.AnError, errs.ErrInvalidTimeSpan))

		rec := f.do(t, http.MethodPost, "/api/reservations", b.BuildCreateRequestDTO())

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("409 on overlap", func(t *testing.T) {
		f := newHandlerFixture(t)
		b := builder.NewReservationBuilder()
		f.commands.EXPECT().
			Reserve(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(assert.AnError, errs.ErrReservationConflict))

		rec := f.do(t, http.MethodPost, "/api/reservations", b.BuildCreateRequestDTO())

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("422 on domain validation failure", func(t *testing.T) {
		f := newHandlerFixture(t)
		b := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.Status = "archived" })
		f.commands.EXPECT().
			Reserve(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(assert.AnError, errs.ErrDomainValidation))

		rec := f.do(t, http.MethodPost, "/api/reservations", b.BuildCreateRequestDTO())

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestReservationHandler_Get(t *testing.T) {
	t.Run("200 with the reservation", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.queries.EXPECT().
			GetByID(gomock.Any(), int64(7)).
			Return(builder.NewReservationBuilder().BuildView(7), nil)

		rec := f.do(t, http.MethodGet, "/api/reservations/7", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, float64(7), resp["id"])
	})

	t.Run("404 on unknown id", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.queries.EXPECT().
			GetByID(gomock.Any(), int64(404)).
			Return(nil, errs.Mark(assert.AnError, errs.ErrReservationNotFound))

		rec := f.do(t, http.MethodGet, "/api/reservations/404", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("400 on non-numeric id", func(t *testing.T) {
		f := newHandlerFixture(t)

		rec := f.do(t, http.MethodGet, "/api/reservations/abc", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 on non-positive id", func(t *testing.T) {
		f := newHandlerFixture(t)

		rec := f.do(t, http.MethodGet, "/api/reservations/0", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReservationHandler_Search(t *testing.T) {
	t.Run("200 with filters applied", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.queries.EXPECT().
			Search(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, filter queries.SearchFilter) ([]*queries.ReservationView, error) {
				require.NotNil(t, filter.ResourceID)
				assert.Equal(t, "room-101", *filter.ResourceID)
				require.NotNil(t, filter.Status)
				assert.Equal(t, reservation.StatusPending, *filter.Status)
				require.NotNil(t, filter.Window)
				assert.Equal(t, time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC), filter.Window.From)
				return []*queries.ReservationView{builder.NewReservationBuilder().BuildView(1)}, nil
			})

		rec := f.do(t, http.MethodGet,
			"/api/reservations?resource_id=room-101&status=pending&from=2030-06-01T00:00:00Z&to=2030-06-02T00:00:00Z", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp []map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Len(t, resp, 1)
	})

	t.Run("200 with no filters", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.queries.EXPECT().
			Search(gomock.Any(), queries.SearchFilter{}).
			Return([]*queries.ReservationView{}, nil)

		rec := f.do(t, http.MethodGet, "/api/reservations", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "[]", rec.Body.String())
	})

	t.Run("400 on unknown status filter", func(t *testing.T) {
		f := newHandlerFixture(t)

		rec := f.do(t, http.MethodGet, "/api/reservations?status=archived", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 on half-specified window", func(t *testing.T) {
		f := newHandlerFixture(t)

		rec := f.do(t, http.MethodGet, "/api/reservations?from=2030-06-01T00:00:00Z", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("400 on inverted window", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.queries.EXPECT().
			Search(gomock.Any(), gomock.Any()).
			Return(nil, errs.Mark(assert.AnError, errs.ErrInvalidTimeSpan))

		rec := f.do(t, http.MethodGet,
			"/api/reservations?from=2030-06-02T00:00:00Z&to=2030-06-01T00:00:00Z", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReservationHandler_ChangeStatus(t *testing.T) {
	t.Run("200 on valid transition", func(t *testing.T) {
		f := newHandlerFixture(t)
		b := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.Status = "confirmed" })
		f.commands.EXPECT().
			ChangeStatus(gomock.Any(), int64(3), reservation.StatusConfirmed).
			Return(b.BuildView(3), nil)

		rec := f.do(t, http.MethodPatch, "/api/reservations/3/status",
			map[string]string{"status": "confirmed"})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "confirmed", resp["status"])
	})

	t.Run("404 on unknown id", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.commands.EXPECT().
			ChangeStatus(gomock.Any(), int64(404), reservation.StatusCancelled).
			Return(nil, errs.Mark(assert.AnError, errs.ErrReservationNotFound))

		rec := f.do(t, http.MethodPatch, "/api/reservations/404/status",
			map[string]string{"status": "cancelled"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("422 on illegal transition", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.commands.EXPECT().
			ChangeStatus(gomock.Any(), int64(3), reservation.StatusPending).
			Return(nil, errs.Mark(assert.AnError, errs.ErrInvalidTransition))

		rec := f.do(t, http.MethodPatch, "/api/reservations/3/status",
			map[string]string{"status": "pending"})

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("400 on missing status", func(t *testing.T) {
		f := newHandlerFixture(t)

		rec := f.do(t, http.MethodPatch, "/api/reservations/3/status", map[string]string{})

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestReservationHandler_UpdateNote(t *testing.T) {
	t.Run("200 on success", func(t *testing.T) {
		f := newHandlerFixture(t)
		b := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.Note = "moved equipment" })
		f.commands.EXPECT().
			UpdateNote(gomock.Any(), int64(3), "moved equipment").
			Return(b.BuildView(3), nil)

		rec := f.do(t, http.MethodPatch, "/api/reservations/3/note",
			map[string]string{"note": "moved equipment"})

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("empty note clears it", func(t *testing.T) {
		f := newHandlerFixture(t)
		b := builder.NewReservationBuilder().
			With(func(b *builder.ReservationBuilder) { b.Note = "" })
		f.commands.EXPECT().
			UpdateNote(gomock.Any(), int64(3), "").
			Return(b.BuildView(3), nil)

		rec := f.do(t, http.MethodPatch, "/api/reservations/3/note",
			map[string]string{"note": ""})

		require.Equal(t, http.StatusOK, rec.Code)
		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		_, hasNote := resp["note"]
		assert.False(t, hasNote)
	})

	t.Run("404 on unknown id", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.commands.EXPECT().
			UpdateNote(gomock.Any(), int64(404), "x").
			Return(nil, errs.Mark(assert.AnError, errs.ErrReservationNotFound))

		rec := f.do(t, http.MethodPatch, "/api/reservations/404/note",
			map[string]string{"note": "x"})

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestReservationHandler_Delete(t *testing.T) {
	t.Run("204 on success", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.commands.EXPECT().Delete(gomock.Any(), int64(3)).Return(nil)

		rec := f.do(t, http.MethodDelete, "/api/reservations/3", nil)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("404 on unknown id", func(t *testing.T) {
		f := newHandlerFixture(t)
		f.commands.EXPECT().
			Delete(gomock.Any(), int64(404)).
			Return(errs.Mark(assert.AnError, errs.ErrReservationNotFound))

		rec := f.do(t, http.MethodDelete, "/api/reservations/404", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

var _ commands.ReservationCommands = (*commandsmock.MockReservationCommands)(nil)
var _ queries.ReservationQueries = (*queriesmock.MockReservationQueries)(nil)
