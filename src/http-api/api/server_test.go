package api

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/railcore/cif-engine/src/common/types"
	"github.com/railcore/cif-engine/src/timetable"
)

// newTestApp builds the handler set over a small seeded timetable. Redis and
// the snapshot store are absent, as when the API runs against the in-memory
// database alone.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	db := timetable.New()
	_, err := db.Apply([]types.Record{
		types.TiplocInsert{
			Tiploc:         "EUSTON ",
			TPSDescription: "LONDON EUSTON",
			ThreeAlphaCode: "EUS",
			Stanox:         types.Numeric{Value: 72410},
			NLC:            types.Numeric{Value: 144400},
		},
		types.BasicSchedule{
			Transaction: types.TransactionNew,
			TrainUID:    "C12345",
			RunsFrom:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			RunsTo:      time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
			Days:        types.EveryDay,
			STP:         types.STPPermanent,
		},
		types.LocationOrigin{
			Location:           "EUSTON  ",
			ScheduledDeparture: types.JourneyTime{Hour: 10, Minute: 0},
			PublicDeparture:    types.JourneyTime{Hour: 10, Minute: 0},
		},
		types.LocationTerminus{
			Location:         "MNCRPIC ",
			ScheduledArrival: types.JourneyTime{Hour: 12, Minute: 0},
			PublicArrival:    types.JourneyTime{Hour: 12, Minute: 0},
		},
	}, timetable.Options{})
	require.NoError(t, err)

	app := fiber.New()
	RegisterHandlers(app, NewServer(db, nil, nil, zap.NewNop().Sugar(), 0))
	return app
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestGetHealth(t *testing.T) {
	app := newTestApp(t)

	status, body := get(t, app, "/health")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "healthy")
}

func TestGetLocation(t *testing.T) {
	app := newTestApp(t)

	status, body := get(t, app, "/location/EUSTON")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "EUS")
	assert.Contains(t, body, "LONDON EUSTON")

	status, _ = get(t, app, "/location/NOWHERE")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGetServiceSchedules(t *testing.T) {
	app := newTestApp(t)

	status, body := get(t, app, "/service/C12345")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "C12345")
	assert.Contains(t, body, "MNCRPIC")

	status, _ = get(t, app, "/service/Z99999")
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestGetActiveService(t *testing.T) {
	app := newTestApp(t)

	status, body := get(t, app, "/service/C12345/active?date=2024-06-10")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "10:00:00")

	status, _ = get(t, app, "/service/C12345/active?date=2025-06-10")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = get(t, app, "/service/C12345/active?date=bogus")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestReferenceEndpointsWithoutStore(t *testing.T) {
	// the reference routes are registered but answer 503 until a snapshot
	// store is attached
	app := newTestApp(t)

	for _, path := range []string{"/reference/locations", "/reference/crs/EUS", "/reference/stanox/EUSTON"} {
		status, _ := get(t, app, path)
		assert.Equal(t, fiber.StatusServiceUnavailable, status, path)
	}
}
