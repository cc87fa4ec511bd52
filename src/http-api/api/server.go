package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/railcore/cif-engine/src/common/data"
	"github.com/railcore/cif-engine/src/timetable"
)

type APIServer struct {
	Timetable *timetable.Database
	// Data serves the reference endpoints from the persisted snapshot.
	Data     *data.DataClient
	Redis    *redis.Client
	Logger   *zap.SugaredLogger
	CacheTTL time.Duration
}

func NewServer(db *timetable.Database, dc *data.DataClient, rdb *redis.Client, logger *zap.SugaredLogger, cacheTTL time.Duration) *APIServer {
	return &APIServer{
		Timetable: db,
		Data:      dc,
		Redis:     rdb,
		Logger:    logger,
		CacheTTL:  cacheTTL,
	}
}

func RegisterHandlers(app *fiber.App, s *APIServer) {
	app.Get("/health", s.GetHealth)
	app.Get("/services", s.GetActiveServices)
	app.Get("/service/:uid", s.GetServiceSchedules)
	app.Get("/service/:uid/active", s.GetActiveService)
	app.Get("/service/:uid/associations", s.GetServiceAssociations)
	app.Get("/locations", s.GetLocations)
	app.Get("/location/:tiploc", s.GetLocation)
	app.Get("/location/:tiploc/services", s.GetServicesAtLocation)
	app.Get("/reference/locations", s.GetReferenceLocations)
	app.Get("/reference/crs/:crs", s.GetLocationByCRS)
	app.Get("/reference/stanox/:tiploc", s.GetStanoxForTiploc)
}
