package main

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"go.uber.org/zap"

	"github.com/railcore/cif-engine/src/cif"
	"github.com/railcore/cif-engine/src/common/config"
	"github.com/railcore/cif-engine/src/common/data"
	"github.com/railcore/cif-engine/src/common/utils"
	"github.com/railcore/cif-engine/src/http-api/api"
	"github.com/railcore/cif-engine/src/timetable"
)

func main() {
	utils.InitLogger()
	defer utils.SyncLogger()
	log := utils.GetLogger()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}

	path := os.Getenv("TIMETABLE_FILE")
	if path == "" {
		log.Fatal("TIMETABLE_FILE environment variable must be set")
	}

	db, err := loadTimetable(path, cfg.Database.FailFast, log)
	if err != nil {
		log.Fatalw("failed to load timetable", "file", path, "error", err)
	}

	pg, err := utils.NewPostgresConnection()
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pg.Close()

	rdb := utils.NewRedisClient()
	dc := data.NewDataClient(pg, rdb, log)

	app := fiber.New()

	app.Use(func(c *fiber.Ctx) error {
		path := c.Path()
		method := c.Method()

		if path != "/health" {
			log.Infow("request", "method", method, "path", path, "status", c.Response().StatusCode())
		}

		return c.Next()
	})

	app.Use(cors.New())

	server := api.NewServer(db, dc, rdb, log, cfg.API.CacheTTL.Std())
	api.RegisterHandlers(app, server)

	if err := app.Listen(fmt.Sprintf(":%d", cfg.API.Port)); err != nil {
		log.Fatalw("fiber listen failed", "error", err)
	}
}

func loadTimetable(path string, failFast bool, log *zap.SugaredLogger) (*timetable.Database, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, parseErrs, err := cif.Parse(f, cif.ParseOptions{FailFast: failFast})
	if err != nil {
		return nil, err
	}
	if len(parseErrs) > 0 {
		log.Warnw("timetable file had unparseable lines", "count", len(parseErrs), "first", parseErrs[0])
	}

	db := timetable.NewWithLogger(log)
	rep, err := db.ApplyFile(file, timetable.Options{FailFast: failFast})
	if err != nil {
		return nil, err
	}
	if rep.ErrorCount() > 0 {
		log.Warnw("timetable file had records that failed to apply", "count", rep.ErrorCount(), "first", rep.Errors[0].Error())
	}
	log.Infow("timetable loaded",
		"schedules", rep.Schedules.Inserted,
		"tiplocs", rep.Tiplocs.Inserted,
		"associations", rep.Associations.Inserted,
	)
	return db, nil
}
