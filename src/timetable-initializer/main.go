package main

import (
	"compress/gzip"
	"context"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/railcore/cif-engine/src/cif"
	"github.com/railcore/cif-engine/src/common/config"
	"github.com/railcore/cif-engine/src/common/data"
	"github.com/railcore/cif-engine/src/common/utils"
	"github.com/railcore/cif-engine/src/timetable"
)

func main() {
	log.Println("Starting timetable initialization...")

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	pg, err := utils.NewPostgresConnection()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer pg.Close()

	username := os.Getenv("NR_FEEDS_USERNAME")
	password := os.Getenv("NR_FEEDS_PASSWORD")

	if username == "" || password == "" {
		log.Fatal("NR_FEEDS_USERNAME and NR_FEEDS_PASSWORD environment variables must be set")
	}

	log.Println("Downloading timetable extract...")
	client := &http.Client{Timeout: cfg.Feed.Timeout.Std()}
	req, err := http.NewRequest("GET", cfg.Feed.URL, nil)
	if err != nil {
		log.Fatal("Failed to create request:", err)
	}
	req.SetBasicAuth(username, password)

	resp, err := client.Do(req)
	if err != nil {
		log.Fatal("Failed to download timetable extract:", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		log.Fatalf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	var body io.Reader = resp.Body
	if cfg.Feed.Gzipped {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			log.Fatal("Failed to create gzip reader:", err)
		}
		defer gzReader.Close()
		body = gzReader
	}

	log.Println("Parsing timetable extract...")
	file, parseErrs, err := cif.Parse(body, cif.ParseOptions{FailFast: cfg.Database.FailFast})
	if err != nil {
		log.Fatal("Failed to parse timetable extract:", err)
	}
	for _, perr := range parseErrs {
		log.Printf("Parse error: %v", perr)
	}
	log.Printf("Parsed %d records (%d lines unparseable)", len(file.Records), len(parseErrs))

	db := timetable.NewWithLogger(utils.GetLogger())
	rep, err := db.ApplyFile(file, timetable.Options{FailFast: cfg.Database.FailFast})
	if err != nil {
		log.Fatal("Failed to apply timetable extract:", err)
	}
	for _, aerr := range rep.Errors {
		log.Printf("Apply error: %v", aerr)
	}

	log.Printf("Applied extract - TIPLOCs: %d, Associations: %d, Schedules: %d (%d records failed)",
		rep.Tiplocs.Inserted, rep.Associations.Inserted, rep.Schedules.Inserted, rep.ErrorCount())

	dc := data.NewDataClient(pg, utils.NewRedisClient(), utils.GetLogger())
	if err := dc.SaveSnapshot(context.Background(), db); err != nil {
		log.Fatal("Failed to save snapshot:", err)
	}

	log.Println("Timetable initialization completed successfully!")
}
