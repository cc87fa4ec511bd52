package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/railcore/cif-engine/src/common/types"
	"github.com/railcore/cif-engine/src/timetable"
)

// SaveSnapshot replaces the persisted timetable with the current state of an
// in-memory database. Everything happens in one transaction so readers never
// see a half-written snapshot.
func (dc *DataClient) SaveSnapshot(ctx context.Context, db *timetable.Database) error {
	tx, err := dc.pg.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `TRUNCATE schedule_location, schedule, association, tiploc`)
	if err != nil {
		return fmt.Errorf("clearing snapshot tables: %w", err)
	}

	tiplocs := db.Tiplocs()
	for _, t := range tiplocs {
		_, err = tx.Exec(ctx, `
			INSERT INTO tiploc (tiploc_code, crs_code, description, stanox, nalco)
			VALUES ($1, $2, $3, $4, $5)`,
			t.Code, nullIfEmpty(t.CRS), nullIfEmpty(t.Description), t.Stanox, t.NLC,
		)
		if err != nil {
			return fmt.Errorf("inserting tiploc %s: %w", t.Code, err)
		}
	}

	assocs := db.Associations()
	for _, a := range assocs {
		_, err = tx.Exec(ctx, `
			INSERT INTO association (
				main_train_uid, assoc_train_uid, assoc_start_date, assoc_end_date,
				assoc_days, category, date_indicator, location, diagram_type, stp_indicator
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			a.MainTrainUID, a.AssocTrainUID, a.Window.From, a.Window.To,
			a.Window.Days.String(), nullIfEmpty(a.Category), string(a.DateIndicator),
			a.Location, string(a.DiagramType), string(byte(a.STP)),
		)
		if err != nil {
			return fmt.Errorf("inserting association %s: %w", a.Key(), err)
		}
	}

	scheduleCount := 0
	for _, uid := range db.TrainUIDs() {
		for _, s := range db.SchedulesFor(uid) {
			if err := insertSchedule(ctx, tx, s); err != nil {
				return err
			}
			scheduleCount++
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	dc.logger.Infow("snapshot saved",
		"tiplocs", len(tiplocs),
		"associations", len(assocs),
		"schedules", scheduleCount,
	)
	return nil
}

func insertSchedule(ctx context.Context, tx pgx.Tx, s *types.Schedule) error {
	var scheduleID int
	err := tx.QueryRow(ctx, `
		INSERT INTO schedule (
			train_uid, stp_indicator, schedule_start_date, schedule_end_date,
			schedule_days_runs, bank_holiday_running, train_status, train_category,
			signalling_id, train_service_code, power_type, timing_load, speed,
			operating_characteristics, catering_code, service_branding, atoc_code, rsid
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id`,
		s.TrainUID,
		string(byte(s.STP)),
		s.Window.From,
		s.Window.To,
		s.Window.Days.String(),
		string(s.BankHolidayRunning),
		string(s.TrainStatus),
		nullIfEmpty(s.TrainCategory),
		nullIfEmpty(s.TrainIdentity),
		nullIfEmpty(s.TrainServiceCode),
		nullIfEmpty(s.PowerType),
		nullIfEmpty(s.TimingLoad),
		nullIfEmpty(s.Speed),
		nullIfEmpty(s.OperatingCharacteristics),
		nullIfEmpty(s.CateringCode),
		nullIfEmpty(s.ServiceBranding),
		nullIfEmpty(s.ATOCCode),
		nullIfEmpty(s.RSID),
	).Scan(&scheduleID)
	if err != nil {
		return fmt.Errorf("inserting schedule %s: %w", s.TrainUID, err)
	}

	for i := range s.Journey {
		loc := &s.Journey[i]
		_, err = tx.Exec(ctx, `
			INSERT INTO schedule_location (
				schedule_id, location_type, tiploc_code,
				arrival, departure, pass, public_arrival, public_departure,
				platform, line, path, activity, location_order
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			scheduleID,
			string(byte(loc.Role)),
			loc.Tiploc,
			pgTime(loc.Arrival),
			pgTime(loc.Departure),
			pgTime(loc.Pass),
			pgTime(loc.PublicArrival),
			pgTime(loc.PublicDeparture),
			nullIfEmpty(loc.Platform),
			nullIfEmpty(loc.Line),
			nullIfEmpty(loc.Path),
			nullIfEmpty(loc.Activity),
			i+1,
		)
		if err != nil {
			return fmt.Errorf("inserting schedule location %d for %s: %w", i, s.TrainUID, err)
		}
	}
	return nil
}

// pgTime renders a timetable time as a postgres time literal, carrying the
// half minute as 30 seconds.
func pgTime(t *types.JourneyTime) *string {
	if t == nil {
		return nil
	}
	sec := 0
	if t.Half {
		sec = 30
	}
	s := fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, sec)
	return &s
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
