package api

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/railcore/cif-engine/src/common/types"
)

const dateLayout = "2006-01-02"

// parseDateQuery reads the date query parameter, defaulting to today.
func parseDateQuery(c *fiber.Ctx) (time.Time, error) {
	raw := c.Query("date")
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(dateLayout, raw)
}

// cachedJSON serves a response out of redis when present, otherwise builds
// it, caches it, and serves it. Build errors are never cached.
func (s *APIServer) cachedJSON(c *fiber.Ctx, key string, build func() (interface{}, error)) error {
	ctx := context.Background()

	if s.Redis != nil && s.CacheTTL > 0 {
		cached, err := s.Redis.Get(ctx, key).Bytes()
		if err == nil {
			c.Set("Content-Type", "application/json")
			return c.Send(cached)
		}
		if err != redis.Nil {
			s.Logger.Debugw("redis cache read failed", "key", key, "error", err)
		}
	}

	payload, err := build()
	if err != nil {
		return err
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	if s.Redis != nil && s.CacheTTL > 0 {
		if err := s.Redis.Set(ctx, key, body, s.CacheTTL).Err(); err != nil {
			s.Logger.Debugw("redis cache write failed", "key", key, "error", err)
		}
	}

	c.Set("Content-Type", "application/json")
	return c.Send(body)
}

func (s *APIServer) serviceResponse(sched *types.Schedule) ServiceResponse {
	resp := ServiceResponse{
		TrainUID:         sched.TrainUID,
		TrainIdentity:    sched.TrainIdentity,
		TrainCategory:    sched.TrainCategory,
		TrainServiceCode: sched.TrainServiceCode,
		Operator:         sched.ATOCCode,
		RSID:             sched.RSID,
		PowerType:        sched.PowerType,
		Speed:            sched.Speed,
		StpIndicator:     string(byte(sched.STP)),
		Cancelled:        sched.STP == types.STPCancellation,
		RunsFrom:         sched.Window.From.Format(dateLayout),
		RunsTo:           sched.Window.To.Format(dateLayout),
		DaysRun:          sched.Window.Days.String(),
	}

	for i := range sched.Journey {
		loc := &sched.Journey[i]
		sl := ScheduleLocation{
			Type:            string(byte(loc.Role)),
			Tiploc:          loc.Tiploc,
			Arrival:         formatTime(loc.Arrival),
			Departure:       formatTime(loc.Departure),
			Pass:            formatTime(loc.Pass),
			PublicArrival:   formatTime(loc.PublicArrival),
			PublicDeparture: formatTime(loc.PublicDeparture),
			Platform:        loc.Platform,
			Line:            loc.Line,
			Path:            loc.Path,
			Activity:        loc.Activity,
		}
		if t, ok := s.Timetable.Tiploc(loc.Tiploc); ok {
			if t.CRS != "" {
				crs := t.CRS
				sl.Crs = &crs
			}
			if t.Description != "" {
				name := t.Description
				sl.FullName = &name
			}
		}
		resp.Locations = append(resp.Locations, sl)
	}
	return resp
}

func formatTime(t *types.JourneyTime) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}
