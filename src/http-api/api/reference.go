package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
)

// The reference endpoints read the persisted snapshot rather than the
// in-memory timetable, so they stay available across restarts and between
// extract loads.

// GetReferenceLocations lists every location in the persisted snapshot.
func (s *APIServer) GetReferenceLocations(c *fiber.Ctx) error {
	if s.Data == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "reference store not configured"})
	}

	tiplocs, err := s.Data.GetAllTiplocs(c.Context())
	if err != nil {
		s.Logger.Warnw("reference location query failed", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "reference lookup failed"})
	}

	out := make([]LocationResponse, 0, len(tiplocs))
	for _, t := range tiplocs {
		out = append(out, LocationResponse{
			Tiploc:   t.Code,
			Crs:      t.CRS,
			FullName: t.Description,
			Stanox:   t.Stanox,
		})
	}
	return c.JSON(out)
}

// GetLocationByCRS resolves a 3-alpha station code to its location.
func (s *APIServer) GetLocationByCRS(c *fiber.Ctx) error {
	if s.Data == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "reference store not configured"})
	}
	crs := c.Params("crs")

	t, err := s.Data.GetTiplocByCRS(c.Context(), crs)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "unknown CRS " + crs})
		}
		s.Logger.Warnw("CRS lookup failed", "crs", crs, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "reference lookup failed"})
	}

	return c.JSON(LocationResponse{
		Tiploc:   t.Code,
		Crs:      t.CRS,
		FullName: t.Description,
		Stanox:   t.Stanox,
	})
}

// GetStanoxForTiploc resolves a TIPLOC to its STANOX through the redis-backed
// cache.
func (s *APIServer) GetStanoxForTiploc(c *fiber.Ctx) error {
	if s.Data == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "reference store not configured"})
	}
	tiploc := c.Params("tiploc")

	stanox, err := s.Data.GetStanoxByTiploc(c.Context(), tiploc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "unknown tiploc " + tiploc})
		}
		s.Logger.Warnw("stanox lookup failed", "tiploc", tiploc, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "reference lookup failed"})
	}

	return c.JSON(fiber.Map{"tiploc": tiploc, "stanox": stanox})
}
