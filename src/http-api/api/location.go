package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/railcore/cif-engine/src/common/utils"
)

// GetLocations lists every known timing point location.
func (s *APIServer) GetLocations(c *fiber.Ctx) error {
	tiplocs := s.Timetable.Tiplocs()
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

// GetLocation returns the details of one timing point location.
func (s *APIServer) GetLocation(c *fiber.Ctx) error {
	code := c.Params("tiploc")

	t, ok := s.Timetable.Tiploc(code)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "unknown tiploc " + code})
	}
	return c.JSON(LocationResponse{
		Tiploc:   t.Code,
		Crs:      t.CRS,
		FullName: t.Description,
		Stanox:   t.Stanox,
	})
}

// GetServicesAtLocation lists the services calling at a location on a date.
func (s *APIServer) GetServicesAtLocation(c *fiber.Ctx) error {
	code := c.Params("tiploc")

	date, err := parseDateQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid date, expected YYYY-MM-DD"})
	}

	key := utils.BuildLocationServicesKey(code, date.Format("20060102"))
	return s.cachedJSON(c, key, func() (interface{}, error) {
		scheds := s.Timetable.SchedulesCallingAt(code, date)
		out := make([]ServiceResponse, 0, len(scheds))
		for _, sched := range scheds {
			out = append(out, s.serviceResponse(sched))
		}
		return out, nil
	})
}
