package api

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/railcore/cif-engine/src/common/utils"
)

// GetServiceSchedules returns every stored schedule variant for a train UID.
func (s *APIServer) GetServiceSchedules(c *fiber.Ctx) error {
	uid := c.Params("uid")

	scheds := s.Timetable.SchedulesFor(uid)
	if len(scheds) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "no schedules for train UID " + uid})
	}

	out := make([]ServiceResponse, 0, len(scheds))
	for _, sched := range scheds {
		out = append(out, s.serviceResponse(sched))
	}
	return c.JSON(out)
}

// GetActiveService resolves the schedule running for a train UID on a date,
// applying short term planning precedence.
func (s *APIServer) GetActiveService(c *fiber.Ctx) error {
	uid := c.Params("uid")

	date, err := parseDateQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid date, expected YYYY-MM-DD"})
	}

	key := utils.BuildScheduleKey(uid, date.Format("20060102"))
	return s.cachedJSON(c, key, func() (interface{}, error) {
		sched, err := s.Timetable.ActiveOn(uid, date)
		if err != nil {
			s.Logger.Warnw("schedule resolution failed", "uid", uid, "date", date, "error", err)
			return nil, fiber.NewError(fiber.StatusConflict, err.Error())
		}
		if sched == nil {
			return nil, fiber.NewError(fiber.StatusNotFound,
				fmt.Sprintf("train %s does not run on %s", uid, date.Format(dateLayout)))
		}
		return s.serviceResponse(sched), nil
	})
}

// GetActiveServices lists every service running on a date. Cancelled trains
// are excluded.
func (s *APIServer) GetActiveServices(c *fiber.Ctx) error {
	date, err := parseDateQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid date, expected YYYY-MM-DD"})
	}

	scheds := s.Timetable.ActiveSchedules(date)
	out := make([]ServiceResponse, 0, len(scheds))
	for _, sched := range scheds {
		out = append(out, s.serviceResponse(sched))
	}
	return c.JSON(out)
}

// GetServiceAssociations lists the associations involving a train UID.
func (s *APIServer) GetServiceAssociations(c *fiber.Ctx) error {
	uid := c.Params("uid")

	assocs := s.Timetable.AssociationsFor(uid)
	out := make([]AssociationResponse, 0, len(assocs))
	for _, a := range assocs {
		out = append(out, AssociationResponse{
			MainTrainUID:  a.MainTrainUID,
			AssocTrainUID: a.AssocTrainUID,
			Category:      a.Category,
			Location:      a.Location,
			StpIndicator:  string(byte(a.STP)),
			StartDate:     a.Window.From.Format(dateLayout),
			EndDate:       a.Window.To.Format(dateLayout),
			DaysRun:       a.Window.Days.String(),
		})
	}
	return c.JSON(out)
}
