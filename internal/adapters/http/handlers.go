package http

import (
	"bytes"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/export"
)

var validate = validator.New()

// planPointDTO uses pointers so that absent lat/lng fields are detected
// rather than silently decoding to 0.
type planPointDTO struct {
	Lat *float64 `json:"lat" validate:"required,min=-90,max=90"`
	Lng *float64 `json:"lng" validate:"required,min=-180,max=180"`
	Alt float64  `json:"alt"`
}

type planRequestDTO struct {
	Takeoff    *planPointDTO `json:"takeoff" validate:"required"`
	Mission    *planPointDTO `json:"mission" validate:"required"`
	Return     *planPointDTO `json:"return_point" validate:"required"`
	UserPrompt string        `json:"user_prompt" validate:"max=1200"`
}

func (dto *planRequestDTO) toDomain() domain.MissionRequest {
	toPoint := func(p *planPointDTO) domain.GeoPoint {
		return domain.GeoPoint{Lat: *p.Lat, Lng: *p.Lng, Alt: p.Alt}
	}
	return domain.MissionRequest{
		Takeoff:    toPoint(dto.Takeoff),
		Mission:    toPoint(dto.Mission),
		Return:     toPoint(dto.Return),
		UserPrompt: dto.UserPrompt,
	}
}

func parsePlanRequest(c *fiber.Ctx) (*planRequestDTO, error) {
	var dto planRequestDTO
	if err := c.BodyParser(&dto); err != nil {
		return nil, errBadRequest(c, "invalid JSON body: "+err.Error())
	}
	if err := validate.Struct(&dto); err != nil {
		return nil, errBadRequest(c, "takeoff, mission and return_point must each carry lat and lng: "+err.Error())
	}
	return &dto, nil
}

func planError(c *fiber.Ctx, err error) error {
	var vErr *domain.ValidationError
	var rErr *domain.RangeExceededError
	switch {
	case errors.As(err, &vErr):
		return errBadRequest(c, vErr.Error())
	case errors.As(err, &rErr):
		return errRangeExceeded(c, rErr.Error())
	default:
		return errInternal(c, err.Error())
	}
}

// PlanMissionHandler plans a mission from three reference points and an
// optional free-text hint.
func PlanMissionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dto, err := parsePlanRequest(c)
		if err != nil {
			return err
		}

		plan, planErr := deps.Planner.Plan(c.UserContext(), dto.toDomain())
		if planErr != nil {
			return planError(c, planErr)
		}
		return c.JSON(plan)
	}
}

// ExportMissionHandler plans a mission and returns it as a Mission Planner
// QGC WPL 110 waypoint file.
func ExportMissionHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dto, err := parsePlanRequest(c)
		if err != nil {
			return err
		}

		plan, planErr := deps.Planner.Plan(c.UserContext(), dto.toDomain())
		if planErr != nil {
			return planError(c, planErr)
		}

		var buf bytes.Buffer
		if err := export.WriteQGC(&buf, plan.Waypoints); err != nil {
			return errInternal(c, err.Error())
		}

		c.Set(fiber.HeaderContentType, "text/plain; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="mission.waypoints"`)
		return c.Send(buf.Bytes())
	}
}

// VehicleHandler returns the configured vehicle envelope.
func VehicleHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(deps.Planner.Envelope())
	}
}

// GeocodeHandler resolves a free-text place query to coordinates.
func GeocodeHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "q query parameter is required")
		}
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}

		hit, err := deps.Geocode.Search(c.UserContext(), query)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "no result for query")
			}
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=86400")
		return c.JSON(hit)
	}
}
