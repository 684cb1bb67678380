package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/pkg/geospatial"
)

// buildSchema creates the GraphQL schema wired to the planner services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	waypointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Waypoint",
		Fields: graphql.Fields{
			"seq":         &graphql.Field{Type: graphql.Int},
			"lat":         &graphql.Field{Type: graphql.Float},
			"lng":         &graphql.Field{Type: graphql.Float},
			"alt":         &graphql.Field{Type: graphql.Float},
			"speed":       &graphql.Field{Type: graphql.Float},
			"action":      &graphql.Field{Type: graphql.String},
			"description": &graphql.Field{Type: graphql.String},
		},
	})

	vehicleType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Vehicle",
		Fields: graphql.Fields{
			"max_altitude_m":     &graphql.Field{Type: graphql.Float},
			"weight_kg":          &graphql.Field{Type: graphql.Float},
			"cruise_speed_kmh":   &graphql.Field{Type: graphql.Float},
			"max_speed_kmh":      &graphql.Field{Type: graphql.Float},
			"range_km":           &graphql.Field{Type: graphql.Float},
			"climb_rate_ms":      &graphql.Field{Type: graphql.Float},
			"descent_rate_ms":    &graphql.Field{Type: graphql.Float},
			"turn_radius_m":      &graphql.Field{Type: graphql.Float},
			"takeoff_altitude_m": &graphql.Field{Type: graphql.Float},
			"cruise_altitude_m":  &graphql.Field{Type: graphql.Float},
			"landing_approach_m": &graphql.Field{Type: graphql.Float},
			"loiter_radius_m":    &graphql.Field{Type: graphql.Float},
		},
	})

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MissionSummary",
		Fields: graphql.Fields{
			"total_waypoints":           &graphql.Field{Type: graphql.Int},
			"total_distance_km":         &graphql.Field{Type: graphql.Float},
			"estimated_flight_time_min": &graphql.Field{Type: graphql.Int},
			"vehicle":                   &graphql.Field{Type: vehicleType},
		},
	})

	planType := graphql.NewObject(graphql.ObjectConfig{
		Name: "MissionPlan",
		Fields: graphql.Fields{
			"success":    &graphql.Field{Type: graphql.Boolean},
			"waypoints":  &graphql.Field{Type: graphql.NewList(waypointType)},
			"summary":    &graphql.Field{Type: summaryType},
			"fallback":   &graphql.Field{Type: graphql.Boolean},
			"diagnostic": &graphql.Field{Type: graphql.String},
		},
	})

	geocodeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeocodeResult",
		Fields: graphql.Fields{
			"name": &graphql.Field{Type: graphql.String},
			"lat":  &graphql.Field{Type: graphql.Float},
			"lng":  &graphql.Field{Type: graphql.Float},
		},
	})

	pointArg := func() graphql.FieldConfigArgument {
		return graphql.FieldConfigArgument{
			"takeoffLat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			"takeoffLng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			"takeoffAlt": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
			"missionLat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			"missionLng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			"missionAlt": &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
			"returnLat":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			"returnLng":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
			"returnAlt":  &graphql.ArgumentConfig{Type: graphql.Float, DefaultValue: 0.0},
			"prompt":     &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
		}
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"vehicle": &graphql.Field{
				Type:        vehicleType,
				Description: "The configured vehicle envelope",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Planner.Envelope(), nil
				},
			},
			"distanceKm": &graphql.Field{
				Type:        graphql.Float,
				Description: "Great-circle distance between two points",
				Args: graphql.FieldConfigArgument{
					"fromLat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"fromLng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"toLat":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"toLng":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return geospatial.HaversineKm(
						p.Args["fromLat"].(float64), p.Args["fromLng"].(float64),
						p.Args["toLat"].(float64), p.Args["toLng"].(float64),
					), nil
				},
			},
			"planMission": &graphql.Field{
				Type:        planType,
				Description: "Plan a mission from three reference points",
				Args:        pointArg(),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					req := domain.MissionRequest{
						Takeoff: domain.GeoPoint{
							Lat: p.Args["takeoffLat"].(float64),
							Lng: p.Args["takeoffLng"].(float64),
							Alt: p.Args["takeoffAlt"].(float64),
						},
						Mission: domain.GeoPoint{
							Lat: p.Args["missionLat"].(float64),
							Lng: p.Args["missionLng"].(float64),
							Alt: p.Args["missionAlt"].(float64),
						},
						Return: domain.GeoPoint{
							Lat: p.Args["returnLat"].(float64),
							Lng: p.Args["returnLng"].(float64),
							Alt: p.Args["returnAlt"].(float64),
						},
						UserPrompt: p.Args["prompt"].(string),
					}
					return deps.Planner.Plan(p.Context, req)
				},
			},
			"geocode": &graphql.Field{
				Type:        geocodeType,
				Description: "Resolve free text to coordinates",
				Args: graphql.FieldConfigArgument{
					"q": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geocode.Search(p.Context, p.Args["q"].(string))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
