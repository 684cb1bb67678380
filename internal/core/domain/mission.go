package domain

// ActionKind identifies the flight behavior at a waypoint.
type ActionKind string

const (
	ActionTakeoff        ActionKind = "TAKEOFF"
	ActionVTOLTransition ActionKind = "VTOL_TRANSITION"
	ActionLoiterToAlt    ActionKind = "LOITER_TO_ALT"
	ActionWaypoint       ActionKind = "WAYPOINT"
	ActionMission        ActionKind = "MISSION"
	ActionLand           ActionKind = "LAND"
	ActionRTL            ActionKind = "RTL"
)

// Waypoint is a single ordered step in a planned mission. Seq is contiguous
// and ascending from 1 within one mission.
type Waypoint struct {
	Seq         int        `json:"seq"`
	Lat         float64    `json:"lat"`
	Lng         float64    `json:"lng"`
	Alt         float64    `json:"alt"`   // meters AGL
	Speed       float64    `json:"speed"` // km/h
	Action      ActionKind `json:"action"`
	Description string     `json:"description"`
}

// VehicleEnvelope is the immutable constraint set of the aircraft. It is
// loaded from configuration once at startup and read-only afterwards.
type VehicleEnvelope struct {
	MaxAltitudeM     float64 `json:"max_altitude_m" mapstructure:"max_altitude_m"`
	WeightKg         float64 `json:"weight_kg" mapstructure:"weight_kg"`
	CruiseSpeedKmh   float64 `json:"cruise_speed_kmh" mapstructure:"cruise_speed_kmh"`
	MaxSpeedKmh      float64 `json:"max_speed_kmh" mapstructure:"max_speed_kmh"`
	RangeKm          float64 `json:"range_km" mapstructure:"range_km"`
	ClimbRateMs      float64 `json:"climb_rate_ms" mapstructure:"climb_rate_ms"`
	DescentRateMs    float64 `json:"descent_rate_ms" mapstructure:"descent_rate_ms"`
	TurnRadiusM      float64 `json:"turn_radius_m" mapstructure:"turn_radius_m"`
	TakeoffAltitudeM float64 `json:"takeoff_altitude_m" mapstructure:"takeoff_altitude_m"`
	CruiseAltitudeM  float64 `json:"cruise_altitude_m" mapstructure:"cruise_altitude_m"`
	LandingApproachM float64 `json:"landing_approach_m" mapstructure:"landing_approach_m"`
	LoiterRadiusM    float64 `json:"loiter_radius_m" mapstructure:"loiter_radius_m"`
}

// MissionRequest carries the three reference points and the free-text hint
// for one planning request.
type MissionRequest struct {
	Takeoff    GeoPoint `json:"takeoff"`
	Mission    GeoPoint `json:"mission"`
	Return     GeoPoint `json:"return_point"`
	UserPrompt string   `json:"user_prompt,omitempty"`
}

// MissionSummary aggregates distance and flight-time estimates over a
// finalized waypoint sequence.
type MissionSummary struct {
	TotalWaypoints         int             `json:"total_waypoints"`
	TotalDistanceKm        float64         `json:"total_distance_km"`
	EstimatedFlightTimeMin int             `json:"estimated_flight_time_min"`
	Vehicle                VehicleEnvelope `json:"vehicle"`
}

// MissionPlan is the planner's response: an ordered waypoint sequence plus
// its summary. Fallback is true when deterministic synthesis produced the
// waypoints instead of the inference service. Diagnostic carries truncated
// inference output or error text for operators and is not part of the
// contract.
type MissionPlan struct {
	Success    bool           `json:"success"`
	Waypoints  []Waypoint     `json:"waypoints"`
	Summary    MissionSummary `json:"summary"`
	Fallback   bool           `json:"fallback"`
	Diagnostic string         `json:"diagnostic,omitempty"`
}

// MaxPromptLen bounds the free-text mission hint.
const MaxPromptLen = 1200
