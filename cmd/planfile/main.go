// planfile plans a mission offline and writes it as a Mission Planner
// QGC WPL 110 waypoint file. The inference path is never used here; output
// is always deterministic synthesis against the configured envelope.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/vtolops/skyplan/internal/core/domain"
	"github.com/vtolops/skyplan/internal/core/usecases"
	"github.com/vtolops/skyplan/internal/export"
	"github.com/vtolops/skyplan/internal/pkg/config"
)

func main() {
	var (
		takeoffFlag = flag.String("takeoff", "", "takeoff point as lat,lng[,alt]")
		missionFlag = flag.String("mission", "", "mission point as lat,lng[,alt]")
		returnFlag  = flag.String("return", "", "return point as lat,lng[,alt]")
		promptFlag  = flag.String("prompt", "", "optional mission hint")
		countFlag   = flag.Int("waypoints", 16, "target waypoint count (8-24)")
		outFlag     = flag.String("o", "mission.waypoints", "output file")
	)
	flag.Parse()

	takeoff, err := parsePoint(*takeoffFlag)
	if err != nil {
		log.Fatalf("-takeoff: %v", err)
	}
	mission, err := parsePoint(*missionFlag)
	if err != nil {
		log.Fatalf("-mission: %v", err)
	}
	ret, err := parsePoint(*returnFlag)
	if err != nil {
		log.Fatalf("-return: %v", err)
	}

	cfg, err := config.Load("skyplan-planfile")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	planner := usecases.NewPlannerService(cfg.Vehicle, nil, nil, *countFlag)
	plan, err := planner.Plan(context.Background(), domain.MissionRequest{
		Takeoff:    takeoff,
		Mission:    mission,
		Return:     ret,
		UserPrompt: *promptFlag,
	})
	if err != nil {
		log.Fatalf("plan: %v", err)
	}

	f, err := os.Create(*outFlag)
	if err != nil {
		log.Fatalf("create %s: %v", *outFlag, err)
	}
	defer f.Close()

	if err := export.WriteQGC(f, plan.Waypoints); err != nil {
		log.Fatalf("write: %v", err)
	}

	log.Printf("exported %d waypoints (%.2f km, ~%d min) to %s",
		len(plan.Waypoints), plan.Summary.TotalDistanceKm,
		plan.Summary.EstimatedFlightTimeMin, *outFlag)
}

func parsePoint(s string) (domain.GeoPoint, error) {
	if s == "" {
		return domain.GeoPoint{}, fmt.Errorf("required, format lat,lng[,alt]")
	}
	parts := strings.Split(s, ",")
	if len(parts) < 2 || len(parts) > 3 {
		return domain.GeoPoint{}, fmt.Errorf("want lat,lng[,alt], got %q", s)
	}
	var vals [3]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return domain.GeoPoint{}, fmt.Errorf("bad number %q", p)
		}
		vals[i] = v
	}
	return domain.GeoPoint{Lat: vals[0], Lng: vals[1], Alt: vals[2]}, nil
}
