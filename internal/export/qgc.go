// Package export writes planned missions in the Mission Planner / QGC WPL
// 110 waypoint-file format.
package export

import (
	"fmt"
	"io"

	"github.com/vtolops/skyplan/internal/core/domain"
)

const (
	wplHeader = "QGC WPL 110"

	// MAVLink frame/command used for plain navigation waypoints.
	frameGlobalRelativeAlt = 3
	cmdNavWaypoint         = 16
)

// WriteQGC writes the waypoint sequence as a QGC WPL 110 file. Rows are
// tab-separated: index, current, frame, command, four zero params, lat,
// lng, alt, autocontinue. The first row is marked current.
func WriteQGC(w io.Writer, wps []domain.Waypoint) error {
	if _, err := fmt.Fprintln(w, wplHeader); err != nil {
		return err
	}
	for i, wp := range wps {
		current := 0
		if i == 0 {
			current = 1
		}
		_, err := fmt.Fprintf(w, "%d\t%d\t%d\t%d\t0\t0\t0\t0\t%.7f\t%.7f\t%.2f\t1\n",
			i, current, frameGlobalRelativeAlt, cmdNavWaypoint, wp.Lat, wp.Lng, wp.Alt)
		if err != nil {
			return err
		}
	}
	return nil
}
