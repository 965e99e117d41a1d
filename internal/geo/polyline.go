package geo

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/wingsmith/nacawing/pkg/core"
)

// ParsePolyline parses a JSON array of coordinates into a core.Polyline.
// Input format: "[[x1,z1],[x2,z2],...]"
func ParsePolyline(input string) (core.Polyline, error) {
	var coords [][]float64
	if err := json.Unmarshal([]byte(input), &coords); err != nil {
		return nil, fmt.Errorf("failed to parse polyline JSON: %w", err)
	}

	if len(coords) < 2 {
		return nil, fmt.Errorf("polyline must have at least 2 points, got %d", len(coords))
	}

	polyline := make(core.Polyline, len(coords))
	for i, coord := range coords {
		if len(coord) < 2 {
			return nil, fmt.Errorf("coordinate %d has insufficient values", i)
		}
		polyline[i] = core.Position2D{X: coord[0], Z: coord[1]}
	}

	return polyline, nil
}

// MaxDeviation returns the largest point-to-point distance between an outline and a
// reference polyline of the same length, and the index where it occurs.
func MaxDeviation(o core.Outline, ref core.Polyline) (dev float64, at int, err error) {
	if o.Len() != len(ref) {
		return 0, 0, fmt.Errorf("outline has %d points, reference has %d", o.Len(), len(ref))
	}
	for i, r := range ref {
		p := o.Point(i)
		if d := math.Hypot(p.X-r.X, p.Z-r.Z); d > dev {
			dev, at = d, i
		}
	}
	return dev, at, nil
}
