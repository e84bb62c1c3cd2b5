package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gekko3d/motionblur/geom"
)

// BoxJSON is a box in JSON output.
type BoxJSON struct {
	Min [3]float64 `json:"min"`
	Max [3]float64 `json:"max"`
}

// EntityJSON is one entity line in JSON output.
type EntityJSON struct {
	Name   string  `json:"name"`
	Still  bool    `json:"still"`
	Bounds BoxJSON `json:"bounds"`
}

// ReportJSON is the JSON document the bounds and at commands print.
type ReportJSON struct {
	Time     *float64     `json:"time,omitempty"`
	Entities []EntityJSON `json:"entities"`
	Scene    *BoxJSON     `json:"scene,omitempty"`
}

func toBoxJSON(b geom.Box) BoxJSON {
	return BoxJSON{Min: [3]float64(b.Min), Max: [3]float64(b.Max)}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// clean rounds values that would print as -0.0000 to zero.
func clean(v float64) float64 {
	if math.Abs(v) < 5e-5 {
		return 0
	}
	return v
}

func formatVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", clean(v[0]), clean(v[1]), clean(v[2]))
}

func formatBox(b geom.Box) string {
	if b.IsEmpty() {
		return "empty"
	}
	return fmt.Sprintf("min=%s max=%s", formatVec(b.Min), formatVec(b.Max))
}
