package analytics

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/openchess/stats-api/internal/models"
)

// viridisStops are the eleven evenly spaced anchor colors of the viridis map.
var viridisStops = mustParseStops(
	"#440154", "#482475", "#414487", "#355f8d", "#2a788e",
	"#21918c", "#22a884", "#44bf70", "#7ad151", "#bddf26", "#fde725",
)

func mustParseStops(hex ...string) []colorful.Color {
	out := make([]colorful.Color, len(hex))
	for i, h := range hex {
		c, err := colorful.Hex(h)
		if err != nil {
			panic(err)
		}
		out[i] = c
	}
	return out
}

// viridisAt samples the palette at t in [0, 1], blending neighboring stops in
// CIE-L*a*b* space.
func viridisAt(t float64) colorful.Color {
	if t <= 0 {
		return viridisStops[0]
	}
	last := len(viridisStops) - 1
	if t >= 1 {
		return viridisStops[last]
	}
	pos := t * float64(last)
	i := int(pos)
	return viridisStops[i].BlendLab(viridisStops[i+1], pos-float64(i)).Clamped()
}

// ClusterColors returns k colors sampled at (i+1)/(k+1) along viridis, so the
// ends of the map are never used and the same k always gives the same list.
func ClusterColors(k int) []models.ClusterColor {
	out := make([]models.ClusterColor, k)
	for i := 0; i < k; i++ {
		t := float64(i+1) / float64(k+1)
		out[i] = models.ClusterColor{Cluster: i, Hex: viridisAt(t).Hex()}
	}
	return out
}
