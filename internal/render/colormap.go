package render

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/gogpu/gg"

	apperrors "surfviz/internal/errors"
)

// ColorFunc maps a normalized value in [0, 1] to a color.
type ColorFunc func(t float64) gg.RGBA

// Anchor colors sampled at nine evenly spaced points of each map.
var colormaps = map[string][]string{
	"viridis": {
		"#440154", "#482878", "#3e4989", "#31688e", "#26828e",
		"#1f9e89", "#35b779", "#6ece58", "#fde725",
	},
	"cividis": {
		"#00224e", "#123570", "#3b496c", "#575d6d", "#707173",
		"#8a8678", "#a59c74", "#c3b369", "#fee838",
	},
	"magma": {
		"#000004", "#1c1044", "#4f127b", "#812581", "#b5367a",
		"#e55064", "#fb8761", "#fec287", "#fcfdbf",
	},
}

// Colormaps lists the available colormap names.
func Colormaps() []string {
	names := make([]string, 0, len(colormaps))
	for name := range colormaps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Colormap returns the named perceptually uniform colormap. An empty name
// selects viridis.
func Colormap(name string) (ColorFunc, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		key = "viridis"
	}
	hexes, ok := colormaps[key]
	if !ok {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("unknown colormap %q (available: %s)", name, strings.Join(Colormaps(), ", ")), nil)
	}

	anchors := make([]gg.RGBA, len(hexes))
	for i, h := range hexes {
		anchors[i] = gg.Hex(h)
	}

	return func(t float64) gg.RGBA {
		if math.IsNaN(t) {
			t = 0
		}
		t = math.Max(0, math.Min(1, t))
		pos := t * float64(len(anchors)-1)
		i := int(pos)
		if i >= len(anchors)-1 {
			return anchors[len(anchors)-1]
		}
		return anchors[i].Lerp(anchors[i+1], pos-float64(i))
	}, nil
}
