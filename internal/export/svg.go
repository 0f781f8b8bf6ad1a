package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/rootsim/internal/kepler"
)

// OrbitToSVG draws the propagated path as a polyline with the focus (the
// origin) marked. Both axes share one scale so the ellipse keeps its shape.
func OrbitToSVG(points []kepler.Point, width, height int, strokeColor string) string {
	if len(points) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	// The focus is always in frame.
	minX, maxX := 0.0, 0.0
	minY, maxY := 0.0, 0.0
	for _, p := range points {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	pad := span * 0.1
	span += 2 * pad
	scale := math.Min(float64(width), float64(height)) / span

	cx := (minX + maxX) / 2
	cy := (minY + maxY) / 2
	toScreen := func(x, y float64) (float64, float64) {
		return float64(width)/2 + (x-cx)*scale, float64(height)/2 - (y-cy)*scale
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor))

	for i, p := range points {
		x, y := toScreen(p.X, p.Y)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}

	fx, fy := toScreen(0, 0)
	sb.WriteString(fmt.Sprintf(`"/>
<circle cx="%.1f" cy="%.1f" r="4" fill="#ffcc00"/>
</svg>`, fx, fy))
	return sb.String()
}
