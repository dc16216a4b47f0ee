// Package badge renders self-contained SVG progress badges for conformance
// percentages.
package badge

import (
	"fmt"
	"strconv"
)

// Canvas size of the rendered badge, in pixels.
const (
	Width  = 120
	Height = 20
)

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Color maps a percentage to a hex color triplet on a smooth gradient from
// red (0%) through orange (60%) to green (100%). Out-of-range input is
// clamped.
func Color(pct float64) string {
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}

	var r, g, b float64
	if pct < 60 {
		t := pct / 60
		r = lerp(180, 200, t)
		g = lerp(60, 140, t)
		b = 55
	} else {
		t := (pct - 60) / 40
		r = lerp(200, 68, t)
		g = lerp(140, 148, t)
		b = lerp(55, 68, t)
	}
	return fmt.Sprintf("#%02x%02x%02x", int(r), int(g), int(b))
}

// Render returns a progress badge showing the pass percentage and the
// literal passing/total counts. When nothing passes, the badge shows a fixed
// "NA" state on a full-width low-score bar instead of a deceptively
// valid-looking 0% one; this also covers empty categories without dividing
// by zero.
func Render(passing, total int) string {
	if passing == 0 || total == 0 {
		text := fmt.Sprintf("NA (%d/%d)", passing, total)
		return render(Width, Color(10), text)
	}

	pct := float64(passing) / float64(total) * 100
	text := fmt.Sprintf("%.1f%% (%d/%d)", pct, passing, total)
	return render(Width*pct/100, Color(pct), text)
}

// RenderPercent returns a progress badge showing just the percentage. It is
// used where pass/total counts aren't available, e.g. fixed-total summary
// badges.
func RenderPercent(pct float64) string {
	return render(Width*pct/100, Color(pct), fmt.Sprintf("%.1f%%", pct))
}

func render(barWidth float64, color, text string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">
  <rect width="%d" height="%d" rx="3" fill="#555"/>
  <rect width="%s" height="%d" rx="3" fill="%s"/>
  <rect width="%d" height="%d" rx="3" fill="url(#g)"/>
  <defs>
    <linearGradient id="g" x2="0" y2="100%%">
      <stop offset="0" stop-color="#bbb" stop-opacity=".1"/>
      <stop offset="1" stop-opacity=".1"/>
    </linearGradient>
  </defs>
  <g fill="#fff" text-anchor="middle" font-family="DejaVu Sans,Verdana,Geneva,sans-serif" font-size="11">
    <text x="%d" y="15" fill="#010101" fill-opacity=".3">%s</text>
    <text x="%d" y="14">%s</text>
  </g>
</svg>`,
		Width, Height,
		Width, Height,
		strconv.FormatFloat(barWidth, 'f', -1, 64), Height, color,
		Width, Height,
		Width/2, text,
		Width/2, text,
	)
}
