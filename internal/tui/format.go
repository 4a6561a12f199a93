package tui

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
)

// formatPace renders seconds-per-km as m:ss
func formatPace(secPerKm float64) string {
	if secPerKm <= 0 {
		return "-"
	}
	total := int(secPerKm + 0.5)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// formatPaceWithUnit renders seconds-per-km as m:ss /km
func formatPaceWithUnit(secPerKm float64) string {
	p := formatPace(secPerKm)
	if p == "-" {
		return p
	}
	return p + " /km"
}

// formatPaceBand renders a zone's bounds, leaving open edges open
func formatPaceBand(slowSec, fastSec float64) string {
	switch {
	case slowSec == 0:
		return "slower than " + formatPace(fastSec)
	case fastSec == 0:
		return "faster than " + formatPace(slowSec)
	default:
		return formatPace(slowSec) + " - " + formatPace(fastSec)
	}
}

// formatDistance renders meters as kilometers
func formatDistance(meters float64) string {
	return fmt.Sprintf("%.1f km", meters/1000)
}

// formatDuration renders seconds as h m
func formatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// formatWhen renders a timestamp relative to now ("3 days ago")
func formatWhen(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}

func truncateName(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
