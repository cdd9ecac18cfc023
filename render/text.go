package render

import (
	"fmt"
	"io"
	"strings"
)

// Text writes a plain-text report of the snapshot, one section per region.
// Regions that were never written are skipped.
func Text(w io.Writer, snap Snapshot) error {
	var b strings.Builder

	if !snap.Current.Empty() {
		b.WriteString("Current weather\n")
		switch {
		case snap.Current.Error != "":
			fmt.Fprintf(&b, "  %s\n", snap.Current.Error)
		case snap.Current.View != nil:
			v := snap.Current.View
			star := ""
			if v.IsFavorite {
				star = " ★"
			}
			fmt.Fprintf(&b, "  %s%s\n", v.Title, star)
			fmt.Fprintf(&b, "  %s, %s (H: %s L: %s)\n", v.Temperature, v.Description, v.High, v.Low)
			fmt.Fprintf(&b, "  Feels like %s | Humidity %s | Wind %s | Visibility %s\n", v.FeelsLike, v.Humidity, v.Wind, v.Visibility)
		}
	}

	if !snap.Forecast.Empty() {
		b.WriteString("\n5-day forecast\n")
		if snap.Forecast.Error != "" {
			fmt.Fprintf(&b, "  %s\n", snap.Forecast.Error)
		}
		for _, c := range snap.Forecast.View {
			fmt.Fprintf(&b, "  %s %-6s %5s  H: %s L: %s  %s\n", c.Day, c.Date, c.Temperature, c.High, c.Low, c.Description)
		}
	}

	if !snap.Hourly.Empty() {
		switch {
		case snap.Hourly.Error != "":
			fmt.Fprintf(&b, "\nHourly\n  %s\n", snap.Hourly.Error)
		case snap.Hourly.View != nil:
			h := snap.Hourly.View
			fmt.Fprintf(&b, "\nHourly %s\n", h.SeriesLabel)
			for i, label := range h.Labels {
				fmt.Fprintf(&b, "  %5s  %d\n", label, h.Temperatures[i])
			}
		}
	}

	if !snap.AirQuality.Empty() {
		b.WriteString("\nAir quality\n")
		switch {
		case snap.AirQuality.Error != "":
			fmt.Fprintf(&b, "  %s\n", snap.AirQuality.Error)
		case snap.AirQuality.View != nil:
			a := snap.AirQuality.View
			fmt.Fprintf(&b, "  %s: %s\n", a.Level, a.Description)
			for _, p := range a.Pollutants {
				fmt.Fprintf(&b, "  %-5s %s\n", p.Label, p.Value)
			}
		}
	}

	if !snap.Favorites.Empty() {
		b.WriteString("\nFavorites\n")
		if len(snap.Favorites.View) == 0 {
			b.WriteString("  (none)\n")
		}
		for _, city := range snap.Favorites.View {
			fmt.Fprintf(&b, "  %s\n", city)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
