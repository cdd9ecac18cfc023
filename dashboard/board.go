package dashboard

import (
	"sync"
	"time"

	"weather-dashboard/models"
	"weather-dashboard/render"
)

// Board holds the latest view of every region in memory
type Board struct {
	data  render.Snapshot
	mutex sync.RWMutex
	now   func() time.Time
}

// NewBoard creates an empty board
func NewBoard() *Board {
	return &Board{now: time.Now}
}

// SetQuery records the city and unit the views belong to
func (b *Board) SetQuery(q models.QueryContext) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	b.data.Query = q
}

// ShowCurrent replaces the current conditions panel
func (b *Board) ShowCurrent(view render.CurrentView) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.data.Current = render.Slot[*render.CurrentView]{View: &view, UpdatedAt: b.now()}
}

// ShowForecast replaces the daily forecast cards
func (b *Board) ShowForecast(cards []render.ForecastCard) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	cp := make([]render.ForecastCard, len(cards))
	copy(cp, cards)
	b.data.Forecast = render.Slot[[]render.ForecastCard]{View: cp, UpdatedAt: b.now()}
}

// ShowHourly replaces the hourly chart data
func (b *Board) ShowHourly(chart render.HourlyChart) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	chart = copyChart(chart)
	b.data.Hourly = render.Slot[*render.HourlyChart]{View: &chart, UpdatedAt: b.now()}
}

// ShowAirQuality replaces the air quality panel
func (b *Board) ShowAirQuality(view render.AirQualityView) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	view.Pollutants = append([]render.Pollutant(nil), view.Pollutants...)
	b.data.AirQuality = render.Slot[*render.AirQualityView]{View: &view, UpdatedAt: b.now()}
}

// ShowFavorites replaces the favorites list and updates the star on the current view
func (b *Board) ShowFavorites(cities []string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	cp := make([]string, len(cities))
	copy(cp, cities)
	b.data.Favorites = render.Slot[[]string]{View: cp, UpdatedAt: b.now()}

	if cur := b.data.Current.View; cur != nil {
		updated := *cur
		updated.IsFavorite = contains(cp, cur.Name)
		b.data.Current.View = &updated
	}
}

// ShowError replaces a region's content with a message
func (b *Board) ShowError(region Region, message string) {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	now := b.now()
	switch region {
	case RegionCurrent:
		b.data.Current = render.Slot[*render.CurrentView]{Error: message, UpdatedAt: now}
	case RegionForecast:
		b.data.Forecast = render.Slot[[]render.ForecastCard]{Error: message, UpdatedAt: now}
	case RegionHourly:
		b.data.Hourly = render.Slot[*render.HourlyChart]{Error: message, UpdatedAt: now}
	case RegionAirQuality:
		b.data.AirQuality = render.Slot[*render.AirQualityView]{Error: message, UpdatedAt: now}
	case RegionFavorites:
		b.data.Favorites = render.Slot[[]string]{Error: message, UpdatedAt: now}
	}
}

// Snapshot returns a deep copy of every region
func (b *Board) Snapshot() render.Snapshot {
	b.mutex.RLock()
	defer b.mutex.RUnlock()

	snap := b.data
	if v := b.data.Current.View; v != nil {
		cp := *v
		snap.Current.View = &cp
	}
	if b.data.Forecast.View != nil {
		snap.Forecast.View = append([]render.ForecastCard(nil), b.data.Forecast.View...)
	}
	if v := b.data.Hourly.View; v != nil {
		cp := copyChart(*v)
		snap.Hourly.View = &cp
	}
	if v := b.data.AirQuality.View; v != nil {
		cp := *v
		cp.Pollutants = append([]render.Pollutant(nil), v.Pollutants...)
		snap.AirQuality.View = &cp
	}
	if b.data.Favorites.View != nil {
		snap.Favorites.View = append([]string{}, b.data.Favorites.View...)
	}
	return snap
}

func copyChart(c render.HourlyChart) render.HourlyChart {
	return render.HourlyChart{
		Labels:       append([]string(nil), c.Labels...),
		Temperatures: append([]int(nil), c.Temperatures...),
		SeriesLabel:  c.SeriesLabel,
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var _ Display = (*Board)(nil)
