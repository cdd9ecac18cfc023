// Package dashboard coordinates weather lookups and writes the results to a
// Display.
//
// Every lookup bumps a generation counter and cancels the lookup before it.
// A view is written only while its lookup is still the newest one, so a slow
// response for an old city can never overwrite the city the user asked for
// last.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"weather-dashboard/datasource"
	"weather-dashboard/favorites"
	"weather-dashboard/geo"
	"weather-dashboard/logger"
	"weather-dashboard/metrics"
	"weather-dashboard/models"
	"weather-dashboard/render"
)

// DefaultCity is looked up when the dashboard starts without one
const DefaultCity = "London"

// Dashboard owns the query state and drives the display
type Dashboard struct {
	source  datasource.WeatherSource
	store   *favorites.Store
	display Display
	locator geo.Locator
	log     *zap.SugaredLogger
	metrics *metrics.Collector

	mu         sync.Mutex
	state      models.QueryContext
	generation uint64
	cancel     context.CancelFunc
}

// Option configures a Dashboard
type Option func(*Dashboard)

// WithLocator enables lookups by device position
func WithLocator(l geo.Locator) Option {
	return func(d *Dashboard) {
		d.locator = l
	}
}

// WithLogger sets the logger; the default discards everything
func WithLogger(l *zap.SugaredLogger) Option {
	return func(d *Dashboard) {
		d.log = l
	}
}

// WithMetrics records view errors and dropped results
func WithMetrics(c *metrics.Collector) Option {
	return func(d *Dashboard) {
		d.metrics = c
	}
}

// WithUnit sets the initial unit system
func WithUnit(u models.Unit) Option {
	return func(d *Dashboard) {
		d.state.Unit = u
	}
}

// New creates a dashboard in metric units with no active city
func New(source datasource.WeatherSource, store *favorites.Store, display Display, opts ...Option) *Dashboard {
	d := &Dashboard{
		source:  source,
		store:   store,
		display: display,
		state:   models.QueryContext{Unit: models.Metric},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.log = logger.OrNop(d.log)
	d.display.SetQuery(d.state)
	return d
}

// State returns a copy of the current query context
func (d *Dashboard) State() models.QueryContext {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

type query struct {
	ctx  context.Context
	gen  uint64
	city string
	unit models.Unit
}

// begin makes city the active query and cancels the one before it
func (d *Dashboard) begin(ctx context.Context, city string) (query, context.CancelFunc) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.cancel != nil {
		d.cancel()
	}
	d.generation++
	d.state.City = city
	qctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	d.display.SetQuery(d.state)

	return query{ctx: qctx, gen: d.generation, city: city, unit: d.state.Unit}, cancel
}

func (d *Dashboard) finish(q query, cancel context.CancelFunc) {
	cancel()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.generation == q.gen {
		d.cancel = nil
	}
}

// apply runs show only while gen is the newest query. The lock is held
// across the write so a newer query cannot start in between.
func (d *Dashboard) apply(gen uint64, show func(Display)) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.generation {
		d.metrics.RecordStaleResult()
		return false
	}
	show(d.display)
	return true
}

// abandon ends a query whose context is done without touching the display.
// A newer query yields ErrSuperseded; otherwise the caller's context error
// is returned.
func (d *Dashboard) abandon(ctx context.Context, gen uint64) error {
	if d.currentGeneration() != gen {
		d.metrics.RecordStaleResult()
		return ErrSuperseded
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return context.Canceled
}

func (d *Dashboard) currentGeneration() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// GetWeather looks up city and renders current conditions, then the forecast
// and air quality for its coordinates. It returns a *ViewError when current
// conditions could not be loaded and ErrSuperseded when a newer lookup
// started before anything was rendered. Forecast and air quality failures
// are rendered in their regions and do not fail the call.
func (d *Dashboard) GetWeather(ctx context.Context, city string) error {
	q, cancel := d.begin(ctx, city)
	defer d.finish(q, cancel)

	current, err := d.source.CurrentWeather(q.ctx, city, q.unit)
	if err != nil {
		if q.ctx.Err() != nil {
			return d.abandon(ctx, q.gen)
		}
		if !d.apply(q.gen, func(disp Display) { disp.ShowError(RegionCurrent, MsgCityNotFound) }) {
			return ErrSuperseded
		}
		d.log.Warnw("Failed to fetch current weather", "city", city, "unit", q.unit, "error", err)
		d.metrics.RecordViewError(string(RegionCurrent))
		return &ViewError{Region: RegionCurrent, Message: MsgCityNotFound, Err: err}
	}

	if _, err := d.store.SaveToRecent(ctx, city); err != nil {
		d.log.Warnw("Failed to save recent city", "city", city, "error", err)
		d.metrics.RecordStoreError("save_recent")
	}

	isFavorite, err := d.store.IsFavorite(q.ctx, current.Name)
	if err != nil {
		d.log.Warnw("Failed to read favorites", "error", err)
		d.metrics.RecordStoreError("is_favorite")
	}

	view := render.Current(current, q.unit, isFavorite)
	if !d.apply(q.gen, func(disp Display) { disp.ShowCurrent(view) }) {
		return ErrSuperseded
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		d.loadForecast(q, current.Coordinates)
	}()
	go func() {
		defer wg.Done()
		d.loadAirQuality(q, current.Coordinates)
	}()
	wg.Wait()

	return nil
}

func (d *Dashboard) loadForecast(q query, coords models.Coordinates) {
	forecast, err := d.source.Forecast(q.ctx, coords, q.unit)
	if err != nil {
		if q.ctx.Err() != nil {
			return
		}
		shown := d.apply(q.gen, func(disp Display) {
			disp.ShowError(RegionForecast, MsgForecastUnavailable)
			disp.ShowError(RegionHourly, MsgForecastUnavailable)
		})
		if shown {
			d.log.Warnw("Failed to fetch forecast", "city", q.city, "error", err)
			d.metrics.RecordViewError(string(RegionForecast))
		}
		return
	}

	loc := forecast.Location()
	cards := render.Forecast(forecast.Entries, q.unit, loc)
	chart := render.Hourly(forecast.Entries, q.unit, loc)
	d.apply(q.gen, func(disp Display) {
		disp.ShowForecast(cards)
		disp.ShowHourly(chart)
	})
}

func (d *Dashboard) loadAirQuality(q query, coords models.Coordinates) {
	air, err := d.source.AirPollution(q.ctx, coords)
	if err != nil {
		if q.ctx.Err() != nil {
			return
		}
		shown := d.apply(q.gen, func(disp Display) { disp.ShowError(RegionAirQuality, MsgAirQualityUnavailable) })
		if shown {
			d.log.Warnw("Failed to fetch air quality", "city", q.city, "error", err)
			d.metrics.RecordViewError(string(RegionAirQuality))
		}
		return
	}

	if _, ok := models.LevelForAQI(air.AQI); !ok {
		d.log.Warnw("Air quality index out of range", "city", q.city, "aqi", air.AQI)
	}

	view := render.AirQuality(air)
	d.apply(q.gen, func(disp Display) { disp.ShowAirQuality(view) })
}

// ToggleUnit flips the unit system and, when a city is active, looks it up
// again in the new unit. It returns the new unit.
func (d *Dashboard) ToggleUnit(ctx context.Context) (models.Unit, error) {
	d.mu.Lock()
	d.state.Unit = d.state.Unit.Toggle()
	state := d.state
	d.display.SetQuery(state)
	d.mu.Unlock()

	if state.City == "" {
		return state.Unit, nil
	}
	return state.Unit, d.GetWeather(ctx, state.City)
}

// GetWeatherByLocation resolves the device position to a city name and
// looks it up. An empty reverse geocoding result is not an error.
func (d *Dashboard) GetWeatherByLocation(ctx context.Context) error {
	gen := d.currentGeneration()
	fail := func(message string, err error) error {
		if ctx.Err() != nil {
			return d.abandon(ctx, gen)
		}
		if !d.apply(gen, func(disp Display) { disp.ShowError(RegionCurrent, message) }) {
			return ErrSuperseded
		}
		d.log.Warnw("Location lookup failed", "reason", message, "error", err)
		d.metrics.RecordViewError(string(RegionCurrent))
		return &ViewError{Region: RegionCurrent, Message: message, Err: err}
	}

	if d.locator == nil {
		return fail(MsgGeoUnsupported, geo.ErrUnsupported)
	}

	coords, err := d.locator.CurrentPosition(ctx)
	if err != nil {
		switch {
		case errors.Is(err, geo.ErrUnsupported):
			return fail(MsgGeoUnsupported, err)
		case errors.Is(err, geo.ErrPermissionDenied):
			return fail(MsgLocationDenied, err)
		default:
			return fail(MsgLocationUnavailable, err)
		}
	}

	places, err := d.source.ReverseGeocode(ctx, coords, 1)
	if err != nil {
		return fail(MsgLocationUnavailable, err)
	}
	if len(places) == 0 {
		d.log.Infow("No place found for position", "lat", coords.Lat, "lon", coords.Lon)
		return nil
	}

	return d.GetWeather(ctx, places[0].Name)
}

// AddCurrentToFavorites adds the active city to the favorites. It reports
// whether the list changed; with no active city it does nothing.
func (d *Dashboard) AddCurrentToFavorites(ctx context.Context) (bool, error) {
	city := d.State().City
	if city == "" {
		return false, nil
	}

	added, list, err := d.store.AddFavorite(ctx, city)
	if err != nil {
		d.metrics.RecordStoreError("add_favorite")
		return false, fmt.Errorf("failed to add favorite %q: %w", city, err)
	}
	d.display.ShowFavorites(list)
	return added, nil
}

// ToggleFavorite adds or removes city and reports whether it was added
func (d *Dashboard) ToggleFavorite(ctx context.Context, city string) (bool, error) {
	added, list, err := d.store.ToggleFavorite(ctx, city)
	if err != nil {
		d.metrics.RecordStoreError("toggle_favorite")
		return false, fmt.Errorf("failed to toggle favorite %q: %w", city, err)
	}
	d.display.ShowFavorites(list)
	return added, nil
}

// LoadFavorites renders the persisted favorites
func (d *Dashboard) LoadFavorites(ctx context.Context) error {
	list, err := d.store.Favorites(ctx)
	if err != nil {
		d.metrics.RecordStoreError("load_favorites")
		return fmt.Errorf("failed to load favorites: %w", err)
	}
	d.display.ShowFavorites(list)
	return nil
}

// Favorites returns the persisted favorites
func (d *Dashboard) Favorites(ctx context.Context) ([]string, error) {
	list, err := d.store.Favorites(ctx)
	if err != nil {
		d.metrics.RecordStoreError("load_favorites")
		return nil, fmt.Errorf("failed to load favorites: %w", err)
	}
	return list, nil
}

// Recents returns the recently viewed cities, most recent first
func (d *Dashboard) Recents(ctx context.Context) ([]string, error) {
	list, err := d.store.Recents(ctx)
	if err != nil {
		d.metrics.RecordStoreError("load_recents")
		return nil, fmt.Errorf("failed to load recents: %w", err)
	}
	return list, nil
}

// Init renders the favorites and looks up defaultCity, or DefaultCity when empty
func (d *Dashboard) Init(ctx context.Context, defaultCity string) error {
	if err := d.LoadFavorites(ctx); err != nil {
		d.log.Warnw("Starting without favorites", "error", err)
	}
	if defaultCity == "" {
		defaultCity = DefaultCity
	}
	return d.GetWeather(ctx, defaultCity)
}
