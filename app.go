package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"weather-dashboard/config"
	"weather-dashboard/dashboard"
	"weather-dashboard/datasource"
	"weather-dashboard/favorites"
	"weather-dashboard/geo"
	"weather-dashboard/logger"
	"weather-dashboard/metrics"
	"weather-dashboard/models"
)

const metricsNamespace = "weatherdash"

// app is everything a command needs, wired from configuration
type app struct {
	cfg     *config.Config
	log     *zap.SugaredLogger
	metrics *metrics.Collector
	store   *favorites.Store
	board   *dashboard.Board
	dash    *dashboard.Dashboard
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.GetLogger()
	collector := metrics.NewCollector(metricsNamespace)

	kv, err := openKV(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}
	log.Infow("Opened favorites storage", "driver", cfg.Storage.Driver)

	fetcher := datasource.NewFetcher(cfg.OpenWeatherMap.Timeout, collector)
	source := newSource(cfg.OpenWeatherMap, fetcher)
	log.Infow("Using weather source",
		"source", source.Name(),
		"api_key", logger.MaskAPIKey(cfg.OpenWeatherMap.APIKey),
	)

	store := favorites.NewStore(kv)
	board := dashboard.NewBoard()
	opts := []dashboard.Option{
		dashboard.WithLogger(log),
		dashboard.WithMetrics(collector),
		dashboard.WithUnit(cfg.Units()),
	}
	if locator := newLocator(cfg.Location, fetcher); locator != nil {
		opts = append(opts, dashboard.WithLocator(locator))
	}

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: collector,
		store:   store,
		board:   board,
		dash:    dashboard.New(source, store, board, opts...),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// openKV opens the favorites backend named by the storage driver
func openKV(ctx context.Context, cfg config.StorageConfig) (favorites.KV, error) {
	switch cfg.Driver {
	case "memory":
		return favorites.NewMemoryKV(), nil
	case "redis":
		return favorites.DialRedisKV(ctx, cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB, cfg.KeyPrefix)
	case "sqlite", "postgres":
		return favorites.OpenSQLKV(ctx, cfg.Driver, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}

// newSource builds the OpenWeatherMap client, rate limited unless the limit is 0
func newSource(cfg config.OpenWeatherMapConfig, fetcher *datasource.Fetcher) datasource.WeatherSource {
	owm := datasource.NewOpenWeatherMapProvider(cfg.APIKey, cfg.BaseURL, cfg.GeoURL, fetcher)
	if cfg.RateLimit <= 0 {
		return owm
	}
	return datasource.NewRateLimitedSource(owm, cfg.RateLimit, cfg.Burst)
}

// newLocator returns nil when geolocation is disabled
func newLocator(cfg config.LocationConfig, fetcher *datasource.Fetcher) geo.Locator {
	switch cfg.Provider {
	case "static":
		return geo.StaticLocator{
			Coords: models.Coordinates{Lat: cfg.Latitude, Lon: cfg.Longitude},
			Denied: cfg.Denied,
		}
	case "ip":
		return geo.NewIPLocator(cfg.IPAPIURL, fetcher)
	default:
		return nil
	}
}
