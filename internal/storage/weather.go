package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

const weatherColumns = "date, temperature, condition, humidity, wind, precipitation, uv_index"

func scanWeather(row interface{ Scan(...any) error }) (core.WeatherObservation, error) {
	var (
		w    core.WeatherObservation
		date string
	)
	if err := row.Scan(&date, &w.Temperature, &w.Condition, &w.Humidity, &w.Wind, &w.Precipitation, &w.UVIndex); err != nil {
		return core.WeatherObservation{}, err
	}
	w.Date = scanDate(date)
	return w, nil
}

func (r *SQLiteRepository) CurrentWeather(ctx context.Context) (core.WeatherObservation, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+weatherColumns+" FROM weather WHERE date >= date('now') ORDER BY date ASC LIMIT 1")
	w, err := scanWeather(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.WeatherObservation{}, store.ErrNotFound
	}
	if err != nil {
		return core.WeatherObservation{}, fmt.Errorf("current weather: %w", err)
	}
	return w, nil
}

func (r *SQLiteRepository) WeatherForecast(ctx context.Context, days int) ([]core.WeatherObservation, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+weatherColumns+" FROM weather WHERE date >= date('now') ORDER BY date ASC LIMIT ?", days)
	if err != nil {
		return nil, fmt.Errorf("weather forecast: %w", err)
	}
	defer rows.Close()

	var out []core.WeatherObservation
	for rows.Next() {
		w, err := scanWeather(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weather: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
