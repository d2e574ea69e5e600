package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

type apiWeather struct {
	Date          string `json:"date"`
	Temperature   int    `json:"temperature"`
	Condition     string `json:"condition"`
	Humidity      int    `json:"humidity"`
	Wind          int    `json:"wind"`
	Precipitation int    `json:"precipitation"`
	UVIndex       string `json:"uvIndex"`
}

func toAPIWeather(o core.WeatherObservation) apiWeather {
	return apiWeather{
		Date:          o.Date.ISO(),
		Temperature:   o.Temperature,
		Condition:     o.Condition,
		Humidity:      o.Humidity,
		Wind:          o.Wind,
		Precipitation: o.Precipitation,
		UVIndex:       o.UVIndex,
	}
}

// handleWeather returns the current observation. The store is read-only;
// observations come from the weather feed.
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}
	obs, err := s.records.CurrentWeather(r.Context())
	if err != nil {
		// No observation on file is an empty state, not a server fault.
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.ErrorContext(r.Context(), "Current weather error", "error", err)
		}
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toAPIWeather(obs))
}

func (s *Server) handleWeatherForecast(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		MethodNotAllowedError("GET").Write(w)
		return
	}

	days := 5
	if v := strings.TrimSpace(r.URL.Query().Get("days")); v != "" {
		if d, err := strconv.Atoi(v); err == nil && d > 0 && d <= 14 {
			days = d
		}
	}

	forecast, err := s.records.WeatherForecast(r.Context(), days)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			s.logger.ErrorContext(r.Context(), "Weather forecast error", "error", err, "days", days)
		}
		writeStoreError(w, err)
		return
	}
	out := make([]apiWeather, 0, len(forecast))
	for _, o := range forecast {
		out = append(out, toAPIWeather(o))
	}
	writeJSON(w, http.StatusOK, out)
}
