// Package memory implements the record store in process memory. It is the
// default development backend and the backend the tests run against.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"farmpilot/internal/core"
	"farmpilot/internal/store"
)

type Store struct {
	mu           sync.Mutex
	nextID       int64
	farms        []core.Farm
	crops        []core.Crop
	equipment    []core.Equipment
	activities   []core.Activity
	tasks        []core.Task
	transactions []core.Transaction
	weather      []core.WeatherObservation
}

var _ store.RecordStore = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1, weather: sampleWeather()}
}

// NewFromFiles seeds farms and transactions from JSON files under base when
// present. Missing or malformed seed files are ignored; the store starts
// empty in that case.
func NewFromFiles(base string) *Store {
	s := New()
	var farms []core.Farm
	if readJSON(filepath.Join(base, "seed_farms.json"), &farms) {
		for _, f := range farms {
			f.ID = s.allocID()
			s.farms = append(s.farms, f)
		}
	}
	var transactions []core.Transaction
	if readJSON(filepath.Join(base, "seed_transactions.json"), &transactions) {
		for _, t := range transactions {
			t.ID = s.allocID()
			s.transactions = append(s.transactions, t)
		}
	}
	return s
}

func readJSON(path string, v any) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (s *Store) allocID() int64 {
	id := s.nextID
	s.nextID++
	return id
}

// Transactions

func (s *Store) ListTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Transaction(nil), s.transactions...), nil
}

func (s *Store) GetTransaction(_ context.Context, id int64) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.transactions {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.allocID()
	s.transactions = append(s.transactions, t)
	return t, nil
}

func (s *Store) UpdateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.transactions {
		if s.transactions[i].ID == t.ID {
			s.transactions[i] = t
			return t, nil
		}
	}
	return core.Transaction{}, store.ErrNotFound
}

func (s *Store) DeleteTransactions(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := idSet(ids)
	kept := s.transactions[:0]
	for _, t := range s.transactions {
		if !drop[t.ID] {
			kept = append(kept, t)
		}
	}
	s.transactions = kept
	return nil
}

// Farms

func (s *Store) ListFarms(_ context.Context) ([]core.Farm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Farm(nil), s.farms...), nil
}

func (s *Store) GetFarm(_ context.Context, id int64) (core.Farm, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.farms {
		if f.ID == id {
			return f, nil
		}
	}
	return core.Farm{}, store.ErrNotFound
}

func (s *Store) CreateFarm(_ context.Context, f core.Farm) (core.Farm, error) {
	if err := f.Validate(); err != nil {
		return core.Farm{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = s.allocID()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = core.Date{Time: time.Now().UTC()}
	}
	s.farms = append(s.farms, f)
	return f, nil
}

func (s *Store) UpdateFarm(_ context.Context, f core.Farm) (core.Farm, error) {
	if err := f.Validate(); err != nil {
		return core.Farm{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.farms {
		if s.farms[i].ID == f.ID {
			f.CreatedAt = s.farms[i].CreatedAt
			s.farms[i] = f
			return f, nil
		}
	}
	return core.Farm{}, store.ErrNotFound
}

func (s *Store) DeleteFarms(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := idSet(ids)
	kept := s.farms[:0]
	for _, f := range s.farms {
		if !drop[f.ID] {
			kept = append(kept, f)
		}
	}
	s.farms = kept
	return nil
}

// Crops

func (s *Store) ListCrops(_ context.Context) ([]core.Crop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Crop(nil), s.crops...), nil
}

func (s *Store) GetCrop(_ context.Context, id int64) (core.Crop, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.crops {
		if c.ID == id {
			return c, nil
		}
	}
	return core.Crop{}, store.ErrNotFound
}

func (s *Store) CreateCrop(_ context.Context, c core.Crop) (core.Crop, error) {
	if err := c.Validate(); err != nil {
		return core.Crop{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.allocID()
	s.crops = append(s.crops, c)
	return c, nil
}

func (s *Store) UpdateCrop(_ context.Context, c core.Crop) (core.Crop, error) {
	if err := c.Validate(); err != nil {
		return core.Crop{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.crops {
		if s.crops[i].ID == c.ID {
			s.crops[i] = c
			return c, nil
		}
	}
	return core.Crop{}, store.ErrNotFound
}

func (s *Store) DeleteCrops(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := idSet(ids)
	kept := s.crops[:0]
	for _, c := range s.crops {
		if !drop[c.ID] {
			kept = append(kept, c)
		}
	}
	s.crops = kept
	return nil
}

// Equipment

func (s *Store) ListEquipment(_ context.Context) ([]core.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Equipment(nil), s.equipment...), nil
}

func (s *Store) GetEquipment(_ context.Context, id int64) (core.Equipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.equipment {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Equipment{}, store.ErrNotFound
}

func (s *Store) CreateEquipment(_ context.Context, e core.Equipment) (core.Equipment, error) {
	if err := e.Validate(); err != nil {
		return core.Equipment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.allocID()
	if e.CreatedAt.IsZero() {
		e.CreatedAt = core.Date{Time: time.Now().UTC()}
	}
	s.equipment = append(s.equipment, e)
	return e, nil
}

func (s *Store) UpdateEquipment(_ context.Context, e core.Equipment) (core.Equipment, error) {
	if err := e.Validate(); err != nil {
		return core.Equipment{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.equipment {
		if s.equipment[i].ID == e.ID {
			e.CreatedAt = s.equipment[i].CreatedAt
			s.equipment[i] = e
			return e, nil
		}
	}
	return core.Equipment{}, store.ErrNotFound
}

func (s *Store) DeleteEquipment(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := idSet(ids)
	kept := s.equipment[:0]
	for _, e := range s.equipment {
		if !drop[e.ID] {
			kept = append(kept, e)
		}
	}
	s.equipment = kept
	return nil
}

// Activities

func (s *Store) ListActivities(_ context.Context) ([]core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Activity(nil), s.activities...), nil
}

func (s *Store) GetActivity(_ context.Context, id int64) (core.Activity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.activities {
		if a.ID == id {
			return a, nil
		}
	}
	return core.Activity{}, store.ErrNotFound
}

func (s *Store) CreateActivity(_ context.Context, a core.Activity) (core.Activity, error) {
	if err := a.Validate(); err != nil {
		return core.Activity{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = s.allocID()
	s.activities = append(s.activities, a)
	return a, nil
}

func (s *Store) UpdateActivity(_ context.Context, a core.Activity) (core.Activity, error) {
	if err := a.Validate(); err != nil {
		return core.Activity{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.activities {
		if s.activities[i].ID == a.ID {
			s.activities[i] = a
			return a, nil
		}
	}
	return core.Activity{}, store.ErrNotFound
}

func (s *Store) DeleteActivities(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := idSet(ids)
	kept := s.activities[:0]
	for _, a := range s.activities {
		if !drop[a.ID] {
			kept = append(kept, a)
		}
	}
	s.activities = kept
	return nil
}

// Tasks

func (s *Store) ListTasks(_ context.Context) ([]core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Task(nil), s.tasks...), nil
}

func (s *Store) GetTask(_ context.Context, id int64) (core.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return core.Task{}, store.ErrNotFound
}

func (s *Store) CreateTask(_ context.Context, t core.Task) (core.Task, error) {
	if err := t.Validate(); err != nil {
		return core.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.allocID()
	s.tasks = append(s.tasks, t)
	return t, nil
}

func (s *Store) UpdateTask(_ context.Context, t core.Task) (core.Task, error) {
	if err := t.Validate(); err != nil {
		return core.Task{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == t.ID {
			s.tasks[i] = t
			return t, nil
		}
	}
	return core.Task{}, store.ErrNotFound
}

func (s *Store) DeleteTasks(_ context.Context, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	drop := idSet(ids)
	kept := s.tasks[:0]
	for _, t := range s.tasks {
		if !drop[t.ID] {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	return nil
}

// Weather

func (s *Store) CurrentWeather(_ context.Context) (core.WeatherObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.weather) == 0 {
		return core.WeatherObservation{}, store.ErrNotFound
	}
	return s.weather[0], nil
}

func (s *Store) WeatherForecast(_ context.Context, days int) ([]core.WeatherObservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if days > len(s.weather) {
		days = len(s.weather)
	}
	return append([]core.WeatherObservation(nil), s.weather[:days]...), nil
}

// ReplaceWeather swaps the observation set, such as when a feed delivers
// fresh data. An empty set leaves CurrentWeather reporting not-found.
func (s *Store) ReplaceWeather(obs []core.WeatherObservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weather = append([]core.WeatherObservation(nil), obs...)
}

func idSet(ids []int64) map[int64]bool {
	m := make(map[int64]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

// sampleWeather returns a small deterministic forecast used when no feed is
// wired, matching the defaults the dashboard expects.
func sampleWeather() []core.WeatherObservation {
	conditions := []string{"Sunny", "Partly Cloudy", "Cloudy", "Rain", "Sunny"}
	now := time.Now().UTC()
	out := make([]core.WeatherObservation, len(conditions))
	for i, c := range conditions {
		precip := 10
		if c == "Rain" {
			precip = 60
		}
		out[i] = core.WeatherObservation{
			Date:          core.Date{Time: now.AddDate(0, 0, i)},
			Temperature:   75 - i,
			Condition:     c,
			Humidity:      45 + 5*i,
			Wind:          8 + i,
			Precipitation: precip,
			UVIndex:       "Moderate",
		}
	}
	return out
}
