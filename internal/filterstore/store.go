// Package filterstore holds the shared filter sidebar state for one entity.
// A Store is created at the application root and passed to the views that
// need it; views dispatch actions and read selectors, never the state.
package filterstore

import (
	"sync"

	"github.com/alexanderramin/estatedesk/internal/listview"
)

// Action is one typed mutation of the filter state.
type Action interface {
	apply(schema listview.FilterSchema, fs listview.FilterState)
}

type SetText struct{ Key, Value string }

func (a SetText) apply(_ listview.FilterSchema, fs listview.FilterState) { fs.SetText(a.Key, a.Value) }

type SetMulti struct {
	Key    string
	Values []string
}

func (a SetMulti) apply(_ listview.FilterSchema, fs listview.FilterState) {
	fs.SetMulti(a.Key, a.Values)
}

type ToggleOption struct{ Key, Option string }

func (a ToggleOption) apply(_ listview.FilterSchema, fs listview.FilterState) {
	fs.ToggleOption(a.Key, a.Option)
}

type SetRange struct {
	Key   string
	Range listview.NumberRange
}

func (a SetRange) apply(_ listview.FilterSchema, fs listview.FilterState) {
	fs.SetRange(a.Key, a.Range)
}

type SetDates struct {
	Key   string
	Range listview.DateRange
}

func (a SetDates) apply(_ listview.FilterSchema, fs listview.FilterState) {
	fs.SetDates(a.Key, a.Range)
}

// Replace swaps in a whole state, e.g. a saved filter set.
type Replace struct{ State listview.FilterState }

func (a Replace) apply(schema listview.FilterSchema, fs listview.FilterState) {
	for k := range fs {
		delete(fs, k)
	}
	for k, v := range listview.NewFilterState(schema) {
		fs[k] = v
	}
	for k, v := range a.State.Clone() {
		if _, ok := schema.Field(k); ok {
			fs[k] = v
		}
	}
}

// Reset restores every field to its default.
type Reset struct{}

func (Reset) apply(schema listview.FilterSchema, fs listview.FilterState) {
	Replace{}.apply(schema, fs)
}

// SetCountry selects a country.
func SetCountry(country string) Action { return SetText{Key: "country", Value: country} }

// SetCity selects a city.
func SetCity(city string) Action { return SetText{Key: "city", Value: city} }

// ResetFilters clears every field.
func ResetFilters() Action { return Reset{} }

// Store is the single writer of one filter sidebar's state. Safe for
// concurrent use.
type Store struct {
	schema listview.FilterSchema

	mu      sync.RWMutex
	state   listview.FilterState
	nextID  int
	watches map[int]func(listview.FilterState)
}

// New returns a store holding the defaults of schema.
func New(schema listview.FilterSchema) *Store {
	return &Store{
		schema:  schema,
		state:   listview.NewFilterState(schema),
		watches: map[int]func(listview.FilterState){},
	}
}

// Schema returns the schema the store was created with.
func (s *Store) Schema() listview.FilterSchema { return s.schema }

// Dispatch applies actions in order and then notifies subscribers once.
func (s *Store) Dispatch(actions ...Action) {
	s.mu.Lock()
	for _, a := range actions {
		a.apply(s.schema, s.state)
	}
	snapshot := s.state.Clone()
	watches := make([]func(listview.FilterState), 0, len(s.watches))
	for _, fn := range s.watches {
		watches = append(watches, fn)
	}
	s.mu.Unlock()

	for _, fn := range watches {
		fn(snapshot.Clone())
	}
}

// Subscribe registers fn to receive the state after every dispatch. The
// returned func removes it.
func (s *Store) Subscribe(fn func(listview.FilterState)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.watches[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.watches, id)
	}
}

// State returns a copy of the current state.
func (s *Store) State() listview.FilterState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Selector derives a value from the filter state.
type Selector[T any] func(schema listview.FilterSchema, fs listview.FilterState) T

// Select evaluates sel against the current state.
func Select[T any](s *Store, sel Selector[T]) T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sel(s.schema, s.state.Clone())
}

// Text selects a text or select field.
func Text(key string) Selector[string] {
	return func(_ listview.FilterSchema, fs listview.FilterState) string { return fs[key].Text }
}

// Country selects the country field.
func Country() Selector[string] { return Text("country") }

// ActiveCount selects the number of fields that filter anything.
func ActiveCount() Selector[int] {
	return func(schema listview.FilterSchema, fs listview.FilterState) int { return fs.ActiveCount(schema) }
}

// Cleaned selects the filtering fields only.
func Cleaned() Selector[listview.FilterState] {
	return func(schema listview.FilterSchema, fs listview.FilterState) listview.FilterState {
		return fs.Clean(schema)
	}
}
