// Package widget holds the view state of a weather widget and the controller
// that drives it through fetch cycles.
package widget

import (
	"clima.app/internal/core/weather"
)

// Phase is the rendering state derived from a ViewState
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseSuccess
	PhaseFailed
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ViewState is the complete mutable state of one widget. It is a value type:
// transitions return a new ViewState and the Snapshot it points to is never modified.
type ViewState struct {
	SelectedCity string
	Snapshot     *weather.Snapshot
	IsLoading    bool
	ErrorMessage string
}

// NewViewState returns the initial state for a freshly mounted widget.
func NewViewState(city string) ViewState {
	return ViewState{
		SelectedCity: city,
		IsLoading:    true,
	}
}

// Phase derives which region should be rendered.
// Loading wins over an error, and an error wins over stale data.
func (s ViewState) Phase() Phase {
	switch {
	case s.IsLoading:
		return PhaseLoading
	case s.ErrorMessage != "":
		return PhaseFailed
	case s.Snapshot != nil:
		return PhaseSuccess
	default:
		return PhaseIdle
	}
}

// BeginFetch enters Loading and clears any error. The previous snapshot stays.
func BeginFetch(s ViewState) ViewState {
	s.IsLoading = true
	s.ErrorMessage = ""
	return s
}

// SelectCity switches the selected city and begins a fetch for it.
func SelectCity(s ViewState, city string) ViewState {
	s.SelectedCity = city
	return BeginFetch(s)
}

// ApplySnapshot completes a fetch successfully.
func ApplySnapshot(s ViewState, snapshot *weather.Snapshot) ViewState {
	s.IsLoading = false
	s.ErrorMessage = ""
	s.Snapshot = snapshot
	return s
}

// ApplyFailure completes a fetch with an error. The previous snapshot is kept.
func ApplyFailure(s ViewState, err error) ViewState {
	s.IsLoading = false
	s.ErrorMessage = MessageFor(err)
	return s
}
