// Package recipe defines the structured recipe document and its
// derived renderings.
package recipe

import (
	"errors"
	"fmt"
	"time"
)

type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
}

type Substep struct {
	Description     string       `json:"description"`
	DurationMinutes *int         `json:"duration_minutes,omitempty"`
	Ingredients     []Ingredient `json:"ingredients,omitempty"`
}

type Step struct {
	Description     string    `json:"description"`
	DurationMinutes int       `json:"duration_minutes"`
	Substeps        []Substep `json:"substeps"`
	StartTime       string    `json:"start_time,omitempty"`
}

type Recipe struct {
	Name             string       `json:"name"`
	URL              string       `json:"url,omitempty"`
	Ingredients      []Ingredient `json:"ingredients"`
	Equipment        []string     `json:"equipment"`
	Steps            []Step       `json:"steps"`
	TotalTimeMinutes int          `json:"total_time_minutes"`
}

var (
	ErrMissingName  = errors.New("recipe has no name")
	ErrMissingSteps = errors.New("recipe has no steps")
)

// Validate checks the shape of a model-produced recipe before it is
// trusted. It rejects documents that parsed as JSON but do not carry the
// fields every downstream consumer dereferences.
func (r *Recipe) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}
	if len(r.Steps) == 0 {
		return ErrMissingSteps
	}
	for i, step := range r.Steps {
		if step.Description == "" {
			return fmt.Errorf("step %d has no description", i)
		}
	}
	return nil
}

// EffectiveStart resolves the time cooking begins. An explicit start wins;
// otherwise the total duration is subtracted from the end time so the dish
// finishes exactly then. Returns the zero time when neither is supplied.
func EffectiveStart(start, end time.Time, totalMinutes int) time.Time {
	if !start.IsZero() {
		return start
	}
	if !end.IsZero() {
		return end.Add(-time.Duration(totalMinutes) * time.Minute)
	}
	return time.Time{}
}

// StepStartTimes returns the display start time for each step: the
// effective start plus the cumulative duration of all prior steps.
func StepStartTimes(effectiveStart time.Time, steps []Step) []time.Time {
	times := make([]time.Time, len(steps))
	elapsed := 0
	for i, step := range steps {
		times[i] = effectiveStart.Add(time.Duration(elapsed) * time.Minute)
		elapsed += step.DurationMinutes
	}
	return times
}
