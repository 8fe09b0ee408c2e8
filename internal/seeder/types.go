package seeder

import (
	"errors"
	"fmt"
)

const (
	StepClear       = "clear"
	StepUsers       = "users"
	StepPackages    = "packages"
	StepIndustries  = "industries"
	StepCredits     = "credits"
	StepProductions = "productions"
)

// ErrNoParents is returned when a child step is asked to reference an empty
// parent collection.
var ErrNoParents = errors.New("no parent records to reference")

type Options struct {
	Users       int   // Users to create
	Industries  int   // Industries to create
	Credits     int   // Credits to create
	Productions int   // Productions to create
	Seed        int64 // Random seed; 0 seeds from the clock
	FailFast    bool  // Stop Run at the first failed step
}

func DefaultOptions() Options {
	return Options{
		Users:       3,
		Industries:  5,
		Credits:     20,
		Productions: 20,
	}
}

// StepError reports which seeding step failed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

type StepResult struct {
	Step    string
	Count   int
	Skipped bool
	Reason  string
	Err     error
}

// Report is the outcome of Run, one result per step in execution order.
type Report struct {
	Steps []StepResult
}

func (r *Report) add(result StepResult) {
	r.Steps = append(r.Steps, result)
}

func (r *Report) Step(name string) (StepResult, bool) {
	for _, s := range r.Steps {
		if s.Step == name {
			return s, true
		}
	}
	return StepResult{}, false
}

func (r *Report) Failed() []StepResult {
	var failed []StepResult
	for _, s := range r.Steps {
		if s.Err != nil {
			failed = append(failed, s)
		}
	}
	return failed
}

// Err joins the errors of every failed step, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, s := range r.Failed() {
		errs = append(errs, s.Err)
	}
	return errors.Join(errs...)
}
