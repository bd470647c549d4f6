package sim

import (
	"context"
	"fmt"

	"github.com/pglowack/astrolab/internal/engine"
)

// Metric accumulates a scalar over a run.
type Metric interface {
	Name() string
	Observe(v engine.View, t float64)
	Value() float64
	Reset()
}

// Observer is notified after every committed step.
type Observer interface {
	OnStep(v engine.View, t float64)
}

type Config struct {
	Dt       float64
	Duration float64
}

type Result struct {
	Times      []float64
	Views      []engine.View
	Metrics    map[string]float64
	StepsTaken int
}

// Runner drives an engine headlessly for a fixed duration, recording
// the view after every step. It is the batch-mode counterpart of the
// interactive terminal driver.
type Runner struct {
	eng       *engine.Engine
	metrics   []Metric
	observers []Observer
}

func New(eng *engine.Engine) *Runner {
	return &Runner{eng: eng}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	result := &Result{
		Times:   make([]float64, 0, steps+1),
		Views:   make([]engine.View, 0, steps+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	t := 0.0
	result.Times = append(result.Times, t)
	result.Views = append(result.Views, r.eng.View())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := r.eng.Step(cfg.Dt); err != nil {
			return result, err
		}
		t += cfg.Dt
		result.StepsTaken++

		v := r.eng.View()
		for _, m := range r.metrics {
			m.Observe(v, t)
		}
		for _, obs := range r.observers {
			obs.OnStep(v, t)
		}

		result.Times = append(result.Times, t)
		result.Views = append(result.Views, v)
	}

	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
