// Package draw is the allocation engine: eligibility rules, multi-win
// shaping and weighted sampling without replacement. It is pure; callers
// load the pool and commit the picks.
package draw

import (
	"github.com/abrezinsky/prizedraw/internal/models"
)

// Request is the input for selecting the winners of one draw
type Request struct {
	Pool     []models.PoolEntry // every participant, annotated for Award and Epoch
	Award    models.Award
	Epoch    int
	Count    int // already capped to the award's remaining inventory
	Config   models.MultiWinConfig
	Coverage bool // draw never-won candidates first
}

// Outcome describes what the engine did with a Request
type Outcome struct {
	Targets  Targets
	Eligible int
	Shaped   int
	Picks    []CandidateWeight
}

// Engine selects winners with a fixed parameter set and random source
type Engine struct {
	params Params
	rng    RandomSource
}

// NewEngine creates an Engine. A nil rng selects the crypto source.
func NewEngine(p Params, rng RandomSource) *Engine {
	if rng == nil {
		rng = CryptoSource()
	}
	return &Engine{params: p, rng: rng}
}

// Params returns the engine's parameters
func (e *Engine) Params() Params {
	return e.params
}

// Select runs filter, controller, weighting and sampling for req.
// The pool is built once and never consulted again mid-selection.
func (e *Engine) Select(req Request) Outcome {
	eligible := FilterEligible(req.Pool, req.Award, req.Epoch, req.Config.MinEpochInterval, e.params)
	shaped := ShapePool(req.Pool, eligible, req.Config, e.params, req.Count, e.rng)
	weighted := Weigh(shaped, DepartmentSizes(req.Pool), e.params, e.rng)

	return Outcome{
		Targets:  ComputeTargets(req.Pool, req.Config),
		Eligible: len(eligible),
		Shaped:   len(shaped),
		Picks:    Sample(weighted, req.Count, req.Coverage, e.rng),
	}
}
