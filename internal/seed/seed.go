package seed

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abrezinsky/prizedraw/internal/logger"
	"github.com/abrezinsky/prizedraw/internal/models"
	"github.com/abrezinsky/prizedraw/internal/services"
)

//go:embed default.yaml
var defaultFixture []byte

// Fixture is the YAML document describing the initial roster
type Fixture struct {
	Awards       []Award       `yaml:"awards"`
	Participants []Participant `yaml:"participants"`
	Generate     *Generate     `yaml:"generate"`
}

// Award is one award entry in a fixture
type Award struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Level       int    `yaml:"level"`
	Count       int    `yaml:"count"`
	DrawCount   int    `yaml:"draw_count"`
}

// Participant is one named participant in a fixture
type Participant struct {
	Name       string  `yaml:"name"`
	Department string  `yaml:"department"`
	EmployeeID string  `yaml:"employee_id"`
	Weight     float64 `yaml:"weight"`
}

// Generate adds synthetic participants, spread round-robin over departments
type Generate struct {
	Count       int      `yaml:"count"`
	Prefix      string   `yaml:"prefix"`
	Departments []string `yaml:"departments"`
	Weight      float64  `yaml:"weight"`
}

// Result reports what Apply created
type Result struct {
	Awards       int
	Participants int
}

// Default returns the embedded bootstrap fixture
func Default() *Fixture {
	f, err := Parse(defaultFixture)
	if err != nil {
		panic(fmt.Sprintf("embedded seed fixture: %v", err))
	}
	return f
}

// Load reads a fixture file. An empty path returns Default().
func Load(path string) (*Fixture, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture, rejecting unknown keys
func Parse(data []byte) (*Fixture, error) {
	var f Fixture
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse seed fixture: %w", err)
	}
	if f.Generate != nil && f.Generate.Count < 0 {
		return nil, fmt.Errorf("parse seed fixture: generate.count must not be negative")
	}
	return &f, nil
}

// ParticipantList returns the named participants followed by generated ones
func (f *Fixture) ParticipantList() []models.Participant {
	out := make([]models.Participant, 0, len(f.Participants))
	for _, p := range f.Participants {
		out = append(out, models.Participant{
			Name:       p.Name,
			Department: p.Department,
			EmployeeID: p.EmployeeID,
			Weight:     p.Weight,
		})
	}

	g := f.Generate
	if g == nil || g.Count == 0 {
		return out
	}
	prefix := g.Prefix
	if prefix == "" {
		prefix = "Participant"
	}
	depts := g.Departments
	if len(depts) == 0 {
		depts = []string{""}
	}
	for i := 0; i < g.Count; i++ {
		out = append(out, models.Participant{
			Name:       fmt.Sprintf("%s %03d", prefix, i+1),
			Department: depts[i%len(depts)],
			Weight:     g.Weight,
		})
	}
	return out
}

// Apply registers the fixture's awards and participants through the roster
// service. Each part is applied only when its table is empty.
func Apply(ctx context.Context, log logger.Logger, roster services.RosterServicer, f *Fixture) (Result, error) {
	var res Result

	awards, err := roster.ListAwards(ctx)
	if err != nil {
		return res, err
	}
	if len(awards) == 0 {
		for _, a := range f.Awards {
			if _, err := roster.CreateAward(ctx, models.Award{
				Name:        a.Name,
				Description: a.Description,
				Level:       a.Level,
				Count:       a.Count,
				DrawCount:   a.DrawCount,
			}); err != nil {
				return res, fmt.Errorf("seed award %q: %w", a.Name, err)
			}
			res.Awards++
		}
	} else {
		log.Debug("Awards already present, skipping seed", "count", len(awards))
	}

	participants, err := roster.ListParticipants(ctx)
	if err != nil {
		return res, err
	}
	if len(participants) == 0 {
		for _, p := range f.ParticipantList() {
			if _, err := roster.CreateParticipant(ctx, p); err != nil {
				return res, fmt.Errorf("seed participant %q: %w", p.Name, err)
			}
			res.Participants++
		}
	} else {
		log.Debug("Participants already present, skipping seed", "count", len(participants))
	}

	if res.Awards > 0 || res.Participants > 0 {
		log.Info("Seed data applied", "awards", res.Awards, "participants", res.Participants)
	}
	return res, nil
}
