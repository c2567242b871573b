package db

import (
	"context"
	"fmt"
	"time"
)

// State is a point in the setup lifecycle
type State int

const (
	Disconnected State = iota
	Connected
	SchemaReady
	IndexesReady
	Seeded
	Verified
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	case SchemaReady:
		return "schema_ready"
	case IndexesReady:
		return "indexes_ready"
	case Seeded:
		return "seeded"
	case Verified:
		return "verified"
	default:
		return "disconnected"
	}
}

// Phase is one independently runnable setup step
type Phase string

const (
	PhaseConnect    Phase = "connect"
	PhaseSchema     Phase = "schema"
	PhaseMigrations Phase = "migrations"
	PhaseIndexes    Phase = "indexes"
	PhaseSeed       Phase = "seed"
	PhaseVerify     Phase = "verify"
)

// Phases lists the setup phases in execution order
var Phases = []Phase{PhaseConnect, PhaseSchema, PhaseMigrations, PhaseIndexes, PhaseSeed, PhaseVerify}

// Outcome classifies a phase result
type Outcome int

const (
	OutcomeOK Outcome = iota
	// OutcomeWarning means the phase failed and setup continued
	OutcomeWarning
	// OutcomeFatal means the phase failed and setup stopped
	OutcomeFatal
	// OutcomeSkipped means an earlier fatal failure prevented the phase
	OutcomeSkipped
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeWarning:
		return "warning"
	case OutcomeFatal:
		return "fatal"
	default:
		return "skipped"
	}
}

// failurePolicy decides what a failing phase means for the rest of setup.
// Structural phases abort, best-effort phases warn and continue.
var failurePolicy = map[Phase]Outcome{
	PhaseConnect:    OutcomeFatal,
	PhaseSchema:     OutcomeFatal,
	PhaseMigrations: OutcomeFatal,
	PhaseIndexes:    OutcomeWarning,
	PhaseSeed:       OutcomeWarning,
	PhaseVerify:     OutcomeWarning,
}

// reaches is the state a successful phase advances to
var reaches = map[Phase]State{
	PhaseConnect:    Connected,
	PhaseSchema:     SchemaReady,
	PhaseMigrations: SchemaReady,
	PhaseIndexes:    IndexesReady,
	PhaseSeed:       Seeded,
	PhaseVerify:     Verified,
}

// PhaseResult is the outcome of one phase
type PhaseResult struct {
	Phase    Phase
	Outcome  Outcome
	Message  string
	Err      error
	Duration time.Duration
}

// SetupReport collects the phase results of a setup run
type SetupReport struct {
	Results []PhaseResult
	State   State
}

// OK reports whether every phase succeeded
func (r *SetupReport) OK() bool {
	for _, res := range r.Results {
		if res.Outcome != OutcomeOK {
			return false
		}
	}
	return true
}

// Aborted reports whether a fatal failure stopped the run
func (r *SetupReport) Aborted() bool {
	for _, res := range r.Results {
		if res.Outcome == OutcomeFatal {
			return true
		}
	}
	return false
}

// Err returns the first fatal error, or a summary of warnings, or nil
func (r *SetupReport) Err() error {
	var warnings int
	for _, res := range r.Results {
		switch res.Outcome {
		case OutcomeFatal:
			return fmt.Errorf("%s phase failed: %w", res.Phase, res.Err)
		case OutcomeWarning:
			warnings++
		}
	}
	if warnings > 0 {
		return fmt.Errorf("setup finished with %d warning(s)", warnings)
	}
	return nil
}

// FullSetup runs every phase in order. A fatal failure marks the remaining
// phases skipped.
func (m *Manager) FullSetup(ctx context.Context) *SetupReport {
	report := &SetupReport{}
	aborted := false
	for _, p := range Phases {
		if aborted {
			report.Results = append(report.Results, PhaseResult{Phase: p, Outcome: OutcomeSkipped})
			continue
		}
		res := m.RunPhase(ctx, p)
		report.Results = append(report.Results, res)
		aborted = res.Outcome == OutcomeFatal
	}
	report.State = m.state
	return report
}

// RunPhase runs a single phase and classifies its outcome
func (m *Manager) RunPhase(ctx context.Context, p Phase) PhaseResult {
	m.log.Info("Running %s phase...", p)
	start := time.Now()
	msg, err := m.phase(ctx, p)
	res := PhaseResult{Phase: p, Message: msg, Err: err, Duration: time.Since(start)}

	if err == nil {
		res.Outcome = OutcomeOK
		if next := reaches[p]; next > m.state {
			m.state = next
		}
		m.log.Success("%s: %s", p, msg)
		return res
	}

	res.Outcome = failurePolicy[p]
	if res.Outcome == OutcomeFatal {
		m.log.Error("%s failed, aborting: %v", p, err)
	} else {
		m.log.Warn("%s failed, continuing: %v", p, err)
	}
	return res
}

func (m *Manager) phase(ctx context.Context, p Phase) (string, error) {
	switch p {
	case PhaseConnect:
		if err := m.exec.Ping(ctx); err != nil {
			return "", classify(err)
		}
		test := TestConnection(ctx, m.exec)
		if !test.OK {
			return "", test.Err
		}
		return test.Version, nil
	case PhaseSchema:
		n, err := m.SetupSchema(ctx)
		return fmt.Sprintf("%d statements applied", n), err
	case PhaseMigrations:
		if m.migrationsDir == "" {
			return "no migrations directory configured", nil
		}
		applied, err := m.RunMigrations(ctx)
		return fmt.Sprintf("%d migrations applied", len(applied)), err
	case PhaseIndexes:
		results, err := m.SetupIndexes(ctx)
		return fmt.Sprintf("%d indexes ensured", len(results)), err
	case PhaseSeed:
		results, err := m.SeedData(ctx)
		seeded := 0
		for _, r := range results {
			if r.Applied {
				seeded++
			}
		}
		return fmt.Sprintf("%d of %d seed sets applied", seeded, len(results)), err
	case PhaseVerify:
		checks, err := m.Verify(ctx)
		return fmt.Sprintf("%d tables verified", len(checks)), err
	}
	return "", fmt.Errorf("unknown phase %q", p)
}

// ParsePhase maps a name to a Phase
func ParsePhase(name string) (Phase, error) {
	for _, p := range Phases {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown phase %q", name)
}
