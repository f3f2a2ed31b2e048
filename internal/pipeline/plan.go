// Package pipeline plans and executes the QC steps.
//
// The step set is held in a directed acyclic graph ([Plan]) and executed in a
// stable topological order. Per-sample steps run for one sample at a time and
// a failing step abandons only the remaining steps of that sample; aggregate
// steps run once after every sample, under the sample name
// [status.AggregateSample].
//
// Key types:
//   - [Plan] is the ordered step graph
//   - [TaskBuilder] turns a step and a sample into a concrete [Task]
//   - [Runner] executes a single task with the skip check and run log
//   - [Executor] drives a whole run and collects [status.StepResult] values
package pipeline

import (
	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"qcpipe/internal/config"
	"qcpipe/internal/status"
)

// Step describes one pipeline step.
type Step struct {
	// Name is the step name used in config keys and results.
	Name string

	// Tool is the external tool the step invokes.
	Tool string

	// Aggregate steps run once for all samples instead of once per sample.
	Aggregate bool

	// Requires lists steps whose outputs this step consumes. When one of
	// them is disabled the step is skipped with MissingDetail.
	Requires []string

	// MissingDetail is the skip detail recorded when a requirement is disabled.
	MissingDetail string
}

// DefaultSteps returns the QC steps in declaration order.
func DefaultSteps() []Step {
	return []Step{
		{Name: config.StepFastQCRaw, Tool: config.ToolFastQC},
		{Name: config.StepTrimFastp, Tool: config.ToolFastp},
		{
			Name:          config.StepFastQCTrimmed,
			Tool:          config.ToolFastQC,
			Requires:      []string{config.StepTrimFastp},
			MissingDetail: status.DetailNoTrimmed,
		},
		{Name: config.StepMultiQC, Tool: config.ToolMultiQC, Aggregate: true},
	}
}

func stepHash(s Step) string {
	return s.Name
}

// Plan is a validated, ordered set of steps.
type Plan struct {
	steps []Step
	index map[string]int
	order []string
}

// NewPlan builds the step graph and computes its execution order.
//
// Each requirement becomes an edge from the required step, and every
// aggregate step follows every per-sample step. Ties are broken by
// declaration order. Unknown requirements, duplicate names and cycles are
// errors.
func NewPlan(steps []Step) (*Plan, error) {
	p := &Plan{
		steps: steps,
		index: make(map[string]int, len(steps)),
	}
	for i, s := range steps {
		p.index[s.Name] = i
	}

	g, err := p.Graph(nil)
	if err != nil {
		return nil, err
	}

	order, err := graph.StableTopologicalSort(g, func(a, b string) bool {
		return p.index[a] < p.index[b]
	})
	if err != nil {
		return nil, errors.Wrap(err, "unable to order steps")
	}
	p.order = order

	return p, nil
}

// VertexOptions returns extra vertex attributes for a step when building
// its graph.
type VertexOptions func(s Step) []func(*graph.VertexProperties)

// Graph builds a fresh step graph. The optional attrs callback decorates the
// vertices; it is used when rendering the graph.
func (p *Plan) Graph(attrs VertexOptions) (graph.Graph[string, Step], error) {
	g := graph.New(stepHash, graph.Directed(), graph.PreventCycles())

	for _, s := range p.steps {
		var opts []func(*graph.VertexProperties)
		if attrs != nil {
			opts = attrs(s)
		}
		if err := g.AddVertex(s, opts...); err != nil {
			return nil, errors.Wrapf(err, "unable to add step %s", s.Name)
		}
	}

	for _, s := range p.steps {
		for _, req := range s.Requires {
			if err := g.AddEdge(req, s.Name); err != nil {
				return nil, errors.Wrapf(err, "unable to add requirement %s -> %s", req, s.Name)
			}
		}

		if !s.Aggregate {
			continue
		}
		for _, other := range p.steps {
			if other.Aggregate {
				continue
			}
			if err := g.AddEdge(other.Name, s.Name); err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, errors.Wrapf(err, "unable to order %s after %s", s.Name, other.Name)
			}
		}
	}

	return g, nil
}

// Steps returns all steps in execution order.
func (p *Plan) Steps() []Step {
	steps := make([]Step, len(p.order))
	for i, name := range p.order {
		steps[i] = p.steps[p.index[name]]
	}
	return steps
}

// PerSample returns the per-sample steps in execution order.
func (p *Plan) PerSample() []Step {
	var steps []Step
	for _, s := range p.Steps() {
		if !s.Aggregate {
			steps = append(steps, s)
		}
	}
	return steps
}

// Aggregates returns the aggregate steps in execution order.
func (p *Plan) Aggregates() []Step {
	var steps []Step
	for _, s := range p.Steps() {
		if s.Aggregate {
			steps = append(steps, s)
		}
	}
	return steps
}

// Step returns the named step.
func (p *Plan) Step(name string) (Step, bool) {
	i, ok := p.index[name]
	if !ok {
		return Step{}, false
	}
	return p.steps[i], true
}

// Tools returns the distinct tools used by the enabled steps, in execution
// order.
func (p *Plan) Tools(steps config.StepsConfig) []string {
	var tools []string
	seen := make(map[string]bool)
	for _, s := range p.Steps() {
		if !steps.Enabled(s.Name) || seen[s.Tool] {
			continue
		}
		seen[s.Tool] = true
		tools = append(tools, s.Tool)
	}
	return tools
}

// disabledRequirement returns the first requirement of s that is disabled.
func disabledRequirement(s Step, steps config.StepsConfig) (string, bool) {
	for _, req := range s.Requires {
		if !steps.Enabled(req) {
			return req, true
		}
	}
	return "", false
}
