package report

import (
	"fmt"
	"io"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1"

	"qcpipe/internal/pipeline"
	"qcpipe/internal/status"
)

// Vertex fill colours by worst outcome.
var statusRGB = map[status.Status][3]uint8{
	status.StatusOK:   {46, 160, 67},
	status.StatusSkip: {175, 175, 175},
	status.StatusFail: {207, 34, 46},
}

// StatusColor returns the hex fill colour for a step outcome.
func StatusColor(s status.Status) (string, error) {
	rgb, ok := statusRGB[s]
	if !ok {
		return "", errors.Errorf("no colour for status %q", s)
	}

	c, err := colors.RGB(rgb[0], rgb[1], rgb[2])
	if err != nil {
		return "", errors.Wrap(err, "unable to get colour")
	}
	return c.ToHEX().String(), nil
}

// RenderGraph writes the plan's step graph in DOT format. Each vertex is
// filled with the colour of the worst outcome recorded for its step and
// labelled with its OK/SKIP/FAIL counts; steps without results are left
// unfilled.
func RenderGraph(out io.Writer, plan *pipeline.Plan, results []status.StepResult) error {
	worst := status.WorstByStep(results)
	byStep := make(map[string][]status.StepResult)
	for _, r := range results {
		byStep[r.Step] = append(byStep[r.Step], r)
	}

	var colorErr error
	g, err := plan.Graph(func(s pipeline.Step) []func(*graph.VertexProperties) {
		opts := []func(*graph.VertexProperties){
			graph.VertexAttribute("shape", "box"),
		}

		st, ok := worst[s.Name]
		if !ok {
			return append(opts, graph.VertexAttribute("label", s.Name+`\nnot run`))
		}

		fill, err := StatusColor(st)
		if err != nil {
			colorErr = err
			return opts
		}

		c := status.Summarize(byStep[s.Name])
		label := fmt.Sprintf(`%s\nOK %d / SKIP %d / FAIL %d`, s.Name, c.OK, c.Skip, c.Fail)
		return append(opts,
			graph.VertexAttribute("style", "filled"),
			graph.VertexAttribute("fillcolor", fill),
			graph.VertexAttribute("label", label),
		)
	})
	if err != nil {
		return errors.Wrap(err, "unable to build step graph")
	}
	if colorErr != nil {
		return colorErr
	}

	if err := draw.DOT(g, out, draw.GraphAttribute("rankdir", "LR")); err != nil {
		return errors.Wrap(err, "unable to render step graph")
	}
	return nil
}

// WriteGraph writes logs/pipeline.dot and returns its path.
func (w *Writer) WriteGraph(plan *pipeline.Plan, results []status.StepResult) (string, error) {
	path := w.layout.Dot()
	if err := writeFile(path, func(out io.Writer) error {
		return RenderGraph(out, plan, results)
	}); err != nil {
		return "", err
	}
	return path, nil
}
