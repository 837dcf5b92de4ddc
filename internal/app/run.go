package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/born-ml/gradgraph/internal/autodiff"
	"github.com/born-ml/gradgraph/internal/ctxlog"
	"github.com/born-ml/gradgraph/internal/gradcheck"
	"github.com/born-ml/gradgraph/internal/graphfile"
	"github.com/born-ml/gradgraph/internal/viz"
)

func (a *App) run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	cfg := a.config

	def, err := graphfile.Load(ctx, cfg.GraphPath)
	if err != nil {
		return err
	}
	if cfg.Output != "" {
		if !def.Has(cfg.Output) {
			return fmt.Errorf("output %q is not declared in %s", cfg.Output, cfg.GraphPath)
		}
		def.Output = cfg.Output
	}

	g, err := def.Compile(nil, nil)
	if err != nil {
		return fmt.Errorf("failed to compile %s: %w", cfg.GraphPath, err)
	}
	logger.Debug("Graph compiled.", "nodes", g.Arena.Len(), "output", def.Output)

	if err := g.Arena.Backward(g.Output); err != nil {
		return fmt.Errorf("backward from %s: %w", def.Output, err)
	}
	logger.Info("Gradients computed.", "output", def.Output, "nodes", g.Arena.Len())

	trace, err := viz.NewTrace(g.Arena, g.Output)
	if err != nil {
		return err
	}
	if err := writeTable(a.outW, trace); err != nil {
		return err
	}

	if cfg.DOTPath != "" {
		if err := a.writeDOT(trace, def.Output); err != nil {
			return err
		}
		logger.Info("Graph rendered.", "path", cfg.DOTPath)
	}
	if cfg.RenderPath != "" {
		opts := viz.DOTOptions{Name: def.Output, LeftRight: true}
		if err := viz.RenderFile(ctx, cfg.RenderPath, trace, opts); err != nil {
			return fmt.Errorf("failed to render graph image: %w", err)
		}
		logger.Info("Graph image written.", "path", cfg.RenderPath)
	}

	if cfg.Check {
		return a.check(ctx, def)
	}
	return nil
}

// writeTable prints one row per node in topological order.
func writeTable(w io.Writer, t *viz.Trace) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tOP\tVALUE\tGRAD")
	for _, n := range t.Nodes {
		fmt.Fprintf(tw, "%s\t%s\t%.6g\t%.6g\n", n.Name(), n.Op, n.Value, n.Grad)
	}
	return tw.Flush()
}

func (a *App) writeDOT(t *viz.Trace, name string) error {
	opts := viz.DOTOptions{Name: name, LeftRight: true}
	if a.config.DOTPath == "-" {
		return viz.WriteDOT(a.outW, t, opts)
	}

	f, err := os.Create(a.config.DOTPath)
	if err != nil {
		return fmt.Errorf("failed to create dot file: %w", err)
	}
	if err := viz.WriteDOT(f, t, opts); err != nil {
		f.Close()
		return fmt.Errorf("failed to write dot file: %w", err)
	}
	return f.Close()
}

// check rebuilds the definition around the checker's input leaves, one
// input per declared leaf.
func (a *App) check(ctx context.Context, def *graphfile.Definition) error {
	logger := ctxlog.FromContext(ctx)
	names, at := def.LeafValues()

	build := func(arena *autodiff.Arena, inputs []autodiff.Handle) (autodiff.Handle, error) {
		bound := make(map[string]autodiff.Handle, len(names))
		for i, name := range names {
			bound[name] = inputs[i]
		}
		g, err := def.Compile(arena, bound)
		if err != nil {
			return autodiff.Handle{}, err
		}
		return g.Output, nil
	}

	report, err := gradcheck.Check(ctx, build, at, gradcheck.Options{
		Tolerance: a.config.Tolerance,
		Names:     names,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(a.outW)
	tw := tabwriter.NewWriter(a.outW, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LEAF\tANALYTIC\tNUMERIC\tABS ERR\tOK")
	for _, r := range report.Results {
		fmt.Fprintf(tw, "%s\t%.6g\t%.6g\t%.3g\t%t\n", r.Name, r.Analytic, r.Numeric, r.AbsErr, r.OK)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if failures := report.Failures(); len(failures) > 0 {
		for _, f := range failures {
			logger.Error("Gradient mismatch.", "leaf", f.Name, "analytic", f.Analytic, "numeric", f.Numeric)
		}
		return fmt.Errorf("%d of %d leaves: %w", len(failures), len(report.Results), ErrGradientMismatch)
	}
	logger.Info("Gradient check passed.", "leaves", len(report.Results), "tolerance", a.config.Tolerance)
	return nil
}
