// SPDX-License-Identifier: MIT

package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/quadsparse/assemble"
	"github.com/katalvlaran/quadsparse/function"
	"github.com/katalvlaran/quadsparse/integral"
	"github.com/katalvlaran/quadsparse/matrix"
	"github.com/katalvlaran/quadsparse/sample"
	"github.com/katalvlaran/quadsparse/tensor"
)

type assembleFlags struct {
	config   string
	workers  int
	elements int
	backend  string
}

// NewAssembleCommand creates the assemble command.
func NewAssembleCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &assembleFlags{}

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble a 1-D P1 mass matrix and load vector",
		Long: `Assemble the P1 mass matrix, the load vector of the source sin(x)
and the integral of the source on a uniform 1-D mesh.

The problem is read from --config (YAML); flags override the file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssemble(cmd, rootOpts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.config, "config", "c", "", "YAML problem description")
	cmd.Flags().IntVar(&flags.workers, "workers", 0, "assembly workers (0 = GOMAXPROCS)")
	cmd.Flags().IntVar(&flags.elements, "elements", 0, "number of elements")
	cmd.Flags().StringVar(&flags.backend, "backend", "", "matrix backend (dense|csr|gonum)")

	return cmd
}

func runAssemble(cmd *cobra.Command, rootOpts *RootOptions, flags *assembleFlags) error {
	cfg := DefaultConfig()
	if flags.config != "" {
		var err error
		if cfg, err = LoadConfig(flags.config); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = flags.workers
	}
	if cmd.Flags().Changed("elements") {
		cfg.Elements = flags.elements
	}
	if cmd.Flags().Changed("backend") {
		cfg.Backend = flags.backend
	}
	if rootOpts.Verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.level()
	logger := newLogger(cmd.ErrOrStderr(), level, rootOpts.NoColor)
	backend, _ := matrix.ParseBackend(cfg.Backend)

	reg := prometheus.NewRegistry()
	metrics, err := assemble.NewMetrics(reg)
	if err != nil {
		return err
	}

	s, ints, err := buildProblem(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	opts := append(cfg.integralOptions(),
		integral.WithBackend(backend),
		integral.WithLogger(logger),
		integral.WithAssemble(
			assemble.WithWorkers(cfg.Workers),
			assemble.WithMetrics(metrics),
			assemble.WithLogger(logger),
		),
	)
	res, err := integral.Eval(cmd.Context(), ints, nil, opts...)
	if err != nil {
		return fmt.Errorf("assemble: %w", err)
	}
	logger.Info("assembled", "elements", s.NumElements(), "points", s.NumPoints(),
		"workers", cfg.Workers, "elapsed", time.Since(start))
	logMetrics(logger, reg)

	mass, err := matrix.ToDense(res[0].Matrix)
	if err != nil {
		return err
	}
	report := Report{
		Elements: cfg.Elements,
		Interval: cfg.Interval,
		Backend:  cfg.Backend,
		Total:    res[2].Scalar,
		Load:     res[1].Vector,
		Mass:     rows(mass),
	}

	return writeReport(cmd.OutOrStdout(), rootOpts.Format, report)
}

// buildProblem returns the sample and, in order, the mass, load and
// source-total integrals.
func buildProblem(cfg Config) (*sample.Sample, []*integral.Integral, error) {
	s, err := sample.Line(cfg.Elements, cfg.Interval[0], cfg.Interval[1], cfg.Gauss)
	if err != nil {
		return nil, nil, err
	}

	n := cfg.Elements
	dofs := make([][]int, n)
	for e := range dofs {
		dofs[e] = []int{e, e + 1}
	}

	// [1-ξ, ξ] on the reference element
	xi := function.NewInsertAxis(function.NewSum(function.NewLocalCoords(1), 0), 0, 2)
	c0, err := tensor.FromSlice([]int{2}, []float64{1, 0})
	if err != nil {
		return nil, nil, err
	}
	c1, err := tensor.FromSlice([]int{2}, []float64{-1, 1})
	if err != nil {
		return nil, nil, err
	}
	phi := function.NewAdd(function.NewConstant(c0), function.NewMul(xi, function.NewConstant(c1)))

	source := function.NewSin(function.NewSum(function.NewCoords(1), 0))
	local := function.NewMul(function.NewInsertAxis(phi, 1, 2), function.NewInsertAxis(phi, 0, 2))
	mass := function.NewInflate(function.NewInflate(local, dofs, n+1, 0), dofs, n+1, 1)
	load := function.NewInflate(function.NewMul(phi, function.NewInsertAxis(source, 0, 2)), dofs, n+1, 0)

	return s, []*integral.Integral{
		integral.FromSample(s, mass),
		integral.FromSample(s, load),
		integral.FromSample(s, source),
	}, nil
}

// logMetrics reports every gathered counter at debug level.
func logMetrics(logger *slog.Logger, reg *prometheus.Registry) {
	families, err := reg.Gather()
	if err != nil {
		logger.Warn("gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			logger.Debug("metric", "name", mf.GetName(), "value", m.GetCounter().GetValue())
		}
	}
}

func rows(d *matrix.Dense) [][]float64 {
	raw := d.RawData()
	out := make([][]float64, d.Rows())
	for i := range out {
		out[i] = raw[i*d.Cols() : (i+1)*d.Cols()]
	}

	return out
}
