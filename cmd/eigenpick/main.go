package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/san-kum/eigenpick/internal/acoustic"
	"github.com/san-kum/eigenpick/internal/config"
	"github.com/san-kum/eigenpick/internal/eigen"
	"github.com/san-kum/eigenpick/internal/fem"
	"github.com/san-kum/eigenpick/internal/modal"
	"github.com/san-kum/eigenpick/internal/report"
	"github.com/san-kum/eigenpick/internal/storage"
	"github.com/san-kum/eigenpick/internal/sweep"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	cells      int
	length     float64
	rho        float64
	soundSpeed float64
	damping    float64
	nev        int
	tolerance  float64
	targetRe   float64
	targetIm   float64
	plot       bool
	noSave     bool
	targets    string
	workers    int

	logger = zap.NewNop()
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "eigenpick",
		Short:         "pick the acoustic mode closest to a target frequency",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			l, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			logger = l
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".eigenpick", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	solveCmd := &cobra.Command{
		Use:   "solve",
		Short: "solve the eigenproblem and select the closest mode",
		Args:  cobra.NoArgs,
		RunE:  runSolve,
	}
	problemFlags(solveCmd)
	solveCmd.Flags().BoolVar(&plot, "plot", false, "plot |p| and |v| of the selected mode")
	solveCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum",
		Short: "list converged eigenvalues and their distance to the target",
		Args:  cobra.NoArgs,
		RunE:  runSpectrum,
	}
	problemFlags(spectrumCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "select the closest mode for several targets",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	problemFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&targets, "targets", "", "comma separated targets as re:im (e.g. 3:0,6:-0.1)")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent selections (0 = GOMAXPROCS)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored mode",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a stored mode to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-8s cells=%d length=%g c=%g damping=%g target=%s\n",
					name, p.Mesh.Cells, p.Mesh.Length, p.Medium.C, p.Medium.Damping,
					report.FormatComplex(p.Target.Value()))
			}
			return nil
		},
	}

	rootCmd.AddCommand(solveCmd, spectrumCmd, sweepCmd, listCmd, showCmd, exportJSONCmd, presetsCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func problemFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVar(&cells, "cells", config.DefaultCells, "mesh cells")
	cmd.Flags().Float64Var(&length, "length", config.DefaultLength, "domain length")
	cmd.Flags().Float64Var(&rho, "rho", config.DefaultRho, "density")
	cmd.Flags().Float64Var(&soundSpeed, "c", config.DefaultC, "speed of sound")
	cmd.Flags().Float64Var(&damping, "damping", 0, "volumetric damping")
	cmd.Flags().IntVar(&nev, "nev", config.DefaultNev, "eigenpairs to keep (0 = all)")
	cmd.Flags().Float64Var(&tolerance, "tol", config.DefaultTolerance, "backward error tolerance")
	cmd.Flags().Float64Var(&targetRe, "target-re", 0, "target frequency, real part")
	cmd.Flags().Float64Var(&targetIm, "target-im", 0, "target frequency, imaginary part")
}

// resolveConfig layers defaults, preset, config file and explicit flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		c, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = c
	}

	flags := cmd.Flags()
	if flags.Changed("cells") {
		cfg.Mesh.Cells = cells
	}
	if flags.Changed("length") {
		cfg.Mesh.Length = length
	}
	if flags.Changed("rho") {
		cfg.Medium.Rho = rho
	}
	if flags.Changed("c") {
		cfg.Medium.C = soundSpeed
	}
	if flags.Changed("damping") {
		cfg.Medium.Damping = damping
	}
	if flags.Changed("nev") {
		cfg.Solver.Nev = nev
	}
	if flags.Changed("tol") {
		cfg.Solver.Tolerance = tolerance
	}
	if flags.Changed("target-re") || flags.Changed("target-im") {
		cfg.Target = config.Complex{Re: targetRe, Im: targetIm}
		cfg.Solver.Shift = cfg.Target
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

type session struct {
	cfg     *config.Config
	problem *acoustic.Problem
	solver  *eigen.DenseSolver
}

func solveProblem(cfg *config.Config) (*session, error) {
	mesh, err := fem.NewIntervalMesh(cfg.Mesh.Cells, cfg.Mesh.Length)
	if err != nil {
		return nil, err
	}
	problem, err := acoustic.NewProblem(mesh, cfg.Medium.Rho, cfg.Medium.C, cfg.Medium.Damping)
	if err != nil {
		return nil, err
	}
	k, b, err := problem.Assemble()
	if err != nil {
		return nil, err
	}

	solver := eigen.NewDenseSolver(eigen.Options{
		Nev:       cfg.Solver.Nev,
		Shift:     cfg.Solver.Shift.Value(),
		Tolerance: cfg.Solver.Tolerance,
		Transform: acoustic.Frequency,
		Logger:    logger,
	})

	start := time.Now()
	if err := solver.Solve(k, b); err != nil {
		return nil, err
	}
	logger.Info("eigenproblem solved",
		zap.String("name", cfg.Name),
		zap.Int("dofs", problem.Partition().Size()),
		zap.Int("converged", solver.Converged()),
		zap.Duration("elapsed", time.Since(start)))

	return &session{cfg: cfg, problem: problem, solver: solver}, nil
}

func (s *session) selector() *modal.Selector {
	return modal.NewSelector(
		modal.WithLogger(logger),
		modal.WithFieldBuilder(fem.BuildField),
	)
}

func runSolve(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := solveProblem(cfg)
	if err != nil {
		return err
	}

	target := cfg.Target.Value()
	mode, err := s.selector().Select(s.solver, target, s.problem.Q, s.problem.V, s.problem.Partition())
	if err != nil {
		return err
	}

	if err := report.Summary(os.Stdout, "closest mode ("+cfg.Name+")", target, mode); err != nil {
		return err
	}
	if plot {
		fmt.Println(report.PlotField(mode.P.Values, "|p| along x"))
		fmt.Println()
		fmt.Println(report.PlotField(mode.V.Values, "|v| along x"))
		fmt.Println()
	}

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	coords := map[string][]float64{
		"p": s.problem.Q.Coordinates(),
		"v": s.problem.V.Coordinates(),
	}
	runID, err := st.Save(cfg, target, mode, coords)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	s, err := solveProblem(cfg)
	if err != nil {
		return err
	}

	target := cfg.Target.Value()
	mode, err := s.selector().Select(s.solver, target, s.problem.Q, s.problem.V, s.problem.Partition())
	if err != nil {
		return err
	}
	return report.Spectrum(os.Stdout, s.solver.Values(), target, mode.Index)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	list, err := parseTargets(targets)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		list = []complex128{cfg.Target.Value()}
	}

	s, err := solveProblem(cfg)
	if err != nil {
		return err
	}

	results, err := sweep.Run(cmd.Context(), s.solver, list, s.problem.Q, s.problem.V, s.problem.Partition(), sweep.Options{
		Workers:  workers,
		Selector: s.selector(),
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tINDEX\tEIGENVALUE\tDISTANCE\t")
	for _, r := range results {
		fmt.Fprintf(w, "%s\t%d\t%s\t%.6g\t\n",
			report.FormatComplex(r.Target), r.Mode.Index,
			report.FormatComplex(r.Mode.Eigenvalue), r.Mode.Distance)
	}
	return w.Flush()
}

// parseTargets reads "re:im,re:im". A bare number is a real target.
func parseTargets(s string) ([]complex128, error) {
	var out []complex128
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		reStr, imStr, hasIm := strings.Cut(part, ":")
		re, err := strconv.ParseFloat(reStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid target %q: %w", part, err)
		}
		im := 0.0
		if hasIm {
			im, err = strconv.ParseFloat(imStr, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid target %q: %w", part, err)
			}
		}
		out = append(out, complex(re, im))
	}
	return out, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tTARGET\tEIGENVALUE\tDISTANCE\tTIMESTAMP\t")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.6g\t%s\t\n",
			run.ID, run.Name,
			report.FormatComplex(run.Target.Value()),
			report.FormatComplex(run.Eigenvalue.Value()),
			run.Distance,
			run.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	fields, err := st.LoadMode(args[0])
	if err != nil {
		return err
	}

	p, v := fields["p"], fields["v"]
	if p == nil || v == nil {
		return fmt.Errorf("%w: run %s lacks p or v", storage.ErrCorruptRun, args[0])
	}
	mode := &modal.Mode{
		Index:      meta.Index,
		Eigenvalue: meta.Eigenvalue.Value(),
		Distance:   meta.Distance,
		Converged:  meta.Converged,
		P:          modal.NewField(nil, p.Values),
		V:          modal.NewField(nil, v.Values),
	}

	if err := report.Summary(os.Stdout, meta.ID, meta.Target.Value(), mode); err != nil {
		return err
	}
	fmt.Println(report.PlotField(p.Values, "|p| along x"))
	fmt.Println()
	fmt.Println(report.PlotField(v.Values, "|v| along x"))
	return nil
}

type exportField struct {
	X  []float64 `json:"x"`
	Re []float64 `json:"re"`
	Im []float64 `json:"im"`
}

type exportData struct {
	Meta   *storage.RunMetadata   `json:"meta"`
	Fields map[string]exportField `json:"fields"`
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	fields, err := st.LoadMode(args[0])
	if err != nil {
		return err
	}

	out := exportData{Meta: meta, Fields: make(map[string]exportField, len(fields))}
	for name, f := range fields {
		ef := exportField{X: f.X, Re: make([]float64, len(f.Values)), Im: make([]float64, len(f.Values))}
		for i, z := range f.Values {
			ef.Re[i], ef.Im[i] = real(z), imag(z)
		}
		out.Fields[name] = ef
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
