package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/jvlmdr/svmplot/config"
	"github.com/jvlmdr/svmplot/contour"
	"github.com/jvlmdr/svmplot/demo"
	"github.com/jvlmdr/svmplot/render"
)

var errTerminal = errors.New("refusing to write a figure to a terminal; use --out or redirect stdout")

type app struct {
	configPath string
	out        string
	format     string
	width      float64
	height     float64
	verbose    bool

	stdout     io.Writer
	isTerminal func() bool
	cfg        *config.Config
}

func newRootCmd(stdout io.Writer, isTerminal func() bool) *cobra.Command {
	a := &app{stdout: stdout, isTerminal: isTerminal}
	root := &cobra.Command{
		Use:               "svmplot",
		Short:             "Draw support vector machine decision boundaries",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVarP(&a.out, "out", "o", "", "output file (default stdout)")
	root.PersistentFlags().StringVar(&a.format, "format", "", "figure format when the output has no extension")
	root.PersistentFlags().Float64Var(&a.width, "width", 0, "figure width in cm")
	root.PersistentFlags().Float64Var(&a.height, "height", 0, "figure height in cm")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log training progress")

	root.AddCommand(a.demoCmd())
	root.AddCommand(a.circlesCmd())
	root.AddCommand(a.boundaryCmd())
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	level := zerolog.InfoLevel
	if a.verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Output.Format = a.format
	}
	if flags.Changed("width") {
		cfg.Output.Width = a.width
	}
	if flags.Changed("height") {
		cfg.Output.Height = a.height
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

func (a *app) demoCmd() *cobra.Command {
	var (
		n      int
		margin int
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Fit a linear SVM to the first N blob points",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.cfg.Train.Options()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("margin") {
				margin = a.cfg.Output.Margin
			}
			res, err := demo.PlotSVM(n,
				demo.WithSurface(plot.New()),
				demo.WithFit(opts),
				demo.WithBlobs(a.cfg.Blobs.Dataset()),
				demo.WithMargin(margin),
			)
			if err != nil {
				return err
			}
			return a.write(res.Plot)
		},
	}
	cmd.Flags().IntVar(&n, "n", demo.DefaultN, "number of points to fit")
	cmd.Flags().IntVar(&margin, "margin", 0, "shade the score with an NxN heat map")
	return cmd
}

func (a *app) circlesCmd() *cobra.Command {
	var (
		kernel string
		gamma  float64
		margin int
	)
	cmd := &cobra.Command{
		Use:   "circles",
		Short: "Fit an SVM to two concentric rings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			train := a.cfg.Train
			// The rings are not linearly separable, so rbf is the default here.
			train.Kernel = "rbf"
			if cmd.Flags().Changed("kernel") {
				train.Kernel = kernel
			}
			if cmd.Flags().Changed("gamma") {
				train.Gamma = gamma
			}
			opts, err := train.Options()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("margin") {
				margin = a.cfg.Output.Margin
			}
			res, err := demo.PlotCircles(opts.Kernel,
				demo.WithSurface(plot.New()),
				demo.WithFit(opts),
				demo.WithCircles(a.cfg.Circles.Dataset()),
				demo.WithMargin(margin),
			)
			if err != nil {
				return err
			}
			return a.write(res.Plot)
		},
	}
	cmd.Flags().StringVar(&kernel, "kernel", "rbf", "kernel: linear or rbf")
	cmd.Flags().Float64Var(&gamma, "gamma", 0, "rbf width (0 selects 1/(dim*var))")
	cmd.Flags().IntVar(&margin, "margin", 0, "shade the score with an NxN heat map")
	return cmd
}

func (a *app) boundaryCmd() *cobra.Command {
	var (
		coef   []float64
		window []float64
	)
	cmd := &cobra.Command{
		Use:   "boundary",
		Short: "Draw the margins of the affine score a*x + b*y + c",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(coef) != 3 {
				return fmt.Errorf("--coef needs 3 values, got %d", len(coef))
			}
			if len(window) != 4 {
				return fmt.Errorf("--window needs 4 values, got %d", len(window))
			}
			score := contour.ScoreFunc(func(x []float64) float64 {
				return coef[0]*x[0] + coef[1]*x[1] + coef[2]
			})
			p := plot.New()
			p.Title.Text = fmt.Sprintf("%gx + %gy + %g", coef[0], coef[1], coef[2])
			render.Limits(p, window[0], window[1], window[2], window[3])
			if _, err := render.DecisionFunction(score, p); err != nil {
				return err
			}
			return a.write(p)
		},
	}
	cmd.Flags().Float64SliceVar(&coef, "coef", []float64{1, -1, 0}, "a,b,c")
	cmd.Flags().Float64SliceVar(&window, "window", append([]float64(nil), demo.Window[:]...), "x0,x1,y0,y1")
	return cmd
}

func (a *app) write(p *plot.Plot) error {
	w := vg.Length(a.cfg.Output.Width) * vg.Centimeter
	h := vg.Length(a.cfg.Output.Height) * vg.Centimeter
	if a.out == "" {
		if a.isTerminal != nil && a.isTerminal() {
			return errTerminal
		}
		return render.Write(p, a.stdout, strings.ToLower(a.cfg.Output.Format), w, h)
	}
	path := a.out
	if filepath.Ext(path) == "" {
		path += "." + strings.ToLower(a.cfg.Output.Format)
	}
	if err := render.Save(p, path, w, h); err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("figure written")
	return nil
}
