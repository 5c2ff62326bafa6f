package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pbaille/ankigraph/internal/config"
	"github.com/pbaille/ankigraph/internal/domain"
	"github.com/pbaille/ankigraph/internal/dump"
	"github.com/pbaille/ankigraph/internal/fetcher"
	"github.com/pbaille/ankigraph/internal/graph"
	"github.com/pbaille/ankigraph/internal/logger"
	"github.com/pbaille/ankigraph/internal/render"
)

// flags shared by every subcommand
var (
	configPath string
	source     string
	firstAid   bool
	showOther  bool
	exclude    []string
	weighting  string
	logMode    string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ankigraph",
		Short:        "Build a tag co-occurrence graph from a deck dump",
		SilenceUsage: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&configPath, "config", "c", "", "YAML config file")
	pf.StringVarP(&source, "source", "s", "", "dump file path or URL")
	pf.BoolVar(&firstAid, "firstaid", false, "include FirstAid tags in views")
	pf.BoolVar(&showOther, "show-other", false, "include untracked (other) tags in views")
	pf.StringSliceVar(&exclude, "exclude", nil, "extra categories to hide on top of other and FirstAid (B&B, Pathoma, Sketchy, FirstAid, other)")
	pf.StringVar(&weighting, "weighting", "", "edge weighting: discovery or records")
	pf.StringVar(&logMode, "log-mode", "", "log mode: dev, debug or prod")

	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(tagsCmd())
	rootCmd.AddCommand(edgesCmd())
	rootCmd.AddCommand(renderCmd())
	rootCmd.AddCommand(snapshotCmd())
	rootCmd.AddCommand(runsCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

// session is one loaded configuration plus the graph built from it
type session struct {
	cfg     config.Config
	log     *logger.Logger
	exclude domain.CategorySet
	graph   *graph.Graph
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source = source
	}
	if flags.Changed("firstaid") {
		cfg.FirstAid = firstAid
	}
	if flags.Changed("show-other") {
		cfg.ShowOther = showOther
	}
	if flags.Changed("exclude") {
		cfg.Exclude = exclude
	}
	if flags.Changed("weighting") {
		cfg.Weighting = weighting
	}
	if flags.Changed("log-mode") {
		cfg.LogMode = logMode
	}

	return cfg, cfg.Validate()
}

// open loads config, reads the dump and builds the graph
func open(cmd *cobra.Command) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	exclusions, err := cfg.Exclusions()
	if err != nil {
		return nil, err
	}
	w, err := cfg.GraphWeighting()
	if err != nil {
		return nil, err
	}

	g, err := buildGraph(cmd.Context(), cfg, w, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	return &session{cfg: cfg, log: log, exclude: exclusions, graph: g}, nil
}

func buildGraph(ctx context.Context, cfg config.Config, w graph.Weighting, log *logger.Logger) (*graph.Graph, error) {
	rc, err := fetcher.Open(ctx, cfg.Source)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	records, res, err := dump.Parse(rc, dump.WithSeparator(cfg.Separator), dump.WithLogger(log))
	if err != nil {
		return nil, err
	}
	log.Info("dump parsed", "source", cfg.Source, "records", res.Records, "malformed", res.Malformed, "untagged", res.Untagged)

	g, err := graph.Build(records, graph.WithLogger(log), graph.WithWeighting(w))
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	log.Info("graph built", "nodes", g.Len(), "weighting", w.String())
	return g, nil
}

func buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the graph and print a summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			st := s.graph.Stats(s.exclude)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Nodes:         %d\n", st.Nodes)
			fmt.Fprintf(out, "Edges:         %d\n", st.Edges)
			fmt.Fprintf(out, "Visible nodes: %d\n", st.VisibleNodes)
			fmt.Fprintf(out, "Visible edges: %d (total weight %d)\n", st.VisibleEdges, st.TotalWeight)
			fmt.Fprintf(out, "Excluded:      %v\n", st.Excluded)

			names := make([]string, 0, len(st.ByCategory))
			for name := range st.ByCategory {
				names = append(names, name)
			}
			sort.Strings(names)
			fmt.Fprintln(out, "\nBy category:")
			for _, name := range names {
				fmt.Fprintf(out, "  %-9s %d\n", name, st.ByCategory[name])
			}
			return nil
		},
	}
}

func renderCmd() *cobra.Command {
	var (
		out    string
		labels bool
		width  int
		height int
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the visible graph as a PNG",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			opts := renderOptions(s.cfg)
			if cmd.Flags().Changed("labels") {
				opts.Labels = labels
			}
			if cmd.Flags().Changed("width") {
				opts.Width = width
			}
			if cmd.Flags().Changed("height") {
				opts.Height = height
			}

			if dir := filepath.Dir(out); dir != "." {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := render.PNG(f, s.graph, s.exclude, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			s.log.Info("graph rendered", "path", out)
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "graph.png", "output PNG path")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw tag labels")
	cmd.Flags().IntVar(&width, "width", 0, "image width in pixels")
	cmd.Flags().IntVar(&height, "height", 0, "image height in pixels")
	return cmd
}

func renderOptions(cfg config.Config) render.Options {
	return render.Options{
		Width:      cfg.Render.Width,
		Height:     cfg.Render.Height,
		Iterations: cfg.Render.Iterations,
		Labels:     cfg.Render.Labels,
		FontPath:   cfg.Render.FontPath,
		FontSize:   cfg.Render.FontSize,
	}
}
