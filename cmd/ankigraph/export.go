package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pbaille/ankigraph/internal/api"
	"github.com/pbaille/ankigraph/internal/export"
	"github.com/pbaille/ankigraph/internal/fetcher"
	"github.com/pbaille/ankigraph/internal/store"
)

// defaultDBPath is expanded by getStore so a missing home dir is reported
const defaultDBPath = "~/.ankigraph/graph.db"

func getStore(dbPath string) (*store.Store, error) {
	dbPath, err := fetcher.ExpandHome(dbPath)
	if err != nil {
		return nil, err
	}
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	return store.New(dbPath)
}

func tagsCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Write the tag dictionary as CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			rows := s.graph.TagDictionary()
			if out == "-" {
				return export.WriteTagCSV(cmd.OutOrStdout(), rows)
			}
			if err := export.WriteTagCSVFile(out, rows); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "csv written: %s (%d tags)\n", out, len(rows))
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", export.DefaultTagFile, "output path, - for stdout")
	return cmd
}

func edgesCmd() *cobra.Command {
	var asCSV bool

	cmd := &cobra.Command{
		Use:   "edges",
		Short: "Print the visible edges",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			edges := s.graph.Edges(s.exclude)
			out := cmd.OutOrStdout()
			if asCSV {
				return export.WriteEdgeCSV(out, edges)
			}

			if len(edges) == 0 {
				fmt.Fprintln(out, "No visible edges.")
				return nil
			}
			reg := s.graph.Registry()
			for _, e := range edges {
				a, _ := reg.LookupTag(e.A)
				b, _ := reg.LookupTag(e.B)
				fmt.Fprintf(out, "%4d  %s -- %s\n", e.Weight, a, b)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asCSV, "csv", false, "print as CSV")
	return cmd
}

func snapshotCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Save the built graph into a SQLite database",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			db, err := getStore(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			run, err := db.SaveRun(cmd.Context(), s.cfg.Source, s.graph)
			if err != nil {
				return err
			}
			s.log.Info("snapshot saved", "run", run.ID, "db", dbPath)
			fmt.Fprintf(cmd.OutOrStdout(), "Saved run %s (%d nodes, %d edges)\n", run.ID[:8], run.Nodes, run.Edges)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath, "database path")
	return cmd
}

func runsCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List saved snapshots",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := getStore(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs yet. Use 'ankigraph snapshot' to save one.")
				return nil
			}
			for _, r := range runs {
				fmt.Fprintf(out, "%s  %s  %-9s %5d nodes %6d edges  %s\n",
					r.ID[:8], r.CreatedAt.Format("2006-01-02 15:04:05"), r.Weighting, r.Nodes, r.Edges, r.Source)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", defaultDBPath, "database path")
	return cmd
}

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built graph over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd)
			if err != nil {
				return err
			}
			defer s.log.Sync()

			server := api.New(s.graph, addr, s.exclude, renderOptions(s.cfg), s.log.With("component", "api"))
			return server.Run()
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "server address")
	return cmd
}
