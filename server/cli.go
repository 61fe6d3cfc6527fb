package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/meikuraledutech/diagram"
	"github.com/spf13/cobra"
)

// execute runs the diagramd command tree.
func execute() error {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "diagramd",
		Short:        "diagramd validates and stores goal and process diagrams",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := LoadConfig(configPath)
			if err != nil {
				return err
			}
			level, err := log.ParseLevel(cfg.Log.Level)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if verbose {
				level = log.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			ctx = context.WithValue(ctx, configKey, cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml or toml)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newSchemaCmd())
	root.AddCommand(newCheckCmd())

	return root.ExecuteContext(context.Background())
}

const configKey ctxKey = 1

func configFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(configKey).(*Config); ok {
		return cfg
	}
	return DefaultConfig()
}

func newServeCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			logger := loggerFromContext(ctx)
			if listen != "" {
				cfg.Listen = listen
			}

			store, closeStore, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := store.CreateSchema(ctx); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}

			logger.Info("listening", "addr", cfg.Listen, "store", cfg.Store.Driver)
			return newApp(store, logger).Listen(cfg.Listen)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (overrides config)")
	return cmd
}

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the storage schema",
	}

	run := func(name string, op func(diagram.Store, context.Context) error) *cobra.Command {
		return &cobra.Command{
			Use:   name,
			Short: name + " the schema",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ctx := cmd.Context()
				cfg := configFromContext(ctx)
				store, closeStore, err := openStore(ctx, cfg.Store)
				if err != nil {
					return err
				}
				defer closeStore()
				if err := op(store, ctx); err != nil {
					return err
				}
				loggerFromContext(ctx).Info("schema "+name+"d", "store", cfg.Store.Driver)
				return nil
			},
		}
	}

	cmd.AddCommand(run("create", diagram.Store.CreateSchema))
	cmd.AddCommand(run("drop", diagram.Store.DropSchema))
	return cmd
}

func newCheckCmd() *cobra.Command {
	var model string

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate every connection in an exported diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			doc, err := diagram.ReadDocument(f)
			if err != nil {
				return err
			}
			if model != "" {
				doc.Model = model
			}
			bad := checkDocument(cmd.OutOrStdout(), doc)
			loggerFromContext(cmd.Context()).Debug("checked", "file", args[0], "edges", len(doc.Edges), "invalid", bad)
			if bad > 0 {
				return fmt.Errorf("%d invalid connection(s)", bad)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&model, "model", "m", "", "model id (inferred from the nodes when the file has none)")
	return cmd
}

// checkDocument validates each edge of doc and, for process models, the
// whole process. It writes one line per finding and returns the number of
// refused connections.
func checkDocument(w io.Writer, doc *diagram.Document) int {
	model := doc.ModelID()
	rules := diagram.RulesFor(model)
	cat := doc.Catalog()

	bad := 0
	for _, e := range doc.Edges {
		res := rules.Validate(diagram.Connection{Source: e.Source, Target: e.Target}, doc.Nodes, e.Type, cat)
		if !res.Valid {
			bad++
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, res.Code, res.Message)
			continue
		}
		if res.Message != "" {
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.ID, res.Severity, res.Message)
		}
	}
	if model == diagram.ModelBPMN {
		for _, res := range diagram.ValidateProcess(doc.Nodes, doc.Edges) {
			fmt.Fprintf(w, "process\t%s\t%s\n", res.Severity, res.Message)
		}
	}
	return bad
}
