package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"sort"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/ruledoc/config"
	"github.com/c360studio/ruledoc/convert"
	"github.com/c360studio/ruledoc/export"
	"github.com/c360studio/ruledoc/source"
)

type generateOptions struct {
	format      string
	markdown    bool
	outDir      string
	aptDir      string
	catalog     string
	messages    string
	sources     string
	metricsFile string
	baseURL     string
	watch       bool
}

func generateCmd(global *globalOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate rule definitions from the documentation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global, func(cfg *config.Config) {
				applyGenerateFlags(cmd, opts, cfg)
			})
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			conv := convert.New(cfg, slog.Default())
			out := cmd.OutOrStdout()
			if !opts.watch {
				res, err := conv.Run(ctx)
				if err != nil {
					return err
				}
				printSummary(out, res)
				return nil
			}

			return conv.Watch(ctx, func(res *convert.Result, err error) {
				if err != nil {
					slog.Error("Run failed", "error", err)
					return
				}
				printSummary(out, res)
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.format, "format", "f", "", fmt.Sprintf("Output format %v", export.FormatNames()))
	f.BoolVar(&opts.markdown, "markdown", false, "Also write Markdown files (json-html only)")
	f.StringVarP(&opts.outDir, "out", "o", "", "Output directory")
	f.StringVar(&opts.aptDir, "apt-dir", "", "Directory holding the APT documentation")
	f.StringVar(&opts.catalog, "catalog", "", "Check catalog file (YAML)")
	f.StringVar(&opts.messages, "messages", "", "Base messages properties file")
	f.StringVar(&opts.sources, "sources", "", "Check source tree to read priorities and defaults from")
	f.StringVar(&opts.metricsFile, "metrics-file", "", "Write run metrics to this file")
	f.StringVar(&opts.baseURL, "base-url", "", "Base URL for relative documentation links")
	f.BoolVarP(&opts.watch, "watch", "w", false, "Regenerate whenever an input changes")

	return cmd
}

// applyGenerateFlags overrides configuration values with explicitly set flags.
func applyGenerateFlags(cmd *cobra.Command, opts *generateOptions, cfg *config.Config) {
	changed := cmd.Flags().Changed
	if changed("format") {
		cfg.Output.Format = opts.format
	}
	if changed("markdown") {
		cfg.Output.Markdown = opts.markdown
	}
	if changed("out") {
		cfg.Output.Dir = opts.outDir
	}
	if changed("apt-dir") {
		cfg.Input.AptDir = opts.aptDir
	}
	if changed("catalog") {
		cfg.Input.Catalog = opts.catalog
	}
	if changed("messages") {
		cfg.Input.Messages = opts.messages
	}
	if changed("sources") {
		cfg.Input.Sources = opts.sources
	}
	if changed("metrics-file") {
		cfg.Output.MetricsFile = opts.metricsFile
	}
	if changed("base-url") {
		cfg.Docs.BaseURL = opts.baseURL
	}
}

// printSummary prints the run statistics followed by every description
// conflict and duplicate rule of the run.
func printSummary(w io.Writer, res *convert.Result) {
	res.Stats.Print(w)
	fmt.Fprintf(w, "%d description conflicts, %d duplicate rules\n", len(res.Conflicts), len(res.Duplicates))
	for _, c := range res.Conflicts {
		fmt.Fprintf(w, "  conflict: %s (kept %s, rejected %s)\n", c.Rule, c.KeptFrom, c.RejectedFrom)
	}
	for _, d := range res.Duplicates {
		fmt.Fprintf(w, "  duplicate: %s in set %s (first registered in %s)\n", d.Key, d.Set, d.FirstSet)
	}
	fmt.Fprintf(w, "Output written to %s\n", res.Output)
}

// documentView is the printable form of a merged document.
type documentView struct {
	Rule        string             `json:"rule"`
	Description string             `json:"description"`
	Parameters  []source.Parameter `json:"parameters"`
}

func docsCmd(global *globalOptions) *cobra.Command {
	var (
		aptDir  string
		asJSON  bool
		onlyFor string
	)

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Print the merged documentation parsed from the APT files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(global, func(cfg *config.Config) {
				if cmd.Flags().Changed("apt-dir") {
					cfg.Input.AptDir = aptDir
				}
			})
			if err != nil {
				return err
			}

			docs, err := convert.New(cfg, slog.Default()).Documents(cmd.Context())
			if err != nil {
				return err
			}

			names := make([]string, 0, len(docs.Rules))
			for name := range docs.Rules {
				if onlyFor == "" || name == onlyFor {
					names = append(names, name)
				}
			}
			sort.Strings(names)

			views := make([]documentView, 0, len(names))
			for _, name := range names {
				doc := docs.Rules[name]
				params := doc.Parameters.Sorted()
				if params == nil {
					params = []source.Parameter{}
				}
				views = append(views, documentView{Rule: name, Description: doc.Description, Parameters: params})
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			}
			printDocuments(out, views, docs)
			return nil
		},
	}

	cmd.Flags().StringVar(&aptDir, "apt-dir", "", "Directory holding the APT documentation")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	cmd.Flags().StringVar(&onlyFor, "rule", "", "Only print the document of this rule")

	return cmd
}

func printDocuments(w io.Writer, views []documentView, docs *convert.Documents) {
	for _, v := range views {
		fmt.Fprintf(w, "== %s\n%s", v.Rule, v.Description)
		for _, p := range v.Parameters {
			fmt.Fprintf(w, "  - %s", p.Key)
			if p.DefaultValue != "" {
				fmt.Fprintf(w, " (default %s)", p.DefaultValue)
			}
			if p.Description != "" {
				fmt.Fprintf(w, ": %s", p.Description)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d documents from %d files, %d conflicts\n", len(views), len(docs.Files), len(docs.Conflicts))
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare GENERATED REFERENCE",
		Short: "Compare a generated rules.xml with a reference file",
		Long: `Compare reports rules added, removed and changed in GENERATED relative
to REFERENCE. The exit status is 3 when the files differ.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmp, err := export.CompareFiles(args[0], args[1])
			if err != nil {
				return err
			}
			cmp.Print(cmd.OutOrStdout())
			if !cmp.Equal() {
				return &exitCodeError{code: 3}
			}
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the user configuration file if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.NewLoader(slog.Default()).EnsureUserConfig()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User configuration: %s\n", path)
			return nil
		},
	}
}

