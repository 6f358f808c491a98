// Package convert runs the documentation pipeline: parse rule documentation,
// merge it across files, assemble rule models from the check catalog and
// write the output artifact.
package convert

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/c360studio/ruledoc/catalog"
	"github.com/c360studio/ruledoc/config"
	"github.com/c360studio/ruledoc/export"
	"github.com/c360studio/ruledoc/rule"
	"github.com/c360studio/ruledoc/source"
	"github.com/c360studio/ruledoc/source/messages"
	"github.com/c360studio/ruledoc/source/parser"
)

// Documents is the merged documentation of one run.
type Documents struct {
	// Files lists the documentation files read, in order.
	Files []string

	// Rules maps rule names to their merged documents.
	Rules map[string]*source.Document

	// Conflicts lists descriptions rejected during merging.
	Conflicts []source.Conflict
}

// Result is the outcome of one run.
type Result struct {
	RunID      string
	Generator  string
	Files      []string
	Sets       []*rule.Set
	Stats      rule.Stats
	Conflicts  []source.Conflict
	Duplicates []rule.Duplicate
	Output     string
	Duration   time.Duration
}

// Converter runs the pipeline for one configuration.
type Converter struct {
	cfg     *config.Config
	parsers *parser.Registry
	logger  *slog.Logger
}

// New creates a Converter. cfg must be valid.
func New(cfg *config.Config, logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{
		cfg:     cfg,
		parsers: parser.DefaultRegistry,
		logger:  logger,
	}
}

// Run executes the whole pipeline. Only configuration errors (invalid
// priority, unreadable catalog) and output failures abort the run; all other
// anomalies are logged and returned in the Result.
func (c *Converter) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	logger := c.logger.With("run_id", runID)
	logger.Info("Starting run", "apt_dir", c.cfg.Input.AptDir, "format", c.cfg.Output.Format)

	docs, err := c.documents(ctx, logger)
	if err != nil {
		return nil, err
	}

	cat, err := c.loadCatalog(ctx, logger)
	if err != nil {
		return nil, err
	}

	msgs, err := messages.Open(c.cfg.Input.Messages, logger)
	if err != nil {
		return nil, err
	}

	builder := rule.NewBuilder(msgs, docs.Rules,
		rule.WithBaseURL(c.cfg.Docs.BaseURL),
		rule.WithLogger(logger))
	registry := rule.NewRegistry(logger)
	for _, set := range cat.Sets {
		registry.Declare(set.Name)
		for _, check := range set.Rules {
			if _, err := registry.Register(set.Name, check.Class, func() (*rule.Model, error) {
				return builder.Build(check, check.Since)
			}); err != nil {
				return nil, fmt.Errorf("set %s: %w", set.Name, err)
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	exporter, err := export.NewExporter(c.cfg.Format(),
		export.WithGenerator(cat.Generator),
		export.WithMarkdown(c.cfg.Output.Markdown),
		export.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	output, err := exporter.Export(c.cfg.Output.Dir, registry.Sets())
	if err != nil {
		return nil, fmt.Errorf("write output: %w", err)
	}

	res := &Result{
		RunID:      runID,
		Generator:  cat.Generator,
		Files:      docs.Files,
		Sets:       registry.Sets(),
		Stats:      rule.Tally(registry.Sets()),
		Conflicts:  docs.Conflicts,
		Duplicates: registry.Duplicates(),
		Output:     output,
		Duration:   time.Since(start),
	}

	if path := c.cfg.Output.MetricsFile; path != "" {
		if err := WriteMetrics(path, res); err != nil {
			logger.Warn("Failed to write metrics", "path", path, "error", err)
		}
	}

	logger.Info("Run complete",
		"rules", res.Stats.Total,
		"conflicts", len(res.Conflicts),
		"duplicates", len(res.Duplicates),
		"output", output,
		"duration", res.Duration)
	return res, nil
}

// Documents parses and merges the documentation files only.
func (c *Converter) Documents(ctx context.Context) (*Documents, error) {
	return c.documents(ctx, c.logger)
}

func (c *Converter) documents(ctx context.Context, logger *slog.Logger) (*Documents, error) {
	files, err := ResolveInputs(c.cfg.Input.AptDir, c.cfg.Input.Patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		logger.Warn("No documentation files matched", "apt_dir", c.cfg.Input.AptDir, "patterns", c.cfg.Input.Patterns)
	}

	var parsed []source.FileDocuments
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("Failed to read documentation file", "path", path, "error", err)
			continue
		}
		fd, err := c.parsers.Parse(path, content)
		if err != nil {
			logger.Warn("Failed to parse documentation file", "path", path, "error", err)
			continue
		}
		logger.Debug("Parsed documentation file", "path", path, "rules", len(fd.Documents))
		parsed = append(parsed, fd)
	}

	merged, conflicts := source.NewMerger(logger).Merge(parsed)
	return &Documents{Files: files, Rules: merged, Conflicts: conflicts}, nil
}

func (c *Converter) loadCatalog(ctx context.Context, logger *slog.Logger) (*catalog.File, error) {
	cat, err := catalog.Load(c.cfg.Input.Catalog)
	if err != nil {
		return nil, err
	}
	if c.cfg.Input.Sources == "" {
		return cat, nil
	}

	scanned, err := catalog.NewScanner(logger).ScanDir(ctx, c.cfg.Input.Sources)
	if err != nil {
		return nil, fmt.Errorf("scan check sources: %w", err)
	}
	n := cat.Enrich(scanned)
	logger.Debug("Enriched catalog from sources", "scanned", len(scanned), "enriched", n)
	return cat, nil
}
