package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/xhad/infographic/internal/logger"
	"github.com/xhad/infographic/internal/types"
	"github.com/xhad/infographic/pkg/analyzer"
	"github.com/xhad/infographic/pkg/extractor"
	"github.com/xhad/infographic/pkg/llm"
)

type analyzeOptions struct {
	outputDir   string
	concurrency int
	store       bool
}

func newAnalyzeCmd(a *app) *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file|url>...",
		Short: "Analyze documents and write one infographic bundle per document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyze(cmd.Context(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "Output directory (default from config)")
	cmd.Flags().IntVarP(&opts.concurrency, "concurrency", "c", 4, "Documents analyzed in parallel")
	cmd.Flags().BoolVar(&opts.store, "store", false, "Archive analyses in Postgres")
	return cmd
}

// pipeline runs one document from source to bundle.
type pipeline struct {
	registry  *extractor.Registry
	analyzer  *analyzer.Analyzer
	outputDir string
	archive   types.AnalysisStore
	embedder  types.Embedder
	log       logrus.FieldLogger
}

func (a *app) runAnalyze(ctx context.Context, out io.Writer, sources []string, opts *analyzeOptions) error {
	if opts.concurrency < 1 {
		return errors.New("--concurrency must be at least 1")
	}
	outputDir := opts.outputDir
	if outputDir == "" {
		outputDir = a.cfg.Output.Dir
	}

	p := &pipeline{
		registry:  a.newRegistry(),
		analyzer:  a.newAnalyzer(),
		outputDir: outputDir,
		log:       logger.Log,
	}

	if opts.store {
		archive, err := a.openStore(ctx)
		if err != nil {
			return err
		}
		defer archive.Close()
		p.archive = archive

		if a.cfg.Database.Embed {
			embedder, err := a.newEmbedder()
			if errors.Is(err, llm.ErrDisabled) {
				logger.Log.Warn("embeddings disabled: no API key")
			} else if err != nil {
				return err
			} else {
				p.embedder = embedder
			}
		}
	}

	results := p.run(ctx, sources, opts.concurrency)
	printReport(out, results)

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents failed", failed, len(results))
	}
	return nil
}

// run processes sources with at most concurrency documents in flight. A
// failing document does not stop the others.
func (p *pipeline) run(ctx context.Context, sources []string, concurrency int) []result {
	results := make([]result, len(sources))

	bar := func() {}
	if len(sources) > 1 {
		pb := getProgressBar(len(sources), "Analyzing documents...")
		defer pb.Finish()
		bar = func() { pb.Add(1) }
	}

	var g errgroup.Group
	g.SetLimit(concurrency)
	for i, source := range sources {
		i, source := i, source
		g.Go(func() error {
			results[i] = p.process(ctx, source)
			bar()
			return nil
		})
	}
	g.Wait()

	p.log.WithField("documents", len(sources)).Debug("batch complete")
	return results
}

func (p *pipeline) process(ctx context.Context, source string) result {
	res := result{Source: source}
	log := p.log.WithField("source", source)

	content, err := p.registry.Extract(ctx, source)
	if err != nil {
		res.Err = err
		log.WithError(err).Warn("extraction failed")
		return res
	}

	analysis := p.analyzer.Analyze(ctx, content)
	analyzer.NormalizeTitle(analysis, fallbackTitle(source))

	res.Bundle = newBundle(uuid.NewString(), source, analysis)
	res.Path, res.Err = writeBundle(p.outputDir, res.Bundle)
	if res.Err != nil {
		log.WithError(res.Err).Error("failed to write bundle")
		return res
	}

	if p.archive != nil {
		if err := p.save(ctx, res.Bundle); err != nil {
			log.WithError(err).Error("failed to archive analysis")
			res.Err = err
			return res
		}
		res.Stored = true
	}

	log.WithFields(logrus.Fields{
		"id":    res.Bundle.ID,
		"theme": res.Bundle.Theme.Name,
	}).Info("infographic bundle written")
	return res
}

// save archives b. An embedding failure is logged and the record is kept
// without a vector.
func (p *pipeline) save(ctx context.Context, b *Bundle) error {
	rec := types.Record{
		ID:       b.ID,
		Source:   b.Source,
		Theme:    b.Theme.Name,
		Analysis: *b.Analysis,
	}
	if p.embedder != nil {
		vector, err := p.embedder.Embed(ctx, llm.EmbeddingText(b.Analysis.Title, b.Analysis.Summary))
		if err != nil {
			p.log.WithError(err).WithField("id", b.ID).Warn("embedding failed, archiving without it")
		} else {
			rec.Embedding = vector
		}
	}
	return p.archive.Save(ctx, rec)
}
