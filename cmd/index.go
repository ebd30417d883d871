package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ymaeda-ai/insurag/internal/corpus"
	"github.com/ymaeda-ai/insurag/internal/db"
	"github.com/ymaeda-ai/insurag/internal/indexer"
	"github.com/ymaeda-ai/insurag/internal/progress"
	"github.com/ymaeda-ai/insurag/internal/vectordb"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the insurance corpora into the vector store",
	Long: `Loads documents from the configured corpus directories, chunks and
embeds them, and writes them to the per-corpus vector collections.
Unchanged documents are skipped on re-runs.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().String("corpus", "all", "which corpus to index: existing, design, or all")
	indexCmd.Flags().Bool("stats", false, "print collection statistics and exit")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	which, _ := cmd.Flags().GetString("corpus")
	statsOnly, _ := cmd.Flags().GetBool("stats")

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	manifest, err := db.Open(manifestPath(cfg))
	if err != nil {
		return fmt.Errorf("opening index manifest: %w", err)
	}
	defer manifest.Close()

	if statsOnly {
		return printStats(manifest)
	}

	var targets []struct{ tag, dir string }
	switch which {
	case "existing":
		targets = append(targets, struct{ tag, dir string }{"existing", cfg.Corpora.ExistingDir})
	case "design":
		targets = append(targets, struct{ tag, dir string }{"design", cfg.Corpora.DesignDir})
	case "all":
		targets = append(targets,
			struct{ tag, dir string }{"existing", cfg.Corpora.ExistingDir},
			struct{ tag, dir string }{"design", cfg.Corpora.DesignDir},
		)
	default:
		return fmt.Errorf("unknown corpus %q (want existing, design, or all)", which)
	}

	embedder, err := createEmbedderFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("creating embedder: %w", err)
	}

	store, err := vectordb.NewChromemStore(vectorDir(cfg), embedder)
	if err != nil {
		return fmt.Errorf("opening vector store: %w", err)
	}

	ix, err := indexer.New(embedder, store, manifest, cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		return err
	}

	for _, target := range targets {
		docs, skipped, err := corpus.Load(target.dir, cfg.Corpora.Include, cfg.Corpora.Exclude)
		if err != nil {
			return fmt.Errorf("loading %s corpus from %s: %w", target.tag, target.dir, err)
		}
		for _, s := range skipped {
			fmt.Fprintf(os.Stderr, "skipping %s: %s\n", s.Path, s.Reason)
		}
		if len(docs) == 0 {
			fmt.Fprintf(os.Stderr, "no documents found in %s\n", target.dir)
			continue
		}

		reporter := progress.NewReporter()
		reporter.Start(len(docs))
		ix.SetProgressFunc(func(done, total int, documentID string) {
			reporter.Update(done, documentID)
		})

		summary, err := ix.Index(ctx, target.tag, docs)
		reporter.Finish()
		if err != nil {
			return fmt.Errorf("indexing %s corpus: %w", target.tag, err)
		}

		fmt.Printf("%s: %d indexed, %d unchanged, %d skipped, %d chunks in %s\n",
			summary.Collection, summary.DocsIndexed, summary.DocsUnchanged,
			len(summary.Skipped), summary.ChunksIndexed, summary.Duration.Round(10*time.Millisecond))
		if verbose {
			for _, s := range summary.Skipped {
				fmt.Fprintf(os.Stderr, "  skipped %s: %s\n", s.DocumentID, s.Reason)
			}
		}
	}

	return nil
}

func printStats(manifest *db.DB) error {
	for _, collection := range []string{vectordb.CollectionExisting, vectordb.CollectionDesign} {
		docs, chunks, err := manifest.CollectionStats(collection)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d documents, %d chunks", collection, docs, chunks)
		run, err := manifest.LastRun(collection)
		if err != nil {
			return err
		}
		if run != nil {
			fmt.Printf(" (last indexed %s)", run.StartedAt.Format("2006-01-02 15:04:05"))
		}
		fmt.Println()
	}
	return nil
}
