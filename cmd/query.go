package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ymaeda-ai/insurag/internal/engine"
	"github.com/ymaeda-ai/insurag/internal/router"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question against the indexed corpora",
	Long: `Routes the question to the right corpus, retrieves the most relevant
passages, and prints a generated answer. Use --retrieve-only to see
the passages without generation.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueryCmd,
}

func init() {
	queryCmd.Flags().String("source", "auto", "corpus to query: auto, existing, design, or both")
	queryCmd.Flags().Int("top-k", 0, "number of passages to retrieve (default from config)")
	queryCmd.Flags().Bool("retrieve-only", false, "skip generation and print retrieved passages")
	queryCmd.Flags().Bool("json", false, "output the full response as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQueryCmd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]

	sourceFlag, _ := cmd.Flags().GetString("source")
	topK, _ := cmd.Flags().GetInt("top-k")
	retrieveOnly, _ := cmd.Flags().GetBool("retrieve-only")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	source, err := router.ParseSource(sourceFlag)
	if err != nil {
		return err
	}

	svc, err := createServiceFromConfig(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	if eng, ok := svc.(*engine.Engine); ok {
		if err := eng.Warmup(ctx); err != nil {
			return fmt.Errorf("warming up: %w", err)
		}
	}

	if retrieveOnly {
		resp, err := svc.Retrieve(ctx, engine.RetrieveRequest{Question: question, Source: source, TopK: topK})
		if err != nil {
			return err
		}
		if jsonOutput {
			return json.NewEncoder(os.Stdout).Encode(resp)
		}
		if len(resp.Documents) == 0 {
			fmt.Println("No passages found. Run `insurag index` first.")
			return nil
		}
		fmt.Printf("Routed to %s\n\n", resp.DetectedSource)
		for i, doc := range resp.Documents {
			fmt.Printf("%d. %s (%s, similarity %.3f)\n%s\n\n", i+1, doc.DocumentID, doc.Corpus, doc.Similarity, doc.Text)
		}
		return nil
	}

	resp, err := svc.Ask(ctx, engine.QueryRequest{Question: question, Source: source, TopK: topK})
	if err != nil {
		return err
	}
	if jsonOutput {
		return json.NewEncoder(os.Stdout).Encode(resp)
	}

	fmt.Println(resp.Answer)
	if len(resp.Sources) > 0 {
		fmt.Println("\nSources:")
		for _, src := range resp.Sources {
			fmt.Printf("- %s (%s)\n", src.DocumentID, src.Corpus)
		}
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "\nrouted to %s, retrieval %.3fs, generation %.3fs, total %.3fs\n",
			resp.DetectedSource, resp.RetrievalTime, resp.GenerationTime, resp.TotalTime)
	}
	return nil
}
