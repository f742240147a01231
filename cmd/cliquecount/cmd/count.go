package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cliquecount/internal/engine"
	"github.com/cliquecount/pkg/config"
	apperrors "github.com/cliquecount/pkg/errors"
	"github.com/cliquecount/pkg/model"
)

const defaultLogFile = "./cliquecount.log"

var (
	countDataset   string
	countFile      string
	countRanks     int
	countDonate    bool
	countThreshold int
	countLogFile   string
)

// countCmd implements SPEC_FULL §6's CLI surface: ingest one edge list,
// run the distributed count, print the total and optionally append the
// tab-separated result line.
var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Count cliques of every size in an edge-list dataset",
	RunE:  runCount,
}

func init() {
	// Redefine help without a shorthand so -h is free for --donate,
	// matching spec §6's CLI flag table exactly.
	countCmd.Flags().BoolP("help", "", false, "help for count")

	countCmd.Flags().StringVarP(&countDataset, "dataset", "d", "", "COS object key for the edge list")
	countCmd.Flags().StringVarP(&countFile, "file", "f", "", "local edge-list path (overrides --dataset)")
	countCmd.Flags().IntVarP(&countRanks, "ranks", "n", 4, "number of worker ranks (total participants = ranks+1)")
	countCmd.Flags().BoolVarP(&countDonate, "donate", "h", true, "enable work donation")
	countCmd.Flags().IntVarP(&countThreshold, "threshold", "t", 0, "donation threshold override (0 = auto-compute)")
	countCmd.Flags().StringVarP(&countLogFile, "log-file", "o", "", "tab-separated result log append path (\"1\" = "+defaultLogFile+")")

	rootCmd.AddCommand(countCmd)
}

func runCount(cmd *cobra.Command, args []string) error {
	if countDataset == "" && countFile == "" {
		return apperrors.New(apperrors.CodeInputError, "one of --dataset or --file is required")
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logPath := countLogFile
	if logPath == "1" {
		logPath = defaultLogFile
	}

	ctx := context.Background()
	e, err := engine.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close(ctx)

	rc := model.RunConfig{
		Dataset:         countDataset,
		FilePath:        countFile,
		NumRanks:        countRanks + 1,
		DonationEnabled: countDonate,
		Threshold:       countThreshold,
		Verbose:         verbose,
	}

	summary, err := e.Run(ctx, rc, logPath)
	if err != nil {
		return err
	}

	fmt.Printf("Total number of cliques: %d\n", summary.TotalCliques)
	return nil
}
