package cmd

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cliquecount/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string
	logger     utils.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cliquecount",
	Short: "Distributed clique-counting engine",
	Long: `cliquecount counts cliques of every size in an undirected graph,
distributing the Chiba-Nishizeki enumeration across worker ranks that
cooperate over a ranked message-passing transport and donate work to
idle peers mid-search.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (database/storage/telemetry blocks)")

	binName := BinName()
	rootCmd.Example = `  # Count cliques in a local edge list across 4 ranks
  ` + binName + ` count -f ./graph.tsv -n 4

  # Count cliques in a COS-hosted dataset, donation disabled, logging results
  ` + binName + ` count -d datasets/graph.tsv -n 8 -h=false -o ./cliquecount.log

  # Force a fixed donation threshold instead of auto-computing it
  ` + binName + ` count -f ./graph.tsv -n 4 -t 16`
}

// GetLogger returns the configured logger
func GetLogger() utils.Logger {
	return logger
}

// BinName returns the base name of the current executable
func BinName() string {
	return filepath.Base(os.Args[0])
}
