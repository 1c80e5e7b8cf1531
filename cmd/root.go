package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	minicc "github.com/yxawander/minicc"
)

var (
	cfgFile string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:              "minicc [files...]",
	Short:            "minicc - DFA-based lexer and LL(1) front end for a small C-like language",
	TraverseChildren: true, // Prioritize subcommands
	Run: func(cmd *cobra.Command, args []string) {
		// no subcommand
		if len(args) == 0 {
			_ = cmd.Help()
			return
		}
		// Format: minicc [file1 file2 ...] => behaves like the compile subcommand
		compileCmd.Run(compileCmd, args)
	},
}

func Execute() error {
	defer func() { _ = logger.Sync() }()
	return rootCmd.Execute()
}

func init() {
	logger = zap.Must(zap.NewProduction())

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to a YAML config file")

	rootCmd.AddCommand(lexCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(setsCmd)
	rootCmd.AddCommand(dfaCmd)
	rootCmd.AddCommand(watchCmd)
}

// newPipeline builds the compiler front end from the active config file.
func newPipeline() (*minicc.Pipeline, error) {
	cfg, err := minicc.LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}
	return minicc.New(cfg)
}
