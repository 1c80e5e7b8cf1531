package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dfaCmd = &cobra.Command{
	Use:   "dfa",
	Short: "Print every token category's pattern and minimized DFA",
	Run: func(cmd *cobra.Command, args []string) {
		pipeline, err := newPipeline()
		if err != nil {
			logger.Fatal("failed to initialize pipeline", zap.Error(err))
		}
		reportDiagnostics(pipeline)
		fmt.Print(pipeline.Lexer().DumpAutomata())
	},
}
