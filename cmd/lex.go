package cmd

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	minicc "github.com/yxawander/minicc"
	"github.com/yxawander/minicc/formatter"
)

var lexOutPath string

var lexCmd = &cobra.Command{
	Use:   "lex [files...]",
	Short: "Tokenize source files and write lexical reports",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			fmt.Println("error: please provide source file paths")
			os.Exit(1)
		}

		pipeline, err := newPipeline()
		if err != nil {
			logger.Fatal("failed to initialize pipeline", zap.Error(err))
		}
		reportDiagnostics(pipeline)

		bar := newFileBar(len(args))
		for _, path := range args {
			if err := runLex(pipeline, path); err != nil {
				logger.Error("lex failed", zap.String("path", path), zap.Error(err))
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
	},
}

func init() {
	lexCmd.Flags().StringVarP(&lexOutPath, "out", "o", "", "write the report to this path instead of next to the source")
}

func runLex(pipeline *minicc.Pipeline, path string) error {
	source, err := readSourceFile(path)
	if err != nil {
		return err
	}

	tokens := pipeline.Lexer().Tokenize(source)
	report := formatter.TokenReport(tokens, path)
	fmt.Print(report)

	out := lexOutPath
	if out == "" {
		out = outputPath(path, "_lexer_output.txt")
	}
	return writeReport(out, report)
}

// newFileBar returns a progress bar when processing more than one file.
func newFileBar(n int) *progressbar.ProgressBar {
	if n <= 1 {
		return nil
	}
	return progressbar.NewOptions(n,
		progressbar.OptionSetDescription("processing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
	)
}

func reportDiagnostics(pipeline *minicc.Pipeline) {
	for _, diag := range pipeline.Lexer().Diagnostics() {
		logger.Warn("token category degraded", zap.Error(diag))
	}
}
