package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	minicc "github.com/yxawander/minicc"
	"github.com/yxawander/minicc/formatter"
)

var compileQuiet bool

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Run the full pipeline: tokenize, parse and emit three-address code",
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
		failed := 0
		for _, path := range args {
			if err := runCompile(pipeline, path); err != nil {
				logger.Error("compile failed", zap.String("path", path), zap.Error(err))
				failed++
			}
			if bar != nil {
				_ = bar.Add(1)
			}
		}
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	compileCmd.Flags().BoolVarP(&compileQuiet, "quiet", "q", false, "suppress the per-token report on stdout")
}

func runCompile(pipeline *minicc.Pipeline, path string) error {
	source, err := readSourceFile(path)
	if err != nil {
		return err
	}

	start := time.Now()
	result := pipeline.Compile(source)
	logger.Info("compiled",
		zap.String("path", path),
		zap.Int("tokens", len(result.Tokens)),
		zap.Int("quads", len(result.Quads)),
		zap.Int("syntaxErrors", len(result.Errors)),
		zap.Duration("elapsed", time.Since(start)),
	)

	tokenReport := formatter.TokenReport(result.Tokens, path)
	if !compileQuiet {
		fmt.Print(tokenReport)
	}

	if err := writeReport(outputPath(path, "_regex_dfa.txt"), pipeline.Lexer().DumpAutomata()); err != nil {
		return err
	}
	if err := writeReport(outputPath(path, "_lexer_output.txt"), tokenReport); err != nil {
		return err
	}
	parseLog := formatter.ParseLog(result.ParseTrace, result.EmitTrace, result.Errors)
	if err := writeReport(outputPath(path, "_rd_parser_log.txt"), parseLog); err != nil {
		return err
	}
	tac := formatter.TACListing(result.Quads) + "\n\n" + formatter.QuadListing(result.Quads)
	if err := writeReport(outputPath(path, "_tac_output.txt"), tac); err != nil {
		return err
	}

	fmt.Print(formatter.ParseErrorReport(result.Errors))
	return nil
}
