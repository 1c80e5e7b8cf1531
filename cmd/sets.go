package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yxawander/minicc/parser"
)

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "Print the FIRST/FOLLOW/SELECT tables of the built-in grammar",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Print(parser.FormatSets(parser.DefaultSets()))
	},
}
