// Package cmd implements the command-line interface for livesan.
package cmd

import (
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/livesan-cli/livesan/color"
	"github.com/livesan-cli/livesan/provider"
	"github.com/livesan-cli/livesan/style"
)

func init() {
	rootCmd.AddCommand(sourcesCmd)
}

// sourcesCmd provides a parent command for inspecting stream sources.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "Manage built-in stream sources",
}

func init() {
	sourcesCmd.AddCommand(sourcesListCmd)

	sourcesListCmd.Flags().BoolP("raw", "r", false, "Suppress header and metadata descriptions in the output")
	sourcesListCmd.SetOut(os.Stdout)
}

// sourcesListCmd displays a summary of all registered stream sources.
var sourcesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display a collection of all registered stream sources",
	Run: func(cmd *cobra.Command, args []string) {
		printHeader := !lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render

		if printHeader {
			cmd.Println(headerStyle("Builtin:"))
		}

		for _, p := range provider.Builtins() {
			if printHeader {
				cmd.Printf("%s %s\n", p.ID, style.Faint("("+p.Name+")"))
				continue
			}
			cmd.Println(p.ID)
		}
	},
}
