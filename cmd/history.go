// Package cmd implements the command-line interface for livesan.
package cmd

import (
	"fmt"
	"os"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/livesan-cli/livesan/color"
	"github.com/livesan-cli/livesan/history"
	"github.com/livesan-cli/livesan/icon"
	"github.com/livesan-cli/livesan/style"
)

func init() {
	rootCmd.AddCommand(historyCmd)
}

// historyCmd provides a parent command for inspecting the watch history.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage watched channel history",
}

func init() {
	historyCmd.AddCommand(historyListCmd)

	historyListCmd.Flags().BoolP("raw", "r", false, "Suppress header and watch metadata in the output")
	historyListCmd.SetOut(os.Stdout)
}

// historyListCmd displays watched channels, most recently watched first.
var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "Display watched channels, most recent first",
	Run: func(cmd *cobra.Command, args []string) {
		saved, err := history.Get()
		handleErr(err)

		printHeader := !lo.Must(cmd.Flags().GetBool("raw"))
		headerStyle := style.New().Foreground(color.HiBlue).Bold(true).Render

		records := lo.Values(saved)
		slices.SortFunc(records, func(a, b *history.SavedChannel) int {
			return b.LastWatched.Compare(a.LastWatched)
		})

		if printHeader {
			cmd.Println(headerStyle("Watched:"))
		}

		for _, r := range records {
			if printHeader {
				cmd.Printf("%s %s\n", r.Name, style.Faint(fmt.Sprintf("(%s) watched %d times, last %s", r.SourceID, r.WatchCount, r.LastWatched.Format("2006-01-02"))))
				continue
			}
			cmd.Println(r.Name)
		}
	},
}

func init() {
	historyCmd.AddCommand(historyRemoveCmd)
}

// historyRemoveCmd deletes a channel's watch record by name.
var historyRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a channel from the watch history",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]

		saved, err := history.Get()
		handleErr(err)

		record, found := lo.Find(lo.Values(saved), func(r *history.SavedChannel) bool {
			return r.Name == name
		})
		if !found {
			handleErr(fmt.Errorf("no watch record for %s", style.Fg(color.Red)(name)))
		}

		handleErr(history.Remove(record))
		fmt.Printf("%s %s removed from history\n", icon.Get(icon.Success), style.Bold(name))
	},
}
