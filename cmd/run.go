// Package cmd implements the command-line interface for livesan.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/livesan-cli/livesan/color"
	"github.com/livesan-cli/livesan/history"
	"github.com/livesan-cli/livesan/icon"
	"github.com/livesan-cli/livesan/key"
	"github.com/livesan-cli/livesan/log"
	"github.com/livesan-cli/livesan/provider"
	"github.com/livesan-cli/livesan/query"
	"github.com/livesan-cli/livesan/source"
	"github.com/livesan-cli/livesan/stream"
	"github.com/livesan-cli/livesan/style"
	"github.com/livesan-cli/livesan/util"
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("quality", "q", "best", `Rendition to play: "best", "worst" or an exact quality label`)
	runCmd.Flags().BoolP("select", "s", false, "Pick the rendition interactively")
	runCmd.Flags().BoolP("follow", "f", false, "Keep running and reprint the stream URL whenever its token renews")
	runCmd.MarkFlagsMutuallyExclusive("quality", "select")
}

// runCmd resolves a live channel and emits its tokenized stream URL, kept
// fresh for as long as the command runs.
var runCmd = &cobra.Command{
	Use:   "run [query]",
	Short: "Resolve a live channel and print its stream URL",
	Long: `Resolve a channel through the configured stream source, pick a rendition and
print its tokenized URL. With --follow the command keeps the playlist polled
and reprints the URL every time the embedded token is renewed.`,
	Args: cobra.ExactArgs(1),
	Example: `  livesan run idol_hour
  livesan run https://www.showroom-live.com/idol_hour --follow`,
	Run: func(cmd *cobra.Command, args []string) {
		searchQuery := args[0]

		src := resolveSource()

		channels, err := src.Search(searchQuery)
		handleErr(err)
		if len(channels) == 0 {
			msg := fmt.Sprintf("no channel found for %s", style.Fg(color.Yellow)(searchQuery))
			if suggestion := query.Suggest(searchQuery); suggestion.IsPresent() {
				msg += fmt.Sprintf(", did you mean %s?", style.Fg(color.Green)(suggestion.MustGet()))
			}
			handleErr(fmt.Errorf("%s", msg))
		}

		channel := channels[0]
		if !channel.Live {
			handleErr(fmt.Errorf("%s is currently offline", channel))
		}

		renditions, err := src.RenditionsOf(channel)
		handleErr(err)
		channel.Renditions = renditions
		log.Debugf("Found %s for %s", util.Quantify(len(renditions), "rendition", "renditions"), channel.Name)

		rendition := pickRendition(cmd, renditions)

		s, err := stream.New(channel, rendition, stream.Options{
			Interval: time.Duration(viper.GetFloat64(key.StreamReloadInterval) * float64(time.Second)),
			Margin:   time.Duration(viper.GetInt(key.StreamExpiryMargin)) * time.Second,
		})
		handleErr(err)

		if viper.GetBool(key.HistorySaveOnWatch) {
			if err := history.Save(channel, rendition); err != nil {
				log.Warnf("save history: %v", err)
			}
		}
		if err := query.Remember(searchQuery, 1); err != nil {
			log.Warnf("remember query: %v", err)
		}

		current, err := s.CurrentURL()
		handleErr(err)

		fmt.Println(fitLine(fmt.Sprintf("%s %s %s", icon.Get(icon.Live), style.Bold(channel.String()), style.Faint(rendition.Quality))))
		fmt.Println(current)

		if !lo.Must(cmd.Flags().GetBool("follow")) {
			return
		}

		follow(s, current)
	},
}

// follow keeps the stream polled and reprints the URL on token renewal until
// interrupted or the stream dies.
func follow(s *stream.Stream, current string) {
	s.Start()
	defer s.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.Done():
			handleErr(s.Err())
			return
		case <-ticker.C:
			next, err := s.CurrentURL()
			handleErr(err)

			if next != current {
				current = next
				fmt.Println(current)
			}
		}
	}
}

// fitLine constrains a decorated status line to the terminal width. Lines go
// out unchanged when no terminal is attached.
func fitLine(s string) string {
	width, _, err := util.TerminalSize()
	if err != nil {
		return s
	}
	return style.Truncate(util.Max(width, 24))(s)
}

// resolveSource instantiates the first configured stream source.
func resolveSource() source.Source {
	names := viper.GetStringSlice(key.DefaultSources)
	if len(names) == 0 {
		handleErr(fmt.Errorf("no stream sources configured"))
	}

	p, ok := provider.Get(names[0])
	if !ok {
		handleErr(errUnknownSource(names[0]))
	}

	src, err := p.CreateSource()
	handleErr(err)
	return src
}

func pickRendition(cmd *cobra.Command, renditions []*source.Rendition) *source.Rendition {
	if lo.Must(cmd.Flags().GetBool("select")) && len(renditions) > 1 {
		options := lo.Map(renditions, func(r *source.Rendition, _ int) string {
			return r.String()
		})

		var chosen string
		handleErr(survey.AskOne(&survey.Select{
			Message: "Pick a rendition",
			Options: options,
		}, &chosen))

		_, index, _ := lo.FindIndexOf(renditions, func(r *source.Rendition) bool {
			return r.String() == chosen
		})
		return renditions[index]
	}

	switch quality := lo.Must(cmd.Flags().GetString("quality")); quality {
	case "best":
		return renditions[0]
	case "worst":
		return renditions[len(renditions)-1]
	default:
		for _, r := range renditions {
			if r.Quality == quality {
				return r
			}
		}

		handleErr(fmt.Errorf(
			"no rendition %s, available: %v",
			style.Fg(color.Red)(quality),
			lo.Map(renditions, func(r *source.Rendition, _ int) string { return r.Quality }),
		))
		return nil
	}
}

func errUnknownSource(name string) error {
	return fmt.Errorf(
		"unknown source %s, did you mean %s?",
		style.Fg(color.Red)(name),
		style.Fg(color.Yellow)(provider.Closest(name).ID),
	)
}
