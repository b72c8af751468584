package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chrisuehlinger/clickcounter/page"
	"github.com/chrisuehlinger/clickcounter/ui"
)

const (
	controlID = "counter"
	displayID = "count"
)

var (
	headless  bool
	clicks    int
	useScript bool
	debugMode bool
)

var rootCmd = &cobra.Command{
	Use:   "clickcounter",
	Short: "A button that counts its own clicks",
	Long: `clickcounter loads a page with a #counter button and a #count display and
counts activations of the button into the display.

Examples:
  clickcounter                      # open the window
  clickcounter --script             # let the page's own script do the counting
  clickcounter --headless --clicks 3`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: run,
}

func init() {
	rootCmd.Flags().BoolVar(&headless, "headless", false, "run without a window and print the display")
	rootCmd.Flags().IntVar(&clicks, "clicks", 0, "activations to deliver before showing the result")
	rootCmd.Flags().BoolVar(&useScript, "script", false, "install the counter by running the page script")
	rootCmd.Flags().BoolVar(&debugMode, "debug", false, "enable debug logging")
}

func setupLogging() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debugMode {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func run(cmd *cobra.Command, args []string) error {
	if clicks < 0 {
		return errors.Errorf("--clicks must not be negative, got %d", clicks)
	}

	p, err := page.Default()
	if err != nil {
		return err
	}

	if useScript {
		if err := p.RunScripts(); err != nil {
			return errors.Wrap(err, "run page scripts")
		}
	} else if _, err := p.InstallCounter(controlID, displayID); err != nil {
		return errors.Wrap(err, "install counter")
	}

	for i := 0; i < clicks; i++ {
		if err := p.Activate(controlID); err != nil {
			return err
		}
	}

	if headless {
		delivered := p.Drain()
		text, err := p.Text(displayID)
		if err != nil {
			return err
		}
		log.Debug().Int("activations", delivered).Msg("headless run finished")
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}

	w, err := ui.NewCounterWindow(app.New(), p, controlID, displayID)
	if err != nil {
		return err
	}
	w.Follow()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go func() {
		if err := p.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event loop stopped")
		}
	}()

	w.ShowAndRun()
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("clickcounter failed")
		os.Exit(1)
	}
}
