package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/thesyncim/haloqa/pkg/harness/devices"
	"github.com/thesyncim/haloqa/pkg/harness/search"
	"github.com/thesyncim/haloqa/pkg/harness/testutil"
)

var (
	searchDevice  string
	searchURL     string
	searchMarkers string
)

// searchCmd runs the search workflow once
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a human-paced search and print the result titles",
	Long: `Run the search workflow against a search engine and print the result titles.

Exits with status 3 when the engine answers with a CAPTCHA challenge and 1 on
any other failure.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchDevice, "device", "", "Emulate a device profile (see 'haloqa devices')")
	searchCmd.Flags().StringVar(&searchURL, "url", "https://www.google.com", "Search engine URL")
	searchCmd.Flags().StringVar(&searchMarkers, "markers", "", "YAML file overriding the page markers")
}

func sessionOptions() (testutil.ContextOptions, error) {
	opts := testutil.ContextOptions{
		Viewport:    devices.Viewport{Width: cfg.Viewport.Width, Height: cfg.Viewport.Height},
		UserAgent:   testutil.DesktopUserAgent,
		Headers:     testutil.StealthHeaders(),
		Geolocation: &testutil.Madrid,
	}
	if searchDevice != "" {
		p, err := devices.Lookup(searchDevice)
		if err != nil {
			return opts, err
		}
		opts.Device = &p
	}
	return opts, nil
}

func loadMarkers() (search.Markers, error) {
	if searchMarkers == "" {
		return search.DefaultMarkers(), nil
	}
	data, err := os.ReadFile(searchMarkers)
	if err != nil {
		return search.Markers{}, fmt.Errorf("read markers: %w", err)
	}
	return search.ParseMarkers(data)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	opts, err := sessionOptions()
	if err != nil {
		return err
	}
	markers, err := loadMarkers()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 3*cfg.Timeout)
	defer cancel()

	client, err := testutil.NewBrowserClient(testutil.BrowserConfigFrom(cfg), logger)
	if err != nil {
		return err
	}
	defer client.Close()

	session, err := client.NewSession(opts)
	if err != nil {
		return err
	}
	defer session.Close()

	log := session.Logger()
	if err := session.Navigate(ctx, searchURL); err != nil {
		return err
	}

	wf, err := search.NewWorkflow(session.Page, search.WithMarkers(markers), search.WithLogger(log))
	if err != nil {
		return err
	}

	err = wf.CheckChallenge(ctx, search.StageInitial)
	var results []string
	if err == nil {
		results, err = wf.Search(ctx, query)
	}
	if err != nil {
		if search.IsChallenge(err) {
			if path, serr := testutil.Screenshot(session.Page, cfg.ScreenshotDir, "captcha"); serr == nil {
				log.Info("Saved challenge screenshot", zap.String("path", path))
			}
		}
		return err
	}

	out := cmd.OutOrStdout()
	if len(results) == 0 {
		fmt.Fprintln(out, "No search results found")
		return nil
	}
	for i, title := range results {
		fmt.Fprintf(out, "%2d. %s\n", i+1, title)
	}
	return nil
}
