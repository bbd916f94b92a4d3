// Command recap runs one batch cycle: fetch every device's trailing window,
// print a recap, persist samples, and send the comparison notification.
package main

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/davitra/fleetboard/internal/config"
	"github.com/davitra/fleetboard/internal/notify"
	"github.com/davitra/fleetboard/internal/recap"
	"github.com/davitra/fleetboard/internal/storage"
	"github.com/davitra/fleetboard/internal/telemetry"
)

var (
	flagWindow    int
	flagOutDir    string
	flagNoSMS     bool
	flagNoArchive bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "recap",
		Short:         "Print a fleet distance recap and send the comparison notification",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runRecap,
	}

	cmd.Flags().IntVar(&flagWindow, "window", 0, "trailing window in hours (default: WINDOW_HOURS)")
	cmd.Flags().StringVar(&flagOutDir, "out-dir", "", "directory for CSV/KML artifacts (default: RECAP_DIR)")
	cmd.Flags().BoolVar(&flagNoSMS, "no-sms", false, "log the notification instead of sending it")
	cmd.Flags().BoolVar(&flagNoArchive, "no-archive", false, "skip the sqlite sample archive")

	return cmd
}

func runRecap(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	devices, err := config.LoadDevices(cfg.DevicesPath)
	if err != nil {
		return err
	}
	cfg.Devices = devices

	if cmd.Flags().Changed("window") {
		cfg.WindowHours = flagWindow
	}
	if cmd.Flags().Changed("out-dir") {
		cfg.RecapDir = flagOutDir
	}

	var notifier notify.Notifier = notify.LogNotifier{}
	if !flagNoSMS && cfg.TwilioAccountSID != "" {
		notifier = notify.NewTwilioNotifier(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom, cfg.TwilioTo)
	}

	var archive *storage.Archive
	if !flagNoArchive {
		archive, err = storage.OpenArchive(cfg.ArchivePath)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := archive.Close(); cerr != nil {
				log.Printf("failed to close archive: %v", cerr)
			}
		}()
	}

	client := telemetry.NewClient(cfg.BaseURL)
	runner := recap.NewRunner(cfg, client, notifier, archive, cmd.OutOrStdout())

	return runner.Run(context.Background())
}
