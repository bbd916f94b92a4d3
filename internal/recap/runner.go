// Package recap implements the batch run: per-device text recap, sample
// persistence, and the one-way notification.
package recap

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/davitra/fleetboard/internal/config"
	"github.com/davitra/fleetboard/internal/metrics"
	"github.com/davitra/fleetboard/internal/models"
	"github.com/davitra/fleetboard/internal/notify"
	"github.com/davitra/fleetboard/internal/storage"
	"github.com/davitra/fleetboard/internal/telemetry"
	"github.com/davitra/fleetboard/internal/trail"
)

const timeLayout = "2006-01-02 15:04:05"

// Runner executes one recap cycle.
type Runner struct {
	cfg      *config.Config
	client   *telemetry.Client
	fetcher  *trail.Fetcher
	notifier notify.Notifier
	rule     notify.ComparisonRule
	archive  *storage.Archive // nil disables archiving
	out      io.Writer
	now      func() time.Time
}

// NewRunner creates a recap runner. archive may be nil to skip the sqlite
// archive.
func NewRunner(cfg *config.Config, client *telemetry.Client, notifier notify.Notifier, archive *storage.Archive, out io.Writer) *Runner {
	return &Runner{
		cfg:      cfg,
		client:   client,
		fetcher:  trail.NewFetcher(client, cfg.SampleLimit),
		notifier: notifier,
		rule: notify.ComparisonRule{
			Leader: cfg.RuleLeader,
			Rival:  cfg.RuleRival,
			Body:   cfg.RuleBody,
		},
		archive: archive,
		out:     out,
		now:     time.Now,
	}
}

// Run performs the batch cycle: login once, then for each device fetch the
// trailing window, print a recap block, and persist the samples (CSV, KML,
// archive). A device whose fetch fails is skipped and the remaining devices
// still run; the collected failures make the whole run return an error at the
// end. Authentication failure and notification failure are immediately fatal.
func (r *Runner) Run(ctx context.Context) error {
	token, err := r.client.Login(ctx, r.cfg.Username, r.cfg.Password)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}

	endTs := r.now().UnixMilli()
	startTs := endTs - int64(r.cfg.WindowHours)*int64(time.Hour/time.Millisecond)

	distanceKm := make(map[string]float64, len(r.cfg.Devices))
	fetched := make(map[string]bool, len(r.cfg.Devices))
	var failures []string

	for _, d := range r.cfg.Devices {
		t, err := r.fetcher.Fetch(ctx, token, d.ID, startTs, endTs)
		if err != nil {
			log.Printf("device %s: %v", d.Name, err)
			failures = append(failures, fmt.Sprintf("%s: %v", d.Name, err))
			continue
		}

		m := metrics.Compute(t)
		distanceKm[d.Name] = m.TotalDistanceKm
		fetched[d.Name] = true

		r.printBlock(d.Name, t, m.TotalDistanceKm)

		if err := r.persist(d.Name, t); err != nil {
			return err
		}
	}

	if err := r.maybeNotify(distanceKm, fetched); err != nil {
		return err
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d device fetch(es) failed: %s", len(failures), strings.Join(failures, "; "))
	}
	return nil
}

func (r *Runner) printBlock(name string, t models.Trail, totalKm float64) {
	first, last, ok := t.Span()
	if !ok {
		fmt.Fprintf(r.out, "%s: no samples in window\n", name)
		return
	}
	fmt.Fprintf(r.out, "%s: %.2f km\n", name, totalKm)
	fmt.Fprintf(r.out, "  start: %s\n", first.Time().Format(timeLayout))
	fmt.Fprintf(r.out, "  end:   %s\n", last.Time().Format(timeLayout))
}

// persist writes the per-device CSV (always, overwritten each run), the KML
// trail (non-empty trails only), and appends to the sample archive.
func (r *Runner) persist(name string, t models.Trail) error {
	csvPath := filepath.Join(r.cfg.RecapDir, name+".csv")
	if err := storage.WriteTrailCSV(csvPath, t); err != nil {
		return fmt.Errorf("device %s: %w", name, err)
	}

	kmlPath := filepath.Join(r.cfg.RecapDir, name+".kml")
	if err := storage.WriteTrailKML(kmlPath, name, t); err != nil {
		return fmt.Errorf("device %s: %w", name, err)
	}

	if r.archive != nil {
		if err := r.archive.InsertTrail(name, t); err != nil {
			return fmt.Errorf("device %s: %w", name, err)
		}
	}
	return nil
}

// maybeNotify evaluates the comparison rule and sends at most one message.
// The rule is only evaluated when both named devices were fetched this run; a
// missing fetch would compare against a phantom zero and could notify on bad
// data.
func (r *Runner) maybeNotify(distanceKm map[string]float64, fetched map[string]bool) error {
	if r.rule.Leader == "" || r.rule.Rival == "" {
		return nil
	}
	if !fetched[r.rule.Leader] || !fetched[r.rule.Rival] {
		log.Printf("skipping notification: rule devices %s/%s not both fetched", r.rule.Leader, r.rule.Rival)
		return nil
	}
	if !r.rule.Fires(distanceKm) {
		return nil
	}

	if err := r.notifier.Send(r.rule.Body); err != nil {
		return fmt.Errorf("notification failed: %w", err)
	}
	fmt.Fprintf(r.out, "notification sent: %s\n", r.rule.Body)
	return nil
}
