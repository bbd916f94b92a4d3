// Package notify sends the one-way recap notification and holds the rule
// that decides whether it fires.
package notify

import "log"

// Notifier delivers a single outbound message.
type Notifier interface {
	Send(body string) error
}

// ComparisonRule is the notification policy as data: notify with Body when
// Leader's distance exceeds Rival's. Devices absent from the distance map
// count as zero, so the rule never fires on two missing devices.
type ComparisonRule struct {
	Leader string
	Rival  string
	Body   string
}

// Fires reports whether the rule condition holds for the given per-device
// distances. The comparison is strict, so equal distances do not notify.
func (r ComparisonRule) Fires(distanceKm map[string]float64) bool {
	return distanceKm[r.Leader] > distanceKm[r.Rival]
}

// LogNotifier writes the message to the process log instead of a provider.
// Used when no provider credentials are configured and for dry runs.
type LogNotifier struct{}

// Send logs the message body.
func (LogNotifier) Send(body string) error {
	log.Printf("notification (not sent, no provider configured): %s", body)
	return nil
}
