package scans

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"cardsynch/internal/pkg/parser"
)

// CounterStore is the slice of the card store the recorder needs: the
// atomic per-card counter increment.
type CounterStore interface {
	IncrementCounter(cardID, counter string) error
}

// Metadata is what the edge knows about the visitor; every field is
// opportunistic and may be empty.
type Metadata struct {
	IP        string
	UserAgent string
	Referrer  string
}

type Recorder struct {
	repo     *Repository
	counters CounterStore
}

func NewRecorder(repo *Repository, counters CounterStore) *Recorder {
	return &Recorder{repo: repo, counters: counters}
}

// Record appends one immutable scan row, tagging it with device/browser/OS
// inferred from the user agent, and bumps the matching card counter for
// view/click events. The append and the increment are independent side
// effects, not a transaction: if the increment fails after the append, the
// scan stands and the failure is logged.
func (r *Recorder) Record(cardID, eventType, linkID string, meta Metadata) (*Scan, error) {
	if !ValidEventType(eventType) {
		return nil, fmt.Errorf("invalid event type %q", eventType)
	}

	scan := &Scan{
		ID:        "scan_" + uuid.NewString(),
		CardID:    cardID,
		LinkID:    linkID,
		EventType: eventType,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Referrer:  meta.Referrer,
		Timestamp: time.Now().UnixMilli(),
	}
	scan.DeviceType = parser.ParseDeviceType(meta.UserAgent)
	scan.OS, scan.Browser = parser.ParseUserAgent(meta.UserAgent)

	if err := r.repo.Create(scan); err != nil {
		return nil, err
	}

	if counter := counterForEvent(eventType); counter != "" {
		if err := r.counters.IncrementCounter(cardID, counter); err != nil {
			log.Error().Err(err).Str("card_id", cardID).Str("counter", counter).
				Msg("scan recorded but counter increment failed")
		}
	}

	return scan, nil
}
