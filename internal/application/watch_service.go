package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bnema/dramaradar/internal/domain"
	"github.com/bnema/dramaradar/internal/ports"
)

var errNotifierRequired = errors.New("notifier is required unless dispatch is suppressed")

// WatchService sequences one full invocation: baseline probe, fetch, diff,
// persistence, dispatch. One Run is one logical transaction.
type WatchService struct {
	extractor ports.Extractor
	repo      ports.SeenRepository
	clock     ports.Clock
	log       zerolog.Logger
}

func NewWatchService(extractor ports.Extractor, repo ports.SeenRepository, clock ports.Clock, log zerolog.Logger) *WatchService {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &WatchService{
		extractor: extractor,
		repo:      repo,
		clock:     clock,
		log:       log,
	}
}

// RunParams configures a single invocation. DryRun and NoNotify both suppress
// dispatch; DryRun is additionally reported as such. Notifier may be nil only
// when dispatch is suppressed. Location defaults to UTC for message display.
type RunParams struct {
	DryRun    bool
	NoNotify  bool
	Notifier  ports.Notifier
	SourceURL string
	Location  *time.Location
}

// Run executes one invocation. Fetch and store failures abort the run before
// any notification goes out; a failed delivery is logged, counted, and never
// blocks the remaining items. Persistence always covers the union of all
// observed identities, including on baseline and dry runs.
func (s *WatchService) Run(ctx context.Context, p RunParams) (Report, error) {
	suppress := p.DryRun || p.NoNotify
	if !suppress && p.Notifier == nil {
		return Report{}, errNotifierRequired
	}

	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	report := Report{RanAt: s.clock.Now(), DryRun: p.DryRun}

	baseline, err := s.repo.IsEmpty(ctx)
	if err != nil {
		return report, fmt.Errorf("probe seen-set: %w", err)
	}
	report.Baseline = baseline

	observed, err := s.extractor.FetchObserved(ctx)
	if err != nil {
		return report, fmt.Errorf("fetch observed ranking: %w", err)
	}
	report.Observed = len(observed)

	newItems, err := Diff(ctx, observed, s.repo, baseline)
	if err != nil {
		return report, fmt.Errorf("diff observed ranking: %w", err)
	}
	report.New = len(newItems)
	report.NewItems = newItems

	if err := s.repo.AddAll(ctx, uniqueRecords(observed, report.RanAt)); err != nil {
		return report, fmt.Errorf("persist observed identities: %w", err)
	}

	if !suppress {
		for _, item := range newItems {
			msg := FormatNotification(item, p.SourceURL, report.RanAt.In(loc))
			if err := p.Notifier.Send(ctx, msg); err != nil {
				report.Failed++
				s.log.Warn().Err(err).Str("title", item.Title).Msg("notification delivery failed")
				continue
			}
			report.Notified++
		}
	}

	s.log.Info().
		Bool("baseline", baseline).
		Bool("dry_run", p.DryRun).
		Int("observed", report.Observed).
		Int("new", report.New).
		Int("notified", report.Notified).
		Int("failed", report.Failed).
		Msg("run complete")

	return report, nil
}

// Classify maps a run error onto the user-facing taxonomy for diagnostics.
func Classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrFetch):
		return "fetch"
	case errors.Is(err, domain.ErrStore):
		return "store"
	case errors.Is(err, domain.ErrDelivery):
		return "delivery"
	default:
		return "internal"
	}
}
