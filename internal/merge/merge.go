// Package merge keeps the stored snapshot in step with the live game
// listing, reconstructing only games it has not seen before.
package merge

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/pable/academystats/internal/accounts"
	"github.com/pable/academystats/internal/aggregator"
	"github.com/pable/academystats/internal/model"
)

var (
	// ErrEmptyDelta is returned when the live and stored counts differ but
	// every live game id is already stored.
	ErrEmptyDelta = errors.New("game count differs, still no new game ids found")
	// ErrNoLiveGames is returned on a cold start when the API lists no games.
	ErrNoLiveGames = errors.New("no games listed")
)

// CorruptionError reports a stored snapshot that holds more games than
// the API lists.
type CorruptionError struct {
	Path   string
	Stored int
	Live   int
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("stored data corrupted: %s holds %d games but only %d are listed; remove %s and re-run",
		e.Path, e.Stored, e.Live, e.Path)
}

// API is the subset of the planets client the controller needs.
type API interface {
	ListGames(ctx context.Context, limit int) ([]model.Game, error)
	LoadEvents(ctx context.Context, id model.GameID) ([]model.Event, error)
	LoadInfo(ctx context.Context, id model.GameID) ([]model.PlayerInfo, error)
}

// Store loads and saves the persisted snapshot. Load returns (nil, nil)
// when nothing is stored yet.
type Store interface {
	Path() string
	Load() (*model.Snapshot, error)
	Save(*model.Snapshot) error
}

// Outcome is what a run did to the snapshot.
type Outcome int

const (
	OutcomeUnchanged Outcome = iota
	OutcomeColdLoad
	OutcomeDelta
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeColdLoad:
		return "cold-load"
	case OutcomeDelta:
		return "delta"
	default:
		return "?"
	}
}

// Result describes a finished run.
type Result struct {
	RunID    string
	Outcome  Outcome
	NewGames []model.GameID
	Snapshot *model.Snapshot
	// Unrecognized counts events of unknown kinds across all merged games.
	Unrecognized int
}

// Config holds the controller's tunables.
type Config struct {
	// Limit caps how many games the listing returns; 0 lists all.
	Limit  int
	Logger logrus.FieldLogger
}

// Controller runs one sync of the snapshot against the live listing.
// It is single-threaded: games are fetched one at a time, events first.
type Controller struct {
	api      API
	store    Store
	resolver *accounts.Resolver
	limit    int
	log      logrus.FieldLogger
}

// New returns a Controller with a fresh account resolver.
func New(api API, store Store, cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Controller{
		api:      api,
		store:    store,
		resolver: accounts.New(),
		limit:    cfg.Limit,
		log:      log,
	}
}

// Plan decides what a run must do given the stored snapshot (nil when
// none exists) and the live listing. For a cold load it returns every
// live id in listing order; for a delta it returns the new ids in
// ascending order.
func Plan(stored *model.Snapshot, live []model.Game, path string) (Outcome, []model.GameID, error) {
	if stored == nil {
		if len(live) == 0 {
			return 0, nil, ErrNoLiveGames
		}
		ids := make([]model.GameID, len(live))
		for i, g := range live {
			ids[i] = g.ID
		}
		return OutcomeColdLoad, ids, nil
	}

	switch {
	case stored.GameCount == len(live):
		return OutcomeUnchanged, nil, nil
	case stored.GameCount > len(live):
		return 0, nil, &CorruptionError{Path: path, Stored: stored.GameCount, Live: len(live)}
	}

	ids := NewGameIDs(stored, live)
	if len(ids) == 0 {
		return 0, nil, fmt.Errorf("%w (stored %d, listed %d)", ErrEmptyDelta, stored.GameCount, len(live))
	}
	return OutcomeDelta, ids, nil
}

// NewGameIDs returns the live ids missing from stored, ascending.
func NewGameIDs(stored *model.Snapshot, live []model.Game) []model.GameID {
	seen := make(map[model.GameID]bool, len(live))
	var ids []model.GameID
	for _, g := range live {
		if _, ok := stored.Games[g.ID]; ok || seen[g.ID] {
			continue
		}
		seen[g.ID] = true
		ids = append(ids, g.ID)
	}
	model.SortGameIDs(ids)
	return ids
}

// Run lists the live games, compares them against the stored snapshot and
// merges whatever is new. The snapshot is written at most once, and only
// when it changed.
func (c *Controller) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.New().String()}
	log := c.log.WithField("run", res.RunID)

	live, err := c.api.ListGames(ctx, c.limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	stored, err := c.store.Load()
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	outcome, ids, err := Plan(stored, live, c.store.Path())
	if err != nil {
		return nil, err
	}
	res.Outcome = outcome
	log = log.WithField("outcome", outcome)

	if outcome == OutcomeUnchanged {
		log.WithField("games", len(live)).Info("no new games")
		res.Snapshot = stored
		return res, nil
	}

	snap := stored
	var only map[model.GameID]bool
	if outcome == OutcomeColdLoad {
		snap = model.NewSnapshot()
	} else {
		only = make(map[model.GameID]bool, len(ids))
		for _, id := range ids {
			only[id] = true
		}
		log.WithField("ids", ids).Infof("%d new game(s) found", len(ids))
	}

	byID := make(map[model.GameID]model.Game, len(live))
	for _, g := range live {
		byID[g.ID] = g
	}
	for i, id := range ids {
		n, err := c.mergeGame(ctx, snap, byID[id], log)
		if err != nil {
			return nil, err
		}
		res.Unrecognized += n
		log.WithFields(logrus.Fields{"game": id, "done": i + 1, "total": len(ids)}).Info("game merged")
	}

	if err := ResolveWinners(snap, only); err != nil {
		return nil, err
	}
	if err := c.store.Save(snap); err != nil {
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	res.NewGames = ids
	res.Snapshot = snap
	log.WithField("gamecount", snap.GameCount).Info("snapshot saved")
	return res, nil
}

// mergeGame fetches, reconstructs and folds one game into snap. It
// returns the number of unrecognized events seen.
func (c *Controller) mergeGame(ctx context.Context, snap *model.Snapshot, g model.Game, log logrus.FieldLogger) (int, error) {
	events, err := c.api.LoadEvents(ctx, g.ID)
	if err != nil {
		return 0, fmt.Errorf("load events of game %s: %w", g.ID, err)
	}
	infos, err := c.api.LoadInfo(ctx, g.ID)
	if err != nil {
		return 0, fmt.Errorf("load info of game %s: %w", g.ID, err)
	}

	rec, err := aggregator.Reconstruct(g.ID, events, infos, c.resolver, log)
	if err != nil {
		return 0, err
	}
	if err := snap.AddGame(g); err != nil {
		return 0, err
	}
	if err := snap.AddPlayers(g.ID, rec.Players); err != nil {
		return 0, err
	}
	return len(rec.Unrecognized), nil
}
