package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/fxamacker/cbor/v2"

	"github.com/nexushq/discovery/internal/discovery"
	"github.com/nexushq/discovery/internal/geo"
)

// Persistence bounds. Lists are truncated to these lengths on every write,
// most recent first.
const (
	MaxSearchHistory = 10
	MaxInteractions  = 50
)

// Kind identifies which interaction list a record belongs to.
type Kind string

const (
	KindCircleView   Kind = "circle_view"
	KindMeetupView   Kind = "meetup_view"
	KindCircleJoin   Kind = "circle_join"
	KindMeetupAttend Kind = "meetup_attend"
)

// ErrUnknownKind is returned when an interaction kind is not one of the
// defined constants.
var ErrUnknownKind = errors.New("unknown interaction kind")

// errCorruptHistory marks a payload that was read from the KV but failed to
// decode. Reads treat it as an empty history; writes overwrite the broken
// payload with a fresh one.
var errCorruptHistory = errors.New("corrupt history payload")

func searchKey(userID string) string {
	return "history:search:" + userID
}

func interactionsKey(userID string) string {
	return "history:interactions:" + userID
}

// Store persists bounded per-user history in a KV. Read-modify-write
// sequences for the same user are serialized with a per-key lock, so
// concurrent writes for one user cannot lose updates. Different users never
// contend.
type Store struct {
	kv     KV
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a history store over the given KV.
func NewStore(kv KV, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		kv:     kv,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// SaveSearchQuery records a search query for the user: the query is trimmed,
// any previous occurrence is removed (case-insensitive), and the result is
// prepended and truncated to MaxSearchHistory. Blank queries are ignored.
func (s *Store) SaveSearchQuery(ctx context.Context, userID, query string) error {
	query = strings.TrimSpace(query)
	if query == "" || userID == "" {
		return nil
	}

	key := searchKey(userID)
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	existing, err := s.loadSearches(ctx, key)
	switch {
	case errors.Is(err, errCorruptHistory):
		s.logger.Warn("rebuilding corrupt search history", "user_id", userID, "error", err)
		existing = nil
	case err != nil:
		return fmt.Errorf("load search history: %w", err)
	}

	updated := make([]string, 0, len(existing)+1)
	updated = append(updated, query)
	for _, q := range existing {
		if strings.EqualFold(q, query) {
			continue
		}
		updated = append(updated, q)
	}
	if len(updated) > MaxSearchHistory {
		updated = updated[:MaxSearchHistory]
	}

	return s.save(ctx, key, updated)
}

// GetSearchHistory returns the user's recent queries, most recent first.
// Failures are logged and reported as an empty history; a missing or broken
// history never breaks a search call.
func (s *Store) GetSearchHistory(ctx context.Context, userID string) []string {
	if userID == "" {
		return nil
	}

	searches, err := s.loadSearches(ctx, searchKey(userID))
	if err != nil {
		s.logger.Warn("search history unavailable", "user_id", userID, "error", err)
		return nil
	}
	return searches
}

// TrackInteraction records one interaction for the user. Recording is
// idempotent: an ID already present in its list keeps its position. New IDs
// are prepended and the list is truncated to MaxInteractions.
func (s *Store) TrackInteraction(ctx context.Context, userID string, kind Kind, id string) error {
	if userID == "" || id == "" {
		return nil
	}

	key := interactionsKey(userID)
	l := s.keyLock(key)
	l.Lock()
	defer l.Unlock()

	ih, err := s.loadInteractions(ctx, key)
	switch {
	case errors.Is(err, errCorruptHistory):
		s.logger.Warn("rebuilding corrupt interaction history", "user_id", userID, "error", err)
		ih = discovery.InteractionHistory{}
	case err != nil:
		return fmt.Errorf("load interaction history: %w", err)
	}

	var list *[]string
	switch kind {
	case KindCircleView:
		list = &ih.CircleViews
	case KindMeetupView:
		list = &ih.MeetupViews
	case KindCircleJoin:
		list = &ih.CircleJoins
	case KindMeetupAttend:
		list = &ih.MeetupAttendances
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	*list = prependBounded(*list, id, MaxInteractions)

	return s.save(ctx, key, ih)
}

// GetInteractionHistory returns the user's interaction lists. Failures are
// logged and reported as empty history.
func (s *Store) GetInteractionHistory(ctx context.Context, userID string) discovery.InteractionHistory {
	if userID == "" {
		return discovery.InteractionHistory{}
	}

	ih, err := s.loadInteractions(ctx, interactionsKey(userID))
	if err != nil {
		s.logger.Warn("interaction history unavailable", "user_id", userID, "error", err)
		return discovery.InteractionHistory{}
	}
	return ih
}

// Profile carries the caller-supplied personalization inputs that do not
// live in this store.
type Profile struct {
	Interests         []string
	Location          *geo.Point
	JoinedCircleIDs   []string
	AttendedMeetupIDs []string
}

// BuildContext assembles the personalization context for a ranking call from
// the profile and the user's persisted history. It never fails; unavailable
// history degrades to an unpersonalized context.
func (s *Store) BuildContext(ctx context.Context, userID string, p Profile) *discovery.RecommendationContext {
	return &discovery.RecommendationContext{
		UserInterests:      p.Interests,
		UserLocation:       p.Location,
		JoinedCircleIDs:    p.JoinedCircleIDs,
		AttendedMeetupIDs:  p.AttendedMeetupIDs,
		SearchHistory:      s.GetSearchHistory(ctx, userID),
		InteractionHistory: s.GetInteractionHistory(ctx, userID),
	}
}

// prependBounded returns list with id at the front, unless it is already
// present, truncated to max entries. Existing entries keep their order.
func prependBounded(list []string, id string, max int) []string {
	for _, existing := range list {
		if existing == id {
			return list
		}
	}
	updated := append([]string{id}, list...)
	if len(updated) > max {
		updated = updated[:max]
	}
	return updated
}

func (s *Store) loadSearches(ctx context.Context, key string) ([]string, error) {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var searches []string
	if err := cbor.Unmarshal(raw, &searches); err != nil {
		return nil, fmt.Errorf("%w: %v", errCorruptHistory, err)
	}
	return searches, nil
}

func (s *Store) loadInteractions(ctx context.Context, key string) (discovery.InteractionHistory, error) {
	var ih discovery.InteractionHistory

	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		return ih, err
	}
	if raw == nil {
		return ih, nil
	}

	if err := cbor.Unmarshal(raw, &ih); err != nil {
		return ih, fmt.Errorf("%w: %v", errCorruptHistory, err)
	}
	return ih, nil
}

func (s *Store) save(ctx context.Context, key string, value any) error {
	raw, err := cbor.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("store history: %w", err)
	}
	return nil
}
