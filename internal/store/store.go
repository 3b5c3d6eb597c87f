// Package store implements the in-process record cache for the Cargoflow API.
// RecordStore is the single authoritative cache of clients and trips and the
// sole mutator of the remote collection store on behalf of the presentation
// layer. It orchestrates cascade deletes and writes the diff-based audit
// trail for trip updates. Business rule validation does not live here: the
// store is permissive and persists what it receives, mirroring the handler
// layer's role as the validation boundary.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/mpetrenko/cargoflow/internal/domain"
	"github.com/mpetrenko/cargoflow/internal/repo"
)

// Notifier is the side channel for user-facing failure messages.
// The store reports remote-call failures through it without coupling to any
// particular delivery mechanism (toast, alert, log line).
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// logNotifier is the default Notifier; it writes notifications to slog.
type logNotifier struct {
	log *slog.Logger
}

func (n *logNotifier) Notify(ctx context.Context, message string) {
	n.log.WarnContext(ctx, "user notification", "message", message)
}

// NewLogNotifier returns a Notifier that records messages via the given logger.
func NewLogNotifier(log *slog.Logger) Notifier {
	return &logNotifier{log: log}
}

// RecordStore caches the client and trip collections in memory and mediates
// every create/update/delete against the remote collection store. The cache
// is patched only after a successful remote write, so a failed call leaves
// the last-known-good state untouched. The remote store remains the system
// of record; Load repairs the cache wholesale.
//
// All methods are safe for concurrent use. Snapshot accessors return copies,
// so callers can never mutate the cache directly.
type RecordStore struct {
	clientRepo   repo.ClientRepo
	tripRepo     repo.TripRepo
	historyRepo  repo.HistoryRepo
	documentRepo repo.DocumentRepo

	log      *slog.Logger
	notifier Notifier
	now      func() time.Time

	mu       sync.RWMutex
	clients  []domain.Client
	trips    []domain.Trip
	filtered []domain.Trip
	loading  bool
}

// NewRecordStore constructs a RecordStore over the four collection repos.
// logger and notifier may be nil, in which case slog.Default and a
// log-backed notifier are used.
func NewRecordStore(clients repo.ClientRepo, trips repo.TripRepo, history repo.HistoryRepo, documents repo.DocumentRepo, logger *slog.Logger, notifier Notifier) *RecordStore {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = NewLogNotifier(logger)
	}
	return &RecordStore{
		clientRepo:   clients,
		tripRepo:     trips,
		historyRepo:  history,
		documentRepo: documents,
		log:          logger,
		notifier:     notifier,
		now:          time.Now,
	}
}

// Load fetches the full client and trip collections and replaces the cache.
// On any failure the previous cache state is left untouched and the error is
// returned after notifying the user. Safe to call repeatedly; each successful
// call is a full refresh and resets the filtered view to the full trip list.
func (s *RecordStore) Load(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	clients, err := s.clientRepo.GetAll(ctx)
	if err != nil {
		s.notifier.Notify(ctx, "could not load data")
		return fmt.Errorf("store.RecordStore.Load: %w", err)
	}
	trips, err := s.tripRepo.GetAll(ctx)
	if err != nil {
		s.notifier.Notify(ctx, "could not load data")
		return fmt.Errorf("store.RecordStore.Load: %w", err)
	}

	s.mu.Lock()
	s.clients = clients
	s.trips = trips
	s.filtered = slices.Clone(trips)
	s.mu.Unlock()
	return nil
}

func (s *RecordStore) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Loading reports whether a Load call is currently in flight.
func (s *RecordStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Clients returns a snapshot copy of the cached client list.
func (s *RecordStore) Clients() []domain.Client {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.clients)
}

// Trips returns a snapshot copy of the cached trip list.
func (s *RecordStore) Trips() []domain.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.trips)
}

// FilteredTrips returns a snapshot copy of the current filtered view.
func (s *RecordStore) FilteredTrips() []domain.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.filtered)
}

// --- clients ----------------------------------------------------------------

// GetClient fetches a single client directly from the remote store, bypassing
// the cache. Returns domain.ErrNotFound when the record does not exist.
func (s *RecordStore) GetClient(ctx context.Context, id string) (domain.Client, error) {
	c, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Client{}, fmt.Errorf("store.RecordStore.GetClient: %w", err)
	}
	return c, nil
}

// AddClient persists a new client and appends the store-assigned record to
// the cache. The cache is untouched on failure.
func (s *RecordStore) AddClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	created, err := s.clientRepo.Create(ctx, c)
	if err != nil {
		s.notifier.Notify(ctx, "could not add client")
		return domain.Client{}, fmt.Errorf("store.RecordStore.AddClient: %w", err)
	}

	s.mu.Lock()
	s.clients = append(s.clients, created)
	s.mu.Unlock()
	return created, nil
}

// UpdateClient submits a full replacement record and patches the cache entry
// on success.
func (s *RecordStore) UpdateClient(ctx context.Context, id string, c domain.Client) (domain.Client, error) {
	updated, err := s.clientRepo.Update(ctx, id, c)
	if err != nil {
		s.notifier.Notify(ctx, "could not update client")
		return domain.Client{}, fmt.Errorf("store.RecordStore.UpdateClient: %w", err)
	}

	s.mu.Lock()
	for i := range s.clients {
		if s.clients[i].ID == id {
			s.clients[i] = updated
		}
	}
	s.mu.Unlock()
	return updated, nil
}

// DeleteClient deletes a client remotely, then drops it from the cache.
// Trips referencing the client are not touched; consumers render a fallback
// label for orphaned client IDs.
func (s *RecordStore) DeleteClient(ctx context.Context, id string) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		s.notifier.Notify(ctx, "could not delete client")
		return fmt.Errorf("store.RecordStore.DeleteClient: %w", err)
	}

	s.mu.Lock()
	s.clients = slices.DeleteFunc(s.clients, func(c domain.Client) bool { return c.ID == id })
	s.mu.Unlock()
	return nil
}

// --- trips ------------------------------------------------------------------

// GetTrip fetches a single trip directly from the remote store, bypassing the
// cache. Returns domain.ErrNotFound when the record does not exist.
func (s *RecordStore) GetTrip(ctx context.Context, id string) (domain.Trip, error) {
	t, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("store.RecordStore.GetTrip: %w", err)
	}
	return t, nil
}

// AddTrip persists a new trip and appends the store-assigned record to both
// the trip cache and the filtered view.
func (s *RecordStore) AddTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	created, err := s.tripRepo.Create(ctx, t)
	if err != nil {
		s.notifier.Notify(ctx, "could not add trip")
		return domain.Trip{}, fmt.Errorf("store.RecordStore.AddTrip: %w", err)
	}

	s.mu.Lock()
	s.trips = append(s.trips, created)
	s.filtered = append(s.filtered, created)
	s.mu.Unlock()
	return created, nil
}

// UpdateTrip submits a full replacement record, patches both cached lists on
// success, then records an audit entry for the fields that changed relative
// to previous. A failed history write does not fail the update; the audit
// trail tolerates gaps rather than blocking the user's edit.
func (s *RecordStore) UpdateTrip(ctx context.Context, id string, t, previous domain.Trip) (domain.Trip, error) {
	updated, err := s.tripRepo.Update(ctx, id, t)
	if err != nil {
		s.notifier.Notify(ctx, "could not update trip")
		return domain.Trip{}, fmt.Errorf("store.RecordStore.UpdateTrip: %w", err)
	}

	s.mu.Lock()
	for i := range s.trips {
		if s.trips[i].ID == id {
			s.trips[i] = updated
		}
	}
	for i := range s.filtered {
		if s.filtered[i].ID == id {
			s.filtered[i] = updated
		}
	}
	s.mu.Unlock()

	s.recordHistory(ctx, id, previous, updated)
	return updated, nil
}

// recordHistory diffs the two trip versions and persists an audit entry when
// at least one field changed. The three collections are serialized to JSON
// strings; json.Marshal sorts map keys, so identical diffs serialize
// identically.
func (s *RecordStore) recordHistory(ctx context.Context, tripID string, previous, current domain.Trip) {
	cs := DiffTrips(previous, current)
	if cs.Empty() {
		return
	}

	fields, _ := json.Marshal(cs.Fields)
	prev, _ := json.Marshal(cs.Previous)
	next, _ := json.Marshal(cs.New)

	h := domain.TripHistory{
		TripID:         tripID,
		ChangeDate:     s.now().UTC(),
		ChangedFields:  string(fields),
		PreviousValues: string(prev),
		NewValues:      string(next),
	}
	if _, err := s.historyRepo.Create(ctx, h); err != nil {
		// The trip update already succeeded; a lost audit row is logged,
		// not surfaced as a failure of the update.
		s.log.WarnContext(ctx, "trip history write failed", "trip_id", tripID, "error", err)
	}
}

// DeleteTrip deletes the trip remotely, drops it from both cached lists, then
// cleans up its history records and documents one remote call at a time.
// Cleanup is best effort: a failed sub-delete is logged and skipped, never
// rolled back, and the return value reflects only the primary deletion.
func (s *RecordStore) DeleteTrip(ctx context.Context, id string) error {
	if err := s.tripRepo.Delete(ctx, id); err != nil {
		s.notifier.Notify(ctx, "could not delete trip")
		return fmt.Errorf("store.RecordStore.DeleteTrip: %w", err)
	}

	s.mu.Lock()
	s.trips = slices.DeleteFunc(s.trips, func(t domain.Trip) bool { return t.ID == id })
	s.filtered = slices.DeleteFunc(s.filtered, func(t domain.Trip) bool { return t.ID == id })
	s.mu.Unlock()

	s.cascadeDelete(ctx, id)
	return nil
}

// cascadeDelete removes every history record and document belonging to the
// trip, sequentially. Each sub-delete is idempotent at the repo level, so a
// future retry layer can re-run the whole cascade safely.
func (s *RecordStore) cascadeDelete(ctx context.Context, tripID string) {
	history, err := s.historyRepo.GetAll(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "cascade: could not list trip history", "trip_id", tripID, "error", err)
	}
	for _, h := range history {
		if h.TripID != tripID {
			continue
		}
		if err := s.historyRepo.Delete(ctx, h.ID); err != nil {
			s.log.WarnContext(ctx, "cascade: could not delete history record", "trip_id", tripID, "history_id", h.ID, "error", err)
		}
	}

	docs, err := s.documentRepo.GetAll(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "cascade: could not list documents", "trip_id", tripID, "error", err)
	}
	for _, d := range docs {
		if d.TripID != tripID {
			continue
		}
		if err := s.documentRepo.Delete(ctx, d.ID); err != nil {
			s.log.WarnContext(ctx, "cascade: could not delete document", "trip_id", tripID, "document_id", d.ID, "error", err)
		}
	}
}

// --- history & documents ----------------------------------------------------

// TripHistory returns the audit entries for one trip, oldest first.
// The whole collection is fetched and filtered here; there is no secondary
// index by trip, which is acceptable at this data volume.
// Always returns a non-nil slice on success.
func (s *RecordStore) TripHistory(ctx context.Context, tripID string) ([]domain.TripHistory, error) {
	all, err := s.historyRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.RecordStore.TripHistory: %w", err)
	}

	out := []domain.TripHistory{}
	for _, h := range all {
		if h.TripID == tripID {
			out = append(out, h)
		}
	}
	return out, nil
}

// Documents returns the document records for one trip, oldest first.
// Documents are not cached; every call round-trips to the remote store.
// Always returns a non-nil slice on success.
func (s *RecordStore) Documents(ctx context.Context, tripID string) ([]domain.Document, error) {
	all, err := s.documentRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("store.RecordStore.Documents: %w", err)
	}

	out := []domain.Document{}
	for _, d := range all {
		if d.TripID == tripID {
			out = append(out, d)
		}
	}
	return out, nil
}

// GetDocument fetches a single document record from the remote store.
func (s *RecordStore) GetDocument(ctx context.Context, id string) (domain.Document, error) {
	d, err := s.documentRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Document{}, fmt.Errorf("store.RecordStore.GetDocument: %w", err)
	}
	return d, nil
}

// AddDocument persists a document record. Pass-through: the document list is
// never cached.
func (s *RecordStore) AddDocument(ctx context.Context, d domain.Document) (domain.Document, error) {
	created, err := s.documentRepo.Create(ctx, d)
	if err != nil {
		s.notifier.Notify(ctx, "could not add document")
		return domain.Document{}, fmt.Errorf("store.RecordStore.AddDocument: %w", err)
	}
	return created, nil
}

// DeleteDocument removes a document record. Pass-through to the remote store.
func (s *RecordStore) DeleteDocument(ctx context.Context, id string) error {
	if err := s.documentRepo.Delete(ctx, id); err != nil {
		s.notifier.Notify(ctx, "could not delete document")
		return fmt.Errorf("store.RecordStore.DeleteDocument: %w", err)
	}
	return nil
}

// --- filtering --------------------------------------------------------------

// FilterTrips recomputes the filtered view from the full cached trip list.
// Purely in-memory, no remote round-trip.
func (s *RecordStore) FilterTrips(opts domain.FilterOptions) {
	s.mu.Lock()
	s.filtered = ApplyFilter(s.trips, opts)
	s.mu.Unlock()
}

// ClearFilters resets the filtered view to the full trip list.
func (s *RecordStore) ClearFilters() {
	s.mu.Lock()
	s.filtered = slices.Clone(s.trips)
	s.mu.Unlock()
}
