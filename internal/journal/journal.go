// Package journal holds the mood entry collection and keeps it persisted.
//
// The whole collection lives in memory and is written back as a single JSON
// array under StorageKey after every mutation. Persistence problems never
// surface to callers: a blob that cannot be read or decoded yields an empty
// journal, and a failed write leaves the in-memory state authoritative. Both
// are reported as warnings on the configured logger.
//
// Other processes may write the same key. Before each mutation the journal
// compares the stored blob with the one it last read or wrote and reloads
// when they differ, so a concurrent writer's entries are not overwritten.
package journal

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/hpungsan/moodcal/internal/db"
	"github.com/hpungsan/moodcal/internal/errors"
	"github.com/hpungsan/moodcal/internal/mood"
)

// StorageKey is the fixed key the collection is stored under.
const StorageKey = "moodEntries"

// Store is the flat key-value store the journal persists to.
// Get returns db.ErrKeyNotFound when nothing has been stored yet.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
}

// Journal is the only mutator of the entry collection. Every method is
// serialized, so a mutation and its write complete before any later read.
type Journal struct {
	mu      sync.Mutex
	store   Store
	loc     *time.Location
	log     *slog.Logger
	now     func() time.Time
	entries []mood.Entry

	// synced is the blob last read from or written to the store.
	// tracking is false until the first Load or successful write.
	synced   []byte
	tracking bool
}

// Option configures a Journal.
type Option func(*Journal)

// WithLocation sets the location used to bucket entries into days.
func WithLocation(loc *time.Location) Option {
	return func(j *Journal) {
		if loc != nil {
			j.loc = loc
		}
	}
}

// WithLogger sets the logger for persistence warnings.
func WithLogger(l *slog.Logger) Option {
	return func(j *Journal) {
		if l != nil {
			j.log = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) {
		if now != nil {
			j.now = now
		}
	}
}

// New returns an empty journal over store. Call Load to read persisted entries.
func New(store Store, opts ...Option) *Journal {
	j := &Journal{
		store: store,
		loc:   time.Local,
		log:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Location returns the location days are computed in.
func (j *Journal) Location() *time.Location {
	return j.loc
}

// Load replaces the in-memory collection with the persisted one.
// A missing or undecodable blob leaves the journal empty.
func (j *Journal) Load(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.entries = nil
	j.synced = nil
	j.tracking = true

	data, err := j.store.Get(ctx, StorageKey)
	if stderrors.Is(err, db.ErrKeyNotFound) {
		return
	}
	if err != nil {
		j.tracking = false
		j.log.WarnContext(ctx, "load entries failed", "key", StorageKey, "err", err)
		return
	}
	j.decode(ctx, data)
}

// Refresh reloads the collection if another writer changed the stored blob
// since this journal last read or wrote it.
func (j *Journal) Refresh(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.refresh(ctx)
}

// refresh is Refresh with mu held. Read failures keep memory as is.
func (j *Journal) refresh(ctx context.Context) {
	if !j.tracking {
		return
	}
	data, err := j.store.Get(ctx, StorageKey)
	if stderrors.Is(err, db.ErrKeyNotFound) {
		data, err = nil, nil
	}
	if err != nil {
		j.log.WarnContext(ctx, "refresh entries failed", "key", StorageKey, "err", err)
		return
	}
	if bytes.Equal(data, j.synced) {
		return
	}
	j.log.DebugContext(ctx, "stored entries changed; reloading", "key", StorageKey, "bytes", len(data))
	j.entries = nil
	j.synced = nil
	if data != nil {
		j.decode(ctx, data)
	}
}

// decode installs data as the collection. Each entry's day is recomputed
// from its creation time so the two never disagree.
func (j *Journal) decode(ctx context.Context, data []byte) {
	j.synced = bytes.Clone(data)

	var decoded []mood.Entry
	if err := json.Unmarshal(data, &decoded); err != nil {
		j.log.WarnContext(ctx, "decode entries failed; starting empty", "key", StorageKey, "bytes", len(data), "err", err)
		return
	}
	for i := range decoded {
		anchor(&decoded[i], j.loc)
	}
	j.entries = decoded
}

func anchor(e *mood.Entry, loc *time.Location) {
	e.CreatedAt = e.CreatedAt.In(loc)
	e.Day = mood.StartOfDay(e.CreatedAt, loc)
}

// Add records a new entry created now and persists the collection.
func (j *Journal) Add(ctx context.Context, kind mood.Kind, note *string) mood.Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.refresh(ctx)
	e := mood.NewEntry(kind, note, j.now(), j.loc)
	j.entries = append(j.entries, e)
	j.persist(ctx)
	return e
}

// Update replaces the mood and note of the first entry with e.ID, keeping its
// position, day and creation time. It reports false for an unknown id.
func (j *Journal) Update(ctx context.Context, e mood.Entry) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.refresh(ctx)
	i := j.indexOf(e.ID)
	if i < 0 {
		return false
	}
	j.entries[i].Mood = e.Mood
	j.entries[i].Note = e.Note
	j.persist(ctx)
	return true
}

// Modify applies fn to the first entry with id and persists the result, all
// under one lock. Only mood and note changes are kept. An error from fn
// aborts without writing. It reports false for an unknown id.
func (j *Journal) Modify(ctx context.Context, id string, fn func(*mood.Entry) error) (mood.Entry, bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.refresh(ctx)
	i := j.indexOf(id)
	if i < 0 {
		return mood.Entry{}, false, nil
	}
	e := j.entries[i]
	if err := fn(&e); err != nil {
		return mood.Entry{}, true, err
	}
	j.entries[i].Mood = e.Mood
	j.entries[i].Note = e.Note
	j.persist(ctx)
	return j.entries[i], true, nil
}

// Delete removes every entry with id and reports whether any was removed.
// Nothing is written when the id is unknown.
func (j *Journal) Delete(ctx context.Context, id string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.refresh(ctx)
	kept := j.entries[:0]
	removed := 0
	for _, e := range j.entries {
		if e.ID == id {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	if removed == 0 {
		return false
	}
	clear(j.entries[len(kept):])
	j.entries = kept
	j.persist(ctx)
	return true
}

// Get returns the first entry with id.
func (j *Journal) Get(id string) (mood.Entry, bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	i := j.indexOf(id)
	if i < 0 {
		return mood.Entry{}, false
	}
	return j.entries[i], true
}

// Entries returns a copy of the collection in insertion order.
func (j *Journal) Entries() []mood.Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	out := make([]mood.Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len returns the number of entries.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}

// EntriesForMonth returns entries whose day falls in month's year and month,
// in collection order.
func (j *Journal) EntriesForMonth(month time.Time) []mood.Entry {
	j.mu.Lock()
	defer j.mu.Unlock()

	month = month.In(j.loc)
	var out []mood.Entry
	for _, e := range j.entries {
		if mood.SameMonth(month, e.Day) {
			out = append(out, e)
		}
	}
	return out
}

// ConflictMode controls how Import treats ids that already exist.
type ConflictMode string

const (
	ConflictError   ConflictMode = "error"
	ConflictReplace ConflictMode = "replace"
	ConflictSkip    ConflictMode = "skip"
)

// ImportResult counts what Import did.
type ImportResult struct {
	Imported int `json:"imported"`
	Replaced int `json:"replaced"`
	Skipped  int `json:"skipped"`
}

// Import merges incoming entries and persists once.
// In ConflictError mode nothing changes if any id already exists.
// Replaced entries keep their position; new ones are appended in input order.
func (j *Journal) Import(ctx context.Context, incoming []mood.Entry, mode ConflictMode) (ImportResult, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.refresh(ctx)
	var res ImportResult

	if mode == ConflictError {
		for _, e := range incoming {
			if j.indexOf(e.ID) >= 0 {
				return res, errors.NewIDCollision(e.ID)
			}
		}
	}

	next := make([]mood.Entry, len(j.entries), len(j.entries)+len(incoming))
	copy(next, j.entries)
	seen := make(map[string]int, len(next))
	for i, e := range next {
		if _, ok := seen[e.ID]; !ok {
			seen[e.ID] = i
		}
	}

	for _, e := range incoming {
		anchor(&e, j.loc)

		i, exists := seen[e.ID]
		switch {
		case !exists:
			seen[e.ID] = len(next)
			next = append(next, e)
			res.Imported++
		case mode == ConflictReplace:
			next[i] = e
			res.Replaced++
		case mode == ConflictSkip:
			res.Skipped++
		default:
			return ImportResult{}, errors.NewIDCollision(e.ID)
		}
	}

	if res.Imported+res.Replaced > 0 {
		j.entries = next
		j.persist(ctx)
	}
	return res, nil
}

func (j *Journal) indexOf(id string) int {
	for i, e := range j.entries {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the whole collection. Caller holds mu.
func (j *Journal) persist(ctx context.Context) {
	entries := j.entries
	if entries == nil {
		entries = []mood.Entry{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		j.log.WarnContext(ctx, "encode entries failed", "key", StorageKey, "entries", len(entries), "err", err)
		return
	}
	if err := j.store.Put(ctx, StorageKey, data); err != nil {
		j.log.WarnContext(ctx, "save entries failed", "key", StorageKey, "entries", len(entries), "err", err)
		return
	}
	j.synced = data
	j.tracking = true
}
