package workflow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/festify/internal/models"
	"github.com/desertthunder/festify/internal/selection"
	"github.com/desertthunder/festify/internal/shared"
)

const (
	DefaultPlaylistName = "My Playlist"
	PosterPlaylistName  = "Festival Playlist"
)

// Recorder persists created playlists. Record errors never fail a submission.
type Recorder interface {
	Record(ctx context.Context, req models.PlaylistRequest, res models.PlaylistResult) error
}

// Options configures a [Workflow]. Zero values use the package defaults.
type Options struct {
	DefaultName string
	PosterName  string
	Recorder    Recorder
	Logger      *log.Logger
}

type requestKind int

const (
	searchRequest requestKind = iota + 1
	scanRequest
)

type request struct {
	kind requestKind
	key  string
}

// Workflow is the playlist assembly state machine. It is safe for concurrent use.
//
// External calls run without holding the lock; their results are applied only when their generation is still current.
type Workflow struct {
	mu       sync.Mutex
	resolver *Resolver
	gateway  *Gateway
	recorder Recorder
	logger   *log.Logger
	store    *Store

	defaultName string
	posterName  string

	cart       *selection.Cart
	state      State
	query      string
	results    []models.ArtistCandidate
	staged     *Candidate
	name       string
	nameEdited bool
	validation string
	failure    *Failure
	created    *models.PlaylistResult
	generation uint64
	inflight   *request
}

// New creates an idle Workflow.
func New(resolver *Resolver, gateway *Gateway, opts Options) *Workflow {
	w := &Workflow{
		resolver:    resolver,
		gateway:     gateway,
		recorder:    opts.Recorder,
		logger:      opts.Logger,
		defaultName: opts.DefaultName,
		posterName:  opts.PosterName,
		cart:        selection.NewCart(),
	}
	if w.logger == nil {
		w.logger = shared.NewLogger(io.Discard)
	}
	if strings.TrimSpace(w.defaultName) == "" {
		w.defaultName = DefaultPlaylistName
	}
	if strings.TrimSpace(w.posterName) == "" {
		w.posterName = PosterPlaylistName
	}
	w.name = w.defaultName
	w.store = NewStore(w.snapshotLocked())
	return w
}

// Snapshot returns a copy of the current state.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Subscribe is shorthand for [Store.Subscribe].
func (w *Workflow) Subscribe() (<-chan Snapshot, func()) { return w.store.Subscribe() }

// Watch is shorthand for [Store.Watch].
func (w *Workflow) Watch(fn func(Snapshot)) func() { return w.store.Watch(fn) }

// Search looks up query in the catalog and replaces the results.
//
// A blank query clears the results and supersedes any search in flight without a call.
func (w *Workflow) Search(ctx context.Context, query string) error {
	q := strings.TrimSpace(query)

	w.mu.Lock()
	w.dismissLocked()
	if err := w.openLocked(); err != nil {
		w.mu.Unlock()
		return err
	}

	if q == "" {
		w.query = ""
		w.results = nil
		if w.inflight != nil && w.inflight.kind == searchRequest {
			w.generation++
			w.inflight = nil
		}
		w.state = w.settledLocked()
		w.publishLocked()
		w.mu.Unlock()
		return nil
	}

	gen, err := w.beginLocked(request{kind: searchRequest, key: q}, Searching)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.query = q
	w.results = nil
	w.publishLocked()
	w.mu.Unlock()

	results, err := w.resolver.Search(ctx, q)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		w.logger.Debug("discarding stale search", "query", q, "generation", gen)
		return shared.ErrStaleResult
	}
	w.inflight = nil

	if err != nil {
		w.failLocked(SearchFailed, msgSearchFailed, w.restingLocked(), err)
		return err
	}

	w.results = results
	w.staged = nil
	w.state = w.restingLocked()
	w.publishLocked()
	return nil
}

// Scan reads artists off poster and imports every one of them into the cart.
//
// An invalid poster fails with [InvalidUpload] before any call.
func (w *Workflow) Scan(ctx context.Context, poster *models.Poster) error {
	w.mu.Lock()
	w.dismissLocked()
	if err := w.openLocked(); err != nil {
		w.mu.Unlock()
		return err
	}

	if msg := poster.Problem(); msg != "" {
		err := fmt.Errorf("%w: %s", shared.ErrInvalidUpload, msg)
		w.failLocked(InvalidUpload, msg, w.restingLocked(), err)
		w.mu.Unlock()
		return err
	}

	key := fmt.Sprintf("%s:%d", poster.Filename, poster.Size)
	gen, err := w.beginLocked(request{kind: scanRequest, key: key}, Scanning)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.publishLocked()
	w.mu.Unlock()

	candidates, err := w.resolver.Scan(ctx, poster)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.generation {
		w.logger.Debug("discarding stale scan", "file", poster.Filename, "generation", gen)
		return shared.ErrStaleResult
	}
	w.inflight = nil

	switch {
	case errors.Is(err, shared.ErrNoArtistsFound):
		w.failLocked(NoArtistsFound, msgNoArtistsFound, w.restingLocked(), err)
		return err
	case errors.Is(err, shared.ErrInvalidUpload):
		w.failLocked(InvalidUpload, poster.Problem(), w.restingLocked(), err)
		return err
	case err != nil:
		w.failLocked(ScanFailed, msgScanFailed, w.restingLocked(), err)
		return err
	}

	added := w.cart.BulkImport(candidates)
	if !w.nameEdited {
		w.name = w.posterName
	}
	w.staged = nil
	w.state = Selecting
	w.logger.Info("poster imported", "file", poster.Filename, "found", len(candidates), "added", added)
	w.publishLocked()
	return nil
}

// Pick stages result index with the default track count and clears the results.
func (w *Workflow) Pick(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dismissLocked()
	if err := w.openLocked(); err != nil {
		return err
	}
	if index < 0 || index >= len(w.results) {
		return fmt.Errorf("%w: no result at index %d", shared.ErrInvalidArgument, index)
	}

	w.staged = &Candidate{Artist: w.results[index].Clone(), TrackCount: models.DefaultTrackCount}
	w.results = nil
	w.state = w.settledLocked()
	w.publishLocked()
	return nil
}

// Stage holds candidate for confirmation. A zero count stays unset, so the committed entry follows the global preset.
func (w *Workflow) Stage(candidate models.ArtistCandidate, count models.TrackCount) error {
	if count.IsSet() {
		if err := selection.ValidatePreset(count, false); err != nil {
			return err
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.dismissLocked()
	if err := w.openLocked(); err != nil {
		return err
	}

	w.staged = &Candidate{Artist: candidate.Clone(), TrackCount: count}
	w.state = w.settledLocked()
	w.publishLocked()
	return nil
}

// StageCount changes the count of the staged candidate. Presets and discography are accepted.
func (w *Workflow) StageCount(count models.TrackCount) error {
	if err := selection.ValidatePreset(count, false); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.dismissLocked()
	if err := w.openLocked(); err != nil {
		return err
	}
	if w.staged == nil {
		return shared.ErrNothingStaged
	}

	w.staged.TrackCount = count
	w.publishLocked()
	return nil
}

// Commit adds the staged candidate to the cart. Committing an artist already in the cart only clears the stage.
func (w *Workflow) Commit() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dismissLocked()
	if err := w.openLocked(); err != nil {
		return err
	}
	if w.staged == nil {
		return shared.ErrNothingStaged
	}

	if _, err := w.cart.Add(w.staged.Artist, w.staged.TrackCount); err != nil {
		return err
	}
	w.staged = nil
	w.validation = ""
	w.state = w.settledLocked()
	w.publishLocked()
	return nil
}

// Unstage drops the staged candidate.
func (w *Workflow) Unstage() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dismissLocked()
	if err := w.openLocked(); err != nil {
		return err
	}

	w.staged = nil
	w.state = w.settledLocked()
	w.publishLocked()
	return nil
}

// Remove deletes the artist with key from the cart.
func (w *Workflow) Remove(key string) error {
	return w.edit(func() error {
		w.cart.Remove(key)
		return nil
	})
}

// Toggle flips whether the artist with key takes part in the playlist.
func (w *Workflow) Toggle(key string) error {
	return w.edit(func() error {
		w.cart.Toggle(key)
		return nil
	})
}

// SetTrackCount overrides the count of one artist.
func (w *Workflow) SetTrackCount(key string, count models.TrackCount) error {
	return w.edit(func() error { return w.cart.SetTrackCount(key, count) })
}

// ApplyGlobal applies preset to every artist not overridden since the previous apply.
func (w *Workflow) ApplyGlobal(preset models.TrackCount) error {
	return w.edit(func() error { return w.cart.ApplyGlobal(preset) })
}

// SetPlaylistName sets the name of the playlist to create.
func (w *Workflow) SetPlaylistName(name string) error {
	return w.edit(func() error {
		w.name = name
		w.nameEdited = true
		return nil
	})
}

func (w *Workflow) edit(fn func() error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dismissLocked()
	if err := w.openLocked(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		return err
	}

	w.validation = ""
	w.state = w.settledLocked()
	w.publishLocked()
	return nil
}

// Submit creates the playlist from the enabled artists.
//
// Gating failures set a validation message and make no call. Only one submission runs at a time.
func (w *Workflow) Submit(ctx context.Context) (*models.PlaylistResult, error) {
	w.mu.Lock()
	if w.state == Submitting {
		w.mu.Unlock()
		return nil, shared.ErrSubmissionInProgress
	}
	w.dismissLocked()
	if w.state == Created {
		w.mu.Unlock()
		return nil, shared.ErrWorkflowClosed
	}

	req, err := w.gateway.BuildRequest(w.cart, w.name)
	if err != nil {
		switch {
		case errors.Is(err, shared.ErrNothingSelected):
			w.validation = msgSelectArtist
		case errors.Is(err, shared.ErrEmptyPlaylistName):
			w.validation = msgEnterName
		}
		w.publishLocked()
		w.mu.Unlock()
		return nil, err
	}

	resume := w.restingLocked()
	w.validation = ""
	w.generation++
	w.inflight = nil
	w.state = Submitting
	w.publishLocked()
	w.mu.Unlock()

	res, err := w.gateway.Submit(ctx, req)

	w.mu.Lock()
	if err != nil {
		w.failLocked(SubmitFailed, msgSubmitFailed, resume, err)
		w.mu.Unlock()
		return nil, err
	}
	w.created = res
	w.state = Created
	w.publishLocked()
	w.mu.Unlock()

	if w.recorder != nil {
		if err := w.recorder.Record(ctx, req, *res); err != nil {
			w.logger.Warn("failed to record playlist", "url", res.URL, "error", err)
		}
	}

	out := *res
	return &out, nil
}

// Request builds the request Submit would send from the current cart, without sending it.
func (w *Workflow) Request() (models.PlaylistRequest, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gateway.BuildRequest(w.cart, w.name)
}

// Dismiss leaves [Failed] for the state the failed operation started from.
func (w *Workflow) Dismiss() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.dismissLocked()
}

// Reset returns to [Idle] with an empty cart and the default name. It is refused while submitting.
//
// A discovery still in flight is discarded when it returns.
func (w *Workflow) Reset() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == Submitting {
		return shared.ErrWorkflowBusy
	}

	w.cart.Clear()
	w.staged = nil
	w.results = nil
	w.query = ""
	w.validation = ""
	w.failure = nil
	w.created = nil
	w.inflight = nil
	w.generation++
	w.name = w.defaultName
	w.nameEdited = false
	w.state = Idle
	w.publishLocked()
	return nil
}

// beginLocked starts a discovery and returns its generation.
func (w *Workflow) beginLocked(r request, state State) (uint64, error) {
	if w.inflight != nil && *w.inflight == r {
		return 0, shared.ErrRequestInFlight
	}

	w.generation++
	w.inflight = &r
	w.validation = ""
	w.state = state
	return w.generation, nil
}

// openLocked refuses changes while a submission runs or after the playlist exists.
func (w *Workflow) openLocked() error {
	switch w.state {
	case Submitting:
		return shared.ErrWorkflowBusy
	case Created:
		return shared.ErrWorkflowClosed
	default:
		return nil
	}
}

// restingLocked is the state without any call in flight.
func (w *Workflow) restingLocked() State {
	switch {
	case w.staged != nil:
		return Staged
	case w.cart.Len() > 0:
		return Selecting
	default:
		return Idle
	}
}

// settledLocked is the state after a local edit: discovery stays visible while in flight.
func (w *Workflow) settledLocked() State {
	if w.inflight != nil {
		if w.inflight.kind == scanRequest {
			return Scanning
		}
		return Searching
	}
	return w.restingLocked()
}

func (w *Workflow) failLocked(reason Reason, msg string, resume State, err error) {
	w.failure = &Failure{Reason: reason, Message: msg, Resume: resume, Err: err}
	w.state = Failed
	w.logger.Warn("workflow failed", "reason", reason, "error", err)
	w.publishLocked()
}

// dismissLocked leaves Failed. Any new action dismisses implicitly.
func (w *Workflow) dismissLocked() {
	if w.state != Failed {
		return
	}
	if w.failure != nil {
		w.state = w.failure.Resume
	} else {
		w.state = w.restingLocked()
	}
	w.failure = nil
	w.publishLocked()
}

func (w *Workflow) snapshotLocked() Snapshot {
	global, _ := w.cart.Global()
	entries := w.cart.Entries()
	items := make([]Item, len(entries))
	for i, e := range entries {
		items[i] = Item{SelectionEntry: e, Effective: w.cart.Resolve(e.Key())}
	}

	snap := Snapshot{
		State:        w.state,
		Query:        w.query,
		Results:      w.results,
		Staged:       w.staged,
		Items:        items,
		Global:       global,
		Bulk:         w.cart.Bulk(),
		PlaylistName: w.name,
		Validation:   w.validation,
		Failure:      w.failure,
		Created:      w.created,
		Generation:   w.generation,
	}
	return snap.Clone()
}

func (w *Workflow) publishLocked() {
	w.store.Publish(w.snapshotLocked())
}
