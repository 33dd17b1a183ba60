// Package session drives one photoshoot from configuration through upload and
// generation to an archived history record.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"shootapi/history"
	"shootapi/logger"
	"shootapi/models"
	"shootapi/services"
)

type Options struct {
	Uploader services.UploadService
	Agent    services.AgentService
	Store    history.Store
	Previews *services.PreviewStore
	AgentID  string
	Log      *zap.SugaredLogger
}

// Session is the single photoshoot the user is working on. All methods are
// safe for concurrent use; the remote calls of an attempt run without
// holding the lock.
type Session struct {
	uploader services.UploadService
	agent    services.AgentService
	store    history.Store
	previews *services.PreviewStore
	agentID  string
	log      *zap.SugaredLogger

	mu     sync.Mutex
	state  State
	gctx   models.GenerationContext
	epoch  uint64
	cancel context.CancelFunc
}

func New(opts Options) *Session {
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}
	previews := opts.Previews
	if previews == nil {
		previews = services.NewPreviewStore()
	}
	return &Session{
		uploader: opts.Uploader,
		agent:    opts.Agent,
		store:    opts.Store,
		previews: previews,
		agentID:  opts.AgentID,
		log:      log,
		state:    Idle{},
	}
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:   copyState(s.state),
		Context: copyContext(s.gctx),
		Ready:   s.gctx.Ready(),
	}
	if c, ok := s.state.(Complete); ok {
		outcome := c.Outcome
		snap.Outcome = &outcome
	}
	return snap
}

// Previews exposes the store holding the current product preview.
func (s *Session) Previews() *services.PreviewStore {
	return s.previews
}

// Update changes several configuration fields at once. Nil fields are left
// alone; an empty ModelID clears the model.
type Update struct {
	Category *models.Category
	ModelID  *string
	Notes    *string
}

// Configure applies u if the session can be edited. Editing a failed session
// returns it to Idle.
func (s *Session) Configure(u Update) (Snapshot, error) {
	var model *models.ModelProfile
	if u.Category != nil && *u.Category != "" && !u.Category.Valid() {
		return Snapshot{}, fmt.Errorf("%w: %q", models.ErrUnknownCategory, *u.Category)
	}
	if u.ModelID != nil && *u.ModelID != "" {
		m, err := models.FindModel(*u.ModelID)
		if err != nil {
			return Snapshot{}, err
		}
		model = &m
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return s.snapshotLocked(), err
	}
	if u.Category != nil {
		s.gctx.Category = *u.Category
	}
	if u.ModelID != nil {
		s.gctx.Model = model
	}
	if u.Notes != nil {
		s.gctx.Notes = *u.Notes
	}
	return s.snapshotLocked(), nil
}

func (s *Session) SetCategory(c models.Category) error {
	_, err := s.Configure(Update{Category: &c})
	return err
}

func (s *Session) SelectModel(modelID string) error {
	_, err := s.Configure(Update{ModelID: &modelID})
	return err
}

func (s *Session) SetNotes(notes string) error {
	_, err := s.Configure(Update{Notes: &notes})
	return err
}

// SetAsset makes asset the product image, replacing and releasing any
// previous one. The session takes its own copy and issues the preview.
func (s *Session) SetAsset(asset *models.UploadedAsset) (Snapshot, error) {
	if asset == nil {
		return s.RemoveAsset()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return s.snapshotLocked(), err
	}

	owned := *asset
	owned.Preview = s.previews.Acquire(owned.Data, owned.ContentType)
	s.releaseAssetLocked()
	s.gctx.Asset = &owned
	return s.snapshotLocked(), nil
}

func (s *Session) RemoveAsset() (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.editableLocked(); err != nil {
		return s.snapshotLocked(), err
	}
	s.releaseAssetLocked()
	return s.snapshotLocked(), nil
}

func (s *Session) editableLocked() error {
	switch s.state.(type) {
	case Uploading, Generating:
		return ErrBusy
	case Complete:
		return ErrInvalidTransition
	case Failed:
		s.state = Idle{}
	}
	return nil
}

func (s *Session) releaseAssetLocked() {
	if s.gctx.Asset == nil {
		return
	}
	if id := s.gctx.Asset.Preview; id != "" {
		if err := s.previews.Release(id); err != nil {
			s.log.Errorw("releasing preview", "preview", id, "error", err)
		}
	}
	s.gctx.Asset = nil
}

// Begin starts a generation from Idle or Failed. The returned attempt must be
// Run to make progress.
func (s *Session) Begin() (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.(type) {
	case Uploading, Generating:
		return nil, ErrBusy
	case Complete:
		return nil, ErrInvalidTransition
	}
	if !s.gctx.Ready() {
		return nil, ErrNotReady
	}
	return s.startLocked(), nil
}

// BeginRegenerate starts a fresh upload and generation from Complete with the
// same configuration.
func (s *Session) BeginRegenerate() (*Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state.(type) {
	case Uploading, Generating:
		return nil, ErrBusy
	case Complete:
	default:
		return nil, ErrInvalidTransition
	}
	if !s.gctx.Ready() {
		return nil, ErrNotReady
	}
	return s.startLocked(), nil
}

func (s *Session) startLocked() *Attempt {
	s.epoch++
	s.state = Uploading{Attempt: s.epoch}
	return &Attempt{session: s, epoch: s.epoch, gctx: copyContext(s.gctx)}
}

// Submit runs a whole generation and returns the resulting snapshot.
func (s *Session) Submit(ctx context.Context) (Snapshot, error) {
	att, err := s.Begin()
	if err != nil {
		return s.Snapshot(), err
	}
	return att.Run(ctx)
}

func (s *Session) Regenerate(ctx context.Context) (Snapshot, error) {
	att, err := s.BeginRegenerate()
	if err != nil {
		return s.Snapshot(), err
	}
	return att.Run(ctx)
}

// TrySwapModel archives the completed generation and clears only the model,
// so the same product can be shot on someone else.
func (s *Session) TrySwapModel(ctx context.Context) (models.GenerationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.archiveLocked(ctx)
	if err != nil {
		return record, err
	}
	s.gctx.Model = nil
	s.state = Idle{}
	return record, nil
}

// SaveAndReset archives the completed generation and starts over.
func (s *Session) SaveAndReset(ctx context.Context) (models.GenerationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.archiveLocked(ctx)
	if err != nil {
		return record, err
	}
	s.releaseAssetLocked()
	s.gctx = models.GenerationContext{}
	s.state = Idle{}
	return record, nil
}

func (s *Session) archiveLocked(ctx context.Context) (models.GenerationRecord, error) {
	c, ok := s.state.(Complete)
	if !ok {
		if inFlight(s.state) {
			return models.GenerationRecord{}, ErrBusy
		}
		return models.GenerationRecord{}, ErrInvalidTransition
	}
	record, err := s.store.Add(ctx, c.Outcome, copyContext(s.gctx))
	if err != nil {
		sentry.CaptureException(err)
		return models.GenerationRecord{}, fmt.Errorf("archiving generation: %w", err)
	}
	s.log.Infow("generation archived", "record", record.ID, "product", record.ProductName, "model", record.ModelName)
	return record, nil
}

// Cancel abandons the attempt in flight. The configuration is kept and any
// late result of the abandoned attempt is discarded.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !inFlight(s.state) {
		return ErrInvalidTransition
	}
	s.abandonLocked()
	s.state = Idle{}
	return nil
}

// Close abandons any attempt, releases the preview and clears the session.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.abandonLocked()
	s.releaseAssetLocked()
	s.gctx = models.GenerationContext{}
	s.state = Idle{}
}

func (s *Session) abandonLocked() {
	s.epoch++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}
