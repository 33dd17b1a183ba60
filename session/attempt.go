package session

import (
	"context"
	"fmt"
	"slices"

	"github.com/getsentry/sentry-go"

	"shootapi/models"
)

// Attempt is one pass through upload and generation. Results are only
// applied while the attempt is still the session's current one.
type Attempt struct {
	session *Session
	epoch   uint64
	gctx    models.GenerationContext
}

func (a *Attempt) ID() uint64 {
	return a.epoch
}

// Run uploads the asset, asks the agent for the photoshoot and records the
// outcome. It returns ErrStaleAttempt if the attempt was cancelled or
// superseded before it finished.
func (a *Attempt) Run(ctx context.Context) (Snapshot, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if !a.session.attach(a.epoch, cancel) {
		return a.session.Snapshot(), ErrStaleAttempt
	}

	outcome, failure, err := a.execute(ctx)
	if err != nil {
		return a.session.Snapshot(), err
	}
	return a.session.finish(a.epoch, outcome, failure)
}

func (a *Attempt) execute(ctx context.Context) (outcome models.GenerationOutcome, failure *Failed, err error) {
	s := a.session
	defer func() {
		if r := recover(); r != nil {
			failure = s.unexpected(ctx, a.epoch, fmt.Errorf("panic: %v", r))
			err = nil
		}
	}()

	s.log.Infow("uploading product image", "attempt", a.epoch, "file", a.gctx.Asset.FileName)
	upload, uerr := s.uploader.Upload(ctx, a.gctx.Asset)
	if uerr != nil {
		return outcome, s.unexpected(ctx, a.epoch, fmt.Errorf("upload: %w", uerr)), nil
	}
	if upload == nil || !upload.Success || len(upload.AssetIDs) == 0 {
		if upload != nil && upload.Error != "" {
			s.log.Warnw("upload failed", "attempt", a.epoch, "error", upload.Error)
		}
		return outcome, &Failed{Kind: UploadFailed, Message: MsgUploadFailed}, nil
	}

	assetIDs := slices.Clone(upload.AssetIDs)
	if !s.advance(a.epoch, assetIDs) {
		return outcome, nil, ErrStaleAttempt
	}

	s.log.Infow("generating photoshoot", "attempt", a.epoch, "assets", assetIDs)
	resp, aerr := s.agent.Invoke(ctx, BuildPrompt(a.gctx), s.agentID, assetIDs)
	if aerr != nil {
		return outcome, s.unexpected(ctx, a.epoch, fmt.Errorf("agent: %w", aerr)), nil
	}
	if resp == nil {
		return outcome, &Failed{Kind: GenerationFailed, Message: MsgGenerationFailed}, nil
	}
	if !resp.Success {
		return outcome, &Failed{Kind: GenerationFailed, Message: agentFailureMessage(resp)}, nil
	}
	return ExtractOutcome(resp), nil, nil
}

// unexpected reports err unless the attempt was abandoned, in which case the
// error is just the cancellation arriving.
func (s *Session) unexpected(ctx context.Context, epoch uint64, err error) *Failed {
	if ctx.Err() == nil && s.current(epoch) {
		s.log.Errorw("generation attempt failed", "attempt", epoch, "error", err)
		sentry.CaptureException(err)
	}
	return &Failed{Kind: UnexpectedFailure, Message: MsgUnexpected}
}

func (s *Session) current(epoch uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch == epoch
}

// attach claims the session for the attempt. Only a fresh attempt, still
// waiting in Uploading, may run; a finished one is stale.
func (s *Session) attach(epoch uint64, cancel context.CancelFunc) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.state.(Uploading); !ok || u.Attempt != epoch || s.epoch != epoch || s.cancel != nil {
		return false
	}
	s.cancel = cancel
	return true
}

func (s *Session) advance(epoch uint64, assetIDs []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.state = Generating{Attempt: epoch, AssetIDs: assetIDs}
	return true
}

func (s *Session) finish(epoch uint64, outcome models.GenerationOutcome, failure *Failed) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.epoch != epoch {
		return s.snapshotLocked(), ErrStaleAttempt
	}
	s.cancel = nil
	if failure != nil {
		s.state = *failure
		s.log.Infow("generation failed", "attempt", epoch, "kind", failure.Kind, "message", failure.Message)
	} else {
		s.state = Complete{Outcome: outcome}
		s.log.Infow("generation complete", "attempt", epoch, "image", outcome.ImageURL != "")
	}
	return s.snapshotLocked(), nil
}
