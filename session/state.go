package session

import (
	"errors"
	"slices"

	"shootapi/models"
)

var (
	ErrNotReady          = errors.New("a product image, a category and a model are required")
	ErrBusy              = errors.New("a generation is already in progress")
	ErrInvalidTransition = errors.New("operation not allowed in the current state")
	ErrStaleAttempt      = errors.New("generation attempt was superseded")
)

type FailureKind string

const (
	UploadRejected    FailureKind = "upload_rejected"
	UploadFailed      FailureKind = "upload_failed"
	GenerationFailed  FailureKind = "generation_failed"
	UnexpectedFailure FailureKind = "unexpected_failure"
)

const (
	MsgUploading        = "Uploading product image..."
	MsgGenerating       = "Generating your photoshoot..."
	MsgComplete         = "Photoshoot generated successfully!"
	MsgUploadFailed     = "Failed to upload product image. Please try again."
	MsgGenerationFailed = "Generation failed. Please try again."
	MsgUnexpected       = "An unexpected error occurred. Please try again."
)

// State is one of Idle, Uploading, Generating, Complete or Failed.
type State interface {
	Name() string
	StatusMessage() string
	state()
}

type Idle struct{}

type Uploading struct {
	Attempt uint64
}

type Generating struct {
	Attempt  uint64
	AssetIDs []string
}

type Complete struct {
	Outcome models.GenerationOutcome
}

type Failed struct {
	Kind    FailureKind
	Message string
}

func (Idle) Name() string       { return "idle" }
func (Uploading) Name() string  { return "uploading" }
func (Generating) Name() string { return "generating" }
func (Complete) Name() string   { return "complete" }
func (Failed) Name() string     { return "failed" }

func (Idle) StatusMessage() string       { return "" }
func (Uploading) StatusMessage() string  { return MsgUploading }
func (Generating) StatusMessage() string { return MsgGenerating }
func (Complete) StatusMessage() string   { return MsgComplete }
func (f Failed) StatusMessage() string   { return f.Message }

func (Idle) state()       {}
func (Uploading) state()  {}
func (Generating) state() {}
func (Complete) state()   {}
func (Failed) state()     {}

func inFlight(s State) bool {
	switch s.(type) {
	case Uploading, Generating:
		return true
	}
	return false
}

// Snapshot is a copy of the session taken under its lock. Nothing in it
// aliases session state.
type Snapshot struct {
	State   State
	Context models.GenerationContext
	Outcome *models.GenerationOutcome
	Ready   bool
}

func (s Snapshot) Message() string {
	return s.State.StatusMessage()
}

func copyState(s State) State {
	if g, ok := s.(Generating); ok {
		g.AssetIDs = slices.Clone(g.AssetIDs)
		return g
	}
	return s
}

func copyContext(c models.GenerationContext) models.GenerationContext {
	if c.Model != nil {
		m := *c.Model
		c.Model = &m
	}
	if c.Asset != nil {
		a := *c.Asset
		c.Asset = &a
	}
	return c
}
