// Package capture runs the capture pipeline: acquire a photo, normalize it,
// re-check the session and upload it for classification.
package capture

import (
	"context"
	"io"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/sayah-app/sayah-go/internal/api"
	"github.com/sayah-app/sayah-go/internal/errors"
	"github.com/sayah-app/sayah-go/internal/imaging"
	"github.com/sayah-app/sayah-go/internal/logger"
)

// Source selects where a photo comes from. Exactly one per acquisition.
type Source int

const (
	SourceCamera Source = iota
	SourceLibrary
)

func (s Source) String() string {
	if s == SourceCamera {
		return "camera"
	}
	return "library"
}

// Picked is a raw photo handed over by a Picker.
type Picked struct {
	Path    string
	Cleanup func() // removes a temporary capture; nil when the file is the user's
}

// PermissionRequester asks the user for camera access.
type PermissionRequester interface {
	RequestCameraPermission(ctx context.Context) (bool, error)
}

// PermissionFunc adapts a function to PermissionRequester.
type PermissionFunc func(ctx context.Context) (bool, error)

func (f PermissionFunc) RequestCameraPermission(ctx context.Context) (bool, error) { return f(ctx) }

// Picker returns a photo from the camera or the library. A dismissed picker
// returns an error matching errors.ErrCanceled.
type Picker interface {
	Pick(ctx context.Context, source Source) (Picked, error)
}

// Normalizer turns a raw photo into an upload-ready JPEG.
type Normalizer interface {
	NormalizeFile(ctx context.Context, path string) (*imaging.Normalized, error)
	Open(path string) (io.ReadCloser, error)
	Remove(path string) error
}

// SessionGate supplies the session identifier and handles the redirect when it is missing.
type SessionGate interface {
	Token(ctx context.Context) (string, error)
	RequireAuthentication()
}

// Classifier uploads an image and returns the verdict.
type Classifier interface {
	Analyze(ctx context.Context, token string, image io.Reader) (*api.ClassificationResult, error)
}

// ResultSink receives a successful result. The pipeline keeps no copy.
type ResultSink interface {
	ShowResult(ctx context.Context, result *api.ClassificationResult)
}

// ResultSinkFunc adapts a function to ResultSink.
type ResultSinkFunc func(ctx context.Context, result *api.ClassificationResult)

func (f ResultSinkFunc) ShowResult(ctx context.Context, result *api.ClassificationResult) { f(ctx, result) }

// StageRecorder observes stage outcomes, e.g. for metrics.
type StageRecorder interface {
	RecordStage(stage, status string, duration time.Duration)
}

// StagedImage is the normalized photo awaiting submission.
type StagedImage struct {
	imaging.Normalized
	Source   Source
	StagedAt time.Time
}

// Deps are the pipeline's collaborators. Recorder is optional.
type Deps struct {
	Permissions PermissionRequester
	Picker      Picker
	Normalizer  Normalizer
	Gate        SessionGate
	Classifier  Classifier
	Sink        ResultSink
	Recorder    StageRecorder
}

// Pipeline is a single capture flow. Stages run strictly in order and at most
// one Acquire or Submit runs at a time; a concurrent call fails with ErrBusy.
type Pipeline struct {
	deps Deps
	busy *semaphore.Weighted
	log  logger.Logger

	mu     sync.Mutex
	staged *StagedImage
}

// NewPipeline creates a Pipeline with nothing staged.
func NewPipeline(deps Deps) *Pipeline {
	return &Pipeline{
		deps: deps,
		busy: semaphore.NewWeighted(1),
		log:  logger.Global().Module("capture"),
	}
}

// Staged returns a copy of the staged image, or nil.
func (p *Pipeline) Staged() *StagedImage {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.staged == nil {
		return nil
	}
	cp := *p.staged
	return &cp
}

// Acquire obtains a photo from source, normalizes it and stages it, replacing
// any previously staged image. On failure the previous image stays staged.
func (p *Pipeline) Acquire(ctx context.Context, source Source) (staged *StagedImage, err error) {
	if !p.busy.TryAcquire(1) {
		return nil, busyError("acquire")
	}
	defer p.busy.Release(1)

	start := time.Now()
	defer func() { p.record("acquire", start, err) }()

	if source == SourceCamera {
		if err := p.checkCameraPermission(ctx); err != nil {
			return nil, err
		}
	}

	picked, err := p.deps.Picker.Pick(ctx, source)
	if err != nil {
		if errors.Is(err, errors.ErrCanceled) {
			p.log.Debug("picker dismissed", logger.String("source", source.String()))
			return nil, err
		}
		if errors.CategoryOf(err) != errors.CategoryGeneric {
			return nil, err
		}
		return nil, errors.New(err).
			Component("capture").
			Category(errors.CategoryProcessing).
			Context("operation", "pick").
			Context("source", source.String()).
			Build()
	}
	if picked.Cleanup != nil {
		defer picked.Cleanup()
	}

	normStart := time.Now()
	normalized, err := p.deps.Normalizer.NormalizeFile(ctx, picked.Path)
	p.record("normalize", normStart, err)
	if err != nil {
		p.log.Warn("image normalization failed",
			logger.String("source", source.String()),
			logger.Error(err))
		return nil, err
	}

	next := &StagedImage{Normalized: *normalized, Source: source, StagedAt: time.Now()}

	p.mu.Lock()
	previous := p.staged
	p.staged = next
	p.mu.Unlock()

	if previous != nil && previous.Path != next.Path {
		if err := p.deps.Normalizer.Remove(previous.Path); err != nil {
			p.log.Warn("failed to remove replaced image", logger.Error(err))
		}
	}

	p.log.Info("image staged",
		logger.String("source", source.String()),
		logger.Int("width", next.Width),
		logger.Int("height", next.Height),
		logger.Int64("bytes", next.Size))

	cp := *next
	return &cp, nil
}

// Submit uploads the staged image. The session identifier is read again right
// before upload; when it is absent the gate redirects to authentication, the
// staged image is kept and ErrNotAuthenticated is returned. A successful
// result goes to the sink. Submitting again after a failure reuses the staged image.
func (p *Pipeline) Submit(ctx context.Context) (result *api.ClassificationResult, err error) {
	if !p.busy.TryAcquire(1) {
		return nil, busyError("submit")
	}
	defer p.busy.Release(1)

	start := time.Now()
	defer func() { p.record("submit", start, err) }()

	staged := p.Staged()
	if staged == nil {
		return nil, errors.New(errors.ErrNoImage).
			Component("capture").
			Category(errors.CategoryNoImage).
			Build()
	}

	token, err := p.deps.Gate.Token(ctx)
	if err != nil {
		return nil, err
	}
	if token == "" {
		p.deps.Gate.RequireAuthentication()
		return nil, errors.New(errors.ErrNotAuthenticated).
			Component("capture").
			Category(errors.CategoryNotAuthenticated).
			Context("operation", "submit").
			Build()
	}

	image, err := p.deps.Normalizer.Open(staged.Path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := image.Close(); cerr != nil {
			p.log.Debug("failed to close staged image", logger.Error(cerr))
		}
	}()

	uploadStart := time.Now()
	result, err = p.deps.Classifier.Analyze(ctx, token, image)
	p.record("upload", uploadStart, err)
	if err != nil {
		p.log.Warn("upload failed", logger.Error(err))
		if errors.Is(err, errors.ErrUpload) {
			return nil, err
		}
		return nil, errors.New(err).
			Component("capture").
			Category(errors.CategoryUpload).
			Context("operation", "analyze").
			Build()
	}

	p.log.Info("classification received",
		logger.String("label", string(result.Label)),
		logger.Bool("positive", result.Positive))

	if p.deps.Sink != nil {
		p.deps.Sink.ShowResult(ctx, result)
	}
	return result, nil
}

// Discard removes the staged image, if any.
func (p *Pipeline) Discard() error {
	if !p.busy.TryAcquire(1) {
		return busyError("discard")
	}
	defer p.busy.Release(1)

	p.mu.Lock()
	staged := p.staged
	p.staged = nil
	p.mu.Unlock()

	if staged == nil {
		return nil
	}
	return p.deps.Normalizer.Remove(staged.Path)
}

func (p *Pipeline) checkCameraPermission(ctx context.Context) error {
	if p.deps.Permissions == nil {
		return nil
	}
	granted, err := p.deps.Permissions.RequestCameraPermission(ctx)
	if err != nil {
		return errors.New(err).
			Component("capture").
			Category(errors.CategoryPermission).
			Context("operation", "request_camera_permission").
			Build()
	}
	if !granted {
		p.log.Info("camera permission denied")
		return errors.New(errors.ErrPermissionDenied).
			Component("capture").
			Category(errors.CategoryPermission).
			Build()
	}
	return nil
}

func (p *Pipeline) record(stage string, start time.Time, err error) {
	if p.deps.Recorder == nil {
		return
	}
	p.deps.Recorder.RecordStage(stage, StageStatus(err), time.Since(start))
}

// StageStatus maps a stage error onto a short status label.
func StageStatus(err error) string {
	if err == nil {
		return "success"
	}
	switch cat := errors.CategoryOf(err); cat {
	case errors.CategoryGeneric, "":
		return "error"
	default:
		return string(cat)
	}
}

func busyError(operation string) error {
	return errors.New(errors.ErrBusy).
		Component("capture").
		Category(errors.CategoryBusy).
		Context("operation", operation).
		Build()
}
