// Package organizer is the batch organization engine: it partitions a
// bookmark tree into model-sized batches, dispatches them concurrently over
// a group of provider configurations, and assembles the validated
// suggestions into an organization plan.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"tidymark/internal/domain"
	"tidymark/internal/logger"
	"tidymark/internal/prompt"
	"tidymark/internal/provider"
	"tidymark/internal/registry"
)

// State is the engine's run state.
type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

var (
	// ErrAlreadyRunning is returned when a run is started while another is
	// in flight. The engine is one run at a time.
	ErrAlreadyRunning = errors.New("an organization run is already in progress")
	// ErrCancelled is returned when the run's cancellation signal fired.
	ErrCancelled = errors.New("organization run cancelled")
)

// Progress counts settled batches out of the total batch count. Batch
// granularity is deliberate; per-bookmark progress is not reported.
type Progress struct {
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// Options tune one organization run.
type Options struct {
	// Group is the id or name of the AiConfigGroup whose configs become
	// the run's round-robin lanes.
	Group string

	BatchSize           int
	ConfidenceThreshold float64
	MaxDepth            int
	CreateHierarchy     bool
	GenerateTags        bool
	DetectDuplicates    bool
	Temperature         float64
	MaxTokens           int

	// OnProgress, when set, is invoked after each batch settles.
	OnProgress func(Progress)
}

// Status is a snapshot of the engine's observable state. Errors and
// Warnings summarize the log so callers spot a degraded run without
// scanning every entry.
type Status struct {
	State      State      `json:"state"`
	Progress   Progress   `json:"progress"`
	Log        []LogEntry `json:"log"`
	Errors     int        `json:"errors"`
	Warnings   int        `json:"warnings"`
	LastPlanID string     `json:"lastPlanId,omitempty"`
}

// Engine coordinates organization runs. One engine handles one run at a
// time; Status and Cancel may be called from any goroutine.
type Engine struct {
	registry   *registry.Registry
	transport  *provider.Transport
	logger     logger.Logger
	newAdapter func(*domain.AiConfig, *provider.Transport) (provider.Adapter, error)

	mu         sync.Mutex
	state      State
	cancel     context.CancelFunc
	progress   Progress
	runlog     *runLog
	lastPlanID string

	// progressMu serializes progress publication and OnProgress calls.
	progressMu sync.Mutex
}

// New creates an idle engine over the given config registry.
func New(reg *registry.Registry, transport *provider.Transport, log logger.Logger) *Engine {
	return &Engine{
		registry:   reg,
		transport:  transport,
		logger:     log,
		newAdapter: provider.New,
		state:      StateIdle,
		runlog:     newRunLog(),
	}
}

// Organize runs the full pipeline against the tree and returns the
// assembled plan. Per-batch provider failures are logged and contribute
// zero suggestions; only structural failures (unresolvable group, no
// batches dispatchable) make the run itself fail.
func (e *Engine) Organize(ctx context.Context, roots []*domain.BookmarkNode, opts Options) (*domain.OrganizationPlan, error) {
	runCtx, err := e.start(ctx)
	if err != nil {
		return nil, err
	}

	plan, err := e.run(runCtx, roots, opts)
	e.finish(err)
	return plan, err
}

// Cancel fires the current run's cancellation signal. Cooperative: each
// batch checks the signal before dispatch, and in-flight requests receive
// it through their context so the transport may abort them mid-flight.
func (e *Engine) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
	}
}

// Status returns a snapshot of state, progress and the processing log.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()

	return Status{
		State:      e.state,
		Progress:   e.progress,
		Log:        e.runlog.snapshot(),
		Errors:     e.runlog.countLevel(LevelError),
		Warnings:   e.runlog.countLevel(LevelWarning),
		LastPlanID: e.lastPlanID,
	}
}

// start transitions idle -> running, allocating a fresh cancellation token
// and clearing the previous run's log.
func (e *Engine) start(ctx context.Context) (context.Context, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateRunning {
		return nil, ErrAlreadyRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	e.state = StateRunning
	e.cancel = cancel
	e.runlog = newRunLog()
	e.progress = Progress{}
	return runCtx, nil
}

func (e *Engine) finish(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	switch {
	case err == nil:
		e.state = StateCompleted
	case errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled):
		e.state = StateCancelled
	default:
		e.state = StateFailed
	}
}

func (e *Engine) run(ctx context.Context, roots []*domain.BookmarkNode, opts Options) (*domain.OrganizationPlan, error) {
	flat := domain.ExtractBookmarks(roots)
	e.record(LevelInfo, fmt.Sprintf("starting organization of %d bookmarks", len(flat)), nil)

	// The detector is pure and deterministic; if it blows up that is a
	// logic defect, not a transient failure, and the run must not paper
	// over it.
	var duplicates []domain.DuplicateGroup
	if opts.DetectDuplicates {
		duplicates = domain.DetectDuplicates(roots)
		e.record(LevelInfo, fmt.Sprintf("duplicate detection found %d groups", len(duplicates)), nil)
	}

	// One snapshot for the whole run: all batches see the same existing
	// structure, trading cross-batch folder consistency for throughput.
	structure, err := domain.FolderStructureJSON(roots)
	if err != nil {
		e.record(LevelError, "failed to serialize folder structure", map[string]any{"error": err.Error()})
		return nil, fmt.Errorf("serialize folder structure: %w", err)
	}

	adapters, configNames, err := e.resolveLanes(opts.Group)
	if err != nil {
		e.record(LevelError, err.Error(), nil)
		return nil, err
	}

	batches := partition(flat, opts.BatchSize)
	total := len(batches)
	e.setProgress(Progress{Processed: 0, Total: total}, opts.OnProgress)
	e.record(LevelInfo, fmt.Sprintf("dispatching %d batches across %d lanes", total, len(adapters)), nil)

	var (
		stateMu       sync.Mutex
		suggestions   []domain.OrganizationSuggestion
		failedBatches int
	)

	var g errgroup.Group
	for i := range batches {
		batch := batches[i]
		adapter := adapters[laneFor(i, len(adapters))]
		batchNum := i + 1

		g.Go(func() error {
			defer e.advanceProgress(total, opts.OnProgress)

			if ctx.Err() != nil {
				e.record(LevelWarning, fmt.Sprintf("batch %d skipped: cancelled", batchNum), nil)
				return nil
			}

			accepted, ok := e.processBatch(ctx, batchNum, batch, adapter, structure, opts)
			stateMu.Lock()
			if !ok {
				failedBatches++
			} else {
				suggestions = append(suggestions, accepted...)
			}
			stateMu.Unlock()
			// Failures never short-circuit sibling batches.
			return nil
		})
	}
	_ = g.Wait()

	if ctx.Err() != nil {
		e.record(LevelWarning, "organization cancelled", nil)
		return nil, ErrCancelled
	}

	conflicts := domain.IdentifyConflicts(flat, suggestions)
	newFolders := domain.SynthesizeFolders(suggestions, opts.CreateHierarchy)

	plan := &domain.OrganizationPlan{
		ID:          uuid.NewString(),
		Suggestions: suggestions,
		Conflicts:   conflicts,
		Duplicates:  duplicates,
		NewFolders:  newFolders,
		Metadata: domain.PlanMetadata{
			TotalBookmarks:  len(flat),
			TotalBatches:    total,
			FailedBatches:   failedBatches,
			SuggestionCount: len(suggestions),
			DuplicateGroups: len(duplicates),
			ConflictCount:   len(conflicts),
			ConfigsUsed:     configNames,
			CreatedAt:       timeNow(),
		},
	}

	e.mu.Lock()
	e.lastPlanID = plan.ID
	e.mu.Unlock()

	e.record(LevelSuccess, fmt.Sprintf("organization completed: %d suggestions, %d conflicts, %d failed batches",
		len(suggestions), len(conflicts), failedBatches), nil)
	return plan, nil
}

// resolveLanes turns a group id or name into the run's adapters, in
// membership order. Fails fast when the group is missing or empty. With
// no group named and none active, the run gets a single lane picked by
// the selector precedence over all configs.
func (e *Engine) resolveLanes(groupRef string) ([]provider.Adapter, []string, error) {
	if groupRef == "" {
		groupRef = e.registry.ActiveGroupID()
	}
	if groupRef == "" {
		cfg, err := provider.Select(e.registry.Configs(), provider.Selector{
			ActiveID: e.registry.ActiveConfigID(),
		})
		if err != nil {
			return nil, nil, err
		}
		adapter, err := e.newAdapter(cfg, e.transport)
		if err != nil {
			return nil, nil, err
		}
		return []provider.Adapter{adapter}, []string{cfg.Name}, nil
	}
	group, ok := e.registry.Group(groupRef)
	if !ok {
		group, ok = e.registry.GroupByName(groupRef)
	}
	if !ok {
		return nil, nil, provider.NewConfigNotFound(fmt.Sprintf("config group %q not found", groupRef))
	}

	configs := e.registry.GroupConfigs(group)
	if len(configs) == 0 {
		return nil, nil, provider.NewConfigNotFound(fmt.Sprintf("config group %q has no usable configs", group.Name))
	}

	adapters := make([]provider.Adapter, 0, len(configs))
	names := make([]string, 0, len(configs))
	for _, cfg := range configs {
		adapter, err := e.newAdapter(cfg, e.transport)
		if err != nil {
			return nil, nil, err
		}
		adapters = append(adapters, adapter)
		names = append(names, cfg.Name)
	}
	return adapters, names, nil
}

// processBatch sends one batch through its lane and validates the reply.
// Returns ok=false when the batch contributed nothing due to a provider or
// parse failure.
func (e *Engine) processBatch(ctx context.Context, batchNum int, batch []domain.FlatBookmark, adapter provider.Adapter, structure string, opts Options) ([]domain.OrganizationSuggestion, bool) {
	nodes := make([]*domain.BookmarkNode, len(batch))
	validIDs := make(map[string]bool, len(batch))
	for i, fb := range batch {
		nodes[i] = fb.Node
		validIDs[fb.Node.ID] = true
	}

	p := prompt.Build(nodes, structure, prompt.Options{
		MaxDepth:        opts.MaxDepth,
		CreateHierarchy: opts.CreateHierarchy,
		GenerateTags:    opts.GenerateTags,
	})

	res, err := adapter.GenerateContent(ctx, p, provider.GenerateOptions{
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	})
	if err != nil {
		e.recordBatchFailure(batchNum, adapter, err)
		return nil, false
	}

	parsed, err := parseSuggestions(res.Text)
	if err != nil {
		e.record(LevelError, fmt.Sprintf("batch %d: unparseable model response", batchNum), map[string]any{
			"provider": string(adapter.Provider()),
			"config":   adapter.ID(),
			"error":    err.Error(),
		})
		return nil, false
	}

	accepted := make([]domain.OrganizationSuggestion, 0, len(parsed))
	for _, raw := range parsed {
		if !validIDs[raw.BookmarkID] {
			e.record(LevelWarning, fmt.Sprintf("batch %d: dropping suggestion for unknown bookmark", batchNum), map[string]any{
				"bookmarkId": raw.BookmarkID,
			})
			continue
		}
		confidence := clampConfidence(raw.Confidence)
		if confidence < opts.ConfidenceThreshold {
			e.record(LevelInfo, fmt.Sprintf("batch %d: dropping low-confidence suggestion", batchNum), map[string]any{
				"bookmarkId": raw.BookmarkID,
				"confidence": confidence,
			})
			continue
		}
		accepted = append(accepted, domain.OrganizationSuggestion{
			BookmarkID:        raw.BookmarkID,
			SuggestedCategory: raw.SuggestedCategory,
			Confidence:        confidence,
			Reasoning:         raw.Reasoning,
			SuggestedTags:     raw.Tags,
		})
	}

	e.record(LevelSuccess, fmt.Sprintf("batch %d: %d of %d suggestions accepted", batchNum, len(accepted), len(parsed)), map[string]any{
		"provider": string(adapter.Provider()),
		"config":   adapter.ID(),
	})
	return accepted, true
}

// recordBatchFailure logs a provider failure with its taxonomy code; 429,
// auth and 404 failures get distinct treatments, none trigger a retry at
// this layer.
func (e *Engine) recordBatchFailure(batchNum int, adapter provider.Adapter, err error) {
	metadata := map[string]any{
		"provider": string(adapter.Provider()),
		"config":   adapter.ID(),
		"error":    err.Error(),
	}

	var perr *provider.Error
	if errors.As(err, &perr) {
		metadata["code"] = string(perr.Code)
		if perr.Status != 0 {
			metadata["status"] = perr.Status
		}
		switch perr.Code {
		case provider.CodeRateLimit:
			e.record(LevelWarning, fmt.Sprintf("batch %d: provider rate limited", batchNum), metadata)
		case provider.CodeAuth:
			e.record(LevelError, fmt.Sprintf("batch %d: provider authentication failed", batchNum), metadata)
		case provider.CodeEndpointNotFound:
			e.record(LevelError, fmt.Sprintf("batch %d: provider endpoint not found", batchNum), metadata)
		default:
			e.record(LevelError, fmt.Sprintf("batch %d: provider request failed", batchNum), metadata)
		}
		return
	}

	e.record(LevelError, fmt.Sprintf("batch %d: request failed", batchNum), metadata)
}

// record appends to the run log and mirrors the entry to the service log.
func (e *Engine) record(level LogLevel, message string, metadata map[string]any) {
	e.mu.Lock()
	l := e.runlog
	e.mu.Unlock()
	l.append(level, message, metadata)

	switch level {
	case LevelWarning:
		e.logger.Warn(message)
	case LevelError:
		e.logger.Error(message)
	default:
		e.logger.Debug(message)
	}
}

// setProgress publishes a progress snapshot. progressMu serializes
// publication with the callback so observers see a monotonic sequence;
// the callback runs outside e.mu and may call Status.
func (e *Engine) setProgress(p Progress, onProgress func(Progress)) {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()

	e.mu.Lock()
	e.progress = p
	e.mu.Unlock()

	if onProgress != nil {
		onProgress(p)
	}
}

// advanceProgress records one settled batch. The increment happens under
// the same lock as the publication, so concurrent batch completions can
// never publish stale counts out of order.
func (e *Engine) advanceProgress(total int, onProgress func(Progress)) {
	e.progressMu.Lock()
	defer e.progressMu.Unlock()

	e.mu.Lock()
	e.progress.Processed++
	e.progress.Total = total
	p := e.progress
	e.mu.Unlock()

	if onProgress != nil {
		onProgress(p)
	}
}
