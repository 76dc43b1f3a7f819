package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"spidyleet/internal/common"
	"spidyleet/internal/domain/model"
	"spidyleet/internal/platform/backend"
	"spidyleet/internal/platform/logger"

	"go.uber.org/zap"
)

const (
	DefaultLanguage = "javascript"

	placeholderCode  = "// Write your code here"
	loadErrorMessage = "Failed to load problem. Please try again."
	recordTimeout    = 5 * time.Second
)

type ProblemFetcher interface {
	GetProblem(ctx context.Context, id string) (*model.Problem, error)
}

type Judge interface {
	RunTrial(ctx context.Context, problemID, code, language string) (*backend.RunResponse, error)
	SubmitFinal(ctx context.Context, problemID, code, language string) (*backend.SubmitResponse, error)
}

// AttemptRecorder receives every settled, non-failed result.
type AttemptRecorder interface {
	Create(ctx context.Context, attempt *model.Attempt) error
}

type PhaseKind string

const (
	PhaseIdle    PhaseKind = "idle"
	PhasePending PhaseKind = "pending"
	PhaseSettled PhaseKind = "settled"
)

// Phase is Idle, Pending(Op) or Settled(Op, Result).
type Phase struct {
	Kind   PhaseKind           `json:"kind"`
	Op     model.OperationKind `json:"op,omitempty"`
	Result *model.Result       `json:"result,omitempty"`
}

type LoadStatus string

const (
	LoadNone     LoadStatus = "none"
	LoadLoading  LoadStatus = "loading"
	LoadLoaded   LoadStatus = "loaded"
	LoadNotFound LoadStatus = "not_found"
	LoadError    LoadStatus = "load_error"
)

type Tab string

const (
	TabDescription Tab = "description"
	TabSolution    Tab = "solution"
	TabSubmissions Tab = "submissions"
)

func (t Tab) Valid() bool {
	switch t {
	case TabDescription, TabSolution, TabSubmissions:
		return true
	}
	return false
}

// State is a point-in-time copy of the controller.
type State struct {
	ProblemID   string         `json:"problem_id"`
	Problem     *model.Problem `json:"problem,omitempty"`
	Load        LoadStatus     `json:"load_status"`
	LoadMessage string         `json:"load_message,omitempty"`
	Language    string         `json:"language"`
	Code        string         `json:"code"`
	ActiveTab   Tab            `json:"active_tab"`
	Phase       Phase          `json:"phase"`
	Output      string         `json:"output"`
}

// Busy reports whether a run or submission is outstanding.
func (s State) Busy() bool { return s.Phase.Kind == PhasePending }

type Options struct {
	DefaultLanguage string
	Recorder        AttemptRecorder
	// UserID names the owner of recorded attempts.
	UserID func() string
}

// Controller owns the editing and judging state of one problem view. All
// methods are safe for concurrent use; at most one run or submission is in
// flight at any time.
type Controller struct {
	fetcher  ProblemFetcher
	judge    Judge
	recorder AttemptRecorder
	userID   func() string
	defLang  string
	logger   *zap.SugaredLogger

	mu         sync.Mutex
	state      State
	generation uint64
	closed     bool
	subs       map[int]func(State)
	nextSub    int

	// cancels the judging call of the current generation, if any
	cancelJudge context.CancelFunc
}

func NewController(fetcher ProblemFetcher, judge Judge, opts Options) *Controller {
	lang := opts.DefaultLanguage
	if lang == "" {
		lang = DefaultLanguage
	}
	userID := opts.UserID
	if userID == nil {
		userID = func() string { return "" }
	}
	return &Controller{
		fetcher:  fetcher,
		judge:    judge,
		recorder: opts.Recorder,
		userID:   userID,
		defLang:  lang,
		logger:   logger.NewNamedLogger("workflow"),
		state: State{
			Load:      LoadNone,
			Language:  lang,
			Code:      placeholderCode,
			ActiveTab: TabDescription,
			Phase:     Phase{Kind: PhaseIdle},
		},
		subs: make(map[int]func(State)),
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Subscribe registers fn to be called with a snapshot after every change.
func (c *Controller) Subscribe(fn func(State)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Close tears the controller down. Responses still in flight are dropped.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.generation++
	c.cancelJudgeLocked()
	c.subs = make(map[int]func(State))
	c.mu.Unlock()
}

// LoadProblem fetches the problem and resets the editor to the starter code of
// the default language. It may be called from any phase; a run or submission
// still outstanding is cancelled and its response discarded, so a new run can
// start right away.
func (c *Controller) LoadProblem(ctx context.Context, id string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	c.generation++
	gen := c.generation
	c.cancelJudgeLocked()
	c.state.ProblemID = id
	c.state.Problem = nil
	c.state.Load = LoadLoading
	c.state.LoadMessage = ""
	c.state.Phase = Phase{Kind: PhaseIdle}
	c.commitLocked()

	problem, err := c.fetcher.GetProblem(ctx, id)

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return ErrStaleResponse
	}
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.state.Load = LoadNotFound
			c.state.LoadMessage = common.MessageOr(err, "Problem not found")
		} else {
			c.state.Load = LoadError
			c.state.LoadMessage = loadErrorMessage
		}
		c.commitLocked()
		c.logger.Warnw("failed to load problem", "problem_id", id, "error", err)
		return fmt.Errorf("workflow.LoadProblem: %w", err)
	}

	c.state.Problem = problem.ForDisplay()
	c.state.Load = LoadLoaded
	c.state.Language = c.defLang
	c.state.Code = placeholderCode
	if code, ok := problem.StarterCodeFor(c.defLang); ok && code != "" {
		c.state.Code = code
	}
	c.commitLocked()
	return nil
}

// ChangeLanguage switches the editor language and swaps in that language's
// starter code. A settled result stays visible. A language without a starter
// entry, including the empty one, gets a placeholder naming the problem.
func (c *Controller) ChangeLanguage(language string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	c.state.Language = language
	if p := c.state.Problem; p != nil {
		c.state.Code = starterOrPlaceholder(p, language)
	}
	c.commitLocked()
	return nil
}

// ResetCode restores the starter code for the current language.
func (c *Controller) ResetCode() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	switch p := c.state.Problem; {
	case p == nil:
		c.state.Code = placeholderCode
	case len(p.StarterCode) == 0:
		c.state.Code = fmt.Sprintf("// Write your code here for %s", p.Title)
	default:
		c.state.Code = starterOrPlaceholder(p, c.state.Language)
	}
	c.commitLocked()
	return nil
}

func (c *Controller) EditCode(text string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	c.state.Code = text
	c.commitLocked()
	return nil
}

func (c *Controller) SetTab(tab Tab) error {
	if !tab.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownTab, tab)
	}
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrSessionClosed
	}
	c.state.ActiveTab = tab
	c.commitLocked()
	return nil
}

// Run judges the editor contents against the visible cases. Backend failures
// settle as a failed result rather than an error.
func (c *Controller) Run(ctx context.Context) (model.Result, error) {
	return c.judgeOnce(ctx, model.KindRun)
}

// Submit judges the editor contents against the full suite. The editor is left
// untouched.
func (c *Controller) Submit(ctx context.Context) (model.Result, error) {
	return c.judgeOnce(ctx, model.KindSubmit)
}

func (c *Controller) judgeOnce(ctx context.Context, kind model.OperationKind) (model.Result, error) {
	c.mu.Lock()
	switch {
	case c.closed:
		c.mu.Unlock()
		return model.Result{}, ErrSessionClosed
	case c.state.Problem == nil:
		c.mu.Unlock()
		return model.Result{}, ErrNoProblemLoaded
	case c.state.Phase.Kind == PhasePending:
		c.mu.Unlock()
		return model.Result{}, ErrJudgingInFlight
	}
	gen := c.generation
	problem := c.state.Problem
	code, language := c.state.Code, c.state.Language
	judgeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	c.cancelJudge = cancel
	c.state.Phase = Phase{Kind: PhasePending, Op: kind}
	c.commitLocked()

	var result model.Result
	switch kind {
	case model.KindRun:
		resp, err := c.judge.RunTrial(judgeCtx, problem.ID, code, language)
		if err != nil {
			c.logger.Warnw("trial run failed", "problem_id", problem.ID, "error", err)
			result = model.NewRunResult(runFailure(err))
		} else {
			result = model.NewRunResult(runResultFrom(resp, problem.VisibleTestCases))
		}
	case model.KindSubmit:
		resp, err := c.judge.SubmitFinal(judgeCtx, problem.ID, code, language)
		if err != nil {
			c.logger.Warnw("submission failed", "problem_id", problem.ID, "error", err)
			result = model.NewSubmitResult(submitFailure(err))
		} else {
			result = model.NewSubmitResult(submitResultFrom(resp))
		}
	default:
		panic("workflow: unknown operation kind " + string(kind))
	}

	c.mu.Lock()
	if c.closed || gen != c.generation {
		c.mu.Unlock()
		return result, ErrStaleResponse
	}
	c.cancelJudge = nil
	c.state.Phase = Phase{Kind: PhaseSettled, Op: kind, Result: &result}
	userID := c.userID()
	c.commitLocked()

	c.record(ctx, userID, problem.ID, language, result)
	return result, nil
}

func (c *Controller) record(ctx context.Context, userID, problemID, language string, result model.Result) {
	if c.recorder == nil || failed(result) {
		return
	}
	passed, total := tally(result)
	runtime, memory := measurements(result)
	attempt := &model.Attempt{
		UserID:    userID,
		ProblemID: problemID,
		Kind:      result.Kind,
		Language:  language,
		Verdict:   result.Verdict(),
		Passed:    passed,
		Total:     total,
		Runtime:   string(runtime),
		Memory:    string(memory),
		CreatedAt: time.Now().UTC(),
	}
	// the caller's context may already be done once the response is back
	recCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := c.recorder.Create(recCtx, attempt); err != nil {
		c.logger.Errorw("failed to record attempt", "problem_id", problemID, "kind", result.Kind, "error", err)
	}
}

func (c *Controller) cancelJudgeLocked() {
	if c.cancelJudge != nil {
		c.cancelJudge()
		c.cancelJudge = nil
	}
}

func starterOrPlaceholder(p *model.Problem, language string) string {
	if code, ok := p.StarterCodeFor(language); ok && code != "" {
		return code
	}
	return fmt.Sprintf("// Write your %s code here for %s", language, p.Title)
}

func (c *Controller) snapshotLocked() State {
	s := c.state
	s.Output = OutputText(s.Phase)
	return s
}

// commitLocked releases the lock and notifies subscribers with the new state.
func (c *Controller) commitLocked() {
	s := c.snapshotLocked()
	subs := make([]func(State), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	for _, fn := range subs {
		fn(s)
	}
}
