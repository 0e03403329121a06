package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/helmcode/cricshot/pkg/advisor"
	"github.com/helmcode/cricshot/pkg/model"
)

var (
	// ErrAnalysisInFlight is returned when an analysis is triggered while
	// another one has not finished.
	ErrAnalysisInFlight = errors.New("analysis already in progress")
	// ErrUnknownField is returned for a selection field that does not exist.
	ErrUnknownField = errors.New("unknown selection field")
)

// FailureMessage is what the user is told when an analysis fails.
const FailureMessage = "Failed to get advice from Coach AI. Please check your API key."

// Field names one part of the selection.
type Field string

const (
	FieldBowler Field = "bowler"
	FieldLine   Field = "line"
	FieldLength Field = "length"
)

// Notifier tells the user about a failed analysis.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// State is a point-in-time copy of a controller.
type State struct {
	Selection model.Selection   `json:"selection"`
	Advice    *model.ShotAdvice `json:"advice"`
	Loading   bool              `json:"loading"`
}

// Controller owns the selection, the current advice and the loading flag
// for one user. At most one analysis runs at a time.
type Controller struct {
	requester advisor.Requester
	notifier  Notifier
	logger    *zap.Logger

	mu        sync.Mutex
	selection model.Selection
	advice    *model.ShotAdvice
	loading   bool
	watchers  map[int]chan State
	nextID    int
}

func NewController(requester advisor.Requester, notifier Notifier, logger *zap.Logger) *Controller {
	if notifier == nil {
		notifier = NotifierFunc(func(string) {})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		requester: requester,
		notifier:  notifier,
		logger:    logger,
		selection: model.DefaultSelection(),
		watchers:  make(map[int]chan State),
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() State {
	return State{
		Selection: c.selection,
		Advice:    c.advice.Clone(),
		Loading:   c.loading,
	}
}

func (c *Controller) SetBowler(b model.BowlerType) {
	c.update(func() { c.selection.Bowler = b })
}

func (c *Controller) SetLine(l model.Line) {
	c.update(func() { c.selection.Line = l })
}

func (c *Controller) SetLength(l model.Length) {
	c.update(func() { c.selection.Length = l })
}

// UpdateSelection parses value for the named field and replaces that field
// only. On error the selection is left unchanged.
func (c *Controller) UpdateSelection(field Field, value string) error {
	switch field {
	case FieldBowler:
		b, err := model.ParseBowlerType(value)
		if err != nil {
			return err
		}
		c.SetBowler(b)
	case FieldLine:
		l, err := model.ParseLine(value)
		if err != nil {
			return err
		}
		c.SetLine(l)
	case FieldLength:
		l, err := model.ParseLength(value)
		if err != nil {
			return err
		}
		c.SetLength(l)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (c *Controller) update(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn()
	c.publishLocked()
}

// TriggerAnalysis requests advice for the current selection. An invalid
// selection is rejected without touching state. Previous advice is cleared
// before the request starts. On failure the user is notified,
// advice stays absent and the error is returned.
func (c *Controller) TriggerAnalysis(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return ErrAnalysisInFlight
	}
	if err := c.selection.Validate(); err != nil {
		c.mu.Unlock()
		return err
	}
	c.loading = true
	c.advice = nil
	sel := c.selection
	c.publishLocked()
	c.mu.Unlock()

	c.logger.Debug("requesting shot advice",
		zap.String("bowler", string(sel.Bowler)),
		zap.String("line", string(sel.Line)),
		zap.String("length", string(sel.Length)))

	advice, err := c.requester.RequestAdvice(ctx, sel)
	if err == nil && advice == nil {
		err = errors.New("requester returned no advice")
	}

	c.mu.Lock()
	c.loading = false
	if err == nil {
		c.advice = advice.Clone()
	}
	c.publishLocked()
	c.mu.Unlock()

	if err != nil {
		c.logger.Error("shot advice request failed", zap.Error(err))
		c.notifier.Notify(FailureMessage)
	} else {
		c.logger.Info("shot advice received",
			zap.String("shot", advice.ShotName),
			zap.String("region", advice.FieldingRegion),
			zap.Float64("angle", advice.PlacementAngle))
	}
	return err
}

// Subscribe returns a channel that receives the latest state after every
// change. Slow readers only see the most recent state. Call cancel to stop.
func (c *Controller) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.watchers[id] = ch
	c.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.watchers, id)
			c.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// publishLocked must be called with mu held so states reach watchers in
// the order they were produced.
func (c *Controller) publishLocked() {
	state := c.snapshotLocked()
	for _, ch := range c.watchers {
		// drop the stale state, if any, so the newest always fits
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- state:
		default:
		}
	}
}
