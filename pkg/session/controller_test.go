package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/helmcode/cricshot/pkg/model"
)

func TestMain(m *testing.M) {
	// genai pulls in opencensus, whose view worker starts in init and never exits.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

// stubRequester returns canned results and lets a test observe the
// controller while a request is outstanding.
type stubRequester struct {
	advice *model.ShotAdvice
	err    error
	during func()
	got    []model.Selection
}

func (s *stubRequester) RequestAdvice(_ context.Context, sel model.Selection) (*model.ShotAdvice, error) {
	s.got = append(s.got, sel)
	if s.during != nil {
		s.during()
	}
	return s.advice, s.err
}

func pullShot() *model.ShotAdvice {
	return &model.ShotAdvice{
		ShotName:       "Pull Shot",
		Description:    "Short ball at the body.",
		ExecutionTips:  []string{"Rock back", "Roll the wrists"},
		RiskLevel:      model.RiskMedium,
		PlacementAngle: 270,
		FieldingRegion: "Mid Wicket",
	}
}

func TestNewControllerDefaults(t *testing.T) {
	c := NewController(&stubRequester{}, nil, nil)
	st := c.Snapshot()
	assert.Equal(t, model.DefaultSelection(), st.Selection)
	assert.Nil(t, st.Advice)
	assert.False(t, st.Loading)
}

func TestUpdateSelectionReplacesOneField(t *testing.T) {
	c := NewController(&stubRequester{}, nil, zaptest.NewLogger(t))

	require.NoError(t, c.UpdateSelection(FieldLength, "yorker"))
	st := c.Snapshot()
	assert.Equal(t, model.LengthYorker, st.Selection.Length)
	assert.Equal(t, model.BowlerFast, st.Selection.Bowler)
	assert.Equal(t, model.LineOutsideOff, st.Selection.Line)

	require.NoError(t, c.UpdateSelection(FieldBowler, "Leg Spinner"))
	require.NoError(t, c.UpdateSelection(FieldLine, "stump-to-stump"))
	st = c.Snapshot()
	assert.Equal(t, model.Selection{Bowler: model.BowlerLegSpin, Line: model.LineStumpToStump, Length: model.LengthYorker}, st.Selection)
}

func TestUpdateSelectionRejectsBadInput(t *testing.T) {
	c := NewController(&stubRequester{}, nil, nil)

	assert.ErrorIs(t, c.UpdateSelection("pace", "fast"), ErrUnknownField)
	assert.ErrorIs(t, c.UpdateSelection(FieldLine, "outside leg"), model.ErrInvalidValue)
	assert.Equal(t, model.DefaultSelection(), c.Snapshot().Selection)
}

func TestTriggerAnalysisSuccess(t *testing.T) {
	req := &stubRequester{advice: pullShot()}
	c := NewController(req, nil, zaptest.NewLogger(t))
	c.SetLength(model.LengthShort)

	var during State
	req.during = func() { during = c.Snapshot() }

	require.NoError(t, c.TriggerAnalysis(context.Background()))

	assert.True(t, during.Loading)
	assert.Nil(t, during.Advice)
	require.Len(t, req.got, 1)
	assert.Equal(t, model.LengthShort, req.got[0].Length)

	st := c.Snapshot()
	assert.False(t, st.Loading)
	require.NotNil(t, st.Advice)
	assert.Equal(t, "Pull Shot", st.Advice.ShotName)
}

func TestTriggerAnalysisFailureClearsAdvice(t *testing.T) {
	var notices []string
	notifier := NotifierFunc(func(msg string) { notices = append(notices, msg) })

	req := &stubRequester{advice: pullShot()}
	c := NewController(req, notifier, zaptest.NewLogger(t))
	require.NoError(t, c.TriggerAnalysis(context.Background()))
	require.NotNil(t, c.Snapshot().Advice)

	req.advice = nil
	req.err = errors.New("unparseable")
	err := c.TriggerAnalysis(context.Background())
	assert.Error(t, err)

	st := c.Snapshot()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Advice)
	assert.Equal(t, []string{FailureMessage}, notices)
}

func TestTriggerAnalysisRejectsInvalidSelection(t *testing.T) {
	req := &stubRequester{advice: pullShot()}
	var notices []string
	c := NewController(req, NotifierFunc(func(m string) { notices = append(notices, m) }), nil)
	c.SetBowler("Chinaman")

	err := c.TriggerAnalysis(context.Background())
	require.ErrorIs(t, err, model.ErrInvalidValue)
	assert.Empty(t, req.got)
	assert.Empty(t, notices)
	st := c.Snapshot()
	assert.False(t, st.Loading)
	assert.Nil(t, st.Advice)
}

func TestTriggerAnalysisNilAdviceIsFailure(t *testing.T) {
	c := NewController(&stubRequester{}, nil, nil)
	assert.Error(t, c.TriggerAnalysis(context.Background()))
	assert.Nil(t, c.Snapshot().Advice)
}

func TestRetriggerClearsOldAdviceWhileLoading(t *testing.T) {
	req := &stubRequester{advice: pullShot()}
	c := NewController(req, nil, nil)
	require.NoError(t, c.TriggerAnalysis(context.Background()))

	var during State
	req.during = func() { during = c.Snapshot() }
	require.NoError(t, c.TriggerAnalysis(context.Background()))

	assert.True(t, during.Loading)
	assert.Nil(t, during.Advice, "stale advice visible during loading")
}

func TestTriggerAnalysisRejectsOverlap(t *testing.T) {
	req := &stubRequester{advice: pullShot()}
	c := NewController(req, nil, nil)

	var nested error
	req.during = func() { nested = c.TriggerAnalysis(context.Background()) }
	require.NoError(t, c.TriggerAnalysis(context.Background()))

	assert.ErrorIs(t, nested, ErrAnalysisInFlight)
	assert.Len(t, req.got, 1)
}

func TestSnapshotIsACopy(t *testing.T) {
	c := NewController(&stubRequester{advice: pullShot()}, nil, nil)
	require.NoError(t, c.TriggerAnalysis(context.Background()))

	st := c.Snapshot()
	st.Advice.ExecutionTips[0] = "mutated"
	assert.Equal(t, "Rock back", c.Snapshot().Advice.ExecutionTips[0])
}

func TestSubscribeReceivesLatestState(t *testing.T) {
	req := &stubRequester{advice: pullShot()}
	c := NewController(req, nil, nil)
	ch, cancel := c.Subscribe()

	var loadingSeen bool
	req.during = func() {
		st := <-ch
		loadingSeen = st.Loading
	}
	require.NoError(t, c.TriggerAnalysis(context.Background()))
	assert.True(t, loadingSeen)

	st := <-ch
	assert.False(t, st.Loading)
	require.NotNil(t, st.Advice)

	c.SetBowler(model.BowlerOffSpin)
	c.SetLine(model.LineLegSide)
	st = <-ch
	assert.Equal(t, model.LineLegSide, st.Selection.Line)
	assert.Equal(t, model.BowlerOffSpin, st.Selection.Bowler)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	c.SetLength(model.LengthFull)
}
