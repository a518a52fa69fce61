package runtime_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/textkit/internal/runtime"
	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStrategy records every Transform call.
type MockStrategy struct {
	mock.Mock
	name  string
	rules []string
}

func (m *MockStrategy) Name() string { return m.name }

func (m *MockStrategy) Rules() map[string]domain.TransformationRule {
	out := make(map[string]domain.TransformationRule)
	for _, r := range m.rules {
		out[r] = domain.TransformationRule{Name: r, Description: r}
	}
	return out
}

func (m *MockStrategy) Supports(name string) bool {
	_, ok := m.Rules()[name]
	return ok
}

func (m *MockStrategy) Transform(text, name string, args []string) (string, error) {
	ret := m.Called(text, name, args)
	return ret.String(0), ret.Error(1)
}

func newRegistry(t *testing.T, strategies ...*MockStrategy) *registry.Registry {
	t.Helper()
	r := registry.NewRegistry()
	for _, s := range strategies {
		require.NoError(t, r.Register(s))
	}
	return r
}

func TestExecute_AppliesInOrder(t *testing.T) {
	s := &MockStrategy{name: "basic", rules: []string{"t", "l"}}
	s.On("Transform", "  Hello World  ", "t", []string(nil)).Return("Hello World", nil).Once()
	s.On("Transform", "Hello World", "l", []string(nil)).Return("hello world", nil).Once()

	o := runtime.NewOrchestrator(newRegistry(t, s))
	out, trace, err := o.Execute(context.Background(), "  Hello World  ", []domain.RuleToken{{Name: "t"}, {Name: "l"}})

	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
	assert.Equal(t, []string{"t", "l"}, trace.Applied)
	assert.Len(t, trace.PerRuleElapsedMS, 2)
	assert.Equal(t, 15, trace.InputLen)
	assert.Equal(t, 11, trace.OutputLen)
	s.AssertExpectations(t)
}

func TestExecute_FailFastOnUnknownRule(t *testing.T) {
	s := &MockStrategy{name: "basic", rules: []string{"t", "u"}}
	s.On("Transform", "x", "t", []string(nil)).Return("x", nil).Once()

	o := runtime.NewOrchestrator(newRegistry(t, s))
	out, trace, err := o.Execute(context.Background(), "x", []domain.RuleToken{{Name: "t"}, {Name: "unknown"}, {Name: "u"}})

	assert.Empty(t, out)
	assert.Nil(t, trace)

	var ue *domain.UnknownRuleError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "unknown", ue.Name)
	assert.Equal(t, 1, ue.Index)
	assert.Equal(t, 3, ue.Total)
	assert.Equal(t, []string{"t"}, ue.Applied)
	assert.Equal(t, []string{"t", "u"}, ue.Available)

	// u is never invoked.
	s.AssertNotCalled(t, "Transform", mock.Anything, "u", mock.Anything)
	s.AssertExpectations(t)
}

func TestExecute_WrapsStrategyFailure(t *testing.T) {
	cause := errors.New("illegal base64 data")
	s := &MockStrategy{name: "hash", rules: []string{"b64e", "b64d"}}
	s.On("Transform", "abc", "b64e", []string(nil)).Return("YWJj", nil)
	s.On("Transform", "YWJj", "b64d", []string{"x"}).Return("", cause)

	o := runtime.NewOrchestrator(newRegistry(t, s))
	_, _, err := o.Execute(context.Background(), "abc", []domain.RuleToken{{Name: "b64e"}, {Name: "b64d", Args: []string{"x"}}})

	var se *domain.StrategyError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "b64d", se.Name)
	assert.Equal(t, []string{"x"}, se.Args)
	assert.Equal(t, 1, se.Index)
	assert.Equal(t, []string{"b64e"}, se.Applied)
	assert.ErrorIs(t, err, cause)
}

func TestExecute_PropagatesArityWithContext(t *testing.T) {
	s := &MockStrategy{name: "string", rules: []string{"r"}}
	s.On("Transform", "hello", "r", []string{"l"}).Return("", &domain.ArityError{Name: "r", Expected: 2, Got: 1})

	o := runtime.NewOrchestrator(newRegistry(t, s))
	_, _, err := o.Execute(context.Background(), "hello", []domain.RuleToken{{Name: "r", Args: []string{"l"}}})

	var ae *domain.ArityError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, 0, ae.Index)
	assert.Equal(t, 2, ae.Expected)
	assert.Equal(t, 1, ae.Got)
	assert.Empty(t, ae.Applied)
}

func TestExecute_RecoversPanics(t *testing.T) {
	s := &MockStrategy{name: "bad", rules: []string{"boom"}}
	s.On("Transform", "x", "boom", []string(nil)).Panic("kaboom")

	o := runtime.NewOrchestrator(newRegistry(t, s))
	_, _, err := o.Execute(context.Background(), "x", []domain.RuleToken{{Name: "boom"}})

	var se *domain.StrategyError
	require.ErrorAs(t, err, &se)
	assert.Contains(t, se.Error(), "kaboom")
}

func TestExecute_EmptyTextRunsThrough(t *testing.T) {
	s := &MockStrategy{name: "basic", rules: []string{"t"}}
	s.On("Transform", "", "t", []string(nil)).Return("", nil)

	o := runtime.NewOrchestrator(newRegistry(t, s))
	out, trace, err := o.Execute(context.Background(), "", []domain.RuleToken{{Name: "t"}})

	require.NoError(t, err)
	assert.Equal(t, "", out)
	assert.Equal(t, 0, trace.InputLen)
}

func TestExecute_LifecycleHooks(t *testing.T) {
	s := &MockStrategy{name: "basic", rules: []string{"t", "x"}}
	s.On("Transform", "a", "t", []string(nil)).Return("a", nil)
	s.On("Transform", "a", "x", []string(nil)).Return("", errors.New("nope"))

	var events []string
	var done *domain.PipelineEvent
	hooks := domain.LifecycleHooks{
		OnRuleStart:   func(_ context.Context, e *domain.RuleEvent) { events = append(events, "start:"+e.Rule) },
		OnRuleApplied: func(_ context.Context, e *domain.RuleEvent) { events = append(events, "applied:"+e.Rule) },
		OnRuleFailed:  func(_ context.Context, e *domain.RuleEvent) { events = append(events, "failed:"+e.Rule) },
		OnPipelineDone: func(_ context.Context, e *domain.PipelineEvent) {
			done = e
		},
	}

	o := runtime.NewOrchestrator(newRegistry(t, s), runtime.WithLifecycleHooks(hooks))
	_, _, err := o.Execute(context.Background(), "a", []domain.RuleToken{{Name: "t"}, {Name: "x"}})
	require.Error(t, err)

	assert.Equal(t, "start:t,applied:t,start:x,failed:x", strings.Join(events, ","))
	require.NotNil(t, done)
	assert.Nil(t, done.Trace)
	assert.Equal(t, err, done.Err)
}
