package registry_test

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/textkit/pkg/domain"
	"github.com/aretw0/textkit/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStrategy struct {
	name  string
	rules []string
}

func (f fakeStrategy) Name() string { return f.name }

func (f fakeStrategy) Rules() map[string]domain.TransformationRule {
	out := make(map[string]domain.TransformationRule, len(f.rules))
	for _, r := range f.rules {
		out[r] = domain.TransformationRule{Name: r, Description: r}
	}
	return out
}

func (f fakeStrategy) Supports(name string) bool {
	for _, r := range f.rules {
		if r == name {
			return true
		}
	}
	return false
}

func (f fakeStrategy) Transform(text, name string, args []string) (string, error) {
	return strings.ToUpper(text), nil
}

func TestRegister_Resolve(t *testing.T) {
	r := registry.NewRegistry()
	require.NoError(t, r.Register(fakeStrategy{name: "basic", rules: []string{"t", "l"}}))
	require.NoError(t, r.Register(fakeStrategy{name: "hash", rules: []string{"sha256"}}))

	s, err := r.Resolve("sha256")
	require.NoError(t, err)
	assert.Equal(t, "hash", s.Name())

	assert.Equal(t, []string{"l", "sha256", "t"}, r.Names())
	assert.Len(t, r.Strategies(), 2)
}

func TestRegister_CollisionLeavesRegistryUnchanged(t *testing.T) {
	r := registry.NewRegistry()
	require.NoError(t, r.Register(fakeStrategy{name: "basic", rules: []string{"t"}}))

	err := r.Register(fakeStrategy{name: "other", rules: []string{"a", "t", "z"}})

	var ce *domain.CollisionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "t", ce.Name)
	assert.Equal(t, "basic", ce.Existing)
	assert.Equal(t, "other", ce.New)

	// None of the colliding strategy's rules were added.
	assert.Equal(t, []string{"t"}, r.Names())
	_, err = r.Resolve("a")
	assert.Error(t, err)
	assert.Len(t, r.Strategies(), 1)
}

func TestRegister_Invalid(t *testing.T) {
	r := registry.NewRegistry()
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(fakeStrategy{name: "empty"}))
}

func TestResolve_UnknownSamplesTenNames(t *testing.T) {
	r := registry.NewRegistry()
	var names []string
	for c := 'a'; c <= 'o'; c++ {
		names = append(names, string(c))
	}
	require.NoError(t, r.Register(fakeStrategy{name: "letters", rules: names}))

	_, err := r.Resolve("zz")

	var ue *domain.UnknownRuleError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, "zz", ue.Name)
	assert.Len(t, ue.Available, domain.MaxAvailableSample)
	assert.Equal(t, "a", ue.Available[0])
}

func TestRules_IsSnapshot(t *testing.T) {
	r := registry.NewRegistry()
	r.MustRegister(fakeStrategy{name: "basic", rules: []string{"t", "l"}})

	snap := r.Rules()
	delete(snap, "t")

	_, ok := r.Rule("t")
	assert.True(t, ok)
	assert.Len(t, r.Rules(), 2)
}

func TestMustRegister_PanicsOnCollision(t *testing.T) {
	r := registry.NewRegistry()
	assert.Panics(t, func() {
		r.MustRegister(
			fakeStrategy{name: "one", rules: []string{"t"}},
			fakeStrategy{name: "two", rules: []string{"t"}},
		)
	})
}

func TestResolve_ConcurrentReads(t *testing.T) {
	r := registry.NewRegistry()
	r.MustRegister(fakeStrategy{name: "basic", rules: []string{"t", "l", "u"}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, n := range []string{"t", "l", "u"} {
				if _, err := r.Resolve(n); err != nil {
					t.Errorf("resolve %s: %v", n, err)
				}
			}
			_ = r.Rules()
		}()
	}
	wg.Wait()
}
