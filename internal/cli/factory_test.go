package cli

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/textkit/internal/config"
	"github.com/aretw0/textkit/internal/logging"
	"github.com/aretw0/textkit/pkg/observability"
	"github.com/aretw0/textkit/pkg/runner"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Crypto.KeyDir = t.TempDir()
	return cfg
}

func build(t *testing.T, cfg *config.Config, opts BuildOptions) *Stack {
	t.Helper()
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	s, err := Build(cfg, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestBuild_Defaults(t *testing.T) {
	s := build(t, testConfig(t), BuildOptions{})

	assert.Nil(t, s.Cache)
	assert.Nil(t, s.Keys)
	_, ok := s.Engine.Rule("enc")
	assert.False(t, ok)

	res, err := s.Runner.Apply(context.Background(), "  Hi  ", "/t/u")
	require.NoError(t, err)
	assert.Equal(t, "HI", res.Output)
}

func TestBuild_DisabledFamiliesAndMaxRules(t *testing.T) {
	cfg := testConfig(t)
	cfg.Rules.Disabled = []string{"case"}
	cfg.Rules.MaxPerChain = 2
	s := build(t, cfg, BuildOptions{})

	_, ok := s.Engine.Rule("s")
	assert.False(t, ok)

	_, err := s.Runner.Apply(context.Background(), "x", "/t/l/u")
	assert.Error(t, err)
}

func TestBuild_Interceptor(t *testing.T) {
	s := build(t, testConfig(t), BuildOptions{Interceptor: runner.DenyRules("u")})

	_, err := s.Runner.Apply(context.Background(), "x", "/t/u")
	assert.ErrorIs(t, err, runner.ErrRuleDenied)
}

func TestBuild_MemoryCacheWithMetrics(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = config.CacheMemory
	metrics := observability.NewMetrics(nil)
	s := build(t, cfg, BuildOptions{Metrics: metrics})
	require.NotNil(t, s.Cache)

	ctx := context.Background()
	first, err := s.Runner.Apply(ctx, "abc", "/u")
	require.NoError(t, err)
	assert.False(t, first.Cached)
	second, err := s.Runner.Apply(ctx, "abc", "/u")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "ABC", second.Output)

	expected := `
# HELP textkit_cache_requests_total Result cache lookups by outcome
# TYPE textkit_cache_requests_total counter
textkit_cache_requests_total{result="hit"} 1
textkit_cache_requests_total{result="miss"} 1
`
	require.NoError(t, testutil.GatherAndCompare(metrics.Registry(), strings.NewReader(expected), "textkit_cache_requests_total"))
}

func TestBuild_RedisCacheEncrypted(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.Cache.Backend = config.CacheRedis
	cfg.Cache.RedisAddr = mr.Addr()
	cfg.Cache.EncryptionKey = base64.StdEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	s := build(t, cfg, BuildOptions{})

	ctx := context.Background()
	_, err := s.Runner.Apply(ctx, "secret", "/u")
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	stored, err := mr.Get(keys[0])
	require.NoError(t, err)
	assert.NotContains(t, stored, "SECRET")

	res, err := s.Runner.Apply(ctx, "secret", "/u")
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Equal(t, "SECRET", res.Output)
}

func TestBuild_PIISkipped(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = config.CacheMemory
	s := build(t, cfg, BuildOptions{})

	ctx := context.Background()
	_, err := s.Runner.Apply(ctx, "mail ME@EXAMPLE.COM", "/l")
	require.NoError(t, err)
	res, err := s.Runner.Apply(ctx, "mail ME@EXAMPLE.COM", "/l")
	require.NoError(t, err)
	assert.False(t, res.Cached)
}

func TestBuild_Errors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Backend = "disk"
	_, err := Build(cfg, BuildOptions{Logger: logging.NewNop()})
	assert.ErrorContains(t, err, "unknown cache backend")

	cfg = testConfig(t)
	cfg.Cache.Backend = config.CacheMemory
	cfg.Cache.EncryptionKey = "short"
	_, err = Build(cfg, BuildOptions{Logger: logging.NewNop()})
	assert.Error(t, err)
}

func TestBuild_Crypto(t *testing.T) {
	if testing.Short() {
		t.Skip("generates an RSA key")
	}
	cfg := testConfig(t)
	cfg.Crypto.Enabled = true
	cfg.Crypto.KeyBits = 1024
	s := build(t, cfg, BuildOptions{})
	require.NotNil(t, s.Keys)

	ctx := context.Background()
	sealed, err := s.Runner.Apply(ctx, "hello", "/enc")
	require.NoError(t, err)
	opened, err := s.Runner.Apply(ctx, sealed.Output, "/dec")
	require.NoError(t, err)
	assert.Equal(t, "hello", opened.Output)

	_, err = os.Stat(filepath.Join(cfg.Crypto.KeyDir, "private_key.pem"))
	assert.NoError(t, err)
}
