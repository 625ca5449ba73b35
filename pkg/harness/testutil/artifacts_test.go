package testutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesyncim/haloqa/pkg/harness/internal"
	"github.com/thesyncim/haloqa/pkg/harness/jitter"
	"github.com/thesyncim/haloqa/pkg/harness/search"
)

func TestScreenshotPath(t *testing.T) {
	orig := now
	t.Cleanup(func() { now = orig })
	now = func() time.Time { return time.Date(2024, 3, 9, 7, 5, 1, 0, time.UTC) }

	assert.Equal(t, filepath.Join("shots", "search_results_20240309-070501.png"), ScreenshotPath("shots", "search_results"))
	assert.Equal(t, filepath.Join("shots", "captcha_on_load_20240309-070501.png"), ScreenshotPath("shots", "captcha on/load"))
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "queries.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"queries":[{"query":"golang","expect":["go"]}]}`), 0o644))

	var data struct {
		Queries []struct {
			Query  string   `json:"query"`
			Expect []string `json:"expect"`
		} `json:"queries"`
	}
	require.NoError(t, LoadJSON(path, &data))
	require.Len(t, data.Queries, 1)
	assert.Equal(t, "golang", data.Queries[0].Query)

	assert.Error(t, LoadJSON(filepath.Join(dir, "missing.json"), &data))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	assert.ErrorContains(t, LoadJSON(bad, &data), "bad.json")
}

func TestLoadJSONQueriesFixture(t *testing.T) {
	var data struct {
		Queries []struct {
			Query string `json:"query"`
		} `json:"queries"`
	}
	require.NoError(t, LoadJSON(filepath.Join("..", "..", "..", "e2e", "testdata", "queries.json"), &data))
	assert.NotEmpty(t, data.Queries)
}

func TestCooldown(t *testing.T) {
	sleeper := internal.NewMockSleeper()
	r := jitter.Range{Min: 3 * time.Second, Max: 5 * time.Second}

	t.Run("inner", func(t *testing.T) {
		Cooldown(t, jitter.NewRandom(1).WithSleeper(sleeper), r)
		assert.Empty(t, sleeper.Durations(), "cooldown must run at cleanup")
	})

	got := sleeper.Durations()
	require.Len(t, got, 1)
	assert.GreaterOrEqual(t, got[0], r.Min)
	assert.LessOrEqual(t, got[0], r.Max)
}

func TestSkipOnChallenge(t *testing.T) {
	var skipped bool
	t.Run("challenge", func(t *testing.T) {
		defer func() { skipped = t.Skipped() }()
		SkipOnChallenge(t, fmt.Errorf("wrap: %w", &search.ChallengeError{Stage: search.StageInitial}))
	})
	assert.True(t, skipped)

	t.Run("other error", func(t *testing.T) {
		SkipOnChallenge(t, errors.New("timeout"))
		SkipOnChallenge(t, nil)
		assert.False(t, t.Skipped())
	})
}
