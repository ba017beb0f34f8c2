package request_test

import (
	"context"
	"errors"
	"testing"

	"github.com/saulo-duarte/mockprep/internal/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunTransitions(t *testing.T) {
	ctx := context.Background()

	t.Run("IdleBeforeFirstCall", func(t *testing.T) {
		slot := request.NewSlot("categories/list", request.LastResolvedWins)
		assert.Equal(t, request.StatusIdle, slot.State().Status)
	})

	t.Run("LoadingWhileInFlight", func(t *testing.T) {
		slot := request.NewSlot("categories/list", request.LastResolvedWins)
		var seen request.Status

		_, err := request.Run(ctx, slot, func(context.Context) (int, error) {
			seen = slot.State().Status
			return 1, nil
		}, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, request.StatusLoading, seen)
		assert.Equal(t, request.StatusSucceeded, slot.State().Status)
	})

	t.Run("FailureKeepsMessageAndRunsOnFailure", func(t *testing.T) {
		slot := request.NewSlot("tests/list", request.LastResolvedWins)
		cleared := false

		_, err := request.Run(ctx, slot, func(context.Context) ([]string, error) {
			return nil, errors.New("network down")
		}, func([]string) { t.Fatal("onSuccess must not run") }, func(error) { cleared = true })

		require.Error(t, err)
		assert.True(t, cleared)
		st := slot.State()
		assert.Equal(t, request.StatusFailed, st.Status)
		assert.Equal(t, "network down", st.Error)
	})

	t.Run("RetryClearsPreviousError", func(t *testing.T) {
		slot := request.NewSlot("tests/list", request.LastResolvedWins)
		_, _ = request.Run(ctx, slot, func(context.Context) (int, error) {
			return 0, errors.New("boom")
		}, nil, nil)

		var during request.State
		_, err := request.Run(ctx, slot, func(context.Context) (int, error) {
			during = slot.State()
			return 2, nil
		}, nil, nil)

		require.NoError(t, err)
		assert.Equal(t, request.StatusLoading, during.Status)
		assert.Empty(t, during.Error)
		assert.Equal(t, request.StatusSucceeded, slot.State().Status)
	})
}

// overlapping runs two calls on one slot where the first dispatched call
// resolves last.
func overlapping(t *testing.T, policy request.Policy) (applied []string, firstErr error) {
	t.Helper()
	ctx := context.Background()
	slot := request.NewSlot("tests/list", policy)

	releaseFirst := make(chan struct{})
	firstStarted := make(chan struct{})
	firstDone := make(chan error, 1)
	apply := func(v string) { applied = append(applied, v) }

	go func() {
		_, err := request.Run(ctx, slot, func(context.Context) (string, error) {
			close(firstStarted)
			<-releaseFirst
			return "first", nil
		}, apply, nil)
		firstDone <- err
	}()

	<-firstStarted
	_, err := request.Run(ctx, slot, func(context.Context) (string, error) {
		return "second", nil
	}, apply, nil)
	require.NoError(t, err)

	close(releaseFirst)
	firstErr = <-firstDone
	return applied, firstErr
}

func TestOverlappingCalls(t *testing.T) {
	t.Run("LastResolvedWins", func(t *testing.T) {
		applied, err := overlapping(t, request.LastResolvedWins)
		require.NoError(t, err)
		assert.Equal(t, []string{"second", "first"}, applied)
	})

	t.Run("LatestDispatchWins", func(t *testing.T) {
		applied, err := overlapping(t, request.LatestDispatchWins)
		assert.True(t, request.IsSuperseded(err))
		assert.Equal(t, []string{"second"}, applied)
	})
}

func TestRegistry(t *testing.T) {
	reg := request.NewRegistry(request.LastResolvedWins)

	a := reg.Slot("doubts/mine")
	b := reg.Slot("doubts/mine")
	assert.Same(t, a, b)

	reg.Slot("categories/list").Begin()
	snap := reg.Snapshot()
	assert.Equal(t, request.StatusLoading, snap["categories/list"].Status)
	assert.Equal(t, request.StatusIdle, snap["doubts/mine"].Status)
	assert.Len(t, snap, 2)

	reg.Reset()
	snap = reg.Snapshot()
	assert.Equal(t, request.StatusIdle, snap["categories/list"].Status)
	assert.Same(t, a, reg.Slot("doubts/mine"))
}

func TestResetDropsInFlightResponses(t *testing.T) {
	for _, policy := range []request.Policy{request.LastResolvedWins, request.LatestDispatchWins} {
		reg := request.NewRegistry(policy)
		slot := reg.Slot("doubts/mine")

		started := make(chan struct{})
		release := make(chan struct{})
		done := make(chan error, 1)
		var applied []string

		go func() {
			_, err := request.Run(context.Background(), slot, func(context.Context) ([]string, error) {
				close(started)
				<-release
				return []string{"userA-doubt"}, nil
			}, func(v []string) { applied = v }, nil)
			done <- err
		}()

		<-started
		reg.Reset()
		close(release)

		err := <-done
		assert.True(t, request.IsSuperseded(err))
		assert.Empty(t, applied)
		assert.Equal(t, request.StatusIdle, reg.State("doubts/mine").Status)

		_, err = request.Run(context.Background(), slot, func(context.Context) ([]string, error) {
			return []string{"userB-doubt"}, nil
		}, func(v []string) { applied = v }, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"userB-doubt"}, applied)
	}
}

func TestResetDropsInFlightFailures(t *testing.T) {
	reg := request.NewRegistry(request.LastResolvedWins)
	slot := reg.Slot("tests/list")

	started := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	cleared := false

	go func() {
		_, err := request.Run(context.Background(), slot, func(context.Context) (int, error) {
			close(started)
			<-release
			return 0, errors.New("network down")
		}, nil, func(error) { cleared = true })
		done <- err
	}()

	<-started
	reg.Reset()
	close(release)

	require.Error(t, <-done)
	assert.False(t, cleared)
	assert.Equal(t, request.StatusIdle, slot.State().Status)
}

func TestParsePolicy(t *testing.T) {
	assert.Equal(t, request.LatestDispatchWins, request.ParsePolicy("latest-dispatch"))
	assert.Equal(t, request.LastResolvedWins, request.ParsePolicy("last-resolved"))
	assert.Equal(t, request.LastResolvedWins, request.ParsePolicy(""))
}
