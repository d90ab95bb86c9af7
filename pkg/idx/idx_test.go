package idx_test

import (
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/inkwell/pkg/idx"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestNewIsValidULID(t *testing.T) {
	id := idx.New()

	u, err := ulid.ParseStrict(id.String())
	require.NoError(t, err)
	require.WithinDuration(t, time.Now(), ulid.Time(u.Time()), time.Second)
}

func TestNewAtSortsByTime(t *testing.T) {
	a := idx.NewAt(time.Unix(1, 0).UTC())
	b := idx.NewAt(time.Unix(2, 0).UTC())
	require.Less(t, a.String(), b.String())
}

func TestNewAtEmbedsTimestamp(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()

	u, err := ulid.ParseStrict(idx.NewAt(tm).String())
	require.NoError(t, err)
	require.Equal(t, tm, ulid.Time(u.Time()).UTC())
}

func TestSameMillisecondStaysOrdered(t *testing.T) {
	tm := time.Unix(1700000000, 0).UTC()

	var prev string
	for range 100 {
		next := idx.NewAt(tm).String()
		require.Greater(t, next, prev)
		prev = next
	}
}

func TestConcurrentNewIsUnique(t *testing.T) {
	const n = 64

	var (
		mu   sync.Mutex
		seen = make(map[idx.ID]struct{}, n)
		wg   sync.WaitGroup
	)
	for range n {
		wg.Go(func() {
			id := idx.New()
			mu.Lock()
			seen[id] = struct{}{}
			mu.Unlock()
		})
	}
	wg.Wait()

	require.Len(t, seen, n)
}
