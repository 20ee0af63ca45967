package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "POST:/api/v1/invoices:abc", Key("POST", "/api/v1/invoices", "abc"))
}

func TestMemoryStore_PutGet(t *testing.T) {
	s := NewMemoryStore(24*time.Hour, 1000)
	ctx := context.Background()

	entry, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, entry)

	want := &Entry{Status: 200, Body: []byte(`{"ok":true}`), ContentType: "application/json", CreatedAt: time.Now()}
	require.NoError(t, s.Put(ctx, "k1", want))

	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestMemoryStore_ExpiredEntryReadsAsAbsent(t *testing.T) {
	s := NewMemoryStore(24*time.Hour, 1000)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }
	require.NoError(t, s.Put(ctx, "k1", &Entry{Status: 200, CreatedAt: now}))

	// Just before expiry the entry is still served.
	s.now = func() time.Time { return now.Add(24*time.Hour - time.Minute) }
	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	// Past expiry it reads as absent, so a replay executes afresh.
	s.now = func() time.Time { return now.Add(24*time.Hour + time.Minute) }
	got, err = s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	s := NewMemoryStore(24*time.Hour, 1000)
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "k1", &Entry{Status: 200, CreatedAt: time.Now()}))
	require.NoError(t, s.Put(ctx, "k1", &Entry{Status: 201, CreatedAt: time.Now()}))

	got, err := s.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, 201, got.Status)
	assert.Equal(t, 1, s.Len())
}

func TestMemoryStore_LazySweepPastThreshold(t *testing.T) {
	s := NewMemoryStore(24*time.Hour, 10)
	ctx := context.Background()

	now := time.Now()
	s.now = func() time.Time { return now }

	// Ten entries that will all be expired by the time the sweep runs.
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Put(ctx, fmt.Sprintf("old-%d", i), &Entry{Status: 200, CreatedAt: now.Add(-48 * time.Hour)}))
	}
	// No sweep yet: the count never exceeded the threshold.
	assert.Equal(t, 10, s.Len())

	// The eleventh insert crosses the threshold and sweeps the stale ones.
	require.NoError(t, s.Put(ctx, "fresh", &Entry{Status: 200, CreatedAt: now}))
	assert.Equal(t, 1, s.Len())

	got, err := s.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.NotNil(t, got)
}
