package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/LeadImport/internal/core"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestMemory() (*Memory, *clock) {
	c := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	m := NewMemory()
	m.now = c.now
	return m, c
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	m, c := newTestMemory()

	require.NoError(t, m.Set(ctx, "a", []byte("1"), time.Minute))
	require.NoError(t, m.Set(ctx, "b", []byte("2"), 0))

	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	c.t = c.t.Add(time.Minute)
	got, err = m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, _ = m.Get(ctx, "b")
	assert.Equal(t, []byte("2"), got, "no ttl never expires")

	require.NoError(t, m.Del(ctx, "b"))
	got, _ = m.Get(ctx, "b")
	assert.Nil(t, got)
}

func TestMemory_SweepsExpiredKeys(t *testing.T) {
	ctx := context.Background()
	m, c := newTestMemory()

	for i := 0; i < 64; i++ {
		require.NoError(t, m.Set(ctx, "old"+strconv.Itoa(i), []byte("x"), time.Second))
	}
	c.t = c.t.Add(time.Hour)
	require.NoError(t, m.Set(ctx, "fresh", []byte("y"), time.Hour))

	assert.Equal(t, 1, m.Len())
}

func TestMemory_CopiesValue(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory()

	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf, 0))
	buf[0] = 'z'

	got, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), got)
}

func TestResultCache(t *testing.T) {
	ctx := context.Background()
	m, c := newTestMemory()
	rc := NewResultCache(m, time.Hour)

	want := core.ImportResult{ImportID: "id-1", ImportedLeads: 3, ErrorLeads: 1, Message: "3 leads imported, 1 errors"}
	require.NoError(t, rc.SetResult(ctx, "id-1", want))

	raw, _ := m.Get(ctx, "import:id-1")
	assert.Contains(t, string(raw), `"importedLeads":3`)

	got, err := rc.GetResult(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, want, *got)

	miss, err := rc.GetResult(ctx, "other")
	require.NoError(t, err)
	assert.Nil(t, miss)

	c.t = c.t.Add(2 * time.Hour)
	expired, err := rc.GetResult(ctx, "id-1")
	require.NoError(t, err)
	assert.Nil(t, expired)
}

func TestResultCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestMemory()
	rc := NewResultCache(m, 0)
	assert.Equal(t, DefaultResultTTL, rc.ttl)

	require.NoError(t, m.Set(ctx, "import:bad", []byte("{"), 0))
	_, err := rc.GetResult(ctx, "bad")
	assert.ErrorContains(t, err, "decode import result")
}
