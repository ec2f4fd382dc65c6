//nolint:testpackage // White-box tests require access to unexported identifiers in this package.
package tui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/cybershield/internal/scan"
	"github.com/ensigniasec/cybershield/internal/session"
)

func TestTeaClock_FireAndStop(t *testing.T) {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := newTeaClock(func() time.Time { return start })
	assert.Nil(t, c.drain())

	var fired []string
	a := c.AfterFunc(time.Second, func() { fired = append(fired, "a") })
	b := c.AfterFunc(2*time.Second, func() { fired = append(fired, "b") })
	require.NotNil(t, c.drain())
	assert.Nil(t, c.drain(), "queued ticks are handed out once")

	assert.True(t, b.Stop())
	assert.False(t, b.Stop())

	c.fire(2)
	c.fire(1)
	c.fire(1)
	assert.Equal(t, []string{"a"}, fired)
	assert.False(t, a.Stop(), "fired timers cannot be stopped")
	assert.Empty(t, c.pending)
}

func TestToastBoard(t *testing.T) {
	var b toastBoard
	for _, title := range []string{"one", "two", "three", "four"} {
		b.Notify(session.NotifyInfo, title, "")
	}

	assert.Len(t, b.schedule(), 4)
	assert.Empty(t, b.schedule())

	vis := b.visible()
	require.Len(t, vis, maxToasts)
	assert.Equal(t, "two", vis[0].title)

	b.expire(vis[0].id)
	b.expire(999)
	assert.Len(t, b.items, 3)
}

func TestSwitchRandom_DemoRepeats(t *testing.T) {
	r := newSwitchRandom(7, true)
	first := []float64{r.Float64(), r.Float64(), r.Float64()}

	r.SetDemo(false)
	r.SetDemo(true)
	second := []float64{r.Float64(), r.Float64(), r.Float64()}

	assert.Equal(t, first, second)
	assert.True(t, r.Demo())
	n := r.IntN(3)
	assert.GreaterOrEqual(t, n, 0)
	assert.Less(t, n, 3)
}

func TestSwitchRandom_DemoMatchesHeadlessSeed(t *testing.T) {
	r := newSwitchRandom(11, true)
	headless := scan.NewSeededRandom(11)
	for range 10 {
		assert.Equal(t, scan.Decide("f", headless), scan.Decide("f", r))
	}
}
