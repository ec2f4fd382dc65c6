package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ensigniasec/cybershield/internal/clock"
)

func TestStore_IDsAreUniqueWithinOneTick(t *testing.T) {
	st := NewStore(clock.NewManual(time.Unix(100, 0)))

	a := st.Append(RoleUser, "a", nil)
	b := st.Append(RoleSystem, "b", nil)
	c := st.Append(RoleAssistant, "c", nil)

	assert.Equal(t, a.Timestamp, c.Timestamp)
	assert.Less(t, a.ID, b.ID)
	assert.Less(t, b.ID, c.ID)
}

func TestStore_SeverityIsCopied(t *testing.T) {
	st := NewStore(clock.NewManual(time.Unix(0, 0)))
	sev := 4
	m := st.Append(RoleAssistant, "verdict", &sev)
	sev = 1

	require.True(t, m.HasSeverity())
	assert.Equal(t, 4, m.SeverityLevel())
	assert.Equal(t, 4, st.Messages()[0].SeverityLevel())
}

func TestStore_ResetKeepsIDsMonotonic(t *testing.T) {
	st := NewStore(clock.NewManual(time.Unix(0, 0)))
	st.Append(RoleUser, "one", nil)
	last := st.Append(RoleUser, "two", nil)

	fresh := st.Reset("cleared")
	assert.Equal(t, 1, st.Len())
	assert.Greater(t, fresh.ID, last.ID)
	assert.Equal(t, RoleSystem, fresh.Role)
}

func TestStore_MessagesIsACopy(t *testing.T) {
	st := NewStore(clock.NewManual(time.Unix(0, 0)))
	st.Append(RoleUser, "one", nil)

	msgs := st.Messages()
	msgs[0].Content = "changed"
	assert.Equal(t, "one", st.Messages()[0].Content)
}

func TestStore_LastNonUser(t *testing.T) {
	st := NewStore(clock.NewManual(time.Unix(0, 0)))
	_, ok := st.LastNonUser()
	assert.False(t, ok)

	st.Append(RoleSystem, "sys", nil)
	st.Append(RoleUser, "usr", nil)
	m, ok := st.LastNonUser()
	require.True(t, ok)
	assert.Equal(t, "sys", m.Content)

	last, ok := st.Last()
	require.True(t, ok)
	assert.Equal(t, "usr", last.Content)
}
