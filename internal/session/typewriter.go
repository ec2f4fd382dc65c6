package session

// Typewriter reveals the newest non-user message one rune at a time. It holds
// a single slot: when a newer message is tracked the previous one is treated
// as fully revealed.
type Typewriter struct {
	target   MessageID
	tracking bool
	runes    []rune
	revealed int
}

// Track points the typewriter at m. User messages and the message already
// tracked are ignored. It reports whether m still has text to reveal.
//
// A message that loses the slot mid-reveal is not frozen at its partial
// prefix: Visible renders it in full from then on, since only the tracked
// message keeps a clamped reveal count.
func (t *Typewriter) Track(m Message) bool {
	if m.Role == RoleUser {
		return false
	}
	if t.tracking && t.target == m.ID {
		return !t.Done()
	}
	t.target = m.ID
	t.tracking = true
	t.runes = []rune(m.Content)
	t.revealed = 0
	return !t.Done()
}

// Tick reveals one more rune and reports whether any remain.
func (t *Typewriter) Tick() bool {
	if t.revealed < len(t.runes) {
		t.revealed++
	}
	return !t.Done()
}

// Finish reveals the tracked message completely.
func (t *Typewriter) Finish() {
	t.revealed = len(t.runes)
}

// Done reports whether the tracked message is fully revealed.
func (t *Typewriter) Done() bool {
	return t.revealed >= len(t.runes)
}

// Target returns the tracked message id.
func (t *Typewriter) Target() (MessageID, bool) {
	return t.target, t.tracking
}

// Revealed returns how many runes of the tracked message are visible.
func (t *Typewriter) Revealed() int { return t.revealed }

// Visible returns the text of m as it should currently be displayed.
func (t *Typewriter) Visible(m Message) string {
	if m.Role == RoleUser || !t.tracking || m.ID != t.target {
		return m.Content
	}
	return string(t.runes[:t.revealed])
}

// Typing reports whether m is the message currently being revealed.
func (t *Typewriter) Typing(m Message) bool {
	return t.tracking && m.ID == t.target && !t.Done()
}
