package tui

// answerHistory remembers answers typed into the puzzle box so the player can
// recall them with up/down. It is cleared whenever a different puzzle opens.
type answerHistory struct {
	answers []string
	limit   int
	pos     int // len(answers) when not browsing
}

func newAnswerHistory(limit int) *answerHistory {
	return &answerHistory{limit: limit}
}

// Add records an answer and stops browsing. Repeats of the last answer
// are not stored twice.
func (h *answerHistory) Add(answer string) {
	if n := len(h.answers); n == 0 || h.answers[n-1] != answer {
		h.answers = append(h.answers, answer)
		if len(h.answers) > h.limit {
			h.answers = h.answers[len(h.answers)-h.limit:]
		}
	}
	h.pos = len(h.answers)
}

// Older steps back one answer. It sticks at the oldest.
func (h *answerHistory) Older() (string, bool) {
	if len(h.answers) == 0 {
		return "", false
	}
	if h.pos > 0 {
		h.pos--
	}
	return h.answers[h.pos], true
}

// Newer steps forward one answer. Past the newest it reports false so the
// caller can clear the box.
func (h *answerHistory) Newer() (string, bool) {
	if h.pos >= len(h.answers) {
		return "", false
	}
	h.pos++
	if h.pos == len(h.answers) {
		return "", false
	}
	return h.answers[h.pos], true
}

// Clear forgets everything.
func (h *answerHistory) Clear() {
	h.answers = h.answers[:0]
	h.pos = 0
}
