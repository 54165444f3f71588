package pomodoro

import "math/rand/v2"

// DefaultQuotes is the built-in quote set.
var DefaultQuotes = []string{
	"Small steps every day.",
	"Discipline beats motivation.",
	"Focus now. Relax later.",
	"You're building your future.",
	"One session at a time.",
	"Stay locked in.",
	"Consistency creates greatness.",
	"Do it tired. Do it bored.",
	"No distractions. Just progress.",
	"Future you is watching.",
}

// Quotes picks uniformly from a fixed list.
type Quotes struct {
	list []string
	pick func(n int) int
}

// NewQuotes returns a QuoteSource over list, or DefaultQuotes when list is empty.
func NewQuotes(list []string) *Quotes {
	if len(list) == 0 {
		list = DefaultQuotes
	}
	return &Quotes{list: list, pick: rand.IntN}
}

func (q *Quotes) Next() string {
	return q.list[q.pick(len(q.list))]
}
