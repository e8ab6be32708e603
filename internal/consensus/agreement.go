package consensus

import (
	"sort"

	"github.com/AbdelazizMoustafa10m/lightspec/internal/signal"
)

// tally accumulates the weighted vote for one canonical action.
type tally struct {
	action  CanonicalAction
	weight  float64
	count   int
	strong  int // high-confidence votes
	first   int // index of the earliest contributing signal
	signals []*signal.Signal
}

// weigh runs the weighted vote over the optimization-leaning signals and
// returns the tallies in winning order. Ties break by raw signal count, then
// by first-seen order in the input list; first-seen order is the only
// non-numeric tie-break, which is why signal order is part of the engine's
// input contract.
func weigh(signals []*signal.Signal, p Params) []*tally {
	byAction := make(map[CanonicalAction]*tally)
	var order []*tally

	for i, sig := range signals {
		if Classify(sig) != CategoryOptimization {
			continue
		}
		action := Canonical(sig.Verdict)
		t, ok := byAction[action]
		if !ok {
			t = &tally{action: action, first: i}
			byAction[action] = t
			order = append(order, t)
		}
		t.weight += p.sourceWeight(sig.IsGenerative()) * p.confidenceWeight(string(sig.Confidence))
		t.count++
		if sig.Confidence == signal.ConfidenceHigh {
			t.strong++
		}
		t.signals = append(t.signals, sig)
	}

	sort.SliceStable(order, func(a, b int) bool {
		ta, tb := order[a], order[b]
		if ta.weight != tb.weight {
			return ta.weight > tb.weight
		}
		if ta.count != tb.count {
			return ta.count > tb.count
		}
		return ta.first < tb.first
	})
	return order
}
