// Package antispam scores contact form submissions with a registry of
// heuristic rules. Rules are independent detectors; the engine runs all of
// them and sums weighted hits into a spam score.
package antispam

import (
	"sort"
	"time"
)

// Severity buckets a single rule hit.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Submission is the rule input: the form fields plus request metadata.
type Submission struct {
	Name       string
	Email      string
	Message    string
	Honeypot   string
	RenderedAt time.Time
	ReceivedAt time.Time
	RemoteIP   string
}

// Hit is a single rule finding.
type Hit struct {
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Detail   string   `json:"detail"`
}

// Rule checks one heuristic against a submission.
type Rule interface {
	Name() string
	Check(s *Submission) []Hit
}

var registered = map[string]Rule{}

// Register adds a rule to the engine. Rules self-register in init funcs.
func Register(r Rule) {
	if r == nil {
		return
	}
	registered[r.Name()] = r
}

// All returns registered rules in stable name order.
func All() []Rule {
	out := make([]Rule, 0, len(registered))
	for _, r := range registered {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Result is the engine verdict for one submission.
type Result struct {
	Score int   `json:"score"`
	Hits  []Hit `json:"hits,omitempty"`
}

// Evaluate runs every registered rule and scores the combined hits.
func Evaluate(s *Submission) Result {
	var hits []Hit
	for _, r := range All() {
		hits = append(hits, r.Check(s)...)
	}
	return Result{Score: Score(hits), Hits: hits}
}

// Score sums severity weights over all hits. A honeypot hit alone clears
// most thresholds; low-severity hits need to stack up.
func Score(hits []Hit) int {
	total := 0
	for _, h := range hits {
		total += severityWeight(h.Severity)
	}
	return total
}

func severityWeight(s Severity) int {
	switch s {
	case SeverityHigh:
		return 60
	case SeverityMedium:
		return 35
	case SeverityLow:
		return 15
	default:
		return 20
	}
}
