package chat

import (
	"sort"
	"strings"
)

// kbEntry is one fact the assistant can ground an answer on.
type kbEntry struct {
	Topic    string
	Keywords []string
	Text     string
}

// KnowledgeBase is a small keyword-scored fact store. Lookups score each
// entry by how many of its keywords appear in the question and return the
// best matches; no embeddings, no external calls.
type KnowledgeBase struct {
	entries []kbEntry
}

// NewKnowledgeBase loads the built-in racing facts.
func NewKnowledgeBase() *KnowledgeBase {
	return &KnowledgeBase{entries: builtinFacts}
}

// Lookup returns up to limit entry texts relevant to the question,
// best match first. Ties break on topic name to keep output stable.
func (kb *KnowledgeBase) Lookup(question string, limit int) []string {
	q := strings.ToLower(question)

	type scored struct {
		score int
		topic string
		text  string
	}
	var hits []scored
	for _, e := range kb.entries {
		score := 0
		for _, kw := range e.Keywords {
			if strings.Contains(q, kw) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, scored{score, e.Topic, e.Text})
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].topic < hits[j].topic
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	texts := make([]string, len(hits))
	for i, h := range hits {
		texts[i] = h.text
	}
	return texts
}

var builtinFacts = []kbEntry{
	{
		Topic:    "tyres",
		Keywords: []string{"tyre", "tire", "compound", "soft", "medium", "hard", "degradation"},
		Text:     "Dry compounds range from soft (fastest, shortest life) to hard (slowest, longest life). Intermediates and full wets cover rain conditions.",
	},
	{
		Topic:    "drs",
		Keywords: []string{"drs", "overtake", "overtaking", "rear wing"},
		Text:     "DRS opens a slot in the rear wing to cut drag. It is only available in designated zones when within one second of the car ahead.",
	},
	{
		Topic:    "pit-stops",
		Keywords: []string{"pit", "stop", "undercut", "overcut", "box"},
		Text:     "An undercut pits before a rival to gain time on fresh tyres; an overcut stays out longer hoping for clear air. A stop typically costs around 20 seconds of total race time.",
	},
	{
		Topic:    "qualifying",
		Keywords: []string{"qualifying", "q1", "q2", "q3", "pole", "grid"},
		Text:     "Qualifying runs three knockout segments: Q1 eliminates the slowest five, Q2 the next five, and Q3 decides pole among the top ten.",
	},
	{
		Topic:    "safety-car",
		Keywords: []string{"safety car", "virtual safety", "vsc", "yellow flag"},
		Text:     "A safety car bunches the field behind it at reduced speed; a virtual safety car imposes a delta time without a physical car. Both are prime pit windows.",
	},
	{
		Topic:    "points",
		Keywords: []string{"points", "championship", "standings", "fastest lap point"},
		Text:     "Points go 25-18-15-12-10-8-6-4-2-1 to the top ten finishers. Sprint events award points separately.",
	},
	{
		Topic:    "stints",
		Keywords: []string{"stint", "strategy", "one-stop", "two-stop"},
		Text:     "A stint is the run of laps between pit stops on one tyre set. Race strategy is the planned sequence of stints and compounds.",
	},
}
