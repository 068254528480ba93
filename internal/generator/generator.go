// Package generator produces deterministic joke records from string seeds.
// It is a pure leaf package: no I/O, no state, no failure modes. The same
// seed always yields the same joke within (and across) processes, which is
// what makes content-hash deduplication meaningful for batch generation.
package generator

import "strconv"

// Joke is a generated content item before persistence. All fields are
// always non-empty.
type Joke struct {
	Setup     string
	Punchline string
	Category  string
	Author    string
}

// Fixed candidate fragment lists. Selection is by rolling hash of the seed,
// so list order is part of the generator's contract: reordering entries
// changes the output for existing seeds.
var (
	setupTemplates = []string{
		"Why do programmers prefer dark mode?",
		"What do you call a %s who loves %s?",
		"Why did the %s bring a ladder to work?",
		"How many %ss does it take to change a light bulb?",
		"Why did the %s cross the road?",
		"What did the %s say about %s?",
	}

	punchlineTemplates = []string{
		"Because light attracts bugs.",
		"To get to the other side of the %s.",
		"None, they just blame %s.",
		"A %s with excellent taste in %s.",
		"Nobody knows, it segfaulted before the punchline.",
		"To reach the high-level %s, obviously.",
	}

	animals = []string{
		"chicken", "robot", "penguin", "llama", "gopher", "octopus",
	}

	topics = []string{
		"databases", "poetry", "recursion", "coffee", "deadlines", "caching",
	}

	categories = []string{
		"tech", "pun", "random", "general",
	}
)

const defaultAuthor = "generator"

// Generate derives a joke from seed. It is total: any string, including the
// empty string, maps to a well-formed record.
func Generate(seed string) Joke {
	if seed == "" {
		seed = "seed"
	}
	h := rollingHash(seed)

	animal := animals[h%uint32(len(animals))]
	topic := topics[(h>>3)%uint32(len(topics))]

	setup := fill(setupTemplates[h%uint32(len(setupTemplates))], animal, topic)
	punchline := fill(punchlineTemplates[(h>>5)%uint32(len(punchlineTemplates))], animal, topic)
	category := categories[(h>>9)%uint32(len(categories))]

	return Joke{
		Setup:     setup,
		Punchline: punchline,
		Category:  category,
		Author:    defaultAuthor,
	}
}

// GenerateBatch derives count jokes from position-based seeds
// "<base>-0" .. "<base>-(count-1)".
func GenerateBatch(base string, count int) []Joke {
	if base == "" {
		base = "seed"
	}
	out := make([]Joke, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, Generate(Seed(base, i)))
	}
	return out
}

// Seed returns the canonical position-derived seed string used by batch runs.
func Seed(base string, i int) string {
	return base + "-" + strconv.Itoa(i)
}

// rollingHash mixes the seed with a 31-multiplier rolling hash, matching the
// classic Java-style string hash. Overflow wraps on uint32 on purpose.
func rollingHash(s string) uint32 {
	var h uint32
	for i := 0; i < len(s); i++ {
		h = h*31 + uint32(s[i])
	}
	return h
}

// fill substitutes up to two %s placeholders in tmpl with the animal and
// topic fragments, in that order. Templates without placeholders pass
// through unchanged.
func fill(tmpl, animal, topic string) string {
	args := []string{animal, topic}
	var out []byte
	ai := 0
	for i := 0; i < len(tmpl); i++ {
		if tmpl[i] == '%' && i+1 < len(tmpl) && tmpl[i+1] == 's' && ai < len(args) {
			out = append(out, args[ai]...)
			ai++
			i++
			continue
		}
		out = append(out, tmpl[i])
	}
	return string(out)
}
