package keywords

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rondagdag/audience-survey/internal/domain/entities"
	"github.com/rondagdag/audience-survey/pkg/config"
)

// Extractor turns free-text feedback into weighted keywords for a word cloud.
// Two-word phrases that repeat are boosted and their words are not listed
// again on their own. An Extractor is immutable and safe for concurrent use.
type Extractor struct {
	minTokenLength int
	minPhraseCount int
	phraseBoost    float64
	maxPhrases     int
	maxWords       int
	maxKeywords    int
	stopWords      map[string]struct{}
}

// NewExtractor builds an Extractor from cfg. A nil cfg, or zero thresholds,
// fall back to the stock values. When cfg names a stop words file its
// entries are added to the built-in list.
func NewExtractor(cfg *config.KeywordsConfig, extraStopWords ...string) (*Extractor, error) {
	def := config.DefaultKeywordsConfig()
	if cfg == nil {
		cfg = &def
	}

	e := &Extractor{
		minTokenLength: orDefault(cfg.MinTokenLength, def.MinTokenLength),
		minPhraseCount: orDefault(cfg.MinPhraseCount, def.MinPhraseCount),
		phraseBoost:    cfg.PhraseBoost,
		maxPhrases:     orDefault(cfg.MaxPhrases, def.MaxPhrases),
		maxWords:       orDefault(cfg.MaxWords, def.MaxWords),
		maxKeywords:    orDefault(cfg.MaxKeywords, def.MaxKeywords),
		stopWords:      make(map[string]struct{}, len(defaultStopWords)+len(extraStopWords)),
	}
	if e.phraseBoost <= 0 {
		e.phraseBoost = def.PhraseBoost
	}

	for _, w := range defaultStopWords {
		e.stopWords[w] = struct{}{}
	}
	for _, w := range extraStopWords {
		e.stopWords[strings.ToLower(strings.TrimSpace(w))] = struct{}{}
	}

	if cfg.StopWordsFile != "" {
		words, err := LoadStopWordsFile(cfg.StopWordsFile)
		if err != nil {
			return nil, fmt.Errorf("keywords: %w", err)
		}
		for _, w := range words {
			e.stopWords[w] = struct{}{}
		}
	}

	return e, nil
}

// Default returns an Extractor with the stock thresholds and stop words
func Default() *Extractor {
	e, _ := NewExtractor(nil)
	return e
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// Extract ranks the meaningful words and repeated two-word phrases of texts.
// Ties keep the order in which terms were first seen.
func (e *Extractor) Extract(texts []string) []entities.Keyword {
	words := newCounter()
	phrases := newCounter()

	for _, text := range texts {
		tokens := tokenize(text)
		for i, tok := range tokens {
			if !e.meaningful(tok) {
				continue
			}
			words.add(tok)
			if i+1 < len(tokens) && e.meaningful(tokens[i+1]) {
				phrases.add(tok + " " + tokens[i+1])
			}
		}
	}

	keywords := make([]entities.Keyword, 0, e.maxKeywords)
	inPhrase := map[string]struct{}{}

	for _, p := range phrases.top(e.minPhraseCount, e.maxPhrases, nil) {
		keywords = append(keywords, entities.Keyword{Text: p.term, Value: float64(p.count) * e.phraseBoost})
		for _, w := range strings.Split(p.term, " ") {
			inPhrase[w] = struct{}{}
		}
	}

	skip := func(w string) bool {
		_, ok := inPhrase[w]
		return ok
	}
	for _, w := range words.top(1, e.maxWords, skip) {
		keywords = append(keywords, entities.Keyword{Text: w.term, Value: float64(w.count)})
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return keywords[i].Value > keywords[j].Value
	})
	if len(keywords) > e.maxKeywords {
		keywords = keywords[:e.maxKeywords]
	}
	return keywords
}

// meaningful reports whether a token is long enough, not a stop word and not a bare number
func (e *Extractor) meaningful(tok string) bool {
	if len(tok) < e.minTokenLength {
		return false
	}
	if _, stop := e.stopWords[tok]; stop {
		return false
	}
	return !isNumeric(tok)
}

// tokenize lowercases text, blanks everything except ASCII word characters,
// whitespace and hyphens, then splits on whitespace.
func tokenize(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if isWordRune(r) || r == '-' {
			return r
		}
		return ' '
	}, strings.ToLower(text))
	return strings.Fields(cleaned)
}

func isWordRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

func isNumeric(tok string) bool {
	for _, r := range tok {
		if r < '0' || r > '9' {
			return false
		}
	}
	return tok != ""
}

type termCount struct {
	term  string
	count int
}

// counter counts terms and remembers first-seen order
type counter struct {
	counts map[string]int
	order  []string
}

func newCounter() *counter {
	return &counter{counts: map[string]int{}}
}

func (c *counter) add(term string) {
	if _, seen := c.counts[term]; !seen {
		c.order = append(c.order, term)
	}
	c.counts[term]++
}

// top returns up to limit terms seen at least minCount times, most frequent first
func (c *counter) top(minCount, limit int, skip func(string) bool) []termCount {
	out := make([]termCount, 0, len(c.order))
	for _, term := range c.order {
		n := c.counts[term]
		if n < minCount || (skip != nil && skip(term)) {
			continue
		}
		out = append(out, termCount{term: term, count: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].count > out[j].count
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
