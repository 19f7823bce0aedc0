package keywords

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// defaultStopWords are filtered out of feedback before counting
var defaultStopWords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
	"of", "with", "by", "from", "was", "were", "is", "are", "it", "this",
	"that", "very", "really", "just", "about", "can", "could", "should",
	"would", "been", "have", "has", "had", "be", "some", "more", "much",
	"many", "most", "like", "also", "well", "good", "great", "nice",
	"there", "these", "those", "they", "them", "their", "what", "which",
	"who", "when", "where", "how", "why", "all", "each", "every", "both",
	"few", "any", "such", "than", "too", "so", "as", "if", "into",
	"through", "during", "before", "after", "above", "below", "between",
	"under", "again", "further", "then", "once", "here",
	"other", "only", "own", "same",
	"will", "not", "out", "up", "down", "need", "get", "make", "know",
	"think", "see", "come", "take", "find", "give", "tell", "work", "call",
	"try", "ask", "feel", "become", "leave", "put", "mean", "keep", "let",
}

// stopWordsFile is the YAML layout accepted by LoadStopWordsFile
type stopWordsFile struct {
	StopWords []string `yaml:"stopwords"`
}

// LoadStopWordsFile reads additional stop words from a YAML file of the form
//
//	stopwords:
//	  - session
//	  - talk
func LoadStopWordsFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stop words file: %w", err)
	}
	var f stopWordsFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to parse stop words file: %w", err)
	}
	out := make([]string, 0, len(f.StopWords))
	for _, w := range f.StopWords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			out = append(out, w)
		}
	}
	return out, nil
}
