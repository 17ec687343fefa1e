package legend

import (
	"fmt"
	"unicode"

	"github.com/sahilm/fuzzy"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize text to aid in matching labels. Diacritics are removed, so "ö"
// becomes "o".
func Normalize(in string) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	out, _, err := transform.String(t, in)
	if err != nil {
		return "", fmt.Errorf("normalize: %w", err)
	}

	return out, nil
}

// FindLabel returns the index of the label best matching query.
func FindLabel(query string, labels []string) (int, bool) {
	if query == "" || len(labels) == 0 {
		return 0, false
	}

	q, err := Normalize(query)
	if err != nil {
		q = query
	}

	targets := make([]string, len(labels))
	for i, l := range labels {
		n, err := Normalize(l)
		if err != nil {
			n = l
		}

		targets[i] = n
	}

	matches := fuzzy.Find(q, targets)
	if len(matches) == 0 {
		return 0, false
	}

	return matches[0].Index, true
}

// Labels returns the labels of all pieces in data order.
func (l *Legend) Labels() []string {
	labels := make([]string, len(l.pieces))
	for i := range l.pieces {
		labels[i] = l.Label(i)
	}

	return labels
}
