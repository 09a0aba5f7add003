package langdetect

import (
	"strings"
	"unicode"

	"github.com/kirillkom/doc-translator/internal/core/domain"
)

// frenchMarkers are padded with spaces so they only match whole words.
var frenchMarkers = []string{
	" le ", " la ", " les ", " et ", " un ", " une ", " des ", " à ", " pour ", " avec ",
	" de ", " du ", " est ", " je ", " nous ", " vous ", " pas ", " dans ", " sur ", " mais ",
	" bonjour ", " merci ",
}

const frenchAccents = "àâçéèêëîïôùûüÿœæÀÂÇÉÈÊËÎÏÔÙÛÜŸŒÆ"

// Heuristic guesses whether a sample is French. It is a marker-word count,
// not a classifier: short or mixed samples may be misjudged.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Detect(sample string, fallback domain.Direction) domain.Direction {
	sample = strings.TrimSpace(sample)
	if sample == "" {
		return fallback
	}
	if strings.ContainsAny(sample, frenchAccents) {
		return domain.DirectionFrEn
	}
	if countMarkers(sample) > 1 {
		return domain.DirectionFrEn
	}
	return fallback
}

func countMarkers(sample string) int {
	normalized := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, strings.ToLower(sample))
	padded := " " + normalized + " "

	score := 0
	for _, marker := range frenchMarkers {
		if strings.Contains(padded, marker) {
			score++
		}
	}
	return score
}
