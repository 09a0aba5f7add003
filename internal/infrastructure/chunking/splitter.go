package chunking

// Splitter cuts text into windows of at most MaxChars runes where each
// window starts Overlap runes before the end of the previous one.
type Splitter struct {
	MaxChars int
	Overlap  int
}

func NewSplitter(maxChars, overlap int) *Splitter {
	if overlap < 0 {
		overlap = 0
	}
	if maxChars > 0 && overlap >= maxChars {
		overlap = maxChars / 4
	}
	return &Splitter{
		MaxChars: maxChars,
		Overlap:  overlap,
	}
}

func (s *Splitter) Split(text string) []string {
	return SplitByChars(text, s.MaxChars, s.Overlap)
}

// SplitByChars returns text unchanged as a single chunk when maxChars <= 0 or
// the text already fits. Otherwise the last chunk ends exactly at the end of
// text and dropping the first overlap runes of every chunk after the first
// reconstructs the input.
func SplitByChars(text string, maxChars, overlap int) []string {
	if maxChars <= 0 {
		return []string{text}
	}
	runes := []rune(text)
	if len(runes) <= maxChars {
		return []string{text}
	}
	if overlap < 0 || overlap >= maxChars {
		overlap = 0
	}

	out := make([]string, 0, len(runes)/(maxChars-overlap)+1)
	start := 0
	for start < len(runes) {
		stop := start + maxChars
		if stop > len(runes) {
			stop = len(runes)
		}
		out = append(out, string(runes[start:stop]))
		if stop == len(runes) {
			break
		}
		start = stop - overlap
	}
	return out
}

// Reassemble is the inverse of SplitByChars for the same overlap.
func Reassemble(chunks []string, overlap int) string {
	if len(chunks) == 0 {
		return ""
	}
	out := []rune(chunks[0])
	for _, chunk := range chunks[1:] {
		runes := []rune(chunk)
		if overlap > len(runes) {
			continue
		}
		out = append(out, runes[overlap:]...)
	}
	return string(out)
}
