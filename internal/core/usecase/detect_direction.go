package usecase

import (
	"github.com/kirillkom/doc-translator/internal/core/domain"
	"github.com/kirillkom/doc-translator/internal/core/ports"
)

// DetectDirectionUseCase guesses a direction from the leading part of a text.
type DetectDirectionUseCase struct {
	detector    ports.DirectionDetector
	fallback    domain.Direction
	sampleChars int
}

func NewDetectDirectionUseCase(detector ports.DirectionDetector, fallback domain.Direction, sampleChars int) *DetectDirectionUseCase {
	if !fallback.Valid() {
		fallback = domain.DirectionEnFr
	}
	if sampleChars <= 0 {
		sampleChars = defaultDetectSampleChars
	}
	return &DetectDirectionUseCase{
		detector:    detector,
		fallback:    fallback,
		sampleChars: sampleChars,
	}
}

func (uc *DetectDirectionUseCase) Detect(text string) domain.Direction {
	return uc.detector.Detect(leadingRunes(text, uc.sampleChars), uc.fallback)
}

// Resolve returns the direction of a concrete mode, or detects one for auto.
func (uc *DetectDirectionUseCase) Resolve(mode domain.Mode, text string) domain.Direction {
	if direction, ok := mode.Direction(); ok {
		return direction
	}
	return uc.Detect(text)
}

func leadingRunes(text string, n int) string {
	count := 0
	for i := range text {
		if count == n {
			return text[:i]
		}
		count++
	}
	return text
}
