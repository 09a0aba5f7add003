package usecase

import (
	"time"

	"github.com/kirillkom/doc-translator/internal/core/domain"
	"github.com/kirillkom/doc-translator/internal/core/ports"
)

type noopObserver struct{}

func (noopObserver) StartDocument() {}
func (noopObserver) FinishDocument(domain.Direction, time.Duration, error) {}
func (noopObserver) ObserveChunks(int) {}
func (noopObserver) ObserveRemoteCall(string, time.Duration, error) {}

func observerOrNoop(observer ports.TranslationObserver) ports.TranslationObserver {
	if observer == nil {
		return noopObserver{}
	}
	return observer
}
