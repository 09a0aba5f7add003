package usecase

import "github.com/kirillkom/doc-translator/internal/core/domain"

const translatorPersona = "You are a professional translator. Translate the user text accurately and preserve line breaks. " +
	"Only return the translated text without extra commentary."

var translationTasks = map[domain.Direction]string{
	domain.DirectionEnFr: "Translate the following English text to French.",
	domain.DirectionFrEn: "Traduisez le texte français suivant en anglais.",
}

func buildTranslationRequest(model string, direction domain.Direction, chunk string) domain.CompletionRequest {
	return domain.CompletionRequest{
		Model: model,
		Messages: []domain.Message{
			{Role: domain.RoleSystem, Content: translatorPersona},
			{Role: domain.RoleUser, Content: translationTasks[direction] + "\n\n" + chunk},
		},
	}
}
