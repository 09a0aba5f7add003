package cli

import (
	"github.com/spf13/cobra"

	"github.com/kirillkom/doc-translator/internal/core/ports"
)

// Services are the use cases the commands drive.
type Services struct {
	Documents  ports.DocumentTranslator
	Streamer   ports.TextStreamer
	Directions ports.DirectionResolver
	Extractor  ports.TextExtractor
}

// ServicesFactory builds Services lazily so --help works without configuration.
type ServicesFactory func() (Services, error)

func NewRootCommand(version string, newServices ServicesFactory) *cobra.Command {
	root := &cobra.Command{
		Use:   "doctranslate",
		Short: "Translate documents between English and French",
		Long: `doctranslate extracts text from .txt, .docx, .pdf and .xlsx files and translates
it between English and French through an OpenAI-compatible Responses API.

Configuration is read from the environment and an optional .env file
(OPENAI_API_KEY, OPENAI_BASE_URL, OPENAI_MODEL, TRANSLATION_MAX_CHARS, ...).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTranslateCommand(newServices),
		newDetectCommand(newServices),
		newStreamCommand(newServices),
	)
	return root
}
