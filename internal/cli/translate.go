package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kirillkom/doc-translator/internal/core/domain"
)

func newTranslateCommand(newServices ServicesFactory) *cobra.Command {
	var (
		mode      string
		outputDir string
		model     string
	)

	cmd := &cobra.Command{
		Use:   "translate FILE...",
		Short: "Translate documents and write <stem>.<direction>.translated.txt files",
		Long: `Translate one or more documents in order. Each output is written next to its
source unless --output-dir is given. The first failure stops the batch; files
translated before it are kept and listed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedMode, err := domain.ParseMode(mode)
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}

			results, err := svc.Documents.TranslateDocuments(cmd.Context(), domain.BatchRequest{
				Inputs:    args,
				Mode:      parsedMode,
				OutputDir: outputDir,
				Model:     model,
			})
			for _, result := range results {
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%s)\n", result.SourcePath, result.OutputPath, result.Direction)
			}
			if err != nil {
				return fmt.Errorf("translated %d of %d files: %w", len(results), len(args), err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&mode, "mode", "m", domain.ModeAuto, "translation direction: en-fr, fr-en or auto")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "directory for translated files (default: next to each source)")
	cmd.Flags().StringVar(&model, "model", "", "model override (default: OPENAI_MODEL)")
	return cmd
}
