package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/kirillkom/doc-translator/internal/core/domain"
)

func newStreamCommand(newServices ServicesFactory) *cobra.Command {
	var (
		direction string
		model     string
	)

	cmd := &cobra.Command{
		Use:   "stream FILE",
		Short: "Translate a document and print the translation as it arrives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := domain.ParseMode(direction)
			if err != nil {
				return err
			}
			svc, err := newServices()
			if err != nil {
				return err
			}
			text, err := svc.Extractor.Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			resolved := svc.Directions.Resolve(mode, text)
			fmt.Fprintf(cmd.ErrOrStderr(), "direction: %s\n", resolved)

			out := cmd.OutOrStdout()
			if err := svc.Streamer.Stream(cmd.Context(), text, resolved, model, func(delta string) error {
				_, err := io.WriteString(out, delta)
				return err
			}); err != nil {
				return err
			}
			_, err = io.WriteString(out, "\n")
			return err
		},
	}

	cmd.Flags().StringVarP(&direction, "direction", "d", domain.ModeAuto, "translation direction: en-fr, fr-en or auto")
	cmd.Flags().StringVar(&model, "model", "", "model override (default: OPENAI_MODEL)")
	return cmd
}
