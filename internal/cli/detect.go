package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDetectCommand(newServices ServicesFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "detect FILE",
		Short: "Print the translation direction guessed for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := newServices()
			if err != nil {
				return err
			}
			text, err := svc.Extractor.Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), svc.Directions.Detect(text))
			return nil
		},
	}
}
