package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"rsvpd/internal/api"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	params := newParamFlags()
	var outputDir string

	cmd := &cobra.Command{
		Use:   "generate <document>",
		Short: "Convert a document to an RSVP video synchronously",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := outputDir
			if dir == "" {
				dir = "."
			}
			dir, err = filepath.Abs(dir)
			if err != nil {
				return err
			}

			outputs, err := api.GenerateLocal(cmd.Context(), cfg, ctx.ensureLogger(), args[0], dir, params.params)
			if err != nil {
				return err
			}
			for _, name := range outputs {
				fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(dir, name))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Directory for generated videos (default current directory)")
	params.register(cmd)
	return cmd
}
