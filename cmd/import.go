package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/gengoka/internal/exchange"
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all data with an exported bundle",
	Long: `Replace every stored answer, the progress snapshot and all habit reports with
the contents of a bundle written by 'gengoka export'. The bundle is validated
before anything is removed. Use - to read from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openInput(cmd, args[0])
		if err != nil {
			return fmt.Errorf("open bundle: %w", err)
		}
		b, err := exchange.Decode(f)
		f.Close()
		if err != nil {
			return err
		}

		if args[0] != "-" {
			ok, err := confirm(cmd, fmt.Sprintf("Replace all data with %d answers from %s?", len(b.Answers), args[0]))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		d, err := openDeps(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		res, err := d.tracker.RequestImport(cmd.Context(), b)
		if err != nil {
			return fmt.Errorf("import: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d answers and %d habit reports.\n",
			res.AnswersImported, res.ReportsImported)
		return nil
	},
}

func init() {
	importCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
