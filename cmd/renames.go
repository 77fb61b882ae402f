package cmd

import (
	"github.com/spf13/cobra"
	"github.com/wegman-software/osm-housenames/internal/extract"
	"github.com/wegman-software/osm-housenames/internal/output"
)

var renamesCmd = &cobra.Command{
	Use:   "renames",
	Short: "List houses that changed name",
	Long: `Print "old -> new" for every entity that records a previous name next to
its current house name. Entities with a previous name but no current name
are skipped.

The previous-name keys come from the profile (default addr:previousname and
old_addr:housename).`,
	Args: cobra.NoArgs,
	Run:  runRenames,
}

func init() {
	rootCmd.AddCommand(renamesCmd)
}

func runRenames(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	sess, p := prepare(ctx)

	changes := extract.FindRenames(sess.Entities(), p)
	if err := output.WriteRenames(cmd.OutOrStdout(), changes); err != nil {
		exitWithError("failed to write renames", err)
	}
}
