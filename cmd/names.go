package cmd

import (
	"github.com/spf13/cobra"
	"github.com/wegman-software/osm-housenames/internal/extract"
	"github.com/wegman-software/osm-housenames/internal/output"
)

var namesCmd = &cobra.Command{
	Use:   "names",
	Short: "List every house name in the area",
	Long: `Print each distinct house name in the area, one per line, sorted.

The profile filter applies, so only the entities the profile accepts are
listed.`,
	Args: cobra.NoArgs,
	Run:  runNames,
}

func init() {
	rootCmd.AddCommand(namesCmd)
}

func runNames(cmd *cobra.Command, args []string) {
	ctx, cancel := commandContext()
	defer cancel()

	sess, p := prepare(ctx)

	names := extract.HouseNames(sess.Entities(), p)
	if err := output.WriteNames(cmd.OutOrStdout(), names); err != nil {
		exitWithError("failed to write names", err)
	}
}
