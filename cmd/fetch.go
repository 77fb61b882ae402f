package cmd

import (
	"os"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/wegman-software/osm-housenames/internal/logger"
	"github.com/wegman-software/osm-housenames/internal/source"
)

var fetchOutput string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download the map document for the bounding box",
	Long: `Download the OSM API map document for the bounding box and save it
unchanged. The saved file can be replayed with --source file --input.`,
	Args: cobra.NoArgs,
	Run:  runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVarP(&fetchOutput, "output", "o", "map.osm", "File to save the document to")
}

func runFetch(cmd *cobra.Command, args []string) {
	log := logger.Get()

	if err := applyFlags(); err != nil {
		exitWithError("invalid configuration", err)
	}

	ctx, cancel := commandContext()
	defer cancel()

	src := source.NewAPISource(cfg.APIURL, cfg.BBox, cfg.Timeout)
	raw, err := src.FetchRaw(ctx)
	if err != nil {
		exitWithError("fetch failed", err)
	}

	if err := os.WriteFile(fetchOutput, raw, 0o644); err != nil {
		exitWithError("failed to save document", err)
	}

	log.Info("Map document saved",
		zap.String("url", src.URL()),
		zap.String("file", fetchOutput),
		zap.Int("bytes", len(raw)),
	)
}
