package cmd

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spf13/cobra"
	"github.com/wegman-software/osm-housenames/internal/extract"
	"github.com/wegman-software/osm-housenames/internal/logger"
	"github.com/wegman-software/osm-housenames/internal/metrics"
	"github.com/wegman-software/osm-housenames/internal/output"
	"github.com/wegman-software/osm-housenames/internal/profile"
	"github.com/wegman-software/osm-housenames/internal/session"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract named houses to CSV or Parquet",
	Long: `Extract every entity carrying a house name into a table.

Each row holds:
  - the house name
  - the profile's auxiliary tags (default addr:postcode, addr:street)
  - the easting and northing of the footprint centroid

Houses missing an auxiliary tag or a footprint are left out of the file and
reported in the log. Renames found in the same document are logged too.

The format follows the output extension (.csv or .parquet) unless --format
is given.`,
	Args: cobra.NoArgs,
	Run:  runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&cfg.OutputFile, "output", "o", cfg.OutputFile, "Output file")
	extractCmd.Flags().StringVarP(&cfg.Format, "format", "f", "", "Output format: csv or parquet (default: from extension)")
}

// extraction holds the results of one pass over the session
type extraction struct {
	houses     []extract.HouseRecord
	houseStats extract.HouseStats
	renames    []extract.NameChange
}

// runExtraction builds the index, then extracts houses and renames in
// parallel over the frozen document.
func runExtraction(ctx context.Context, sess *session.Session, p *profile.Profile) (*extraction, error) {
	index := sess.Index()
	entities := sess.Entities()
	res := &extraction{}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		x := extract.NewHouseExtractor(p, index)
		res.houses = x.Extract(entities)
		res.houseStats = x.Stats()
		return nil
	})

	g.Go(func() error {
		if err := gctx.Err(); err != nil {
			return err
		}
		res.renames = extract.FindRenames(entities, p)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return res, nil
}

func runExtract(cmd *cobra.Command, args []string) {
	log := logger.Get()

	ctx, cancel := commandContext()
	defer cancel()

	collector := metrics.NewCollector(metricsInterval, log)
	if verbose {
		mctx, stop := context.WithCancel(ctx)
		defer stop()
		go collector.Start(mctx)
	}

	sess, p := prepare(ctx)

	start := time.Now()
	res, err := runExtraction(ctx, sess, p)
	if err != nil {
		exitWithError("extraction failed", err)
	}
	log.Info("Extraction complete",
		zap.Int("houses", len(res.houses)),
		zap.Int("renames", len(res.renames)),
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
	)

	summary, err := output.WriteFile(cfg.OutputFile, cfg.OutputFormat(), p, res.houses)
	if err != nil {
		exitWithError("failed to write output", err)
	}

	for _, r := range summary.Excluded {
		log.Info("House left out of table",
			zap.String("name", r.Name),
			zap.Strings("fields", r.Fields()),
			zap.Bool("footprint", r.Footprint != nil),
		)
	}
	for _, c := range res.renames {
		log.Info("Rename", zap.String("old", c.Old), zap.String("new", c.New))
	}

	log.Info("Output written",
		zap.String("file", cfg.OutputFile),
		zap.String("format", cfg.OutputFormat()),
		zap.Int("rows", summary.Written),
		zap.Int("excluded", len(summary.Excluded)),
	)

	collector.LogSummary(metrics.RunStats{
		Nodes:              len(sess.Document().Nodes),
		Entities:           len(sess.Entities()),
		Houses:             len(res.houses),
		Footprints:         res.houseStats.Footprints,
		Renames:            len(res.renames),
		ProjectionFailures: len(sess.ProjectionErrors()),
		GeometryFailures:   res.houseStats.GeometryErrors,
		MissingFields:      res.houseStats.MissingFields,
		RowsWritten:        summary.Written,
		RowsExcluded:       len(summary.Excluded),
	})
}
