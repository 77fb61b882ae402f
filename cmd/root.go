package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/spf13/cobra"
	"github.com/wegman-software/osm-housenames/internal/config"
	"github.com/wegman-software/osm-housenames/internal/flex"
	"github.com/wegman-software/osm-housenames/internal/logger"
	"github.com/wegman-software/osm-housenames/internal/profile"
	"github.com/wegman-software/osm-housenames/internal/proj"
	"github.com/wegman-software/osm-housenames/internal/session"
	"github.com/wegman-software/osm-housenames/internal/source"
)

var (
	cfg             = config.DefaultConfig()
	verbose         bool
	logFile         string
	bboxStr         string
	projectionStr   string
	metricsInterval time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "osm-housenames",
	Short: "Extract named houses from OpenStreetMap",
	Long: `osm-housenames pulls one OSM map document for a bounding box and extracts
the buildings that carry a house name.

For each named house it reports the requested address tags and, when the
building has an outline, the centroid of that outline in the British
National Grid. It can also list every house name in the area and the
recorded renames (previous name -> current name).

The document comes from the OSM API (default), an Overpass endpoint or a
saved .osm file.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg.Verbose = verbose
		cfg.LogFile = logFile
		logger.Init(verbose, logFile)
	},
}

func Execute() error {
	defer logger.Sync()
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file for persistent logging (JSON format)")
	rootCmd.PersistentFlags().DurationVar(&metricsInterval, "metrics-interval", 30*time.Second, "Interval for resource usage logging in verbose mode")

	// Input flags
	rootCmd.PersistentFlags().StringVarP(&bboxStr, "bbox", "b", cfg.BBox.String(), "Bounding box: west,south,east,north")
	rootCmd.PersistentFlags().StringVarP(&cfg.Source, "source", "s", cfg.Source, "Document source: api, overpass or file")
	rootCmd.PersistentFlags().StringVarP(&cfg.InputFile, "input", "i", "", "Input .osm or .osm.gz file (source file)")
	rootCmd.PersistentFlags().StringVar(&cfg.APIURL, "api-url", cfg.APIURL, "OSM API 0.6 base URL")
	rootCmd.PersistentFlags().StringVar(&cfg.OverpassURL, "overpass-url", cfg.OverpassURL, "Overpass interpreter URL")
	rootCmd.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Request timeout (0 = none)")

	// Extraction flags
	rootCmd.PersistentFlags().StringVarP(&cfg.ProfileFile, "profile", "p", "", "Tag profile YAML file (default: built-in)")
	rootCmd.PersistentFlags().StringVar(&cfg.LuaFile, "lua", "", "Lua script defining filter_tags(object)")
	rootCmd.PersistentFlags().StringVarP(&projectionStr, "projection", "E", "27700", "Target projection SRID (27700 or 3857)")
}

func exitWithError(msg string, err error) {
	log := logger.Get()
	if err != nil {
		log.Error(msg, zap.Error(err))
	} else {
		log.Error(msg)
	}
	logger.Sync()
	os.Exit(1)
}

// commandContext is cancelled on SIGINT or SIGTERM
func commandContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// applyFlags copies the string flags into cfg and validates the result
func applyFlags() error {
	if bboxStr != "" {
		bbox, err := config.ParseBBox(bboxStr)
		if err != nil {
			return fmt.Errorf("invalid bbox: %w", err)
		}
		cfg.BBox = bbox
	}

	srid, err := proj.ParseSRID(projectionStr)
	if err != nil {
		return fmt.Errorf("invalid projection: %w", err)
	}
	cfg.Projection = srid

	return cfg.Validate()
}

// loadProfile returns the configured profile or the built-in one
func loadProfile() (*profile.Profile, error) {
	if cfg.ProfileFile == "" {
		return profile.Default(), nil
	}
	return profile.Load(cfg.ProfileFile)
}

// loadSession fetches the document, runs the optional Lua hook and freezes
// the result into a session.
func loadSession(ctx context.Context, p *profile.Profile) (*session.Session, error) {
	log := logger.Get()

	src, err := source.New(cfg, p)
	if err != nil {
		return nil, err
	}

	log.Info("Loading map document",
		zap.String("source", src.Name()),
		zap.String("bbox", cfg.BBox.String()),
	)
	start := time.Now()

	doc, err := src.Load(ctx)
	if err != nil {
		return nil, err
	}

	log.Info("Map document loaded",
		zap.Int("nodes", len(doc.Nodes)),
		zap.Int("entities", len(doc.Entities)),
		zap.Duration("duration", time.Since(start).Round(time.Millisecond)),
	)

	if cfg.LuaFile != "" {
		rt := flex.NewRuntime()
		defer rt.Close()

		if err := rt.LoadFile(cfg.LuaFile); err != nil {
			return nil, err
		}
		filtered, stats, err := rt.Apply(doc)
		if err != nil {
			return nil, err
		}
		log.Info("Lua tag hook applied",
			zap.String("script", cfg.LuaFile),
			zap.Int("kept", stats.Kept),
			zap.Int("dropped", stats.Dropped),
		)
		doc = filtered
	}

	tr, err := proj.NewTransformer(proj.SRID4326, cfg.Projection)
	if err != nil {
		return nil, err
	}
	return session.New(doc, tr), nil
}

// prepare runs the common start-up for the extraction commands
func prepare(ctx context.Context) (*session.Session, *profile.Profile) {
	if err := applyFlags(); err != nil {
		exitWithError("invalid configuration", err)
	}

	p, err := loadProfile()
	if err != nil {
		exitWithError("failed to load profile", err)
	}

	sess, err := loadSession(ctx, p)
	if err != nil {
		exitWithError("failed to load map document", err)
	}
	return sess, p
}
