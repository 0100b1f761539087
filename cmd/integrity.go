package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"inventory-sync/feature/integrity"
	"inventory-sync/feature/integrity/checks"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag    bool
	imageLimit int
	jsonReport bool
)

// integrityChecks selects the checks of one integrity run.
type integrityChecks struct {
	structure bool
	images    bool
	schema    bool
	hierarchy bool
}

var errDatabaseRequired = errors.New("database connection required")

var allChecks = integrityChecks{structure: true, images: true, schema: true, hierarchy: true}

// integrityReport is written by --json.
type integrityReport struct {
	MissingFolders []string                `json:"missing_folders,omitempty"`
	Images         *checks.ImageReport     `json:"images,omitempty"`
	Schema         *checks.SchemaReport    `json:"schema,omitempty"`
	Hierarchy      *checks.HierarchyReport `json:"hierarchy,omitempty"`
}

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the bucket and the inventory database",
	Long:  `Checks the image bucket layout, the stored images of active vehicles, the database schema and the make/model hierarchy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return cmd.Help()
		}
		return runIntegrityChecks(cmd.Context(), allChecks)
	},
}

// structureCmd represents the integrity structure command
var structureCmd = &cobra.Command{
	Use:   "structure",
	Short: "Check and fix the image bucket folders",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrityChecks{structure: true})
	},
}

// imagesCmd represents the integrity images command
var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Check that recorded vehicle images exist in the bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrityChecks{images: true})
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the inventory database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrityChecks{schema: true})
	},
}

// hierarchyCmd represents the integrity hierarchy command
var hierarchyCmd = &cobra.Command{
	Use:   "hierarchy",
	Short: "Check that every model term points at an existing make",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), integrityChecks{hierarchy: true})
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(structureCmd, imagesCmd, schemaCmd, hierarchyCmd)

	integrityCmd.PersistentFlags().BoolVar(&jsonReport, "json", false, "Save a detailed JSON report")
	structureCmd.Flags().BoolVar(&fixFlag, "fix", false, "Fix missing folders")
	imagesCmd.Flags().IntVar(&imageLimit, "limit", 0, "Maximum number of images to check (0 checks all)")
}

func runIntegrityChecks(ctx context.Context, which integrityChecks) error {
	startTime := time.Now()

	a, err := bootstrap(false)
	if err != nil {
		return err
	}
	logg := a.log
	defer logg.Sync()

	svc := integrity.NewService(a.storage, a.cfg.Storage.Bucket, a.cfg.Storage.Prefix, logg, a.db)
	report := integrityReport{}

	if which.structure {
		logg.Info("Checking bucket structure...", zap.String("bucket", a.cfg.Storage.Bucket))
		missing, err := svc.CheckStructure(ctx)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}
		report.MissingFolders = missing

		if len(missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing folders detected", zap.Strings("missing", missing))
			if fixFlag {
				logg.Info("Fixing missing folders...")
				if err := svc.FixStructure(ctx, missing); err != nil {
					return fmt.Errorf("failed to fix structure: %w", err)
				}
				logg.Info("Structure fixed successfully.")
			} else if which == (integrityChecks{structure: true}) {
				logg.Info("Run with --fix to create missing folders.")
			}
		}
	}

	// The database checks are skipped with a warning when the full run has no database.
	needsDB := which.images || which.schema || which.hierarchy
	if needsDB && a.db == nil {
		if which == allChecks {
			logg.Warn("No database connection, skipping image, schema and hierarchy checks")
			return saveIntegrityReport(logg, report, startTime)
		}
		return errDatabaseRequired
	}

	if which.images {
		logg.Info("Checking vehicle images...", zap.Int("limit", imageLimit))
		images, err := svc.CheckImages(ctx, imageLimit)
		if err != nil {
			return fmt.Errorf("image check failed: %w", err)
		}
		report.Images = images
		if len(images.Missing) == 0 {
			logg.Info("All checked images are present.", zap.Int("checked", images.Checked))
		} else {
			logg.Warn("Missing images detected", zap.Int("checked", images.Checked), zap.Strings("missing", images.Missing))
		}
	}

	if which.schema {
		logg.Info("Checking database schema integrity...", zap.String("driver", a.cfg.Database.Driver))
		schema, err := svc.CheckSchema()
		if err != nil {
			return fmt.Errorf("schema check failed: %w", err)
		}
		report.Schema = schema
		if schema.Matched {
			logg.Info("Database schema matches the inventory models.")
		} else {
			logg.Warn("Database schema mismatches found", zap.String("driver", schema.Driver))
			for table, tbl := range schema.Tables {
				if tbl.Status == "ok" {
					continue
				}
				if len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
				if len(tbl.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
				}
			}
			for _, e := range schema.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
		}
	}

	if which.hierarchy {
		logg.Info("Checking make/model hierarchy...")
		h, err := svc.CheckHierarchy(ctx)
		if err != nil {
			return fmt.Errorf("hierarchy check failed: %w", err)
		}
		report.Hierarchy = h
		if h.Matched {
			logg.Info("Make/model hierarchy is intact.")
		} else {
			logg.Warn("Make/model hierarchy breaks found",
				zap.Strings("orphans", h.Orphans),
				zap.Strings("dangling", h.Dangling),
				zap.Uints("mismatched_vehicles", h.Mismatched),
			)
		}
	}

	return saveIntegrityReport(logg, report, startTime)
}

func saveIntegrityReport(logg *zap.Logger, report integrityReport, startTime time.Time) error {
	if jsonReport {
		filename := fmt.Sprintf("integrity_%d.json", time.Now().Unix())
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		if err := os.WriteFile(filename, data, 0644); err != nil {
			return fmt.Errorf("failed to save JSON file: %w", err)
		}
		logg.Info("Detailed JSON report saved", zap.String("file", filename))
	}

	logg.Info("Integrity checks completed", zap.Duration("execution_time", time.Since(startTime)))
	return nil
}
