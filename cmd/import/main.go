// Command import loads regional Gregorian adoption dates into the SQLite
// database.
//
// Usage:
//
//	go run ./cmd/import -file data/adoptions.yaml -db data/julian.db
//
// This tool:
// 1. Parses the YAML (or JSON) adoption file
// 2. Creates/opens the SQLite database
// 3. Runs migrations to ensure schema and seed regions are current
// 4. Upserts every region in a single transaction
//
// The import is idempotent: codes already present are updated in place.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/zapponejosh/julian/internal/calendar"
	"github.com/zapponejosh/julian/internal/database"
	"github.com/zapponejosh/julian/internal/parse"
)

// ImportFile is the layout of an adoption file.
type ImportFile struct {
	Adoptions []ImportAdoption `yaml:"adoptions"`
}

// ImportAdoption is one region. Exactly one of FirstGregorian and
// FirstGregorianJDN should be set.
type ImportAdoption struct {
	Code              string  `yaml:"code"`
	Name              string  `yaml:"name"`
	FirstGregorian    string  `yaml:"first_gregorian"`
	FirstGregorianJDN int     `yaml:"first_gregorian_jdn"`
	Notes             *string `yaml:"notes"`
}

func main() {
	// Parse command line flags
	filePath := flag.String("file", "data/adoptions.yaml", "Path to adoption YAML file")
	dbPath := flag.String("db", "data/julian.db", "Path to SQLite database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	// Setup logger
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Run import
	if err := run(*filePath, *dbPath, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(filePath, dbPath string, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and parse the adoption file
	// =========================================================================
	logger.Info("reading adoption file", slog.String("path", filePath))

	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read adoption file: %w", err)
	}

	var file ImportFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse adoption file: %w", err)
	}

	adoptions := make([]database.Adoption, 0, len(file.Adoptions))
	for i, entry := range file.Adoptions {
		a, err := entry.adoption()
		if err != nil {
			return fmt.Errorf("entry %d (%s): %w", i+1, entry.Code, err)
		}
		adoptions = append(adoptions, a)
	}
	logger.Info("parsed adoption file", slog.Int("regions", len(adoptions)))

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Upsert in a transaction
	// =========================================================================
	err = db.WithTx(ctx, func(tx *database.Tx) error {
		for i := range adoptions {
			if err := tx.UpsertAdoption(ctx, &adoptions[i]); err != nil {
				return err
			}
			logger.Debug("region imported",
				slog.String("code", adoptions[i].Code),
				slog.Int("first_gregorian_jdn", adoptions[i].FirstGregorianJDN),
			)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import adoptions: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	stats, err := db.GetAdoptionStats(ctx)
	if err != nil {
		return fmt.Errorf("adoption stats: %w", err)
	}

	elapsed := time.Since(startTime)

	logger.Info("import verified",
		slog.Int("regions", stats.Regions),
		slog.Int("earliest_jdn", stats.Earliest),
		slog.Int("latest_jdn", stats.Latest),
		slog.Duration("elapsed", elapsed),
	)

	// Print summary
	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Regions imported:    %d\n", len(adoptions))
	fmt.Printf("Regions in database: %d\n", stats.Regions)
	fmt.Printf("Time elapsed:        %v\n", elapsed.Round(time.Millisecond))

	return nil
}

// adoption resolves the entry's first Gregorian day to a day number.
func (e ImportAdoption) adoption() (database.Adoption, error) {
	a := database.Adoption{
		Code:              e.Code,
		Name:              e.Name,
		FirstGregorianJDN: e.FirstGregorianJDN,
		Notes:             e.Notes,
	}

	if e.FirstGregorian != "" {
		if e.FirstGregorianJDN != 0 {
			return a, fmt.Errorf("first_gregorian and first_gregorian_jdn are both set")
		}
		arg, err := parse.Parse(e.FirstGregorian)
		if err != nil {
			return a, err
		}
		if arg.Kind != parse.KindCalendar {
			return a, fmt.Errorf("first_gregorian %q is not a calendar date", e.FirstGregorian)
		}
		jm, err := calendar.ToJulianMoment(arg.Calendar.Date())
		if err != nil {
			return a, err
		}
		a.FirstGregorianJDN = jm.DayNumber
	}

	return a, a.Validate()
}
