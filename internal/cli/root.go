// Package cli implements the julian command.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/julian/internal/config"
	"github.com/zapponejosh/julian/internal/convert"
	"github.com/zapponejosh/julian/internal/database"
	"github.com/zapponejosh/julian/internal/format"
	"github.com/zapponejosh/julian/internal/logger"
)

// RootOptions holds the flags of the julian command.
type RootOptions struct {
	Verbose  bool
	Format   string // "text" | "json" | "yaml"
	Database string // adoption database, defaults to DATABASE_PATH

	Quiet          bool
	OldStyle       bool   // -o: Old Style until Britain's adoption
	OldStyleAlways bool   // -O: Old Style from the Reformation onwards
	Region         string // Old Style until this region's adoption
	Places         int
	DayOfYear      bool
	IntegerSeconds bool

	cfg    *config.Config
	now    func() time.Time
	logger *slog.Logger
}

// NewRootCommand creates the julian command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{now: time.Now})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "julian [-oOq] [date ...]",
		Short: "Convert between Julian Day Numbers and calendar dates",
		Long: `Convert between Julian Day Numbers and calendar dates.

Arguments of the form YYYY-MM-DD[THH:MM:SS[Z]] or YYYY-DDD are calendar dates and
are converted to Julian dates. Plain numbers, optionally with a decimal fraction
(2451545.25) or seconds since noon (2451545:21600), are Julian dates and are
converted to calendar dates. Dates before 1582-10-15 are in the Julian calendar,
later ones in the Gregorian. With no arguments the current time is converted.

Years are astronomical: 0 is 1 BC and -1 is 2 BC.`,
		Example: `  julian 2000-01-01T12:00:00Z
  julian -o 2361221
  julian --region ru 2421638.5
  julian --format json 2451545`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, opts, args)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "usage", err)
	})

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output on stderr")
	pf.StringVar(&opts.Format, "format", FormatText, "output format (text|json|yaml)")
	pf.StringVar(&opts.Database, "db", "", "adoption database (default $DATABASE_PATH)")

	f := cmd.Flags()
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "print only the converted value")
	f.BoolVarP(&opts.OldStyle, "old-style", "o", false, "also show Julian-calendar dates until 1752-09-14")
	f.BoolVarP(&opts.OldStyleAlways, "old-style-always", "O", false, "also show Julian-calendar dates after 1582-10-15")
	f.StringVar(&opts.Region, "region", "", "also show Julian-calendar dates until this region adopted the Gregorian calendar")
	f.IntVarP(&opts.Places, "places", "p", format.DefaultPlaces, "decimal places of Julian dates (default $JULIAN_PRECISION)")
	f.BoolVar(&opts.DayOfYear, "yday", false, "show calendar dates as YYYY-DDD")
	f.BoolVar(&opts.IntegerSeconds, "integer-seconds", false, "show Julian dates as JDN:SECONDS")

	cmd.AddCommand(NewRegionsCommand(opts))

	return cmd
}

// setup validates the global flags and loads configuration and logging.
func (o *RootOptions) setup(cmd *cobra.Command) error {
	if !slices.Contains(ValidFormats, o.Format) {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	if o.cfg == nil {
		cfg, err := config.Load()
		if err != nil {
			return WrapExitError(ExitCommandError, "load configuration", err)
		}
		o.cfg = cfg
	}
	if o.Database == "" {
		o.Database = o.cfg.DatabasePath
	}
	if o.now == nil {
		o.now = time.Now
	}

	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	o.logger = logger.New(level, o.cfg.LogFormat, cmd.ErrOrStderr())
	return nil
}

// formatter returns an OutputFormatter writing to the command's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
}

// openStore opens and migrates the adoption database.
func (o *RootOptions) openStore(ctx context.Context) (*database.DB, error) {
	db, err := database.Open(database.DefaultConfig(o.Database), o.logger)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open database", err)
	}
	if _, err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, WrapExitError(ExitCommandError, "migrate database", err)
	}
	return db, nil
}

// converter builds the Converter selected by the flags, falling back to
// JULIAN_PRECISION and JULIAN_OLD_STYLE.
func (o *RootOptions) converter(cmd *cobra.Command) (*convert.Converter, error) {
	opts := format.Options{
		Places:         o.cfg.Precision,
		DayOfYear:      o.DayOfYear,
		IntegerSeconds: o.IntegerSeconds,
	}
	if cmd.Flags().Changed("places") {
		if o.Places < 0 || o.Places > config.MaxPrecision {
			return nil, NewExitError(ExitCommandError, fmt.Sprintf("--places must be between 0 and %d", config.MaxPrecision))
		}
		opts.Places = o.Places
	}

	var set []string
	for _, name := range []string{"old-style", "old-style-always", "region"} {
		if cmd.Flags().Changed(name) {
			set = append(set, "--"+name)
		}
	}
	if len(set) > 1 {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("%s cannot be combined", strings.Join(set, " and ")))
	}

	mode, err := convert.ParseMode(o.cfg.OldStyle)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "JULIAN_OLD_STYLE", err)
	}
	policy := convert.OldStyle{Mode: mode}
	switch {
	case o.OldStyleAlways:
		policy = convert.OldStyle{Mode: convert.ModeAlways}
	case o.OldStyle:
		policy = convert.OldStyle{Mode: convert.ModeReform}
	case o.Region != "":
		db, err := o.openStore(cmd.Context())
		if err != nil {
			return nil, err
		}
		defer db.Close()

		adoption, err := db.GetAdoption(cmd.Context(), o.Region)
		if err != nil {
			if database.IsNotFound(err) {
				return nil, NewExitError(ExitCommandError, fmt.Sprintf("unknown region %q", o.Region))
			}
			return nil, WrapExitError(ExitCommandError, "look up region", err)
		}
		o.logger.Debug("region selected",
			slog.String("code", adoption.Code),
			slog.Int("first_gregorian_jdn", adoption.FirstGregorianJDN),
		)
		policy = convert.ForRegion(*adoption)
	}

	return convert.New(opts, policy), nil
}

func runConvert(cmd *cobra.Command, opts *RootOptions, args []string) error {
	out := opts.formatter(cmd)

	conv, err := opts.converter(cmd)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		r, err := conv.Now(opts.now())
		if err != nil {
			return WrapExitError(ExitFailure, "convert current time", err)
		}
		if out.Structured() {
			return out.Document([]convert.Result{r}, nil)
		}
		out.Line(r.Text(opts.Quiet))
		return nil
	}

	results := make([]convert.Result, 0, len(args))
	var failures []CLIError
	for _, arg := range args {
		r, err := conv.String(arg)
		if err != nil {
			opts.logger.Debug("conversion failed", slog.String("input", arg), slog.Any("error", err))
			failures = append(failures, CLIError{Input: arg, Message: err.Error()})
			if !out.Structured() {
				out.Failure(arg, err)
			}
			continue
		}
		results = append(results, r)
		if !out.Structured() {
			out.Line(r.Text(opts.Quiet))
		}
	}

	if out.Structured() {
		if err := out.Document(results, failures); err != nil {
			return WrapExitError(ExitCommandError, "write output", err)
		}
	}
	if len(failures) > 0 {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}
