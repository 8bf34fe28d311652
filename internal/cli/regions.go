package cli

import (
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/julian/internal/convert"
	"github.com/zapponejosh/julian/internal/database"
)

// NewRegionsCommand creates the regions command.
func NewRegionsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "regions [code ...]",
		Short: "List when regions adopted the Gregorian calendar",
		Long: `List the regional Gregorian adoption dates known to the database.

Each region shows its first Gregorian day, the Julian Day Number of that day,
and the last day it reckoned Old Style. Any of the codes can be passed to
julian --region.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRegions(cmd, rootOpts, args)
		},
	}
	return cmd
}

func runRegions(cmd *cobra.Command, opts *RootOptions, codes []string) error {
	ctx := cmd.Context()
	out := opts.formatter(cmd)

	db, err := opts.openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	var adoptions []database.Adoption
	var failures []CLIError
	if len(codes) == 0 {
		if adoptions, err = db.ListAdoptions(ctx); err != nil {
			return WrapExitError(ExitCommandError, "list regions", err)
		}
	}
	for _, code := range codes {
		a, err := db.GetAdoption(ctx, code)
		if err != nil {
			if !database.IsNotFound(err) {
				return WrapExitError(ExitCommandError, "look up region", err)
			}
			failures = append(failures, CLIError{Input: code, Message: "unknown region"})
			if !out.Structured() {
				out.Failure(code, fmt.Errorf("unknown region"))
			}
			continue
		}
		adoptions = append(adoptions, *a)
	}

	regions := make([]convert.Region, 0, len(adoptions))
	for _, a := range adoptions {
		region, err := convert.NewRegion(a)
		if err != nil {
			opts.logger.Warn("skipping region", slog.String("code", a.Code), slog.Any("error", err))
			continue
		}
		regions = append(regions, region)
	}

	if out.Structured() {
		if err := out.Document(regions, failures); err != nil {
			return WrapExitError(ExitCommandError, "write output", err)
		}
	} else {
		tw := tabwriter.NewWriter(out.Writer, 0, 4, 2, ' ', 0)
		for _, r := range regions {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", r.Code, r.Name, r.FirstGregorian, r.FirstGregorianJDN, r.LastJulian)
		}
		if err := tw.Flush(); err != nil {
			return WrapExitError(ExitCommandError, "write output", err)
		}
	}

	if len(failures) > 0 {
		return &ExitError{Code: ExitFailure}
	}
	return nil
}
