package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Simplici0/roi-sandbox/internal/report"
	"github.com/Simplici0/roi-sandbox/internal/roi"
)

// inputFlags maps field keys to the flag values bound for them.
type inputFlags map[string]*float64

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func bindInputFlags(cmd *cobra.Command) inputFlags {
	flags := make(inputFlags)
	for _, f := range roi.Fields() {
		flags[f.Key] = cmd.Flags().Float64(flagName(f.Key), f.Default, f.Help)
	}
	cmd.Flags().String("preset", "", "start from a preset (default, mall, precinct)")
	return flags
}

// inputs returns the preset (or defaults) as a base plus the flags the user
// set explicitly, to be applied with roi.Apply.
func (f inputFlags) inputs(cmd *cobra.Command) (roi.Inputs, map[string]float64, error) {
	in := roi.Defaults()

	key, _ := cmd.Flags().GetString("preset")
	if key != "" {
		preset, ok := roi.PresetByKey(key)
		if !ok {
			return roi.Inputs{}, nil, eris.Errorf("unknown preset %q", key)
		}
		in = preset.Inputs
	}

	values := make(map[string]float64)
	for field, value := range f {
		if cmd.Flags().Changed(flagName(field)) {
			values[field] = *value
		}
	}
	return in, values, nil
}

var (
	computeFlags  inputFlags
	computeFormat string

	sweepFlags inputFlags
	sweepLever string
	sweepSteps int
)

var computeCmd = &cobra.Command{
	Use:   "compute",
	Short: "Compute ROI once and print the results",
	RunE: func(cmd *cobra.Command, args []string) error {
		base, values, err := computeFlags.inputs(cmd)
		if err != nil {
			return err
		}
		result, _ := modelFromConfig(cfg).ComputeValues(base, values)
		return writeResult(cmd.OutOrStdout(), result, computeFormat)
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Print a sensitivity table for one lever",
	RunE: func(cmd *cobra.Command, args []string) error {
		base, values, err := sweepFlags.inputs(cmd)
		if err != nil {
			return err
		}
		in, _, _ := roi.Apply(base, values)
		sweep, err := modelFromConfig(cfg).Sweep(in, roi.Lever(sweepLever), sweepSteps)
		if err != nil {
			return eris.Wrapf(err, "sweep %s", sweepLever)
		}
		return writeSweep(cmd.OutOrStdout(), sweep)
	},
}

func init() {
	computeFlags = bindInputFlags(computeCmd)
	computeCmd.Flags().StringVar(&computeFormat, "format", "table", "output format: table, csv or json")

	sweepFlags = bindInputFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepLever, "lever", string(roi.LeverLaborSubstitution), "input to sweep")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", roi.DefaultSweepSteps, "number of points")

	rootCmd.AddCommand(computeCmd, sweepCmd)
}

func writeResult(w io.Writer, result roi.Result, format string) error {
	switch format {
	case "csv":
		return report.WriteCSV(w, result)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(result), "encode result")
	case "table", "":
	default:
		return eris.Errorf("unknown format %q", format)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	section := ""
	for _, row := range report.Rows(result) {
		if row.Section != section {
			if section != "" {
				fmt.Fprintln(tw)
			}
			section = row.Section
		}
		fmt.Fprintf(tw, "%s\t%s\n", row.Label, row.Value)
	}
	for _, notice := range adjustmentNotices(result.Adjustments) {
		fmt.Fprintf(tw, "\nnote: %s\n", notice)
	}
	return eris.Wrap(tw.Flush(), "flush table")
}

func writeSweep(w io.Writer, sweep roi.Sweep) error {
	field, _ := roi.FieldByKey(string(sweep.Lever))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "%s\tTotal savings\tNet benefit\tReturn ratio\tPayback\t\n", sweep.Lever.Label())
	for _, p := range sweep.Points {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t\n",
			report.Input(field, p.X),
			report.Money(p.TotalSavings),
			report.Money(p.NetBenefit),
			report.Ratio(p.ReturnRatio),
			report.Periods(p.Payback),
		)
	}
	return eris.Wrap(tw.Flush(), "flush table")
}
