package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/warp/shift-payroll/calendar"
	"github.com/warp/shift-payroll/factory"
	"github.com/warp/shift-payroll/generic"
	"github.com/warp/shift-payroll/logger"
	"github.com/warp/shift-payroll/payroll"
	"github.com/warp/shift-payroll/shift"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "payroll",
		Short:        "Shift payroll calculator",
		Long:         `Classify shift-log lines, link duty blocks and compute monthly wages offline.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.Log.SetOutput(cmd.ErrOrStderr())
			logger.Log.SetLevel(logrus.WarnLevel)
			if verbose {
				logger.Log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(newCalcCmd())
	root.AddCommand(newNormCmd())
	root.AddCommand(newParseCmd())
	return root
}

// ─── calc ───────────────────────────────────────────────────────────────────

func newCalcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute a month's statement from a shift-log file",
		Long: `Compute a month's statement from a shift-log file and a TOML pay profile.
Without --year/--month the month of the latest entry is used.`,
		RunE: runCalc,
	}
	cmd.Flags().StringP("profile", "p", "", "TOML pay profile")
	cmd.Flags().StringP("file", "f", "", "Shift-log file (- for stdin)")
	cmd.Flags().Int("year", 0, "Statement year")
	cmd.Flags().Int("month", 0, "Statement month (1-12)")
	cmd.Flags().Bool("strict", false, "Reject out-of-range clock values")
	_ = cmd.MarkFlagRequired("profile")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func runCalc(cmd *cobra.Command, args []string) error {
	profilePath, _ := cmd.Flags().GetString("profile")
	file, _ := cmd.Flags().GetString("file")
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	strict, _ := cmd.Flags().GetBool("strict")

	settings, err := factory.NewSettingsFactory().LoadProfile(profilePath)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	if file != "-" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("cannot read shift log: %w", err)
		}
		defer f.Close()
		in = f
	}
	entries, err := readLog(in)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("shift log %s has no entries", file)
	}

	parser := shift.NewParser()
	parser.Strict = strict
	records, err := parser.FromEntries(entries)
	if err != nil {
		return err
	}

	if year == 0 && month == 0 {
		last := entries[len(entries)-1].Date
		for _, e := range entries {
			if e.Date.After(last) {
				last = e.Date
			}
		}
		year, month = last.Year(), int(last.Month())
	}
	if month < 1 || month > 12 || year < 1 {
		return fmt.Errorf("%w: %d-%02d", generic.ErrInvalidDate, year, month)
	}

	logger.Log.WithFields(logrus.Fields{
		"entries": len(entries),
		"year":    year,
		"month":   month,
	}).Debug("computing statement")

	calc := payroll.NewCalculator(calendar.Production())
	st := calc.Statement(records, settings, year, time.Month(month))
	printStatement(cmd.OutOrStdout(), st)
	return nil
}

func printStatement(out io.Writer, st *payroll.Statement) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "DATE\tTYPE\tHOURS\tDIRTY\tNET\tFLAGS\t")
	for _, b := range st.Shifts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n",
			b.Date, b.Type, b.Hours.StringFixed(2), b.Dirty.StringFixed(2), b.Net.StringFixed(2), flags(b))
	}
	fmt.Fprintf(w, "TOTAL\t%d shifts\t%s\t%s\t%s\t\t\n",
		st.Worked(), st.Hours.StringFixed(2), st.Dirty.StringFixed(2), st.Net.StringFixed(2))
	w.Flush()

	fmt.Fprintf(out, "\n%d-%02d  sick %d  vacation %d  donor %d\n",
		st.Year, int(st.Month), st.SickDays, st.VacationDays, st.DonorDays)
	if st.HasNorm {
		fmt.Fprintf(out, "norm %s h  overtime %s h  overtime pay %s\n",
			st.Norm.String(), st.OvertimeHours.StringFixed(2), st.Overtime.Total.StringFixed(2))
	}
}

func flags(b *payroll.Breakdown) string {
	var s string
	add := func(on bool, name string) {
		if !on {
			return
		}
		if s != "" {
			s += ","
		}
		s += name
	}
	add(b.IsSplit, "split")
	add(b.IsFullNight, "night")
	add(b.IsTech, "tech")
	add(b.IsFullMedical, "medical")
	add(b.IsStateHoliday, "holiday")
	if s == "" {
		return "-"
	}
	return s
}

// ─── norm ───────────────────────────────────────────────────────────────────

func newNormCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "norm",
		Short: "Print the production-calendar hour norm of a month",
		RunE:  runNorm,
	}
	cmd.Flags().Int("year", 0, "Year")
	cmd.Flags().Int("month", 0, "Month (1-12)")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")
	return cmd
}

func runNorm(cmd *cobra.Command, args []string) error {
	year, _ := cmd.Flags().GetInt("year")
	month, _ := cmd.Flags().GetInt("month")
	if month < 1 || month > 12 || year < 1 {
		return fmt.Errorf("%w: %d-%02d", generic.ErrInvalidDate, year, month)
	}

	cal := calendar.Production()
	days := cal.Month(year, time.Month(month))
	off := 0
	for _, d := range days {
		if d.IsWeekendOrHoliday {
			off++
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d-%02d  norm %s h  working days %d  days off %d\n",
		year, month, cal.MonthNorm(year, time.Month(month)).String(), len(days)-off, off)
	return nil
}

// ─── parse ──────────────────────────────────────────────────────────────────

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse TEXT",
		Short: "Classify one shift-log line",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().String("date", "", "Shift date (default today)")
	cmd.Flags().Bool("strict", false, "Reject out-of-range clock values")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	dateStr, _ := cmd.Flags().GetString("date")
	strict, _ := cmd.Flags().GetBool("strict")

	date := generic.Today()
	if dateStr != "" {
		var err error
		if date, err = generic.ParseDate(dateStr); err != nil {
			return err
		}
	}

	parser := shift.NewParser()
	parser.Strict = strict
	rec, err := parser.Parse(args[0], date)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if rec == nil {
		fmt.Fprintln(out, "empty")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "date\t%s\n", rec.Date)
	fmt.Fprintf(w, "type\t%s\n", rec.Type)
	if rec.Start != nil && rec.End != nil {
		fmt.Fprintf(w, "interval\t%s-%s\n", rec.Start, rec.End)
		fmt.Fprintf(w, "minutes\t%d\n", rec.Duration())
	}
	fmt.Fprintf(w, "tech\t%t\n", rec.IsTech)
	return w.Flush()
}
