package cli

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"classpulse/internal/dataprocessing"
	apperrors "classpulse/internal/errors"
	"classpulse/internal/services"
	"classpulse/pkg/contracts/domain"
)

// NewPeriodsCommand creates the periods command.
func NewPeriodsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "periods",
		Short: "List the period files found in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			svc, err := newService(rootOpts, cmd)
			if err != nil {
				return out.Fail(err)
			}
			files, err := svc.ListPeriods(cmd.Context())
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(files, func(w io.Writer) error {
				t := newTable("PERIOD", "PATH", "SIZE")
				for _, f := range files {
					t.add(f.Period, f.Path, strconv.FormatInt(f.Size, 10))
				}
				return t.write(w)
			})
		},
	}
}

// NewTrendCommand creates the trend command.
func NewTrendCommand(rootOpts *RootOptions) *cobra.Command {
	var imputation string

	cmd := &cobra.Command{
		Use:   "trend [period|file ...]",
		Short: "List classes whose total score is trending down",
		Long: `Fits a least-squares line through each class's total score across the
selected periods and lists the classes with a negative slope, largest drop
first. With no arguments every discovered period is used. At least two
periods are required.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)

			var extra []services.ServiceOption
			switch imputation {
			case "", "zero", "drop":
			default:
				return out.Fail(apperrors.NewValidationError(
					fmt.Sprintf("unknown imputation policy %q: must be zero or drop", imputation)))
			}
			if imputation != "" {
				extra = append(extra, services.WithImputation(dataprocessing.ImputationByName(imputation)))
			}
			svc, err := newService(rootOpts, cmd, extra...)
			if err != nil {
				return out.Fail(err)
			}

			report, err := svc.RunTrend(cmd.Context(), args)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(report, func(w io.Writer) error {
				return writeTrend(w, report)
			})
		},
	}

	cmd.Flags().StringVar(&imputation, "imputation", "", "missing score policy (zero|drop); defaults to config")
	return cmd
}

// NewRankCommand creates the rank command.
func NewRankCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rank [period|file]",
		Short: "Rank classes within one period (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			svc, err := newService(rootOpts, cmd)
			if err != nil {
				return out.Fail(err)
			}
			report, err := svc.RunRanking(cmd.Context(), firstArg(args))
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(report, func(w io.Writer) error {
				return writeRanking(w, report)
			})
		},
	}
}

// NewItemsCommand creates the items command.
func NewItemsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "items [period|file]",
		Short: "Summarize bonuses and deductions per assessment item",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			svc, err := newService(rootOpts, cmd)
			if err != nil {
				return out.Fail(err)
			}
			report, err := svc.RunItems(cmd.Context(), firstArg(args))
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(report, func(w io.Writer) error {
				fmt.Fprintf(w, "Period: %s\n", report.Period)
				t := newTable("ITEM", "TOTAL", "BONUS", "DEDUCT", "NON-ZERO")
				for _, it := range report.Items {
					t.add(it.Item, num(it.Total), strconv.Itoa(it.BonusCount),
						strconv.Itoa(it.DeductCount), strconv.Itoa(it.NonZeroCount))
				}
				if err := t.write(w); err != nil {
					return err
				}
				if len(report.HighFrequency) > 0 {
					names := make([]string, len(report.HighFrequency))
					for i, it := range report.HighFrequency {
						names[i] = fmt.Sprintf("%s (%d)", it.Item, it.DeductCount)
					}
					fmt.Fprintf(w, "\nMost frequent deductions: %s\n", strings.Join(names, ", "))
				}
				return nil
			})
		},
	}
}

// NewItemTrendCommand creates the item-trend command.
func NewItemTrendCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "item-trend <item> [period|file ...]",
		Short: "Show one assessment item's monthly mean, sum and count",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			svc, err := newService(rootOpts, cmd)
			if err != nil {
				return out.Fail(err)
			}
			report, err := svc.RunItemTrend(cmd.Context(), args[1:], args[0])
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(report, func(w io.Writer) error {
				fmt.Fprintf(w, "Item: %s\n", report.Item)
				t := newTable("PERIOD", "MEAN", "SUM", "COUNT")
				for _, p := range report.Periods {
					t.add(p.Period, num(p.Mean), num(p.Sum), strconv.Itoa(p.Count))
				}
				if err := t.write(w); err != nil {
					return err
				}
				return writeFailures(w, report.Failures)
			})
		},
	}
}

// NewQualityCommand creates the quality command.
func NewQualityCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "quality [period|file]",
		Short: "Report missing values, duplicates and outliers in one period",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			svc, err := newService(rootOpts, cmd)
			if err != nil {
				return out.Fail(err)
			}
			result, err := svc.RunQuality(cmd.Context(), firstArg(args))
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(result, func(w io.Writer) error {
				r := result.Report
				fmt.Fprintf(w, "Period: %s  rows: %d  columns: %d  duplicate rows: %d  missing cells: %d\n",
					result.Period, r.Rows, r.Columns, r.DuplicateRows, r.MissingCells)
				t := newTable("COLUMN", "MISSING", "RATIO", "OUTLIERS", "NUMERIC")
				for _, c := range r.ColumnDetails {
					t.add(c.Column, strconv.Itoa(c.Missing), strconv.FormatFloat(c.MissingRatio*100, 'f', 1, 64)+"%",
						strconv.Itoa(c.Outliers), strconv.FormatBool(c.Numeric))
				}
				return t.write(w)
			})
		},
	}
}

// NewDeductionsCommand creates the deductions command.
func NewDeductionsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "deductions [period|file]",
		Short: "Explain the lowest-ranked classes' deductions with suggestions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			svc, err := newService(rootOpts, cmd)
			if err != nil {
				return out.Fail(err)
			}
			report, err := svc.RunDeductions(cmd.Context(), firstArg(args))
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(report, func(w io.Writer) error {
				fmt.Fprintf(w, "Period: %s\n", report.Period)
				for _, r := range report.Reports {
					fmt.Fprintf(w, "\n%s (%s)\n", r.Entity, num(r.Score))
					if len(r.Deductions) == 0 {
						fmt.Fprintln(w, "  no deductions")
					}
					for _, d := range r.Deductions {
						fmt.Fprintf(w, "  %s: %s\n", d.Item, num(d.Score))
					}
					for _, s := range r.Suggestions {
						fmt.Fprintf(w, "  - %s\n", s)
					}
				}
				return nil
			})
		},
	}
}

// NewPivotCommand creates the pivot command.
func NewPivotCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pivot [period|file ...]",
		Short: "Print a class by month matrix of total scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			svc, err := newService(rootOpts, cmd)
			if err != nil {
				return out.Fail(err)
			}
			report, err := svc.RunPivot(cmd.Context(), args)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(report, func(w io.Writer) error {
				t := newTable(append([]string{"CLASS"}, report.Pivot.Periods...)...)
				for _, row := range report.Pivot.Rows {
					cells := []string{row.Entity}
					for i, s := range row.Scores {
						if i < len(row.Present) && !row.Present[i] {
							cells = append(cells, "-")
							continue
						}
						cells = append(cells, num(s))
					}
					t.add(cells...)
				}
				if err := t.write(w); err != nil {
					return err
				}
				return writeFailures(w, report.Failures)
			})
		},
	}
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "export [period|file ...]",
		Short: "Write the risk, ranking, pivot and item reports as CSV and XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := formatter(rootOpts, cmd)
			svc, err := newService(rootOpts, cmd)
			if err != nil {
				return out.Fail(err)
			}
			result, err := svc.Export(cmd.Context(), args, outDir)
			if err != nil {
				return out.Fail(err)
			}
			return out.Success(result, func(w io.Writer) error {
				fmt.Fprintf(w, "Exported %d reports for %s\n", len(result.Files), strings.Join(result.Periods, ", "))
				for _, f := range result.Files {
					fmt.Fprintf(w, "  %s\n", f)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (defaults to the configured reports directory)")
	return cmd
}

func writeTrend(w io.Writer, report *services.TrendReport) error {
	fmt.Fprintf(w, "Periods: %s  imputation: %s  classes analyzed: %d\n",
		strings.Join(report.Periods, ", "), report.Imputation, report.Analyzed)

	if len(report.Risks) == 0 {
		fmt.Fprintln(w, "No class has a falling trend.")
	} else {
		t := newTable("CLASS", "SLOPE", "NET CHANGE", "PERIODS", "LATEST")
		for _, r := range report.Risks {
			t.add(r.Entity, num(r.Slope), num(r.NetChange), strconv.Itoa(r.PeriodCount), r.LatestPeriod)
		}
		if err := t.write(w); err != nil {
			return err
		}
	}

	if len(report.Skipped) > 0 {
		fmt.Fprintf(w, "\nSkipped %d classes:\n", len(report.Skipped))
		for _, s := range report.Skipped {
			fmt.Fprintf(w, "  %s: %s\n", s.Entity, s.Reason)
		}
	}
	return writeFailures(w, report.Failures)
}

func writeRanking(w io.Writer, report *services.RankingReport) error {
	s := report.Stats
	fmt.Fprintf(w, "Period: %s  classes: %d  max: %s  min: %s  mean: %s  std dev: %s\n",
		report.Period, s.Count, num(s.Max), num(s.Min), num(s.Mean), num(s.StdDev))

	t := newTable("RANK", "CLASS", "SCORE", "LEVEL")
	for _, e := range report.Entries {
		t.add(strconv.Itoa(e.Rank), e.Entity, num(e.Score), levelText(e.Level))
	}
	return t.write(w)
}

func writeFailures(w io.Writer, failures []domain.FileFailure) error {
	if len(failures) == 0 {
		return nil
	}
	fmt.Fprintf(w, "\n%d files could not be loaded:\n", len(failures))
	for _, f := range failures {
		fmt.Fprintf(w, "  %s: %s\n", f.Path, f.Error)
	}
	return nil
}

func levelText(level domain.PerformanceLevel) string {
	switch level {
	case domain.LevelExcellent:
		return "优秀"
	case domain.LevelGood:
		return "良好"
	case domain.LevelPass:
		return "合格"
	case domain.LevelNeedsImprovement:
		return "需改进"
	default:
		return string(level)
	}
}

// num prints v rounded to two decimals without trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
