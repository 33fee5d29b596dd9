package main

import (
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/maplepay/paycalc/internal/api"
	"github.com/maplepay/paycalc/internal/calculation"
	"github.com/maplepay/paycalc/internal/domain"
	"github.com/maplepay/paycalc/internal/output"
	"github.com/maplepay/paycalc/internal/tables"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "paycalc",
	Short: "Canadian payroll statutory deduction engine",
	Long:  "Computes CPP/CPP2, EI and federal/provincial income tax deductions per pay period",
}

// periodFile is the on-disk shape of a single-employee calculation request.
type periodFile struct {
	Year    int                   `yaml:"year"`
	Edition domain.Edition        `yaml:"edition"`
	Input   domain.PayPeriodInput `yaml:"input"`
	Ytd     domain.YTDTotals      `yaml:"ytd"`
}

// runFile is the on-disk shape of a whole pay run.
type runFile struct {
	Year    int                     `yaml:"year"`
	Edition domain.Edition          `yaml:"edition"`
	Items   []calculation.BatchItem `yaml:"items"`
}

func loadStore(dir string) (*tables.Store, error) {
	store := tables.NewStore()
	if err := store.LoadDir(dir); err != nil {
		return nil, err
	}
	return store, nil
}

func calculateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calculate [input-file]",
		Short: "Calculate one employee's deductions for a pay period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tablesDir, _ := cmd.Flags().GetString("tables")
			format, _ := cmd.Flags().GetString("format")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read input file: %w", err)
			}
			var pf periodFile
			if err := yaml.Unmarshal(data, &pf); err != nil {
				return fmt.Errorf("failed to parse input file: %w", err)
			}

			store, err := loadStore(tablesDir)
			if err != nil {
				return err
			}
			engine := calculation.NewEngine(store)
			result, err := engine.Calculate(pf.Year, pf.Edition, &pf.Input, pf.Ytd)
			if err != nil {
				return err
			}
			return output.NewReportGenerator(os.Stdout).WriteResult(result, format)
		},
	}
	cmd.Flags().String("tables", "tables", "directory of tax-table files")
	cmd.Flags().String("format", "console", "output format: console, json or csv")
	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [run-file]",
		Short: "Calculate a whole pay run, continuing past per-employee failures",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tablesDir, _ := cmd.Flags().GetString("tables")
			format, _ := cmd.Flags().GetString("format")

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read run file: %w", err)
			}
			var rf runFile
			if err := yaml.Unmarshal(data, &rf); err != nil {
				return fmt.Errorf("failed to parse run file: %w", err)
			}

			store, err := loadStore(tablesDir)
			if err != nil {
				return err
			}
			engine := calculation.NewEngine(store)
			batch := engine.CalculateBatch(rf.Year, rf.Edition, rf.Items)
			return output.NewReportGenerator(os.Stdout).WriteBatch(batch, format)
		},
	}
	cmd.Flags().String("tables", "tables", "directory of tax-table files")
	cmd.Flags().String("format", "console", "output format: console, json or csv")
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the engine over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			tablesDir, _ := cmd.Flags().GetString("tables")
			addr, _ := cmd.Flags().GetString("addr")

			store, err := loadStore(tablesDir)
			if err != nil {
				return err
			}
			log.Printf("loaded tax tables: %v", store.Editions())
			log.Printf("listening on %s", addr)
			return api.ListenAndServe(addr, api.NewHandler(store))
		},
	}
	cmd.Flags().String("tables", "tables", "directory of tax-table files")
	cmd.Flags().String("addr", ":8080", "listen address")
	return cmd
}

func validateTablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-tables [dir]",
		Short: "Validate every tax-table file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("OK: %d edition(s) loaded: %v\n", store.Len(), store.Editions())
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "paycalc %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

func main() {
	rootCmd.AddCommand(calculateCmd(), batchCmd(), serveCmd(), validateTablesCmd(), versionCmd())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
