// Package output renders calculation results for the CLI in console, JSON
// and CSV forms.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/maplepay/paycalc/internal/calculation"
	"github.com/maplepay/paycalc/internal/domain"
)

// ReportGenerator writes results in a selectable format.
type ReportGenerator struct {
	Out io.Writer
}

// NewReportGenerator creates a generator writing to out.
func NewReportGenerator(out io.Writer) *ReportGenerator {
	return &ReportGenerator{Out: out}
}

// WriteResult renders a single calculation result.
func (rg *ReportGenerator) WriteResult(result *domain.CalculationResult, format string) error {
	switch format {
	case "console":
		return rg.writeConsoleResult(result)
	case "json":
		return rg.writeJSON(result)
	case "csv":
		return rg.writeCSV([]*domain.CalculationResult{result})
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// WriteBatch renders a whole pay run.
func (rg *ReportGenerator) WriteBatch(batch *calculation.BatchResult, format string) error {
	switch format {
	case "console":
		return rg.writeConsoleBatch(batch)
	case "json":
		return rg.writeJSON(batch)
	case "csv":
		results := make([]*domain.CalculationResult, 0, len(batch.Items))
		for _, item := range batch.Items {
			if item.Result != nil {
				results = append(results, item.Result)
			}
		}
		return rg.writeCSV(results)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func (rg *ReportGenerator) writeConsoleResult(r *domain.CalculationResult) error {
	fmt.Fprintln(rg.Out, "==========================================")
	fmt.Fprintf(rg.Out, "STATUTORY DEDUCTIONS - %s\n", r.EmployeeID)
	fmt.Fprintln(rg.Out, "==========================================")
	fmt.Fprintf(rg.Out, "CPP:                  %s\n", FormatCurrency(r.Cpp))
	fmt.Fprintf(rg.Out, "CPP2:                 %s\n", FormatCurrency(r.Cpp2))
	fmt.Fprintf(rg.Out, "EI:                   %s\n", FormatCurrency(r.Ei))
	fmt.Fprintf(rg.Out, "EI (employer share):  %s\n", FormatCurrency(r.EmployerEi))
	fmt.Fprintf(rg.Out, "Federal tax:          %s\n", FormatCurrency(r.FederalTax))
	fmt.Fprintf(rg.Out, "Provincial tax:       %s\n", FormatCurrency(r.ProvincialTax))
	if r.FederalTaxOnBonus.IsPositive() || r.ProvincialTaxOnBonus.IsPositive() {
		fmt.Fprintf(rg.Out, "Federal tax (bonus):  %s\n", FormatCurrency(r.FederalTaxOnBonus))
		fmt.Fprintf(rg.Out, "Provincial tax (bonus): %s\n", FormatCurrency(r.ProvincialTaxOnBonus))
	}
	fmt.Fprintf(rg.Out, "Net pay:              %s\n", FormatCurrency(r.NetPay))
	for _, reason := range r.Reasons {
		fmt.Fprintf(rg.Out, "Note: %s\n", reason)
	}
	for _, warning := range r.SanityWarnings {
		fmt.Fprintf(rg.Out, "REVIEW: %s\n", warning)
	}
	fmt.Fprintln(rg.Out)
	return nil
}

func (rg *ReportGenerator) writeConsoleBatch(batch *calculation.BatchResult) error {
	fmt.Fprintf(rg.Out, "PAY RUN %s: %d succeeded, %d failed\n\n", batch.RunID, batch.Succeeded, batch.Failed)
	for _, item := range batch.Items {
		if item.Error != "" {
			fmt.Fprintf(rg.Out, "FAILED %s: %s\n\n", item.EmployeeID, item.Error)
			continue
		}
		if err := rg.writeConsoleResult(item.Result); err != nil {
			return err
		}
	}
	return nil
}

func (rg *ReportGenerator) writeJSON(v any) error {
	enc := json.NewEncoder(rg.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (rg *ReportGenerator) writeCSV(results []*domain.CalculationResult) error {
	w := csv.NewWriter(rg.Out)
	header := []string{"employee_id", "cpp", "cpp2", "ei", "employer_ei", "federal_tax", "provincial_tax", "federal_tax_on_bonus", "provincial_tax_on_bonus", "net_pay"}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		record := []string{
			r.EmployeeID,
			r.Cpp.StringFixed(2),
			r.Cpp2.StringFixed(2),
			r.Ei.StringFixed(2),
			r.EmployerEi.StringFixed(2),
			r.FederalTax.StringFixed(2),
			r.ProvincialTax.StringFixed(2),
			r.FederalTaxOnBonus.StringFixed(2),
			r.ProvincialTaxOnBonus.StringFixed(2),
			r.NetPay.StringFixed(2),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// FormatCurrency formats a decimal as a dollar amount.
func FormatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
