package dataprocessing

import (
	"strings"

	apperrors "sentimentcli/internal/errors"
)

// Rule is one candidate predicate for a column role.
type Rule struct {
	Name  string
	Match func(column string) bool
}

// Exact matches a column whose name equals name.
func Exact(name string) Rule {
	return Rule{
		Name:  "exact " + name,
		Match: func(column string) bool { return column == name },
	}
}

// ContainsAny matches a column whose lowercased name contains any of substrs.
func ContainsAny(substrs ...string) Rule {
	return Rule{
		Name: "contains " + strings.Join(substrs, "|"),
		Match: func(column string) bool {
			lower := strings.ToLower(column)
			for _, s := range substrs {
				if strings.Contains(lower, s) {
					return true
				}
			}
			return false
		},
	}
}

// Resolve evaluates rules in priority order. Each rule scans columns in their declared
// order and the first hit wins; later rules are only consulted when earlier ones
// match nothing.
func Resolve(columns []string, rules ...Rule) (string, bool) {
	for _, rule := range rules {
		for _, col := range columns {
			if rule.Match(col) {
				return col, true
			}
		}
	}
	return "", false
}

// ColumnRole names a column the pipeline needs and how to find it.
type ColumnRole struct {
	Role     string
	Rules    []Rule
	Required bool
}

var (
	// TradeTimeColumn locates the execution time on the trader table.
	TradeTimeColumn = ColumnRole{
		Role:     "trade time",
		Rules:    []Rule{ContainsAny("time", "timestamp", "date")},
		Required: true,
	}

	// SentimentDateColumn locates the observation date on the sentiment table.
	SentimentDateColumn = ColumnRole{
		Role:     "sentiment date",
		Rules:    []Rule{ContainsAny("date", "time")},
		Required: true,
	}

	// ClassificationColumn locates the sentiment label on the merged table.
	ClassificationColumn = ColumnRole{
		Role:     "sentiment classification",
		Rules:    []Rule{ContainsAny("classification", "sentiment")},
		Required: true,
	}

	// PnLColumn prefers the literal "Closed PnL" header. When several columns only
	// contain "pnl", the first in declared order is used.
	PnLColumn = ColumnRole{
		Role:     "pnl",
		Rules:    []Rule{Exact("Closed PnL"), ContainsAny("pnl")},
		Required: true,
	}

	// SideColumn is optional; without it the side breakdown is skipped.
	SideColumn = ColumnRole{
		Role:  "side",
		Rules: []Rule{ContainsAny("side")},
	}

	// LeverageColumn is optional; without it the leverage breakdown is skipped.
	LeverageColumn = ColumnRole{
		Role:  "leverage",
		Rules: []Rule{Exact("leverage"), ContainsAny("leverage")},
	}
)

// Resolve finds the role's column in table. A missing optional column returns ""
// and no error; a missing required column returns a MISSING_COLUMN error.
func (r ColumnRole) Resolve(table *Table) (string, error) {
	if col, ok := Resolve(table.Columns, r.Rules...); ok {
		return col, nil
	}
	if !r.Required {
		return "", nil
	}
	return "", apperrors.NewMissingColumnError(r.Role, table.Name, table.Columns)
}

// ResolvedColumns records which column was chosen for each analysis role on the
// merged table. Side and Leverage are empty when absent.
type ResolvedColumns struct {
	Classification string
	PnL            string
	Side           string
	Leverage       string
}

// ResolveAnalysisColumns resolves every role needed after the join. It fails on the
// first missing required role so no output is produced for an unusable table.
func ResolveAnalysisColumns(merged *Table) (ResolvedColumns, error) {
	var cols ResolvedColumns
	var err error

	if cols.Classification, err = ClassificationColumn.Resolve(merged); err != nil {
		return ResolvedColumns{}, err
	}
	if cols.PnL, err = PnLColumn.Resolve(merged); err != nil {
		return ResolvedColumns{}, err
	}
	if cols.Side, err = SideColumn.Resolve(merged); err != nil {
		return ResolvedColumns{}, err
	}
	if cols.Leverage, err = LeverageColumn.Resolve(merged); err != nil {
		return ResolvedColumns{}, err
	}
	return cols, nil
}
