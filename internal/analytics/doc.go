// Package analytics computes the descriptive statistics reported for a merged
// trader/sentiment table.
//
// Nothing here performs inference; every result is a plain summary of the rows.
//
// # Components
//
//   - describe.go: numeric coercion and the count/mean/std/quartile summary
//   - group.go: per-category summaries, value counts, side cross tabulation and means
//   - correlation.go: pairwise-complete Pearson matrix over numeric columns
//   - trend.go: mean value per sentiment date and category
//   - report.go: assembles every result for one merged table
//
// # Conventions
//
// Cells that are empty or not numeric are treated as missing and skipped. Rows with
// an empty category are excluded from grouped results. Groups are returned sorted
// by category so output is stable across runs.
package analytics
