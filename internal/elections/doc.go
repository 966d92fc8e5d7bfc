// Package elections generates and analyzes a synthetic county-level
// election-margin dataset: a deterministic seeded generator, a conjunctive
// filter engine, and derived margin-shift metrics.
package elections
