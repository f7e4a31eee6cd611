// Package equity tracks the lifecycle of employee equity grants and computes
// the taxes they cause.
//
// The core functionalities include:
//   - Vesting: expanding a grant into dated chunks of options, with an
//     optional cliff and cutoff.
//   - Ledger: recording every lot of a grant as it moves from option to
//     stock to sale, splitting lots when an exercise or a sale consumes
//     only part of them, and emitting an auditable event per lot moved.
//   - Taxes: evaluating progressive brackets for federal and state income
//     taxes, payroll taxes, capital gains and the alternative minimum tax.
//   - Scenarios: reading a yaml description of the filings, grants and
//     actions of a household into a Portfolio.
//
// Tax tables come from a TaxTableProvider: MemoryTables for fixed tables, or
// the taxee package for the published ones.
//
// This package serves as the foundational logic for the `eqt` command-line
// tool.
package equity
