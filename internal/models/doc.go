// Package models defines the persisted records for splitbill.
//
// Records are storage-shaped: amounts and tax rates are decimal strings and
// dates are ISO-8601 strings, so they round-trip through SQLite without loss.
// The service layer converts them to and from the calculation types in
// internal/bill and internal/period.
//
// # Records
//
//   - Bill: a stored bill with its lines, billing period, presence periods and roster
//   - Line: one charge on a bill
//   - Presence: one presence period of one person
//   - Household: a reusable roster of people who share bills
//
// Participants are identified by name strings; there are no user accounts.
package models
