// Package models defines the core domain models for República Fácil.
//
// # Models
//
//   - User: registered account that owns houses
//   - House: a república; the scope for rooms, members and expenses
//   - Room: sub-unit of a house, occupied by at most one active member
//   - Member: person living (or who lived) in a house
//   - Expense: shared cost split equally among active members
//   - Payment: one member's share of one expense
//
// # Design Principles
//
// 1. **History is never destroyed**: members are soft-deleted, payments are
// never mutated once recorded.
// 2. **IDs instead of pointers**: relationships are expressed through ID
// strings, the same way they are stored.
// 3. **Unix timestamps**: all instants are stored as Unix seconds; zero means
// "not set".
//
// # Errors
//
// The error kinds returned by the core live here too (see errors.go), so that
// storage, the core packages and the transport layer classify failures the
// same way with errors.Is.
package models
