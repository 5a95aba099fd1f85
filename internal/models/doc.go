// Package models defines the core domain models for Billed.
//
// # Models
//
//   - Bill: one submitted expense claim, as stored and transported
//   - DisplayBill: a Bill normalized for rendering (derived, never persisted)
//   - User: an account that can log in and own bills
//   - Session: the logged-in identity handed to the client-side components
//
// # Design Principles
//
//  1. **Single wire shape**: Bill carries the JSON tags of the store API, so
//     the REST client and the server handlers share one definition.
//  2. **No floats for money**: amounts use shopspring/decimal.
//  3. **Derived data stays derived**: DisplayBill is built per request from a
//     Bill and is never written back to storage.
package models
