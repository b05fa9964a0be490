// Package models defines the core domain models for pairbook.
//
// # Overview
//
// pairbook is a shared household ledger for exactly two people. The models
// reflect that constraint directly:
//   - Participant / Pair: the two people sharing the ledger. The pair is a
//     fixed allow-list; there is deliberately no N-party generalization.
//   - Record: a single financial entry, either an expense (with a split
//     policy dividing the cost between the pair) or a settlement (a
//     repayment from one participant to the other).
//   - Category: a lightweight, user-editable {name, icon} value. Records
//     keep their category name even after the category is deleted.
//   - Settings: household-wide preferences (monthly budget target).
//   - User: a registered account backing one Participant.
//
// # Design Principles
//
// 1. **Two-person invariant**: the balance symmetry law
// (balance(A) == -balance(B)) only holds for exactly two participants, so
// Pair construction rejects anything else rather than silently accepting it.
//
// 2. **Immutable records**: a record is only ever replaced wholesale (edit)
// or deleted; there is no field-level patching.
//
// 3. **Integer money**: amounts are stored in the smallest currency unit
// (yen). Fractional split shares only exist transiently inside the ledger
// engine, never in stored records.
package models
