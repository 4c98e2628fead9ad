// Package models defines the core domain models shared by both divvy
// variants.
//
// # Entities
//
//   - User: registered account identified by a unique username and email
//   - Project: shared-expense ledger owned by its creator (splitter variant)
//   - Expense: a payment logged against a project, attributed to one payer
//   - List: shared checklist owned by its creator (checklist variant)
//   - Item: a checklist entry carrying tick state with attribution
//   - Membership: links a user to a project or list with a role
//
// # Membership model
//
// Every project and list carries a full membership set, including the
// creator: creating a resource writes a Membership with RoleCreator in the
// same transaction. Access checks therefore walk memberships only and never
// special-case the creator.
//
// # Design principles
//
//  1. Models are plain data plus pure predicates; no storage or transport
//     concerns leak in.
//  2. Relationships use ID strings rather than pointers to avoid circular
//     references.
//  3. Display names (usernames) are denormalized onto child records by the
//     storage layer so views never re-query per row.
package models
