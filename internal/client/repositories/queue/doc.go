// Package queue persists pending mutations (create, update, delete) in the
// client database until the sync engine delivers them.
//
// Items are returned in creation order; ties are broken by the
// autoincrement id. Payloads are JSON text so relational fields can be
// rewritten in place with SQLite JSON functions.
package queue
