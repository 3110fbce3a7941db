// Package store persists completed analyses in a SQLite database so results
// can be listed and inspected after the run that produced them.
package store
