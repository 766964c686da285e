// Package storage defines the persistence interfaces and the MUS wire
// helpers for the lab-profile corpus. The BadgerDB implementation lives
// in the badger subpackage.
package storage
