// Package render keeps the on-screen marker set in step with derived station
// state.
//
// This package handles:
// - Keyed reconciliation of stations onto markers (enter, update, exit)
// - Preserving marker identity for stations that stay on screen
// - Projecting station coordinates through a host-supplied Projector
// - A Web Mercator viewport projector for hosts without a map widget
//
// A MarkerSet is owned by exactly one session. Reconcile builds the next set
// from the previous one; markers shared by both are the same pointers.
package render
