// Package state holds the in-process stores the shell reads from: the
// server registry with its active-session pointer, and the sidebar's sort
// order, badges and visibility, and the TLS trust decisions.
package state
