/*
Package algebra implements the change algebra: pure functions that compute the
next value of an attribute from its current value and a declared change.

A false second result means "no event for this candidate". That is the normal
outcome for redundant Show/Hide requests, for a size that matches neither
declared pair, and for drag or scroll changes without a pending delta.

The drag and scroll functions are the only ones that touch state: they consume
the session delta they apply, so a delta moves at most one target per tick.
*/
package algebra
