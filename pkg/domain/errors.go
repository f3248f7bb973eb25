package domain

import "errors"

// ErrResolutionMiss is logged when a relationship needs an entity (usually a
// parent) that does not exist. The candidate set is treated as empty.
var ErrResolutionMiss = errors.New("resolution miss")

// ErrSizeMismatch is logged when a change_size descriptor matches neither of
// its declared pairs. No descriptor is produced.
var ErrSizeMismatch = errors.New("size matches neither declared pair")

// ErrStaleTarget is logged when a descriptor's target entity or attribute is
// gone, or no longer satisfies the rule's guard, by apply time.
var ErrStaleTarget = errors.New("stale target")

// ErrRulesAttached is returned when a rule table is attached twice to the same entity.
var ErrRulesAttached = errors.New("rule table already attached")

// ErrUnknownChange is returned when a rule names a change kind with no registered behaviour.
var ErrUnknownChange = errors.New("unknown change kind")

// ErrInvalidRule is returned when a rule, relationship or predicate is malformed.
var ErrInvalidRule = errors.New("invalid rule")

// ErrUnknownEntity is returned by stores and loaders for missing entities.
var ErrUnknownEntity = errors.New("unknown entity")
