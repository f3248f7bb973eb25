/*
Package domain contains the core data model of the cascade propagation engine.

It defines the vocabulary shared by every other package: entities and their typed
attributes, the transition-group markers that scope a propagation family, the
relationships used to gather affected entities, the rules attached to interactive
entities, and the event descriptors that carry a requested change from the write
phase of a tick to the read phase. This package is kept pure and free of I/O.

# Key Entities

  - Attribute: a typed value attached to an entity (display, visibility, size, offset...).
  - Relationship: which entities are affected relative to an interaction's source.
  - Rule: a (relationship, trigger, change, predicates) tuple owned by an entity.
  - EventDescriptor: a queued request to change one attribute on one entity.
  - Session: the small cross-tick record of drag, cursor and scroll state.
*/
package domain
