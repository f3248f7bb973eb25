/*
Package ports defines the driven ports (interfaces) of the cascade engine.

These interfaces decouple the propagation runtime from the scene graph store it
reads and writes, from the transport that carries descriptor batches between
the write and read phases, and from the coordination used when several hosts
share one queue.

# Key Interfaces

  - SceneGraph: adjacency, group markers and typed attribute access.
  - ChangeFeed: store-maintained "changed since tick" tracking.
  - DescriptorQueue: FIFO hand-off of descriptor batches between phases.
  - DistributedLocker: an apply lease for hosts sharing a queue.
*/
package ports
