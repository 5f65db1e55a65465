// Package swarm defines the label and entity model shared by every pass of
// the analyzer: the interned primitive identifiers
// re-exported from [pkg/ident], the SwarmLabel and MachineLabel edge types,
// the Transition record, and the stable external encodings
// (SwarmProtocolType, MachineType) that ingestion/serialization collaborators
// exchange with the core.
package swarm
