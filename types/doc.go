// Package types provides core type definitions and interfaces for the crewsched library.
//
// This package contains shared types that are used across multiple packages in the
// crewsched library. By keeping these types in a separate package, we avoid import cycles
// between the main crewsched package and its internal implementations.
//
// Key types:
//   - Weekday: Fixed Monday..Friday enumeration of the displayed week
//   - ProjectID / Project: Palette entries a cell may hold
//   - Crew: Roster member supplied by the host
//   - CellKey: (crew, weekday) grid coordinate
//   - Snapshot: Immutable, versioned view of the assignment grid
//   - CellChange: Event emitted for every applied cell mutation
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
