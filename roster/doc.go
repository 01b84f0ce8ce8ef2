// Package roster provides built-in crew roster sources.
//
// A roster source lists the crew members shown as grid rows. The board reads
// it once at construction. The package includes:
//
//   - Static: Fixed list of crews, replaceable with Update
//   - Default: The demo roster used by the examples and tests
//
// Custom sources can be implemented by satisfying the types.RosterSource interface.
package roster
