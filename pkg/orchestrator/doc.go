// Package orchestrator wires definitions, the data provider, the reference
// controller and the renderers into a single entry point that renders a named
// reference field for a record.
package orchestrator
