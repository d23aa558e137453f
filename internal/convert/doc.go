// Package convert is the bidirectional conversion engine: notation text to
// the structured plant model and back. The forward path partitions control
// units from ordinary equipment, instantiates through the type registry,
// and builds piping through the connection builder; the reverse path
// extracts units and connections from a plant model and reassembles
// notation through the serializer.
package convert
