// Package host declares the capabilities graphnudge consumes from the
// graph-editing application it is embedded in.
//
// The host owns windows, focus, the open document, the selection, the undo
// stack and persistence. graphnudge only reaches them through the narrow
// interfaces below. Optional capabilities (graph rebuild, layer selection)
// are discovered on a Surface by type assertion; a host that does not provide
// them loses only the features built on them.
package host
