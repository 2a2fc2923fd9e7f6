// Package lua runs graphnudge scripts on gopher-lua.
//
// Scripts run in a sandboxed state. The io, os and debug libraries are not
// opened and dofile/loadfile/load are removed. require only resolves the
// standard string, table, math and coroutine modules plus preloaded ones.
// Every call is bounded by an execution timeout enforced through the
// state's context.
//
// # The graphnudge module
//
// Module exposes the movement engine to scripts:
//
//	local g = require("graphnudge")
//	g.set_step(2.5)
//	for _, s in ipairs(g.selected_states()) do
//	    g.log(s.name .. " at " .. s.x .. "," .. s.y)
//	end
//	g.nudge(0, -g.step())
//
// nudge applies one offset to the selection and collapses it into its own
// undo entry. It fails while a keyboard gesture is in progress.
//
// # Hooks
//
// A script may define global functions that the host calls by name, for
// example on_key(name) for unbound keys:
//
//	function on_key(name)
//	    if name == "]" then g.set_step(g.step() * 2) end
//	end
package lua
