package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// registryKey names the registry table listing modules require may load.
const registryKey = "graphnudge.allowed_modules"

// installSandbox removes loaders that reach the filesystem and wraps
// require so it only resolves allowed modules.
func installSandbox(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}

	if pkg, ok := L.GetGlobal("package").(*lua.LTable); ok {
		L.SetField(pkg, "path", lua.LString(""))
		L.SetField(pkg, "cpath", lua.LString(""))
	}

	allowed := L.NewTable()
	for _, name := range []string{"string", "table", "math", "coroutine"} {
		allowed.RawSetString(name, lua.LTrue)
	}
	L.SetField(L.Get(lua.RegistryIndex), registryKey, allowed)

	builtin := L.GetGlobal("require")
	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !isAllowed(L, name) {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(builtin)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}

// allowModule lets require load name.
func allowModule(L *lua.LState, name string) {
	if t, ok := L.GetField(L.Get(lua.RegistryIndex), registryKey).(*lua.LTable); ok {
		t.RawSetString(name, lua.LTrue)
	}
}

func isAllowed(L *lua.LState, name string) bool {
	t, ok := L.GetField(L.Get(lua.RegistryIndex), registryKey).(*lua.LTable)
	return ok && lua.LVAsBool(t.RawGetString(name))
}
