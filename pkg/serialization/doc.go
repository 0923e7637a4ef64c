// Package serialization saves and restores workspace state through a
// priority-ordered registry of serializers.
//
// Each [Serializer] owns one slice of state (variables, blocks, ...) under a
// unique id. A [Registry] runs them in descending priority order, so state
// that other state depends on loads first:
//
//	reg := serialization.NewDefaultRegistry()
//	state, err := reg.Save(ws)
//	...
//	err = reg.Replace(state, other)
//
// Saved [State] is a JSON object keyed by serializer id. Entries nobody has
// registered for are skipped on load, so state written by a newer program
// still loads.
package serialization
