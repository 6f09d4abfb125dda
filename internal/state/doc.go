// Package state is an in-process, job-scoped key/value store with typed keys.
//
// Values are grouped by job ID and addressed with a [Key], whose type parameter fixes the value type at the call
// site:
//
//	var attempts = state.NewKey[int]("attempts")
//	_ = state.Put(store, jobID, attempts, 1)  // fails with shared.ErrKeyExists on a second Put
//	state.Set(store, jobID, attempts, 2)      // overwrites
//	n, err := state.Get(store, jobID, attempts)
//
// [Signals] builds the export job's stop flag and latest progress snapshot on top of a [Store], for callers that run
// exports in the same process (the TUI and tests).
package state
