// Package transform defines the unit the corruption engine schedules: a named,
// parameterized text mutation with a fixed scope and order tier, an optional
// explicit seed, its own include/exclude patterns and transcript target.
//
// A Transform exposes two capabilities to the engine: Corrupt, the reference
// implementation called with an explicit RNG, and Descriptor, the operation
// the fast backend can run on its own. A transform without a descriptor is
// always executed through the reference backend.
package transform
