// Package plan orders a composite's transforms canonically and partitions
// them into execution steps: batches the fast backend runs in one call, and
// single fallback transforms run through the reference backend.
//
// Plans are pure values. The same ordered transforms, master seed and global
// mask always produce a structurally identical plan.
package plan
