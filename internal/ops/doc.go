// Package ops holds the operation kernels the fast backend executes from
// descriptors, keyed by operation type. Kernels work on a masked layout and
// only ever rewrite unprotected segments. Built-in transforms reuse the same
// kernels as their reference bodies, so both backends agree by construction.
package ops
