// Package expand turns a resolved process template into a flat set of
// equipment and connection instances: one structurally identical train per
// requested count, deterministic tag numbering, conditional inclusion, and
// train-pattern expansion of connection endpoints.
package expand
