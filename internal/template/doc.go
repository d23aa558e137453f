// Package template loads declarative process templates from HCL files and
// resolves them into a fully composed form: reusable fragments merged in,
// library references expanded, parameter declarations normalized, and the
// connection micro-language parsed.
//
// Resolved templates are cached per process id and never mutated after
// caching; the expansion engine works on deep copies.
package template
