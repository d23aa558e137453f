// Package notation parses and regenerates the compact linear text form of a
// process topology. Two grammars are supported: the parenthesized unit
// grammar, delegated to an external native parser that yields a labeled
// graph, and the bracketed arrow grammar (`name[type]->name[type]`) parsed
// here with independent regexp extraction.
package notation
