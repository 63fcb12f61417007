// Package syntax defines the immutable concrete syntax tree consumed by the
// detectors and produced by the fixers.
// Invariants:
//   - Nodes are never mutated after construction; every With* method returns a copy.
//   - Rendering is lossless: Leading + (Text | Children...) + Trailing.
//   - Trailing trivia of a token runs to the end of its line; blank lines,
//     comments and indentation of the next line belong to the next token's
//     leading trivia.
//   - A node pointer appears at most once in a tree, so pointer identity can be
//     used to re-locate a node in a tree derived by structural sharing.
package syntax
