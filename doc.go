// Package ogst implements an online generalized suffix tree: a single
// suffix tree that indexes a dynamic collection of sequences, any of which
// may be extended with new symbols at any time. The tree is maintained in
// amortized linear time per inserted symbol via a multi-sequence, online
// adaptation of Ukkonen's construction.
//
// Extend is the sole mutator and is not safe to call concurrently with
// itself or with any query method; queries are read-only traversals and may
// run concurrently with each other but never with an in-flight Extend.
package ogst
