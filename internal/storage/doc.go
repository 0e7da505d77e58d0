// Package storage provides the key-value store of the mouse node.
//
// A node keeps two badger databases side by side under one directory:
//
//   - intrinsic: the content half of each record, keyed by its ID
//   - extrinsic: the metadata half of each record, keyed by the same ID
//
// Environment opens both and answers Fetch by reading the two halves.
// A record present in only one database is reported as inconsistent.
package storage
