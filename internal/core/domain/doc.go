// Package domain defines the records the mouse node stores and caches.
//
// A Record has two halves. The intrinsic half is the content that defines
// it and is hashed into its ID. The extrinsic half is metadata attached
// afterwards. Both halves are stored in separate key-value databases.
package domain
