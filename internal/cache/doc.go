// Package cache keeps recently used records in memory in front of the
// key-value store.
//
// Entries are either records or negative entries. A negative entry remembers
// that the last store query found nothing, so repeated lookups of a missing
// ID do not reach the store. Entries are evicted once the bytes held exceed
// the configured soft limit.
package cache
