// Package benchmark provides performance benchmarks for the mouse node.
//
// Run benchmarks with:
//
//	go test -bench=. -benchmem ./internal/tests/benchmark/...
//
// Run the lookup path only:
//
//	go test -bench=BenchmarkLookup -benchmem -benchtime=10s ./internal/tests/benchmark/...
//
// Compare results:
//
//	benchstat old.txt new.txt
package benchmark
