package benchmark

import (
	"fmt"
	"testing"

	"github.com/yndnr/mouse-go/internal/cache"
)

func BenchmarkCacheInsert(b *testing.B) {
	c := newCache(b, 64<<20)
	recs := newRecords(10000, 128)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Insert(recs[i%len(recs)])
	}
}

func BenchmarkCacheFind(b *testing.B) {
	for _, n := range RecordCounts {
		b.Run(fmt.Sprintf("records=%d", n), func(b *testing.B) {
			c := newCache(b, 256<<20)
			recs := newRecords(n, 128)
			for _, r := range recs {
				c.Insert(r)
			}
			c.Wait()

			b.ReportAllocs()
			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				i := 0
				for pb.Next() {
					c.Find(recs[i%len(recs)].ID)
					i++
				}
			})
		})
	}
}

func BenchmarkCacheEvicting(b *testing.B) {
	c := newCache(b, 1<<20)
	recs := newRecords(100000, 512)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		r := recs[i%len(recs)]
		if _, res := c.Find(r.ID); res != cache.Hit {
			c.Insert(r)
		}
	}
}
