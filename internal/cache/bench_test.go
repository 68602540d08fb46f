package cache

import "testing"

func BenchmarkLRUGet(b *testing.B) {
	c := NewLRU[int, int](64)
	for i := 0; i < 64; i++ {
		c.Put(i, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get(i % 64)
	}
}

func BenchmarkLRUPutEvict(b *testing.B) {
	c := NewLRU[int, int](16)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Put(i, i)
	}
}
