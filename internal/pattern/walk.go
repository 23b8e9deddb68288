package pattern

import (
	"github.com/23skdu/longbow-pstl/internal/simd"
)

// Walk1 calls f on every element of s.
func Walk1[T any](pl Plan, s []T, f func(*T)) {
	record("walk1", pl, len(s))
	v, done := output(pl, s)
	defer done()
	each(pl, "walk1", len(v), func(lo, hi int) {
		if pl.Vector() {
			simd.Each(v[lo:hi], f)
			return
		}
		for i := lo; i < hi; i++ {
			f(&v[i])
		}
	})
}

// Walk2 calls f on a[i], b[i] for i < len(a). b must be at least as long.
func Walk2[T, U any](pl Plan, a []T, b []U, f func(*T, *U)) {
	record("walk2", pl, len(a))
	b = b[:len(a)]
	va, doneA := output(pl, a)
	defer doneA()
	vb, doneB := output(pl, b)
	defer doneB()
	each(pl, "walk2", len(va), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			f(&va[i], &vb[i])
		}
	})
}

// Walk3 calls f on a[i], b[i], c[i] for i < len(a).
func Walk3[T, U, V any](pl Plan, a []T, b []U, c []V, f func(*T, *U, *V)) {
	record("walk3", pl, len(a))
	b, c = b[:len(a)], c[:len(a)]
	va, doneA := output(pl, a)
	defer doneA()
	vb, doneB := output(pl, b)
	defer doneB()
	vc, doneC := output(pl, c)
	defer doneC()
	each(pl, "walk3", len(va), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			f(&va[i], &vb[i], &vc[i])
		}
	})
}

// Transform writes f(src[i]) to dst[i] and returns len(src).
func Transform[T, U any](pl Plan, src []T, dst []U, f func(T) U) int {
	record("transform", pl, len(src))
	dst = dst[:len(src)]
	vs, doneS := input(pl, src)
	defer doneS()
	vd, doneD := output(pl, dst)
	defer doneD()
	each(pl, "transform", len(vs), func(lo, hi int) {
		if pl.Vector() {
			simd.Map(vs[lo:hi], vd[lo:hi], f)
			return
		}
		for i := lo; i < hi; i++ {
			vd[i] = f(vs[i])
		}
	})
	return len(src)
}

// Transform2 writes f(a[i], b[i]) to dst[i] and returns len(a).
func Transform2[T, U, V any](pl Plan, a []T, b []U, dst []V, f func(T, U) V) int {
	record("transform2", pl, len(a))
	b, dst = b[:len(a)], dst[:len(a)]
	va, doneA := input(pl, a)
	defer doneA()
	vb, doneB := input(pl, b)
	defer doneB()
	vd, doneD := output(pl, dst)
	defer doneD()
	each(pl, "transform2", len(va), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			vd[i] = f(va[i], vb[i])
		}
	})
	return len(a)
}

// Copy copies src into dst and returns len(src). The ranges must not
// overlap.
func Copy[T any](pl Plan, src, dst []T) int {
	record("copy", pl, len(src))
	dst = dst[:len(src)]
	if isDevice(pl) {
		vs, doneS := input(pl, src)
		defer doneS()
		vd, doneD := output(pl, dst)
		defer doneD()
		src, dst = vs, vd
	}
	each(pl, "copy", len(src), func(lo, hi int) {
		copy(dst[lo:hi], src[lo:hi])
	})
	return len(src)
}

// Fill assigns v to every element of s.
func Fill[T any](pl Plan, s []T, v T) {
	record("fill", pl, len(s))
	vs, done := output(pl, s)
	defer done()
	each(pl, "fill", len(vs), func(lo, hi int) {
		simd.Fill(vs[lo:hi], v)
	})
}

// Generate assigns successive results of gen. Under a parallel plan gen is
// called concurrently and in no particular order.
func Generate[T any](pl Plan, s []T, gen func() T) {
	record("generate", pl, len(s))
	vs, done := output(pl, s)
	defer done()
	each(pl, "generate", len(vs), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			vs[i] = gen()
		}
	})
}

// SwapRanges exchanges a[i] and b[i] for i < len(a) and returns len(a).
func SwapRanges[T any](pl Plan, a, b []T) int {
	record("swap_ranges", pl, len(a))
	b = b[:len(a)]
	va, doneA := output(pl, a)
	defer doneA()
	vb, doneB := output(pl, b)
	defer doneB()
	each(pl, "swap_ranges", len(va), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			va[i], vb[i] = vb[i], va[i]
		}
	})
	return len(a)
}
