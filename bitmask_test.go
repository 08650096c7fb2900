package warden

import "testing"

func TestBitmaskSetUnsetHas(t *testing.T) {
	var m bitmask256
	m.set(5)
	m.set(200)
	if !m.has(5) || !m.has(200) {
		t.Fatal("expected both bits set")
	}
	m.unset(5)
	if m.has(5) {
		t.Fatal("expected bit 5 cleared")
	}
	if !m.has(200) {
		t.Fatal("expected bit 200 still set")
	}
}

func TestBitmaskContains(t *testing.T) {
	var m, sub bitmask256
	m.set(1)
	m.set(2)
	m.set(3)
	sub.set(1)
	sub.set(3)
	if !m.contains(sub) {
		t.Fatal("expected m to contain sub")
	}
	sub.set(9)
	if m.contains(sub) {
		t.Fatal("expected m not to contain sub once sub has a bit m lacks")
	}
}

func TestBitmaskIntersects(t *testing.T) {
	var a, b bitmask256
	a.set(10)
	b.set(20)
	if a.intersects(b) {
		t.Fatal("expected no intersection")
	}
	b.set(10)
	if !a.intersects(b) {
		t.Fatal("expected intersection once a shared bit is set")
	}
}

func TestBitmaskIsZero(t *testing.T) {
	var m bitmask256
	if !m.isZero() {
		t.Fatal("expected zero value to report isZero")
	}
	m.set(255)
	if m.isZero() {
		t.Fatal("expected non-zero after set")
	}
}

func TestBitmaskPopcount(t *testing.T) {
	var m bitmask256
	for _, bit := range []TypeIndex{0, 63, 64, 127, 200, 255} {
		m.set(bit)
	}
	if got := m.popcount(); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
}

func TestBitmaskForEachVisitsSetBitsAscending(t *testing.T) {
	var m bitmask256
	want := []TypeIndex{3, 70, 130, 250}
	for _, bit := range want {
		m.set(bit)
	}
	var got []TypeIndex
	m.forEach(func(idx TypeIndex) bool {
		got = append(got, idx)
		return true
	})
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestBitmaskForEachStopsEarly(t *testing.T) {
	var m bitmask256
	m.set(1)
	m.set(2)
	m.set(3)
	count := 0
	m.forEach(func(TypeIndex) bool {
		count++
		return count < 2
	})
	if count != 2 {
		t.Fatalf("expected forEach to stop after 2 visits, got %d", count)
	}
}

func TestBitmaskHashIsStableAndDiscriminating(t *testing.T) {
	var a, b bitmask256
	a.set(5)
	b.set(5)
	if a.hash() != b.hash() {
		t.Fatal("expected identical masks to hash identically")
	}
	b.set(6)
	if a.hash() == b.hash() {
		t.Fatal("expected different masks to hash differently")
	}
}
