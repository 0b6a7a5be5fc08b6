package generic

import (
	"bytes"
	"testing"
)

func TestPoolGeneratesWhenEmpty(t *testing.T) {
	p := NewPool(func() *bytes.Buffer { return new(bytes.Buffer) })
	buf := p.Get()
	if buf == nil {
		t.Fatal("Get() returned nil")
	}
	buf.WriteString("hello")
	p.Put(buf)
}

func TestPoolRoundTrip(t *testing.T) {
	calls := 0
	p := NewPool(func() int {
		calls++
		return calls
	})

	first := p.Get()
	p.Put(first)
	_ = p.Get()

	if calls == 0 {
		t.Error("generator never called")
	}
}
