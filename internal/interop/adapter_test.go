package interop

import (
	"testing"

	"github.com/ts-forge/tsforge/internal/value"
)

func TestStaticLinkAdapterBuffersThenFlushes(t *testing.T) {
	a := NewStaticLinkAdapter()
	if _, err := a.Emit("/src/a.ts", []byte("compiled"), "dist/a.js"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flushed := a.Flush()
	if string(flushed["dist/a.js"]) != "compiled" {
		t.Errorf("flushed module content = %q", flushed["dist/a.js"])
	}
	if _, ok := a.Resolve("dist/a.js", ""); !ok {
		t.Error("a buffered module should resolve by its output path")
	}
}

func TestPatchAdapterWritesImmediately(t *testing.T) {
	w := NewInMemoryRecordWriter()
	a := NewPatchAdapter(w)
	if _, err := a.Emit("/src/a.ts", []byte("compiled"), "dist/a.js"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(w.Records["dist/a.js"]) != "compiled" {
		t.Errorf("record content = %q", w.Records["dist/a.js"])
	}
}

func TestInstanceFieldAccessor(t *testing.T) {
	inst := &value.Instance{Class: &value.Class{Name: "Point"}, Fields: value.NewRecord()}
	accessor := InstanceFieldAccessor{}
	accessor.Set(inst, "x", value.Number(3))
	got, ok := accessor.Get(inst, "x")
	if !ok || got.Num != 3 {
		t.Errorf("got %v, ok=%v", got, ok)
	}
}
