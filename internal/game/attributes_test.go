package game

import "testing"

func TestAttributeMapDisableAndRestore(t *testing.T) {
	m := NewAttributeMap(8, 8)
	if err := m.Set(AxisRow, 2, AttributeSword); err != nil {
		t.Fatalf("set: %v", err)
	}
	prior, ok := m.Disable(AxisRow, 2, "slime")
	if !ok || prior != AttributeSword {
		t.Fatalf("expected disable to record sword, got %v ok=%v", prior, ok)
	}
	if m.Row(2) != AttributeNone {
		t.Fatalf("disabled slot should read as none, got %v", m.Row(2))
	}
	if err := m.Set(AxisRow, 2, AttributeCandy); err != ErrSlotLocked {
		t.Fatalf("expected ErrSlotLocked, got %v", err)
	}
	if _, ok := m.Disable(AxisRow, 2, "other"); ok {
		t.Fatalf("a locked slot must not be disabled twice")
	}
	if m.Restore(AxisRow, 2, "other") {
		t.Fatalf("only the owner may restore")
	}
	if n := m.RestoreOwner("slime"); n != 1 {
		t.Fatalf("expected 1 restored slot, got %d", n)
	}
	if m.Row(2) != AttributeSword || m.Locked(AxisRow, 2) {
		t.Fatalf("slot not restored: %v locked=%v", m.Row(2), m.Locked(AxisRow, 2))
	}
}

func TestAttributeMapSetValidation(t *testing.T) {
	m := NewAttributeMap(4, 6)
	if m.Len(AxisRow) != 6 || m.Len(AxisColumn) != 4 {
		t.Fatalf("unexpected sizes rows=%d cols=%d", m.Len(AxisRow), m.Len(AxisColumn))
	}
	if err := m.Set(AxisColumn, 4, AttributeCross); err != ErrSlotOutOfRange {
		t.Fatalf("expected out of range, got %v", err)
	}
	if err := m.Set(AxisColumn, 0, AttributeType("laser")); err != ErrInvalidAttribute {
		t.Fatalf("expected invalid attribute, got %v", err)
	}
	if m.HasAny(AxisColumn, AttributeCandy) {
		t.Fatalf("fresh map should have no candy")
	}
	_ = m.Set(AxisColumn, 3, AttributeCandy)
	if !m.HasAny(AxisColumn, AttributeCandy) {
		t.Fatalf("expected candy column")
	}
}
