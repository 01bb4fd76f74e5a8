package game

import "errors"

var (
	ErrSlotOutOfRange   = errors.New("attribute slot out of range")
	ErrSlotLocked       = errors.New("attribute slot is locked")
	ErrInvalidAttribute = errors.New("invalid attribute")
)

type slotLock struct {
	owner string
	prior AttributeType
}

// AttributeMap holds one attribute per grid row and per grid column.
// Slots can be locked by an owner (a monster) which records the prior value
// so it can be restored later.
type AttributeMap struct {
	rows  []AttributeType
	cols  []AttributeType
	locks map[Axis]map[int]slotLock
}

// NewAttributeMap creates a map for a grid with the given column and row count.
func NewAttributeMap(width, height int) *AttributeMap {
	m := &AttributeMap{
		rows:  make([]AttributeType, height),
		cols:  make([]AttributeType, width),
		locks: map[Axis]map[int]slotLock{
			AxisRow:    {},
			AxisColumn: {},
		},
	}
	for i := range m.rows {
		m.rows[i] = AttributeNone
	}
	for i := range m.cols {
		m.cols[i] = AttributeNone
	}
	return m
}

func (m *AttributeMap) slots(axis Axis) []AttributeType {
	if axis == AxisRow {
		return m.rows
	}
	return m.cols
}

// Len returns the number of slots along axis.
func (m *AttributeMap) Len(axis Axis) int { return len(m.slots(axis)) }

// Get returns the attribute at index, AttributeNone when out of range.
func (m *AttributeMap) Get(axis Axis, index int) AttributeType {
	s := m.slots(axis)
	if index < 0 || index >= len(s) {
		return AttributeNone
	}
	return s[index]
}

// Row and Col are shorthands for Get.
func (m *AttributeMap) Row(index int) AttributeType { return m.Get(AxisRow, index) }
func (m *AttributeMap) Col(index int) AttributeType { return m.Get(AxisColumn, index) }

// Set writes an attribute into an unlocked slot.
func (m *AttributeMap) Set(axis Axis, index int, attr AttributeType) error {
	if !attr.Valid() {
		return ErrInvalidAttribute
	}
	s := m.slots(axis)
	if index < 0 || index >= len(s) {
		return ErrSlotOutOfRange
	}
	if _, locked := m.locks[axis][index]; locked {
		return ErrSlotLocked
	}
	s[index] = attr
	return nil
}

// HasAny reports whether any slot along axis currently carries attr.
func (m *AttributeMap) HasAny(axis Axis, attr AttributeType) bool {
	for _, a := range m.slots(axis) {
		if a == attr {
			return true
		}
	}
	return false
}

// Locked reports whether a slot is disabled.
func (m *AttributeMap) Locked(axis Axis, index int) bool {
	_, ok := m.locks[axis][index]
	return ok
}

// UnlockedSlots lists the indexes along axis that are not locked.
func (m *AttributeMap) UnlockedSlots(axis Axis) []int {
	out := make([]int, 0, m.Len(axis))
	for i := range m.slots(axis) {
		if !m.Locked(axis, i) {
			out = append(out, i)
		}
	}
	return out
}

// Disable locks a slot for owner, remembering the prior attribute and
// clearing the slot to AttributeNone. It returns false if the slot is out
// of range or already locked.
func (m *AttributeMap) Disable(axis Axis, index int, owner string) (AttributeType, bool) {
	s := m.slots(axis)
	if index < 0 || index >= len(s) || m.Locked(axis, index) {
		return AttributeNone, false
	}
	prior := s[index]
	m.locks[axis][index] = slotLock{owner: owner, prior: prior}
	s[index] = AttributeNone
	return prior, true
}

// Restore unlocks one slot owned by owner and puts back its prior attribute.
func (m *AttributeMap) Restore(axis Axis, index int, owner string) bool {
	lock, ok := m.locks[axis][index]
	if !ok || lock.owner != owner {
		return false
	}
	delete(m.locks[axis], index)
	m.slots(axis)[index] = lock.prior
	return true
}

// RestoreOwner unlocks every slot held by owner and returns how many were restored.
func (m *AttributeMap) RestoreOwner(owner string) int {
	n := 0
	for _, axis := range []Axis{AxisRow, AxisColumn} {
		for idx, lock := range m.locks[axis] {
			if lock.owner != owner {
				continue
			}
			delete(m.locks[axis], idx)
			m.slots(axis)[idx] = lock.prior
			n++
		}
	}
	return n
}

// Snapshot copies the current row and column attributes.
func (m *AttributeMap) Snapshot() (rows, cols []AttributeType) {
	rows = append([]AttributeType(nil), m.rows...)
	cols = append([]AttributeType(nil), m.cols...)
	return rows, cols
}
