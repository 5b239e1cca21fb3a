package room

import (
	"fmt"
	"testing"
	"time"

	"drawsync/internal/object"
	"drawsync/internal/user"
)

type nopSender struct{}

func (nopSender) Send([]byte) error { return nil }

func testRoom(t *testing.T) *Room {
	t.Helper()
	return newRoom("abc123", 10, 1000)
}

func TestAddParticipantAssignsDistinctColors(t *testing.T) {
	rm := testRoom(t)

	seen := make(map[string]bool)
	for i := 0; i < user.PaletteSize; i++ {
		p, err := rm.AddParticipant(user.ID(fmt.Sprintf("u%d", i)), "name", nopSender{})
		if err != nil {
			t.Fatalf("AddParticipant: %v", err)
		}
		if seen[p.Color] {
			t.Fatalf("color %s assigned twice within palette size", p.Color)
		}
		seen[p.Color] = true
	}

	// Ninth participant falls back to the first palette entry.
	p, err := rm.AddParticipant("u8", "name", nopSender{})
	if err != nil {
		t.Fatalf("AddParticipant: %v", err)
	}
	if p.Color != user.Palette[0] {
		t.Fatalf("overflow color = %s, want %s", p.Color, user.Palette[0])
	}
}

func TestCapacityBoundary(t *testing.T) {
	rm := testRoom(t)

	for i := 0; i < 9; i++ {
		if _, err := rm.AddParticipant(user.ID(fmt.Sprintf("u%d", i)), "n", nopSender{}); err != nil {
			t.Fatalf("join %d: %v", i, err)
		}
	}

	// capacity-1 -> capacity succeeds
	if _, err := rm.AddParticipant("u9", "n", nopSender{}); err != nil {
		t.Fatalf("join at capacity-1: %v", err)
	}
	if got := rm.ParticipantCount(); got != 10 {
		t.Fatalf("participant count = %d, want 10", got)
	}

	// at capacity fails and is not added
	if _, err := rm.AddParticipant("u10", "n", nopSender{}); err != ErrRoomFull {
		t.Fatalf("join at capacity: err = %v, want ErrRoomFull", err)
	}
	if got := rm.ParticipantCount(); got != 10 {
		t.Fatalf("participant count after rejected join = %d, want 10", got)
	}
}

func TestRemoveParticipantReturnsLastState(t *testing.T) {
	rm := testRoom(t)
	rm.AddParticipant("u1", "Alice", nopSender{})

	p, remaining := rm.RemoveParticipant("u1")
	if p == nil || p.DisplayName != "Alice" {
		t.Fatalf("departed participant = %+v, want Alice", p)
	}
	if remaining != 0 {
		t.Fatalf("remaining = %d, want 0", remaining)
	}

	// removing again is a no-op
	p, _ = rm.RemoveParticipant("u1")
	if p != nil {
		t.Fatalf("second remove returned %+v, want nil", p)
	}
}

func TestSetCursorAbsentParticipant(t *testing.T) {
	rm := testRoom(t)

	if _, ok := rm.SetCursor("ghost", 1, 2, time.Now()); ok {
		t.Fatal("cursor update for absent participant should be dropped")
	}
	if _, ok := rm.SetDrawing("ghost", true); ok {
		t.Fatal("drawing update for absent participant should be dropped")
	}
}

func TestCursorThrottle(t *testing.T) {
	rm := testRoom(t)
	rm.AddParticipant("u1", "n", nopSender{})

	now := time.Now()
	if _, ok := rm.SetCursor("u1", 1, 1, now); !ok {
		t.Fatal("first cursor update should be applied")
	}
	if _, ok := rm.SetCursor("u1", 2, 2, now.Add(10*time.Millisecond)); ok {
		t.Fatal("update inside throttle window should be dropped")
	}
	p, ok := rm.SetCursor("u1", 3, 3, now.Add(50*time.Millisecond))
	if !ok {
		t.Fatal("update past throttle window should be applied")
	}
	if p.CursorX != 3 || p.CursorY != 3 || !p.CursorKnown {
		t.Fatalf("cursor = (%v,%v,known=%v), want (3,3,true)", p.CursorX, p.CursorY, p.CursorKnown)
	}
}

// Replaying the same op sequence against an empty store must always yield
// the same final state.
func TestReplayDeterminism(t *testing.T) {
	type op struct {
		kind  string
		id    string
		props map[string]interface{}
	}
	ops := []op{
		{"add", "a", map[string]interface{}{"shape": "rect", "w": 1.0}},
		{"add", "b", map[string]interface{}{"shape": "circle"}},
		{"modify", "a", map[string]interface{}{"w": 2.0, "h": 3.0}},
		{"modify", "ghost", map[string]interface{}{"x": 1.0}},
		{"remove", "b", nil},
		{"add", "a", map[string]interface{}{"shape": "line"}},
	}

	run := func() map[string]*object.Drawing {
		rm := testRoom(t)
		for _, o := range ops {
			switch o.kind {
			case "add":
				props := make(map[string]interface{}, len(o.props))
				for k, v := range o.props {
					props[k] = v
				}
				rm.AddObject(&object.Drawing{ID: o.id, Type: "rect", Props: props})
			case "modify":
				rm.MergeObject(o.id, o.props)
			case "remove":
				rm.DeleteObject(o.id)
			}
		}
		out := make(map[string]*object.Drawing)
		for _, obj := range rm.Snapshot().Objects {
			out[obj.ID] = obj
		}
		return out
	}

	first := run()
	second := run()

	if len(first) != len(second) {
		t.Fatalf("replay sizes differ: %d vs %d", len(first), len(second))
	}
	for id, obj := range first {
		other, ok := second[id]
		if !ok {
			t.Fatalf("replay missing object %s", id)
		}
		if len(obj.Props) != len(other.Props) {
			t.Fatalf("object %s props differ: %v vs %v", id, obj.Props, other.Props)
		}
		for k, v := range obj.Props {
			if other.Props[k] != v {
				t.Fatalf("object %s prop %s differs: %v vs %v", id, k, v, other.Props[k])
			}
		}
	}

	// re-add overwrote wholesale, so "a" has only the final props
	a := first["a"]
	if a == nil || len(a.Props) != 1 || a.Props["shape"] != "line" {
		t.Fatalf("object a = %+v, want wholesale overwrite {shape: line}", a)
	}
}

func TestMergeObjectShallowMerge(t *testing.T) {
	rm := testRoom(t)
	rm.AddObject(&object.Drawing{
		ID:    "r1",
		Type:  "rect",
		Props: map[string]interface{}{"shape": "rect"},
	})

	if !rm.MergeObject("r1", map[string]interface{}{"color": "red"}) {
		t.Fatal("merge on existing id should apply")
	}

	obj, ok := rm.Object("r1")
	if !ok {
		t.Fatal("object r1 missing")
	}
	if obj.Props["shape"] != "rect" || obj.Props["color"] != "red" {
		t.Fatalf("props = %v, want {shape: rect, color: red}", obj.Props)
	}
}

func TestMergeObjectAbsentIsNoOp(t *testing.T) {
	rm := testRoom(t)
	rm.AddObject(&object.Drawing{ID: "a", Type: "rect", Props: map[string]interface{}{}})

	before := rm.Snapshot()
	if rm.MergeObject("missing", map[string]interface{}{"x": 1.0}) {
		t.Fatal("merge on absent id should report no-op")
	}
	after := rm.Snapshot()

	if len(before.Objects) != len(after.Objects) {
		t.Fatalf("store changed by no-op merge: %d -> %d objects", len(before.Objects), len(after.Objects))
	}
	if !before.LastUpdate.Equal(after.LastUpdate) {
		t.Fatal("lastUpdate changed by no-op merge")
	}
}

func TestDeleteObjectAbsentIsNoOp(t *testing.T) {
	rm := testRoom(t)
	rm.AddObject(&object.Drawing{ID: "a", Type: "rect", Props: map[string]interface{}{}})

	before := rm.Snapshot()
	rm.DeleteObject("missing")
	after := rm.Snapshot()

	if len(after.Objects) != len(before.Objects) {
		t.Fatalf("store changed by no-op delete: %d -> %d objects", len(before.Objects), len(after.Objects))
	}
	if !before.LastUpdate.Equal(after.LastUpdate) {
		t.Fatal("lastUpdate changed by no-op delete")
	}
}

func TestClearObjects(t *testing.T) {
	rm := testRoom(t)
	rm.AddObject(&object.Drawing{ID: "a", Type: "rect", Props: map[string]interface{}{}})
	rm.AddObject(&object.Drawing{ID: "b", Type: "rect", Props: map[string]interface{}{}})

	rm.ClearObjects()

	if got := rm.ObjectCount(); got != 0 {
		t.Fatalf("object count after clear = %d, want 0", got)
	}
}

func TestObjectCap(t *testing.T) {
	rm := newRoom("abc123", 10, 2)
	rm.AddObject(&object.Drawing{ID: "a", Type: "rect", Props: map[string]interface{}{}})
	rm.AddObject(&object.Drawing{ID: "b", Type: "rect", Props: map[string]interface{}{}})

	if err := rm.AddObject(&object.Drawing{ID: "c", Type: "rect", Props: map[string]interface{}{}}); err != ErrTooManyObjects {
		t.Fatalf("add past cap: err = %v, want ErrTooManyObjects", err)
	}

	// overwriting an existing id is allowed at the cap
	if err := rm.AddObject(&object.Drawing{ID: "a", Type: "circle", Props: map[string]interface{}{}}); err != nil {
		t.Fatalf("overwrite at cap: %v", err)
	}
}

func TestSnapshotIsIsolatedCopy(t *testing.T) {
	rm := testRoom(t)
	rm.AddObject(&object.Drawing{ID: "a", Type: "rect", Props: map[string]interface{}{"w": 1.0}})

	snap := rm.Snapshot()
	rm.MergeObject("a", map[string]interface{}{"w": 9.0})

	if snap.Objects[0].Props["w"] != 1.0 {
		t.Fatalf("snapshot mutated by later merge: %v", snap.Objects[0].Props["w"])
	}
}
