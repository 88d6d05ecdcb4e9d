package versioned

import (
	"sync"
	"testing"
)

type storeFixture struct {
	Description string             `json:"description"`
	Cases       []storeFixtureCase `json:"cases"`
}

type storeFixtureCase struct {
	Name   string              `json:"name"`
	Writes []storeFixtureWrite `json:"writes"`
	Reads  []storeFixtureRead  `json:"reads"`
}

type storeFixtureWrite struct {
	Object   string     `json:"object"`
	Version  Version    `json:"version"`
	Property PropertyID `json:"property"`
	Value    any        `json:"value"`
}

type storeFixtureRead struct {
	Object   string     `json:"object"`
	Version  Version    `json:"version"`
	Property PropertyID `json:"property"`
	Found    bool       `json:"found"`
	Value    any        `json:"value"`
	Layer    Layer      `json:"layer"`
}

func TestStoreReadFromFixture(t *testing.T) {
	fx := loadFixture[storeFixture](t, "store_read.json")

	for _, tc := range fx.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			store := NewStore()
			objects := map[string]ObjectID{}
			objectFor := func(alias string) ObjectID {
				if id, ok := objects[alias]; ok {
					return id
				}
				id := NewObjectID()
				objects[alias] = id
				return id
			}

			for _, w := range tc.Writes {
				store.Write(objectFor(w.Object), w.Version, w.Property, w.Value)
			}

			for i, r := range tc.Reads {
				value, layer := store.ReadLayer(objectFor(r.Object), r.Version, r.Property)
				if layer != r.Layer {
					t.Fatalf("read[%d] expected layer %q, got %q", i, r.Layer, layer)
				}
				got, found := store.Read(objectFor(r.Object), r.Version, r.Property)
				if found != r.Found {
					t.Fatalf("read[%d] expected found=%t, got %t", i, r.Found, found)
				}
				if !r.Found {
					if got != nil || value != nil {
						t.Fatalf("read[%d] expected nil value on miss, got %v", i, got)
					}
					continue
				}
				if got != r.Value || value != r.Value {
					t.Fatalf("read[%d] expected %v, got %v", i, r.Value, got)
				}
			}
		})
	}
}

func TestStoreWriteReadIdentity(t *testing.T) {
	store := NewStore()
	obj := NewObjectID()
	values := []any{"Hei", 42, -1, 3.5, true, []string{"a"}, map[string]int{"k": 1}}

	for i, value := range values {
		version := Version(i % 3)
		property := PropertyID(i)
		store.Write(obj, version, property, value)
		got, ok := store.Read(obj, version, property)
		if !ok {
			t.Fatalf("value %d: expected found", i)
		}
		switch want := value.(type) {
		case []string:
			if g := got.([]string); len(g) != 1 || g[0] != want[0] {
				t.Fatalf("value %d: expected %v, got %v", i, want, got)
			}
		case map[string]int:
			if g := got.(map[string]int); g["k"] != want["k"] {
				t.Fatalf("value %d: expected %v, got %v", i, want, got)
			}
		default:
			if got != value {
				t.Fatalf("value %d: expected %v, got %v", i, value, got)
			}
		}
	}
	if store.Len() != len(values) {
		t.Fatalf("expected %d entries, got %d", len(values), store.Len())
	}
}

func TestStoreReadMissDoesNotSeed(t *testing.T) {
	store := NewStore()
	obj := NewObjectID()

	if _, ok := store.Read(obj, 1, 0); ok {
		t.Fatalf("expected miss")
	}
	if store.Len() != 0 {
		t.Fatalf("expected read miss to leave store empty, got %d entries", store.Len())
	}
}

type linkedNode struct {
	Name string
	Next *linkedNode
}

func TestStoreKeepsWrittenReference(t *testing.T) {
	store := NewStore()
	obj := NewObjectID()
	node := &linkedNode{Name: "head"}
	mu := &sync.Mutex{}

	store.Write(obj, Base, 0, node)
	store.Write(obj, 1, 1, mu)

	got, ok := store.Read(obj, Base, 0)
	if !ok || got.(*linkedNode) != node {
		t.Fatalf("expected the written pointer back, got %p want %p", got, node)
	}
	viaFallback, _ := store.Read(obj, 2, 0)
	if viaFallback.(*linkedNode) != node {
		t.Fatalf("expected base fallback to return the written pointer")
	}
	if got, _ := store.Lookup(obj, 1, 1); got.(*sync.Mutex) != mu {
		t.Fatalf("expected the written mutex back")
	}

	tags := []string{"draft"}
	store.Write(obj, 1, 2, tags)
	tags[0] = "edited"
	if got, _ := store.Read(obj, 1, 2); got.([]string)[0] != "edited" {
		t.Fatalf("expected shared slice without isolation, got %v", got)
	}
}

func TestStoreWritesCyclicValues(t *testing.T) {
	for _, tc := range []struct {
		name  string
		store *Store
	}{
		{name: "shared", store: NewStore()},
		{name: "isolated", store: NewStore(IsolateValues())},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			obj := NewObjectID()
			node := &linkedNode{Name: "loop"}
			node.Next = node

			tc.store.Write(obj, Base, 0, node)
			got, ok := tc.store.Read(obj, 1, 0)
			if !ok {
				t.Fatalf("expected cyclic value found")
			}
			loop := got.(*linkedNode)
			if loop.Next != loop || loop.Name != "loop" {
				t.Fatalf("expected self loop preserved, got %+v", loop)
			}
			if tc.store.Isolated() == (loop == node) {
				t.Fatalf("isolated=%t but same pointer=%t", tc.store.Isolated(), loop == node)
			}
		})
	}
}

func TestIsolatedStoreDetachesCallerValue(t *testing.T) {
	store := NewStore(IsolateValues())
	obj := NewObjectID()
	tags := []string{"draft"}

	store.Write(obj, 1, 0, tags)
	tags[0] = "mutated"

	got, _ := store.Read(obj, 1, 0)
	if got.([]string)[0] != "draft" {
		t.Fatalf("expected stored overlay unaffected by caller mutation, got %v", got)
	}

	got.([]string)[0] = "mutated-again"
	again, _ := store.Read(obj, 1, 0)
	if again.([]string)[0] != "draft" {
		t.Fatalf("expected stored overlay unaffected by reader mutation, got %v", again)
	}
}

func TestStoreOverlayListsExactVersionOnly(t *testing.T) {
	store := NewStore()
	obj := NewObjectID()
	other := NewObjectID()

	store.Write(obj, Base, 0, "Hei")
	store.Write(obj, 1, 0, "Verden")
	store.Write(obj, 1, 1, 5)
	store.Write(obj, 2, 0, "other draft")
	store.Write(other, 1, 0, "other object")

	overlay := store.Overlay(obj, 1)
	if len(overlay) != 2 || overlay[0] != "Verden" || overlay[1] != 5 {
		t.Fatalf("unexpected overlay: %v", overlay)
	}
	if len(store.Overlay(obj, 3)) != 0 {
		t.Fatalf("expected empty overlay for unwritten version")
	}
	if _, ok := store.Lookup(obj, 3, 0); ok {
		t.Fatalf("expected Lookup to skip base fallback")
	}
}
