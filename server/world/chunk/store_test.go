package chunk

import (
	"testing"

	"github.com/unastar-mc/unastar/server/block/cube"
)

func withBlockRegistry(t *testing.T) {
	names := map[uint32]string{airID: "minecraft:air", stoneID: "minecraft:stone", grassID: "minecraft:grass_block"}
	prev, prevInverse := StateToRuntimeID, RuntimeIDToState
	StateToRuntimeID = func(name string, _ map[string]any) (uint32, bool) {
		for id, n := range names {
			if n == name {
				return id, true
			}
		}
		return 0, false
	}
	RuntimeIDToState = func(id uint32) (string, map[string]any, bool) {
		n, ok := names[id]
		return n, nil, ok
	}
	t.Cleanup(func() { StateToRuntimeID, RuntimeIDToState = prev, prevInverse })
}

func TestStoreSaveLoadRoundTrip(t *testing.T) {
	withBlockRegistry(t)

	store, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	c := New(airID, cube.Overworld)
	c.FillSubChunkSolid(4, stoneID)
	c.SetBlock(3, 80, 9, grassID)
	c.RebuildHeightMap()

	if err := store.Save(1, -2, c); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, ok, err := store.Load(1, -2, cube.Overworld)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatalf("load: expected chunk to be found")
	}

	if got := loaded.Block(3, 80, 9); got != grassID {
		t.Fatalf("loaded block = %v, want %v", got, grassID)
	}
	if got := loaded.Block(0, 5, 0); got != stoneID {
		t.Fatalf("loaded solid fill = %v, want %v", got, stoneID)
	}
	if got := loaded.Block(0, 300, 0); got != airID {
		t.Fatalf("loaded untouched block = %v, want air", got)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	withBlockRegistry(t)

	store, err := OpenStore(t.TempDir())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	_, ok, err := store.Load(5, 5, cube.Overworld)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatalf("load: expected no chunk at an unsaved position")
	}
}
