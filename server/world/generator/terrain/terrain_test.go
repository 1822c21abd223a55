package terrain

import (
	"testing"

	"github.com/unastar-mc/unastar/server/block"
)

func TestHeightDeterministic(t *testing.T) {
	g := NewVanillaGenerator(42)
	h1 := g.heightAt(100, -200)
	h2 := g.heightAt(100, -200)
	if h1 != h2 {
		t.Fatalf("height diverged: %d vs %d", h1, h2)
	}
}

func TestHeightClamped(t *testing.T) {
	g := NewVanillaGenerator(1)
	for x := int32(-500); x < 500; x += 37 {
		for z := int32(-500); z < 500; z += 53 {
			h := g.heightAt(x, z)
			if h < -60 || h > 300 {
				t.Fatalf("height out of range at (%d,%d): %d", x, z, h)
			}
		}
	}
}

func TestGenerateChunkDeterministic(t *testing.T) {
	g := NewVanillaGenerator(777)
	a := g.GenerateChunk(3, -2)
	b := g.GenerateChunk(3, -2)
	for y := a.Range().Min(); y <= a.Range().Max(); y++ {
		for x := 0; x < 16; x++ {
			for z := 0; z < 16; z++ {
				if a.Block(x, y, z) != b.Block(x, y, z) {
					t.Fatalf("block mismatch at (%d,%d,%d)", x, y, z)
				}
			}
		}
	}
}

func TestGenerateChunkHasBedrockFloor(t *testing.T) {
	g := NewVanillaGenerator(5)
	c := g.GenerateChunk(0, 0)
	foundBedrock := false
	bedrock := block.Bedrock()
	for y := c.Range().Min(); y < -55; y++ {
		if c.Block(8, y, 8) == bedrock {
			foundBedrock = true
		}
	}
	if !foundBedrock {
		t.Fatal("expected bedrock near the world floor")
	}
}

func TestFindSafeSpawnAboveSeaLevel(t *testing.T) {
	g := NewVanillaGenerator(9001)
	_, y, _ := g.FindSafeSpawn()
	if y <= SeaLevel {
		t.Fatalf("expected spawn above sea level, got y=%d", y)
	}
}
