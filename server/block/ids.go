// Package block names the runtime block identifiers terrain synthesis and
// the surface rule evaluator place into chunks. Resolution goes through
// chunk.StateToRuntimeID so the concrete numeric ids always match whatever
// block-states table the running server version was built against; a
// process that never wires that hook (e.g. a unit test) gets a stable
// synthetic id per name instead of a panic. Resolution is lazy and
// memoized per name, so it is safe to read these before
// chunk.StateToRuntimeID is wired during server startup.
package block

import (
	"sync"

	"github.com/unastar-mc/unastar/server/world/chunk"
)

var (
	mu        sync.Mutex
	resolved  = map[string]uint32{}
	synthetic = map[string]uint32{}
	nextID    uint32
)

// RuntimeID resolves name (a vanilla block identifier such as
// "minecraft:stone") to its runtime id, falling back to a process-stable
// synthetic id when no block-states table has been wired.
func RuntimeID(name string) uint32 {
	mu.Lock()
	defer mu.Unlock()
	if id, ok := resolved[name]; ok {
		return id
	}
	if chunk.StateToRuntimeID != nil {
		if id, ok := chunk.StateToRuntimeID(name, nil); ok {
			resolved[name] = id
			return id
		}
	}
	if id, ok := synthetic[name]; ok {
		return id
	}
	id := nextID
	nextID++
	synthetic[name] = id
	return id
}

func id(name string) uint32 {
	return RuntimeID(name)
}

// Named accessors. Kept as functions (not package-level vars) because a
// var initializer would resolve at package-load time, before a server has
// wired chunk.StateToRuntimeID from its block-states table.
func Air() uint32           { return id("minecraft:air") }
func Stone() uint32         { return id("minecraft:stone") }
func Dirt() uint32          { return id("minecraft:dirt") }
func CoarseDirt() uint32    { return id("minecraft:coarse_dirt") }
func GrassBlock() uint32    { return id("minecraft:grass_block") }
func Sand() uint32          { return id("minecraft:sand") }
func Sandstone() uint32     { return id("minecraft:sandstone") }
func Gravel() uint32        { return id("minecraft:gravel") }
func Water() uint32         { return id("minecraft:water") }
func Lava() uint32          { return id("minecraft:lava") }
func Bedrock() uint32       { return id("minecraft:bedrock") }
func SnowBlock() uint32     { return id("minecraft:snow") }
func Clay() uint32          { return id("minecraft:clay") }
func Granite() uint32       { return id("minecraft:granite") }
func Diorite() uint32       { return id("minecraft:diorite") }
func Andesite() uint32      { return id("minecraft:andesite") }
func Tuff() uint32          { return id("minecraft:tuff") }
func Deepslate() uint32     { return id("minecraft:deepslate") }
func OreCoal() uint32       { return id("minecraft:coal_ore") }
func OreIron() uint32       { return id("minecraft:iron_ore") }
func OreGold() uint32       { return id("minecraft:gold_ore") }
func OreCopper() uint32     { return id("minecraft:copper_ore") }
func OreDiamond() uint32    { return id("minecraft:diamond_ore") }
func OreEmerald() uint32    { return id("minecraft:emerald_ore") }
func OreLapis() uint32      { return id("minecraft:lapis_ore") }
func OreRedstone() uint32   { return id("minecraft:redstone_ore") }
func DeepslateOreCoal() uint32     { return id("minecraft:deepslate_coal_ore") }
func DeepslateOreIron() uint32     { return id("minecraft:deepslate_iron_ore") }
func DeepslateOreGold() uint32     { return id("minecraft:deepslate_gold_ore") }
func DeepslateOreCopper() uint32   { return id("minecraft:deepslate_copper_ore") }
func DeepslateOreDiamond() uint32  { return id("minecraft:deepslate_diamond_ore") }
func DeepslateOreEmerald() uint32  { return id("minecraft:deepslate_emerald_ore") }
func DeepslateOreLapis() uint32    { return id("minecraft:deepslate_lapis_ore") }
func DeepslateOreRedstone() uint32 { return id("minecraft:deepslate_redstone_ore") }
func OakLog() uint32        { return id("minecraft:oak_log") }
func OakLeaves() uint32     { return id("minecraft:oak_leaves") }
func SpruceLog() uint32     { return id("minecraft:spruce_log") }
func SpruceLeaves() uint32  { return id("minecraft:spruce_leaves") }
func BirchLog() uint32      { return id("minecraft:birch_log") }
func BirchLeaves() uint32   { return id("minecraft:birch_leaves") }
func JungleLog() uint32     { return id("minecraft:jungle_log") }
func JungleLeaves() uint32  { return id("minecraft:jungle_leaves") }
func DarkOakLog() uint32    { return id("minecraft:dark_oak_log") }
func DarkOakLeaves() uint32 { return id("minecraft:dark_oak_leaves") }
func ShortGrass() uint32    { return id("minecraft:short_grass") }
func Poppy() uint32         { return id("minecraft:poppy") }
func Dandelion() uint32     { return id("minecraft:dandelion") }
func Cornflower() uint32    { return id("minecraft:cornflower") }
func OxeyeDaisy() uint32    { return id("minecraft:oxeye_daisy") }
func AzureBluet() uint32    { return id("minecraft:azure_bluet") }
func LilyOfValley() uint32  { return id("minecraft:lily_of_the_valley") }
func RedMushroom() uint32   { return id("minecraft:red_mushroom") }
func BrownMushroom() uint32 { return id("minecraft:brown_mushroom") }
func LilyPad() uint32       { return id("minecraft:lily_pad") }
func SugarCane() uint32     { return id("minecraft:sugar_cane") }
func Cactus() uint32        { return id("minecraft:cactus") }
func Cobblestone() uint32   { return id("minecraft:cobblestone") }
