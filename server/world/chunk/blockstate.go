package chunk

import (
	"bytes"

	"github.com/sandertv/gophertunnel/minecraft/nbt"
)

// StateToRuntimeID must hold a function to convert a name and its state
// properties to a runtime ID. It is assigned once at startup by whatever
// owns the block registry; this package never constructs runtime ids
// itself, it only moves them across the wire.
var StateToRuntimeID func(name string, properties map[string]any) (runtimeID uint32, found bool)

// RuntimeIDToState must hold the inverse of StateToRuntimeID, used when
// persisting a chunk to disk so that saved data survives runtime id
// reassignment across server versions.
var RuntimeIDToState func(runtimeID uint32) (name string, properties map[string]any, found bool)

// encodeNBT appends the NBT little-endian encoding of v to buf.
func encodeNBT(buf *bytes.Buffer, v any) {
	enc := nbt.NewEncoderWithEncoding(buf, nbt.LittleEndian)
	// Disk-form palette entries are always well-formed Go values built by
	// this package, so an encode error here can only mean a programming
	// mistake; silently dropping it would corrupt the chunk save silently
	// instead, which is worse.
	if err := enc.Encode(v); err != nil {
		panic(err)
	}
}

// decodeNBT reads one little-endian NBT value from buf into v.
func decodeNBT(buf *bytes.Buffer, v any) error {
	dec := nbt.NewDecoderWithEncoding(buf, nbt.LittleEndian)
	return dec.Decode(v)
}
