package chunk

import (
	"encoding/binary"
	"fmt"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/unastar-mc/unastar/server/block/cube"
)

// key suffixes distinguish the biome section from each subchunk record
// within one chunk's run of LevelDB keys. subChunkKey(i) reuses the
// world-section byte DiskEncode/decodeSubChunk already use for the
// version-9 rel_y_index, so a key and its subchunk's own on-wire index
// agree without a second translation table.
const biomeKeySuffix = 0x2d

func subChunkKey(worldSection byte) byte { return worldSection }

// Store is a LevelDB-backed persistence layer for Chunks, keyed by chunk
// position. It is the disk-residency side of C6: spec.md's wire codec
// has no disk counterpart of its own, so Store exists to give
// SerialisedData somewhere durable to live between server runs.
type Store struct {
	db *leveldb.DB
}

// OpenStore opens (creating if absent) a LevelDB database at dir.
func OpenStore(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{})
	if err != nil {
		return nil, fmt.Errorf("chunk: open store: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// chunkKeyPrefix encodes a chunk column position as an 8-byte big-endian
// (x, z) key prefix, so that every key belonging to one chunk sorts
// contiguously and an iterator can range over a single column cheaply.
func chunkKeyPrefix(x, z int32) []byte {
	prefix := make([]byte, 8)
	binary.BigEndian.PutUint32(prefix[0:4], uint32(x))
	binary.BigEndian.PutUint32(prefix[4:8], uint32(z))
	return prefix
}

// Save writes c's disk-encoded form under pos, one LevelDB key per
// subchunk record plus one for the biome section. Empty subchunks
// (Chunk invariant 3) are not written, and any key previously stored for
// one is deleted, so Load never returns a stale subchunk.
func (s *Store) Save(x, z int32, c *Chunk) error {
	data := c.DiskEncode()
	prefix := chunkKeyPrefix(x, z)
	batch := new(leveldb.Batch)
	batch.Put(append(prefix, biomeKeySuffix), data.Biomes)
	for i, sub := range data.SubChunks {
		key := append(append([]byte{}, prefix...), subChunkKey(c.worldSection(i)))
		if len(sub) == 0 {
			batch.Delete(key)
			continue
		}
		batch.Put(key, sub)
	}
	return s.db.Write(batch, nil)
}

// Load reads the chunk at column (x, z) back from the store. The bool
// return is false, with a nil error, when no chunk has ever been saved
// at that position.
func (s *Store) Load(x, z int32, r cube.Range) (*Chunk, bool, error) {
	prefix := chunkKeyPrefix(x, z)
	biomeKey := append(append([]byte{}, prefix...), biomeKeySuffix)
	biomes, err := s.db.Get(biomeKey, nil)
	if err == leveldb.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("chunk: load biomes: %w", err)
	}

	data := SerialisedData{Biomes: biomes, SubChunks: make([][]byte, r.Height()>>4)}
	for i := range data.SubChunks {
		section := byte(int8(i) + int8(r.Min()>>4))
		key := append(append([]byte{}, prefix...), subChunkKey(section))
		sub, err := s.db.Get(key, nil)
		if err == leveldb.ErrNotFound {
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("chunk: load subchunk %d: %w", i, err)
		}
		data.SubChunks[i] = sub
	}

	c, err := DiskDecode(data, r)
	if err != nil {
		return nil, false, fmt.Errorf("chunk: decode stored chunk: %w", err)
	}
	return c, true, nil
}
