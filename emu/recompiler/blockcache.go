package recompiler

/*
 * R3000 - Translated block cache
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

import "hash/crc32"

// BlockCache maps guest pc to translated block and owns every block
// registered with it.
type BlockCache struct {
	blocks map[uint32]*Block
}

func newBlockCache() *BlockCache {
	return &BlockCache{blocks: map[uint32]*Block{}}
}

// Find returns the block translated from pc, or nil.
func (c *BlockCache) Find(pc uint32) *Block {
	return c.blocks[pc]
}

// Register adds a block to the cache and stamps its source hash.
func (c *BlockCache) Register(b *Block) {
	b.Hash = CalculateBlockHash(b)
	c.blocks[b.PC] = b
}

// Unregister removes a block; the caller owns it again and is
// expected to free it.
func (c *BlockCache) Unregister(b *Block) {
	if c.blocks[b.PC] == b {
		delete(c.blocks, b.PC)
	}
}

// FreeAll releases every registered block.
func (c *BlockCache) FreeAll() {
	for pc, b := range c.blocks {
		delete(c.blocks, pc)
		freeBlock(b)
	}
}

// Len returns the number of cached blocks.
func (c *BlockCache) Len() int {
	return len(c.blocks)
}

// CalculateBlockHash checksums the source instruction words the block
// was translated from.
func CalculateBlockHash(b *Block) uint32 {
	return crc32.ChecksumIEEE(b.Code[:4*len(b.OpcodeList)])
}

// BlockIsOutdated reports whether the guest bytes covered by the block
// have drifted from the hash stamped at registration.
func BlockIsOutdated(b *Block) bool {
	return CalculateBlockHash(b) != b.Hash
}
