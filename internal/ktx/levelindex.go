package ktx

import (
	"bytes"
	"encoding/binary"
)

// LevelIndexEntry is one level's region descriptor: byteOffset, byteLength
// (on disk, possibly supercompressed) and uncompressedByteLength.
type LevelIndexEntry struct {
	ByteOffset             uint64
	ByteLength             uint64
	UncompressedByteLength uint64
}

// levelRequiredAlignment is the minimum alignment a level's byteOffset
// must satisfy: 4 bytes, or the format's texel block size when that is
// larger (the lcm-like requirement §4.5 describes).
func levelRequiredAlignment(f VkFormat) uint64 {
	if bi, ok := blockInfo(f); ok {
		a := uint64(bi.bytesPerBlock)
		if a < 4 {
			return 4
		}
		return a
	}
	return 4
}

// blockLayout describes a block-compressed format's texel block shape and
// per-block byte size, enough to compute an exact expected level size for
// the "known sizes" case of §4.5. This table is necessarily partial (it
// covers the formats formats.go names); formats outside it fall back to
// the "unknown sizes" validation path, which never needs this table.
type blockLayout struct {
	blockW, blockH, blockD int
	bytesPerBlock          int
}

func blockInfo(f VkFormat) (blockLayout, bool) {
	switch {
	case f == VK_FORMAT_BC1_RGB_UNORM_BLOCK || f == VK_FORMAT_BC1_RGB_SRGB_BLOCK ||
		f == VK_FORMAT_BC1_RGBA_UNORM_BLOCK || f == VK_FORMAT_BC1_RGBA_SRGB_BLOCK ||
		f == VK_FORMAT_BC4_UNORM_BLOCK || f == VK_FORMAT_BC4_SNORM_BLOCK:
		return blockLayout{4, 4, 1, 8}, true
	case f == VK_FORMAT_BC2_UNORM_BLOCK || f == VK_FORMAT_BC2_SRGB_BLOCK ||
		f == VK_FORMAT_BC3_UNORM_BLOCK || f == VK_FORMAT_BC3_SRGB_BLOCK ||
		f == VK_FORMAT_BC5_UNORM_BLOCK || f == VK_FORMAT_BC5_SNORM_BLOCK ||
		f == VK_FORMAT_BC6H_UFLOAT_BLOCK || f == VK_FORMAT_BC6H_SFLOAT_BLOCK ||
		f == VK_FORMAT_BC7_UNORM_BLOCK || f == VK_FORMAT_BC7_SRGB_BLOCK:
		return blockLayout{4, 4, 1, 16}, true
	case f == VK_FORMAT_ETC2_R8G8B8_UNORM_BLOCK || f == VK_FORMAT_ETC2_R8G8B8_SRGB_BLOCK ||
		f == VK_FORMAT_ETC2_R8G8B8A1_UNORM_BLOCK || f == VK_FORMAT_ETC2_R8G8B8A1_SRGB_BLOCK ||
		f == VK_FORMAT_EAC_R11_UNORM_BLOCK || f == VK_FORMAT_EAC_R11_SNORM_BLOCK:
		return blockLayout{4, 4, 1, 8}, true
	case f == VK_FORMAT_ETC2_R8G8B8A8_UNORM_BLOCK || f == VK_FORMAT_ETC2_R8G8B8A8_SRGB_BLOCK ||
		f == VK_FORMAT_EAC_R11G11_UNORM_BLOCK || f == VK_FORMAT_EAC_R11G11_SNORM_BLOCK:
		return blockLayout{4, 4, 1, 16}, true
	case f >= VK_FORMAT_ASTC_4x4_UNORM_BLOCK && f <= VK_FORMAT_ASTC_12x12_SRGB_BLOCK:
		// ASTC is always 16 bytes/block; the footprint follows the
		// UNORM/SRGB pair the format belongs to.
		footprints := [...][2]int{{4, 4}, {5, 4}, {5, 5}, {6, 5}, {6, 6}, {8, 5}, {8, 6},
			{8, 8}, {10, 5}, {10, 6}, {10, 8}, {10, 10}, {12, 10}, {12, 12}}
		fp := footprints[(f-VK_FORMAT_ASTC_4x4_UNORM_BLOCK)/2]
		return blockLayout{fp[0], fp[1], 1, 16}, true
	}
	return blockLayout{}, false
}

// uncompressedTexelSize returns the byte size of one texel for a plain
// (non-block-compressed) format this table names, or 0 if unknown.
func uncompressedTexelSize(f VkFormat) int {
	switch f {
	case VK_FORMAT_R8_UNORM:
		return 1
	case VK_FORMAT_R8G8_UNORM:
		return 2
	case VK_FORMAT_R8G8B8A8_UNORM, VK_FORMAT_R8G8B8A8_SRGB:
		return 4
	case VK_FORMAT_R16G16B16A16_SFLOAT:
		return 8
	case VK_FORMAT_R32G32B32A32_SFLOAT:
		return 16
	}
	return 0
}

// expectedLevelSize computes the exact uncompressed byte size of a mip
// level for a known, non-supercompressed vkFormat; ok is false when this
// table doesn't carry enough information for an exact figure, in which
// case the caller must fall back to the "unknown sizes" validation path.
func expectedLevelSize(f VkFormat, w, h, d, layers, faces uint32, level int) (uint64, bool) {
	lw := levelDim(w, level)
	lh := levelDim(h, level)
	ld := levelDim(d, level)
	if ld == 0 {
		ld = 1 // no depth dimension (a 1D/2D texture): one slice per layer/face.
	}
	images := uint64(layers) * uint64(faces) * uint64(ld)

	if bi, ok := blockInfo(f); ok {
		blocksW := uint64(lw+uint32(bi.blockW)-1) / uint64(bi.blockW)
		blocksH := uint64(lh+uint32(bi.blockH)-1) / uint64(bi.blockH)
		return images * blocksW * blocksH * uint64(bi.bytesPerBlock), true
	}
	if ts := uncompressedTexelSize(f); ts > 0 {
		return images * uint64(lw) * uint64(lh) * uint64(ts), true
	}
	return 0, false
}

// levelDim halves a base dimension `level` times, with a floor of 1 for
// any dimension that started non-zero, and stays 0 if it started at 0
// (matching the "D stays 0 for 2D textures" convention).
func levelDim(base uint32, level int) uint32 {
	if base == 0 {
		return 0
	}
	v := base
	for i := 0; i < level; i++ {
		if v > 1 {
			v /= 2
		}
	}
	if v == 0 {
		v = 1
	}
	return v
}

// DecodeLevelIndex parses levelCount entries of 24 bytes each (3 x u64)
// starting at FullHeaderSize, following pkg/manifest's
// "binary.Read into a slice sized by a preceding count field" idiom.
func DecodeLevelIndex(ctx *Context, levelCount uint32) ([]LevelIndexEntry, error) {
	if err := ctx.Seek(FullHeaderSize); err != nil {
		return nil, err
	}
	raw, err := ctx.Read(24 * int(levelCount))
	if err != nil {
		return nil, err
	}
	entries := make([]LevelIndexEntry, levelCount)
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &entries); err != nil {
		return nil, ctx.Fatal(1002, err.Error())
	}
	return entries, nil
}

// ValidateLevelIndex runs the §4.5 Level Index Validator. precedingEnd is
// the byte offset immediately after the last populated region before the
// level payloads (KVD or SGD, whichever is last present); fileLen bounds
// containment checks.
func ValidateLevelIndex(ctx *Context, h *Header, levels []LevelIndexEntry, precedingEnd, fileLen uint64) {
	if len(levels) == 0 {
		return
	}

	align := levelRequiredAlignment(h.VkFormat)
	knownSizes := h.VkFormat != VK_FORMAT_UNDEFINED && h.SupercompressionScheme == SUPERCOMPRESSION_NONE

	for i, lvl := range levels {
		if lvl.ByteOffset%align != 0 {
			ctx.Error(4001, i, lvl.ByteOffset, align)
		}
		if lvl.ByteLength == 0 {
			ctx.Error(4002, i)
		}
		if lvl.ByteOffset+lvl.ByteLength > fileLen {
			ctx.Error(4010, i, lvl.ByteOffset, lvl.ByteOffset+lvl.ByteLength, fileLen)
		}

		if i > 0 {
			prev := levels[i-1]
			if lvl.ByteOffset > prev.ByteOffset {
				ctx.Error(4006, i, lvl.ByteOffset, i-1, prev.ByteOffset)
			}
			if lvl.ByteLength > prev.ByteLength {
				ctx.Error(4007, i, lvl.ByteLength, i-1, prev.ByteLength)
			}
			expectedGapEnd := align4By(lvl.ByteOffset+lvl.ByteLength, align)
			if expectedGapEnd != prev.ByteOffset {
				ctx.Error(4008, i, expectedGapEnd, i-1, prev.ByteOffset)
			}
		}

		if knownSizes {
			// Array index equals mip number: index 0 is mip 0
			// (base/full-res), stored last in the file at the
			// largest byte offset.
			mip := i
			if size, ok := expectedLevelSize(h.VkFormat, h.PixelWidth, h.PixelHeight, h.PixelDepth, h.EffectiveLayerCount(), effectiveFaceCount(h), mip); ok {
				if lvl.UncompressedByteLength != size {
					ctx.Error(4004, i, lvl.UncompressedByteLength, size)
				}
				if lvl.ByteLength != size {
					ctx.Error(4003, i, lvl.ByteLength, levelDim(h.PixelWidth, mip), levelDim(h.PixelHeight, mip), levelDim(h.PixelDepth, mip), FormatName(h.VkFormat), size)
				}
			}
		}
	}

	last := levels[len(levels)-1]
	expectedFirst := align4By(precedingEnd, align)
	if last.ByteOffset != expectedFirst {
		ctx.Error(4009, last.ByteOffset, precedingEnd, align)
	}
}

func align4By(x, align uint64) uint64 {
	if align == 0 {
		align = 4
	}
	return (x + align - 1) / align * align
}

func effectiveFaceCount(h *Header) uint32 {
	if h.FaceCount == 0 {
		return 1
	}
	return h.FaceCount
}
