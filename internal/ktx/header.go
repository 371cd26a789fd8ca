package ktx

import (
	"encoding/binary"
	"math/bits"
)

// HeaderSize is the fixed byte size of a KTX2 header, identifier through
// the DFD and KVD region index entries (not including the
// supercompressionGlobalData index entry, which DecodeHeader's caller
// reads separately since the DFD/KVD continuity checks never need it).
const HeaderSize = 80

// FullHeaderSize is HeaderSize plus the supercompressionGlobalData index
// entry (byteOffset, byteLength): the complete fixed-size region that
// precedes the level index on disk.
const FullHeaderSize = HeaderSize + 16

// Identifier is the 12-byte magic sequence every KTX2 file must begin
// with.
var Identifier = [12]byte{0xAB, 0x4B, 0x54, 0x58, 0x20, 0x32, 0x30, 0xBB, 0x0D, 0x0A, 0x1A, 0x0A}

// IndexEntry is a {byteOffset, byteLength} pair as used for the DFD, KVD
// and SGD regions.
type IndexEntry struct {
	ByteOffset uint64
	ByteLength uint64
}

// End returns the first byte offset past this region.
func (e IndexEntry) End() uint64 { return e.ByteOffset + e.ByteLength }

// Header is the fixed 80-byte KTX2 header, decoded field by field the way
// pkg/archive.Header.DecodeFrom reads its fixed layout: manual
// binary.LittleEndian accessors rather than binary.Read, since the region
// index entries need individual alignment checks that a struct-level
// binary.Read would obscure.
type Header struct {
	Identifier              [12]byte
	VkFormat                VkFormat
	TypeSize                uint32
	PixelWidth              uint32
	PixelHeight             uint32
	PixelDepth              uint32
	LayerCount              uint32
	FaceCount               uint32
	LevelCount              uint32
	SupercompressionScheme  SupercompressionScheme
	DataFormatDescriptor    IndexEntry
	KeyValueData            IndexEntry
	SupercompressionGlobalData IndexEntry
}

// DecodeHeader decodes the first HeaderSize bytes of buf into a Header.
// buf must be at least HeaderSize bytes; callers are expected to have
// already bounds-checked via Context.Read.
func DecodeHeader(buf []byte) *Header {
	h := &Header{}
	copy(h.Identifier[:], buf[0:12])
	h.VkFormat = VkFormat(binary.LittleEndian.Uint32(buf[12:16]))
	h.TypeSize = binary.LittleEndian.Uint32(buf[16:20])
	h.PixelWidth = binary.LittleEndian.Uint32(buf[20:24])
	h.PixelHeight = binary.LittleEndian.Uint32(buf[24:28])
	h.PixelDepth = binary.LittleEndian.Uint32(buf[28:32])
	h.LayerCount = binary.LittleEndian.Uint32(buf[32:36])
	h.FaceCount = binary.LittleEndian.Uint32(buf[36:40])
	h.LevelCount = binary.LittleEndian.Uint32(buf[40:44])
	h.SupercompressionScheme = SupercompressionScheme(binary.LittleEndian.Uint32(buf[44:48]))
	h.DataFormatDescriptor = IndexEntry{
		ByteOffset: binary.LittleEndian.Uint64(buf[48:56]),
		ByteLength: binary.LittleEndian.Uint64(buf[56:64]),
	}
	h.KeyValueData = IndexEntry{
		ByteOffset: binary.LittleEndian.Uint64(buf[64:72]),
		ByteLength: binary.LittleEndian.Uint64(buf[72:80]),
	}
	// supercompressionGlobalData is decoded by the caller once it knows
	// there are at least 96 bytes available (it follows byte 80 logically
	// as part of the fixed header region in the wire format used here).
	return h
}

// EffectiveLayerCount returns max(LayerCount, 1) per invariant 6.
func (h *Header) EffectiveLayerCount() uint32 {
	if h.LayerCount == 0 {
		return 1
	}
	return h.LayerCount
}

// EffectiveLevelCount returns max(LevelCount, 1); the on-disk level index
// always has at least one entry even when LevelCount is stored as 0.
func (h *Header) EffectiveLevelCount() uint32 {
	if h.LevelCount == 0 {
		return 1
	}
	return h.LevelCount
}

// DimensionCount derives the dimensionality of the texture from which of
// height/depth/layerCount are non-zero, per §4.3.
func (h *Header) DimensionCount() int {
	n := 1
	if h.PixelHeight > 0 {
		n = 2
	}
	if h.PixelDepth > 0 {
		n = 3
	}
	if h.LayerCount > 0 {
		n++
	}
	if n > 4 {
		n = 4
	}
	return n
}

// maxLevelCount returns 1 + floor(log2(max(W,H,D))), the ceiling on
// LevelCount from invariant 9.
func maxLevelCount(w, h, d uint32) uint32 {
	m := w
	if h > m {
		m = h
	}
	if d > m {
		m = d
	}
	if m == 0 {
		return 1
	}
	return uint32(bits.Len32(m))
}

// ValidateHeader runs the §4.3 Header Validator rules in order, reading
// the identifier and fixed header fields from the context. It returns the
// decoded header, with the SGD index entry (decoded separately since it
// lives past the part of the header the DFD/KVD continuity checks need
// first) stored in its SupercompressionGlobalData field, or a *FatalError
// if the identifier is wrong or the buffer is too short.
func ValidateHeader(ctx *Context, sink Sink, warnAsErrors bool) (*Header, error) {
	raw, err := ctx.Read(FullHeaderSize) // fixed header + SGD index entry
	if err != nil {
		return nil, err
	}

	h := DecodeHeader(raw)
	h.SupercompressionGlobalData = IndexEntry{
		ByteOffset: binary.LittleEndian.Uint64(raw[80:88]),
		ByteLength: binary.LittleEndian.Uint64(raw[88:96]),
	}

	if h.Identifier != Identifier {
		return h, ctx.Fatal(2001)
	}

	switch {
	case IsProhibitedFormat(h.VkFormat):
		ctx.Error(3001, FormatName(h.VkFormat))
	case h.VkFormat == VK_FORMAT_UNDEFINED:
		// UNDEFINED is always valid; it signals a supercompressed or
		// custom-block format whose DFD carries the real layout.
	case !IsValidFormat(h.VkFormat):
		ctx.Error(3003, uint32(h.VkFormat))
	case !hasKnownName(h.VkFormat):
		ctx.Warning(3002, uint32(h.VkFormat))
	}

	if h.SupercompressionScheme == SUPERCOMPRESSION_BASISLZ && h.VkFormat != VK_FORMAT_UNDEFINED {
		ctx.Error(3004, FormatName(h.VkFormat))
	}

	blockCompressed := IsFormatBlockCompressed(h.VkFormat)
	supercompressed := h.SupercompressionScheme != SUPERCOMPRESSION_NONE
	if (blockCompressed || supercompressed) && h.TypeSize != 1 {
		ctx.Error(3005, h.TypeSize)
	}

	if h.PixelWidth == 0 {
		ctx.Error(3007)
	}

	if h.FaceCount != 1 && h.FaceCount != 6 {
		ctx.Error(3013, h.FaceCount)
	}
	if h.FaceCount == 6 {
		if h.PixelWidth != h.PixelHeight {
			ctx.Error(3008, h.PixelWidth, h.PixelHeight)
		}
		if h.PixelDepth != 0 {
			ctx.Error(3009, h.PixelDepth)
		}
	}

	if blockCompressed && h.PixelHeight == 0 {
		ctx.Error(3010, FormatName(h.VkFormat))
	}
	if IsFormat3DBlockCompressed(h.VkFormat) && h.PixelDepth == 0 {
		ctx.Error(3012, FormatName(h.VkFormat))
	}
	if (IsFormatDepth(h.VkFormat) || IsFormatStencil(h.VkFormat)) && h.PixelDepth != 0 {
		ctx.Error(3011, h.PixelDepth, FormatName(h.VkFormat))
	}

	if h.PixelDepth != 0 && h.LayerCount != 0 {
		ctx.Warning(3014, h.PixelDepth, h.LayerCount)
	}

	maxLevels := maxLevelCount(h.PixelWidth, h.PixelHeight, h.PixelDepth)
	if h.LevelCount > maxLevels {
		ctx.Error(3016, h.LevelCount, h.PixelWidth, h.PixelHeight, h.PixelDepth, maxLevels)
	}
	if h.LevelCount == 0 && (blockCompressed || (supercompressed && blockCompressed)) {
		ctx.Error(3017)
	}

	switch {
	case IsKnownSupercompressionScheme(h.SupercompressionScheme):
	case IsReservedVendorScheme(h.SupercompressionScheme):
		ctx.Warning(3019, uint32(h.SupercompressionScheme))
	default:
		ctx.Error(3018, uint32(h.SupercompressionScheme))
	}

	return h, nil
}

func hasKnownName(f VkFormat) bool {
	_, ok := formatNames[f]
	return ok
}
