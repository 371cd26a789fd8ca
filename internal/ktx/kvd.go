package ktx

import (
	"encoding/binary"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// maxKeyValueEntries is the canonical cap from invariant 12. The original
// source's MAX_KVPAIRS constant is 75; this expansion uses the spec's
// canonical 100 instead (see DESIGN.md's kvd.go entry).
const maxKeyValueEntries = 100

// utf8BOM is the 3-byte UTF-8 encoding of U+FEFF.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// KVEntry is one parsed key-value pair, with its key offset retained for
// diagnostics that need to reference the original region position.
type KVEntry struct {
	Key    string
	Value  []byte
	Offset uint64
}

// ParseKVD performs the linear scan of §4.7 step 1-4 over the raw KVD
// region bytes (regionStart is the region's absolute file offset, used
// only for diagnostic detail strings).
func ParseKVD(ctx *Context, region []byte, regionStart uint64) []KVEntry {
	var entries []KVEntry
	pos := 0
	for pos+4 <= len(region) {
		entryStart := pos
		size := binary.LittleEndian.Uint32(region[pos : pos+4])
		pos += 4

		available := len(region) - pos
		n := int(size)
		truncated := false
		if n > available {
			ctx.Error(7002, size, regionStart+uint64(entryStart), available)
			n = available
			truncated = true
		}
		raw := region[pos : pos+n]
		pos += n

		nul := indexByte(raw, 0)
		var key string
		var value []byte
		if nul < 0 {
			ctx.Error(7003)
			key = string(raw)
		} else {
			key = string(raw[:nul])
			value = raw[nul+1:]
		}

		if key == "" {
			ctx.Error(7006, regionStart+uint64(entryStart))
		} else if !utf8.ValidString(key) {
			ctx.Error(7004, regionStart+uint64(entryStart))
		} else if strings.HasPrefix(key, string(utf8BOM)) {
			ctx.Error(7005, regionStart+uint64(entryStart))
		}

		entries = append(entries, KVEntry{Key: key, Value: value, Offset: regionStart + uint64(entryStart)})

		if truncated {
			break
		}

		padded := align4(uint64(4 + n))
		padLen := int(padded) - (4 + n)
		if padLen > 0 {
			if pos+padLen > len(region) {
				break
			}
			for _, pb := range region[pos : pos+padLen] {
				if pb != 0 {
					ctx.Error(7007, regionStart+uint64(entryStart))
					break
				}
			}
			pos += padLen
		}
	}
	return entries
}

func indexByte(b []byte, target byte) int {
	for i, v := range b {
		if v == target {
			return i
		}
	}
	return -1
}

// ValidateKVD runs the post-scan checks (count cap, ordering, duplicates,
// reserved-prefix dispatch) described in §4.7, given the dimension/format
// context the per-key sub-validators need.
func ValidateKVD(ctx *Context, h *Header, entries []KVEntry) {
	if len(entries) > maxKeyValueEntries {
		ctx.Error(7001)
		entries = entries[:maxKeyValueEntries]
	}

	sorted := sort.SliceIsSorted(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	if !sorted {
		for i := 1; i < len(entries); i++ {
			if entries[i].Key < entries[i-1].Key {
				ctx.Error(7012, entries[i].Key, i, entries[i-1].Key, i-1)
				break
			}
		}
		// Recovery rule: sort a copy so subsequent per-key checks still run.
		sortedCopy := make([]KVEntry, len(entries))
		copy(sortedCopy, entries)
		sort.Slice(sortedCopy, func(i, j int) bool { return sortedCopy[i].Key < sortedCopy[j].Key })
		entries = sortedCopy
	}

	seen := map[string]bool{}
	var writerPresent, writerScParamsPresent, cubemapIncompletePresent bool
	for _, e := range entries {
		if seen[e.Key] {
			ctx.Error(7013, e.Key)
			continue
		}
		seen[e.Key] = true

		isReserved := strings.HasPrefix(e.Key, "KTX") || strings.HasPrefix(e.Key, "ktx")
		switch e.Key {
		case "KTXcubemapIncomplete":
			cubemapIncompletePresent = true
			validateCubemapIncomplete(ctx, h, e.Value)
		case "KTXorientation":
			validateOrientation(ctx, h, e.Value)
		case "KTXglFormat":
			validateGlFormat(ctx, h, e.Value)
		case "KTXdxgiFormat__":
			validateDxgiFormat(ctx, h, e.Value)
		case "KTXmetalPixelFormat":
			validateMetalPixelFormat(ctx, h, e.Value)
		case "KTXswizzle":
			validateSwizzle(ctx, h, e.Value)
		case "KTXwriter":
			writerPresent = true
			validateUTF8NulTerminated(ctx, 7100, e.Value)
		case "KTXwriterScParams":
			writerScParamsPresent = true
			validateUTF8NulTerminated(ctx, 7120, e.Value)
		case "KTXastcDecodeMode":
			validateAstcDecodeMode(ctx, e.Value)
		case "KTXanimData":
			validateAnimData(ctx, h, e.Value, cubemapIncompletePresent)
		default:
			if isReserved {
				ctx.Error(7014, e.Key)
			} else {
				ctx.Warning(7011, e.Key)
			}
		}
	}

	switch {
	case writerScParamsPresent && !writerPresent:
		ctx.Error(7124)
	case !writerPresent:
		ctx.Warning(7125)
	}
}

func validateCubemapIncomplete(ctx *Context, h *Header, v []byte) {
	if len(v) != 1 {
		ctx.Error(7020, len(v))
		return
	}
	b := v[0]
	if b&0xC0 != 0 {
		ctx.Error(7021)
		b &^= 0xC0 // recovery rule: mask reserved bits before further checks
	}
	n := popcount8(b)
	if n < 1 || n > 6 {
		ctx.Error(7022, n)
	}
	if h.EffectiveLayerCount()%uint32(maxInt(n, 1)) != 0 {
		ctx.Error(7023, h.EffectiveLayerCount(), n)
	}
	if h.FaceCount != 1 {
		ctx.Error(7024, h.FaceCount)
	}
	if h.PixelWidth != h.PixelHeight {
		ctx.Error(7025, h.PixelWidth, h.PixelHeight)
	}
	if h.PixelDepth != 0 {
		ctx.Error(7026, h.PixelDepth)
	}
}

func popcount8(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

var orientationPattern = regexp.MustCompile(`^[rl]([du]([oi])?)?\x00$`)

func validateOrientation(ctx *Context, h *Header, v []byte) {
	expectedLen := h.DimensionCount() + 1
	if len(v) != expectedLen {
		ctx.Error(7040, len(v), expectedLen)
		return
	}
	if v[len(v)-1] != 0 {
		ctx.Error(7041)
		return
	}
	if !orientationPattern.Match(v) {
		ctx.Error(7042, string(v))
	}
}

func validateGlFormat(ctx *Context, h *Header, v []byte) {
	if len(v) != 12 {
		ctx.Error(7060, len(v))
		return
	}
	if h.VkFormat != VK_FORMAT_UNDEFINED {
		ctx.Error(7061, FormatName(h.VkFormat))
	}
	glInternalFormat := binary.LittleEndian.Uint32(v[0:4])
	glFormat := binary.LittleEndian.Uint32(v[4:8])
	glType := binary.LittleEndian.Uint32(v[8:12])
	const glCompressedThreshold = 0x80000000 // placeholder boundary for "is a compressed internal format"
	if glInternalFormat >= glCompressedThreshold && (glFormat != 0 || glType != 0) {
		ctx.Error(7062, glInternalFormat, glFormat, glType)
	}
}

func validateDxgiFormat(ctx *Context, h *Header, v []byte) {
	if len(v) != 4 {
		ctx.Error(7070, len(v))
		return
	}
	if h.VkFormat != VK_FORMAT_UNDEFINED {
		ctx.Error(7071, FormatName(h.VkFormat))
	}
}

func validateMetalPixelFormat(ctx *Context, h *Header, v []byte) {
	if len(v) != 4 {
		ctx.Error(7080, len(v))
		return
	}
	if h.VkFormat != VK_FORMAT_UNDEFINED {
		ctx.Error(7081, FormatName(h.VkFormat))
	}
}

var swizzlePattern = regexp.MustCompile(`^[rgba01]{4}\x00$`)

func validateSwizzle(ctx *Context, h *Header, v []byte) {
	if len(v) != 5 {
		ctx.Error(7090, len(v))
		return
	}
	if !swizzlePattern.Match(v) {
		ctx.Error(7091, string(v))
		return
	}
	if IsFormatDepth(h.VkFormat) || IsFormatStencil(h.VkFormat) {
		ctx.Warning(7093)
	}
}

func validateUTF8NulTerminated(ctx *Context, errID int, v []byte) {
	if len(v) == 0 || v[len(v)-1] != 0 || !utf8.Valid(v[:len(v)-1]) {
		ctx.Error(errID)
	}
}

func validateAstcDecodeMode(ctx *Context, v []byte) {
	s := strings.TrimRight(string(v), "\x00")
	if s != "rgb9e5" && s != "unorm8" {
		ctx.Error(7130, s)
	}
}

func validateAnimData(ctx *Context, h *Header, v []byte, cubemapIncompletePresent bool) {
	if len(v) != 12 {
		ctx.Error(7140, len(v))
		return
	}
	if h.LayerCount == 0 {
		ctx.Error(7141)
	}
	if cubemapIncompletePresent {
		ctx.Error(7142)
	}
}
