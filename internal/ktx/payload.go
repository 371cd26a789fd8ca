package ktx

import (
	"fmt"

	"github.com/DataDog/zstd"
)

// ValidatePayload runs the optional Payload stage: for
// SUPERCOMPRESSION_ZSTD files, each level's on-disk bytes are decompressed
// and checked against its declared uncompressedByteLength, the same
// zstd.NewCtx()/ctx.Decompress pattern pkg/manifest/package.go uses for
// package frame decompression. Files with any other scheme are left
// unchecked here. The Level Index Validator checks exact level sizes only
// for files without supercompression, so BASIS_LZ (whose payload shape this
// validator cannot size without a full Basis decoder) and ZLIB payload
// sizes are not checked against the format anywhere.
func ValidatePayload(ctx *Context, h *Header, levels []LevelIndexEntry) {
	if h.SupercompressionScheme != SUPERCOMPRESSION_ZSTD {
		return
	}

	zctx := zstd.NewCtx()
	for i, lvl := range levels {
		compressed, err := ctx.ReadAt(int(lvl.ByteOffset), int(lvl.ByteLength))
		if err != nil {
			return
		}
		out := make([]byte, lvl.UncompressedByteLength)
		n, err := zctx.Decompress(out, compressed)
		if err != nil {
			ctx.Error(6001, fmt.Sprintf("level %d: zstd decompress failed: %s", i, err))
			continue
		}
		if uint64(len(n)) != lvl.UncompressedByteLength {
			ctx.Error(4004, i, lvl.UncompressedByteLength, len(n))
		}
	}
}
