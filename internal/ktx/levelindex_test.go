package ktx

import "testing"

func TestDecodeLevelIndexRoundTrip(t *testing.T) {
	buf := newFileBuilder().build()
	var reports []ValidationReport
	ctx := NewContext(buf, false, collectSink(&reports))
	entries, err := DecodeLevelIndex(ctx, 1)
	if err != nil {
		t.Fatalf("DecodeLevelIndex: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].ByteLength != 64 || entries[0].UncompressedByteLength != 64 {
		t.Errorf("unexpected level entry %+v", entries[0])
	}
}

func TestValidateLevelIndexCleanFile(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	var reports []ValidationReport
	ctx := NewContext(buf, false, collectSink(&reports))
	entries, err := DecodeLevelIndex(ctx, h.EffectiveLevelCount())
	if err != nil {
		t.Fatalf("DecodeLevelIndex: %v", err)
	}
	precedingEnd := h.DataFormatDescriptor.End()
	ValidateLevelIndex(ctx, h, entries, precedingEnd, uint64(len(buf)))
	for _, r := range reports {
		t.Errorf("unexpected report on a clean level index: %+v", r)
	}
}

func TestValidateLevelIndexMisalignedOffset(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	var reports []ValidationReport
	ctx := NewContext(buf, false, collectSink(&reports))
	entries, err := DecodeLevelIndex(ctx, h.EffectiveLevelCount())
	if err != nil {
		t.Fatalf("DecodeLevelIndex: %v", err)
	}
	entries[0].ByteOffset++
	ValidateLevelIndex(ctx, h, entries, h.DataFormatDescriptor.End(), uint64(len(buf)))
	if !hasIssue(reports, 4001) {
		t.Errorf("expected issue 4001 for a misaligned level offset, got %v", reports)
	}
}

func TestValidateLevelIndexZeroByteLength(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	var reports []ValidationReport
	ctx := NewContext(buf, false, collectSink(&reports))
	entries, _ := DecodeLevelIndex(ctx, h.EffectiveLevelCount())
	entries[0].ByteLength = 0
	ValidateLevelIndex(ctx, h, entries, h.DataFormatDescriptor.End(), uint64(len(buf)))
	if !hasIssue(reports, 4002) {
		t.Errorf("expected issue 4002 for a zero-length level, got %v", reports)
	}
}

func TestValidateLevelIndexExtendsPastEndOfFile(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	var reports []ValidationReport
	ctx := NewContext(buf, false, collectSink(&reports))
	entries, _ := DecodeLevelIndex(ctx, h.EffectiveLevelCount())
	entries[0].ByteLength = uint64(len(buf)) * 2
	ValidateLevelIndex(ctx, h, entries, h.DataFormatDescriptor.End(), uint64(len(buf)))
	if !hasIssue(reports, 4010) {
		t.Errorf("expected issue 4010 for a level region past the end of the file, got %v", reports)
	}
}

func TestValidateLevelIndexWrongSizeForKnownFormat(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	var reports []ValidationReport
	ctx := NewContext(buf, false, collectSink(&reports))
	entries, _ := DecodeLevelIndex(ctx, h.EffectiveLevelCount())
	entries[0].ByteLength = 999
	entries[0].UncompressedByteLength = 999
	ValidateLevelIndex(ctx, h, entries, h.DataFormatDescriptor.End(), uint64(len(buf)))
	if !hasIssue(reports, 4003) {
		t.Errorf("expected issue 4003 for a wrong level byteLength, got %v", reports)
	}
	if !hasIssue(reports, 4004) {
		t.Errorf("expected issue 4004 for a wrong level uncompressedByteLength, got %v", reports)
	}
}

// TestValidateLevelIndexMipMappingMultiLevel guards against inverting the
// array-index-to-mip mapping: array index 0 must be treated as mip 0
// (base/full-res, the largest level, stored last in the file at the
// largest byte offset), not the smallest mip.
func TestValidateLevelIndexMipMappingMultiLevel(t *testing.T) {
	h := &Header{
		VkFormat:               VK_FORMAT_R8G8B8A8_UNORM,
		PixelWidth:             8,
		PixelHeight:            8,
		FaceCount:              1,
		LevelCount:             2,
		SupercompressionScheme: SUPERCOMPRESSION_NONE,
	}
	// mip 0 (8x8 RGBA8 = 256 bytes) stored last, at the larger offset;
	// mip 1 (4x4 RGBA8 = 64 bytes) stored first, at precedingEnd.
	levels := []LevelIndexEntry{
		{ByteOffset: 264, ByteLength: 256, UncompressedByteLength: 256},
		{ByteOffset: 200, ByteLength: 64, UncompressedByteLength: 64},
	}
	var reports []ValidationReport
	ctx := NewContext(nil, false, collectSink(&reports))
	ValidateLevelIndex(ctx, h, levels, 200, 600)
	for _, r := range reports {
		t.Errorf("unexpected report validating a correctly-mip-ordered level index: %+v", r)
	}
}

// TestValidateLevelIndexMipMappingDetectsRealCorruption proves the fix
// still catches genuine per-level size corruption once mips are mapped
// correctly, rather than only becoming silent.
func TestValidateLevelIndexMipMappingDetectsRealCorruption(t *testing.T) {
	h := &Header{
		VkFormat:               VK_FORMAT_R8G8B8A8_UNORM,
		PixelWidth:             8,
		PixelHeight:            8,
		FaceCount:              1,
		LevelCount:             2,
		SupercompressionScheme: SUPERCOMPRESSION_NONE,
	}
	levels := []LevelIndexEntry{
		{ByteOffset: 264, ByteLength: 999, UncompressedByteLength: 999}, // mip 0 should be 256
		{ByteOffset: 200, ByteLength: 64, UncompressedByteLength: 64},
	}
	var reports []ValidationReport
	ctx := NewContext(nil, false, collectSink(&reports))
	ValidateLevelIndex(ctx, h, levels, 200, 600)
	if !hasIssue(reports, 4003) {
		t.Errorf("expected issue 4003 for a corrupted mip-0 byteLength, got %v", reports)
	}
	if !hasIssue(reports, 4004) {
		t.Errorf("expected issue 4004 for a corrupted mip-0 uncompressedByteLength, got %v", reports)
	}
}

func TestLevelDim(t *testing.T) {
	cases := []struct {
		base  uint32
		level int
		want  uint32
	}{
		{16, 0, 16},
		{16, 1, 8},
		{16, 4, 1},
		{16, 10, 1},
		{0, 3, 0},
	}
	for _, tc := range cases {
		if got := levelDim(tc.base, tc.level); got != tc.want {
			t.Errorf("levelDim(%d, %d) = %d, want %d", tc.base, tc.level, got, tc.want)
		}
	}
}

func TestMaxLevelCount(t *testing.T) {
	cases := []struct {
		w, h, d uint32
		want    uint32
	}{
		{4, 4, 0, 3},
		{1, 1, 0, 1},
		{16, 4, 0, 5},
		{0, 0, 0, 1},
	}
	for _, tc := range cases {
		if got := maxLevelCount(tc.w, tc.h, tc.d); got != tc.want {
			t.Errorf("maxLevelCount(%d,%d,%d) = %d, want %d", tc.w, tc.h, tc.d, got, tc.want)
		}
	}
}
