package ktx

import (
	"encoding/binary"
	"testing"
)

func buildSGDRegion(imageCount int, imageFlags []uint32, alphaOffsets []uint32) []byte {
	region := make([]byte, sgdHeaderSize+imageCount*sgdImageDescriptorSize)
	// endpointsLen/selectorsLen/tablesLen/extendedLen all left at zero.
	pos := sgdHeaderSize
	for i := 0; i < imageCount; i++ {
		binary.LittleEndian.PutUint32(region[pos:pos+4], imageFlags[i])
		binary.LittleEndian.PutUint32(region[pos+12:pos+16], alphaOffsets[i])
		pos += sgdImageDescriptorSize
	}
	return region
}

func TestValidateSGDNotNeededButPresentIsError(t *testing.T) {
	h := &Header{SupercompressionScheme: SUPERCOMPRESSION_NONE}
	var reports []ValidationReport
	ctx := NewContext(nil, false, collectSink(&reports))
	ValidateSGD(ctx, h, []byte{1, 2, 3, 4}, nil)
	if !hasIssue(reports, 8002) {
		t.Errorf("expected issue 8002 for SGD bytes present without a scheme that needs them, got %v", reports)
	}
}

func TestValidateSGDNeededButMissing(t *testing.T) {
	h := &Header{SupercompressionScheme: SUPERCOMPRESSION_BASISLZ}
	var reports []ValidationReport
	ctx := NewContext(nil, false, collectSink(&reports))
	ValidateSGD(ctx, h, nil, nil)
	if !hasIssue(reports, 8001) {
		t.Errorf("expected issue 8001 for a missing SGD region under BASIS_LZ, got %v", reports)
	}
}

func TestValidateSGDCleanSingleImage(t *testing.T) {
	h := &Header{
		SupercompressionScheme: SUPERCOMPRESSION_BASISLZ,
		LayerCount:              0,
		FaceCount:               1,
		LevelCount:              1,
	}
	region := buildSGDRegion(1, []uint32{0}, []uint32{0})
	dfd := &BDFD{Samples: []Sample{{ChannelID: ChannelAlpha}}} // 1 sample, no alpha slice expected
	var reports []ValidationReport
	ctx := NewContext(nil, false, collectSink(&reports))
	ValidateSGD(ctx, h, region, dfd)
	for _, r := range reports {
		t.Errorf("unexpected report on a clean single-sample SGD: %+v", r)
	}
}

func TestValidateSGDLengthMismatch(t *testing.T) {
	h := &Header{SupercompressionScheme: SUPERCOMPRESSION_BASISLZ, FaceCount: 1, LevelCount: 1}
	region := buildSGDRegion(1, []uint32{0}, []uint32{0})
	region = append(region, 0, 0, 0, 0) // extra trailing bytes the length field doesn't account for
	dfd := &BDFD{Samples: []Sample{{ChannelID: ChannelAlpha}}}
	var reports []ValidationReport
	ctx := NewContext(nil, false, collectSink(&reports))
	ValidateSGD(ctx, h, region, dfd)
	if !hasIssue(reports, 8003) {
		t.Errorf("expected issue 8003 for an SGD region whose length disagrees with its header, got %v", reports)
	}
}

func TestValidateSGDReservedImageFlagBits(t *testing.T) {
	h := &Header{SupercompressionScheme: SUPERCOMPRESSION_BASISLZ, FaceCount: 1, LevelCount: 1}
	region := buildSGDRegion(1, []uint32{0xF2}, []uint32{0})
	dfd := &BDFD{Samples: []Sample{{ChannelID: ChannelAlpha}}}
	var reports []ValidationReport
	ctx := NewContext(nil, false, collectSink(&reports))
	ValidateSGD(ctx, h, region, dfd)
	if !hasIssue(reports, 8004) {
		t.Errorf("expected issue 8004 for reserved imageFlags bits set, got %v", reports)
	}
}

func TestValidateSGDAlphaSliceCrossCheck(t *testing.T) {
	h := &Header{SupercompressionScheme: SUPERCOMPRESSION_BASISLZ, FaceCount: 1, LevelCount: 1}
	// Two DFD samples (RGB+alpha) but no alpha slice offset recorded: violates the XOR.
	region := buildSGDRegion(1, []uint32{0}, []uint32{0})
	dfd := &BDFD{Samples: []Sample{{ChannelID: 0}, {ChannelID: 15}}}
	var reports []ValidationReport
	ctx := NewContext(nil, false, collectSink(&reports))
	ValidateSGD(ctx, h, region, dfd)
	if !hasIssue(reports, 8005) {
		t.Errorf("expected issue 8005 when a 2-sample DFD carries no alpha slice offset, got %v", reports)
	}
}

func TestComputeImageCountAcrossLevelsAndFaces(t *testing.T) {
	h := &Header{LayerCount: 2, FaceCount: 6, LevelCount: 3, PixelDepth: 0}
	got := computeImageCount(h)
	// layers(2) x faces(6) summed over 3 levels, depth clamped to 1 throughout.
	want := uint64(2 * 6 * 3)
	if got != want {
		t.Errorf("computeImageCount = %d, want %d", got, want)
	}
}
