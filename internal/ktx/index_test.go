package ktx

import "testing"

func validateIndexOnly(t *testing.T, buf []byte, h *Header) []ValidationReport {
	t.Helper()
	var reports []ValidationReport
	ctx := NewContext(buf, false, collectSink(&reports))
	ValidateIndex(ctx, h, uint64(len(buf)))
	return reports
}

func TestValidateIndexCleanFile(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	reports := validateIndexOnly(t, buf, h)
	for _, r := range reports {
		t.Errorf("unexpected report on a clean file's index: %+v", r)
	}
}

func TestValidateIndexDFDMisaligned(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	h.DataFormatDescriptor.ByteOffset++
	reports := validateIndexOnly(t, buf, h)
	if !hasIssue(reports, 3020) {
		t.Errorf("expected issue 3020 for a misaligned DFD offset, got %v", reports)
	}
}

func TestValidateIndexDFDTooSmall(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	h.DataFormatDescriptor.ByteOffset = uint64(HeaderSize) // before the level index ends
	reports := validateIndexOnly(t, buf, h)
	if !hasIssue(reports, 3021) {
		t.Errorf("expected issue 3021 for a DFD offset inside the level index, got %v", reports)
	}
}

func TestValidateIndexDFDZeroLength(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	h.DataFormatDescriptor.ByteLength = 0
	reports := validateIndexOnly(t, buf, h)
	if !hasIssue(reports, 3022) {
		t.Errorf("expected issue 3022 for a zero-length DFD, got %v", reports)
	}
}

func TestValidateIndexKVDOffsetLengthMismatch(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	h.KeyValueData.ByteOffset = 200
	h.KeyValueData.ByteLength = 0
	reports := validateIndexOnly(t, buf, h)
	if !hasIssue(reports, 3026) {
		t.Errorf("expected issue 3026 for a KVD offset set without a length, got %v", reports)
	}
}

func TestValidateIndexSGDPresentWithoutScheme(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	h.SupercompressionGlobalData.ByteOffset = 8
	h.SupercompressionGlobalData.ByteLength = 16
	reports := validateIndexOnly(t, buf, h)
	if !hasIssue(reports, 3028) {
		t.Errorf("expected issue 3028 for SGD present without a scheme that needs it, got %v", reports)
	}
}

func TestValidateIndexSGDMissingForBasisLZScheme(t *testing.T) {
	buf := newFileBuilder().build()
	_, h := validateHeaderOnly(t, buf)
	h.SupercompressionScheme = SUPERCOMPRESSION_BASISLZ
	reports := validateIndexOnly(t, buf, h)
	if !hasIssue(reports, 3029) {
		t.Errorf("expected issue 3029 for a scheme that requires SGD with none present, got %v", reports)
	}
}

func TestAlign4And8(t *testing.T) {
	cases := []struct {
		x        uint64
		want4    uint64
		want8    uint64
	}{
		{0, 0, 0},
		{1, 4, 8},
		{4, 4, 8},
		{5, 8, 8},
		{8, 8, 8},
		{9, 12, 16},
	}
	for _, tc := range cases {
		if got := align4(tc.x); got != tc.want4 {
			t.Errorf("align4(%d) = %d, want %d", tc.x, got, tc.want4)
		}
		if got := align8(tc.x); got != tc.want8 {
			t.Errorf("align8(%d) = %d, want %d", tc.x, got, tc.want8)
		}
	}
}
