package ktx

import "encoding/binary"

// ValidateDFD runs the §4.6 DFD Validator. region is the raw DFD region
// bytes (totalSize word followed by the BDFD word stream); h is the
// already-validated header.
func ValidateDFD(ctx *Context, h *Header, region []byte) *BDFD {
	if len(region) < 4 {
		ctx.Error(5001, 0, 0)
		return nil
	}
	totalSize := binary.LittleEndian.Uint32(region[0:4])
	if uint64(totalSize) != h.DataFormatDescriptor.ByteLength {
		ctx.Error(5001, totalSize, h.DataFormatDescriptor.ByteLength)
	}

	blockBytes := region[4:]
	b, err := DecodeDFD(blockBytes)
	if err != nil {
		ctx.Error(6001, err.Error())
		return nil
	}

	if b.Transfer != 1 && b.Transfer != 2 {
		ctx.Error(5002, TransferName(b.Transfer))
	}
	if b.VendorID != 0 {
		ctx.Error(5003, b.VendorID, 0)
	}
	if b.DescriptorType != 0 {
		ctx.Error(5004, b.DescriptorType, 0)
	}
	if b.VersionNumber < 2 {
		ctx.Error(5005, b.VersionNumber, 2)
	}
	if len(b.Samples) == 0 {
		ctx.Error(5006)
		return b
	}

	switch {
	case h.SupercompressionScheme == SUPERCOMPRESSION_BASISLZ:
		validateBasisLZDFD(ctx, b)
	case h.VkFormat == VK_FORMAT_UNDEFINED:
		validateUndefinedDFD(ctx, b)
	case h.SupercompressionScheme == SUPERCOMPRESSION_ZSTD:
		validateSupercompressedKnownFormatDFD(ctx, h, b)
	default:
		validateKnownFormatDFD(ctx, h, b)
	}

	return b
}

// validateKnownFormatDFD handles a known vkFormat without supercompression.
// No reference DFD is built for h.VkFormat and nothing is compared byte by
// byte: a color model other than RGBSDA or unspecified is handed to
// analyzeDFDMismatch, and otherwise only the single-plane check runs.
func validateKnownFormatDFD(ctx *Context, h *Header, b *BDFD) {
	if b.Model != ModelRGBSDA && b.Model != ModelUnspecified {
		analyzeDFDMismatch(ctx, h, b)
		return
	}
	checkSinglePlane(ctx, b)
}

// validateSupercompressedKnownFormatDFD handles the ZSTD-supercompressed
// known-format case: bytesPlane fields must all be zero (unsized) and the
// single-plane check runs. Samples are not compared against any reference
// descriptor.
func validateSupercompressedKnownFormatDFD(ctx *Context, h *Header, b *BDFD) {
	for i, bp := range b.BytesPlane {
		if bp != 0 {
			ctx.Error(5008, i, bp)
		}
	}
	checkSinglePlane(ctx, b)
}

// validateUndefinedDFD handles vkFormat == UNDEFINED without BASIS_LZ:
// either UASTC, or a generic unsupercompressed UNDEFINED format this
// validator accepts without deeper inspection.
func validateUndefinedDFD(ctx *Context, b *BDFD) {
	if b.Model != ModelUASTC {
		return
	}
	if b.TexelBlockDimension[0] != 3 || b.TexelBlockDimension[1] != 3 {
		ctx.Error(5015, b.TexelBlockDimension[0]+1, b.TexelBlockDimension[1]+1)
	}
	if len(b.Samples) != 1 {
		ctx.Error(5010, len(b.Samples))
		return
	}
	s := b.Samples[0]
	if s.BitLength != 127 {
		ctx.Error(5011, s.BitLength)
	}
	name := ChannelName(ModelUASTC, s.ChannelID)
	switch name {
	case "UASTC_RGB", "UASTC_RGBA", "UASTC_RRR", "UASTC_RRRG":
	default:
		ctx.Error(5012, name)
	}
	if s.SampleLower != 0 || s.SampleUpper != 0xFFFFFFFF {
		ctx.Error(5019, s.SampleLower, s.SampleUpper)
	}
}

// validateBasisLZDFD handles the BASIS_LZ / ETC1S case.
func validateBasisLZDFD(ctx *Context, b *BDFD) {
	if b.Model != ModelETC1S {
		ctx.Error(5013, ModelName(b.Model))
		return
	}
	if len(b.Samples) < 1 || len(b.Samples) > 2 {
		ctx.Error(5014, len(b.Samples))
	}
	if b.TexelBlockDimension[0] != 3 || b.TexelBlockDimension[1] != 3 {
		ctx.Error(5015, b.TexelBlockDimension[0]+1, b.TexelBlockDimension[1]+1)
	}
	for _, s := range b.Samples {
		name := ChannelName(ModelETC1S, s.ChannelID)
		switch name {
		case "ETC1S_RGB", "ETC1S_RRR", "ETC1S_GGG", "ETC1S_AAA":
		default:
			ctx.Error(5016, name)
		}
		if s.BitOffset != 0 && s.BitOffset != 64 {
			ctx.Error(5017, s.BitOffset)
		}
		if s.BitLength != 63 {
			ctx.Error(5018, s.BitLength)
		}
		if s.SampleLower != 0 || s.SampleUpper != 0xFFFFFFFF {
			ctx.Error(5019, s.SampleLower, s.SampleUpper)
		}
	}
}

// checkSinglePlane rejects multi-plane descriptors (more than one non-zero
// bytesPlane field) for the known-format paths.
func checkSinglePlane(ctx *Context, b *BDFD) {
	planes := 0
	for _, bp := range b.BytesPlane {
		if bp != 0 {
			planes++
		}
	}
	if planes > 1 {
		ctx.Error(5020, planes)
	}
}

// analyzeDFDMismatch re-interprets a known-format DFD whose color model is
// not RGBSDA or unspecified to emit the most specific issue id available, per §4.6's
// "deeper analysis" step, rather than a single generic mismatch id.
func analyzeDFDMismatch(ctx *Context, h *Header, b *BDFD) {
	seen := map[uint32]bool{}
	mixed := false
	for _, s := range b.Samples {
		if len(seen) > 0 && !seen[s.ChannelID] {
			mixed = true
		}
		seen[s.ChannelID] = true
	}
	if mixed {
		ctx.Error(5021, "multiple", "channel types")
		return
	}

	offsets := map[uint32]int{}
	for _, s := range b.Samples {
		offsets[s.BitOffset]++
	}
	for offset, count := range offsets {
		if count > 1 {
			ctx.Error(5022, count)
			_ = offset
			return
		}
	}

	for _, s := range b.Samples {
		if s.Float() && !s.Signed() {
			ctx.Error(5024)
			return
		}
	}

	if b.Transfer == 2 {
		ctx.Error(5025, FormatName(h.VkFormat), TransferName(b.Transfer))
		return
	}

	ctx.Error(5007, FormatName(h.VkFormat))
}
