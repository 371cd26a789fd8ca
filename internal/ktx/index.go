package ktx

// align4 and align8 round up to the next multiple of 4/8, matching the
// alignment rules §3 attaches to the DFD/KVD (4-byte) and SGD (8-byte)
// regions.
func align4(x uint64) uint64 { return (x + 3) &^ 3 }
func align8(x uint64) uint64 { return (x + 7) &^ 7 }

// ValidateIndex runs the §4.4 Index Validator: offset/length/containment
// checks for each region, then inter-region continuity checks. fileLen is
// the total buffer length used for containment checks.
func ValidateIndex(ctx *Context, h *Header, fileLen uint64) {
	levelIndexEnd := uint64(FullHeaderSize) + 24*uint64(h.EffectiveLevelCount())

	dfd := h.DataFormatDescriptor
	if dfd.ByteOffset%4 != 0 {
		ctx.Error(3020, dfd.ByteOffset)
	}
	if dfd.ByteOffset < levelIndexEnd {
		ctx.Error(3021, dfd.ByteOffset, levelIndexEnd)
	}
	if dfd.ByteLength == 0 {
		ctx.Error(3022)
	}
	if dfd.End() > fileLen {
		ctx.Error(3023, dfd.ByteOffset, dfd.End(), fileLen)
	}
	expectedDFDOffset := align4(levelIndexEnd)
	if dfd.ByteOffset != expectedDFDOffset {
		ctx.Error(3032, dfd.ByteOffset, expectedDFDOffset)
	} else {
		checkPadding(ctx, levelIndexEnd, dfd.ByteOffset, "DFD")
	}

	kvd := h.KeyValueData
	hasKVD := kvd.ByteOffset != 0 || kvd.ByteLength != 0
	if hasKVD {
		if (kvd.ByteOffset == 0) != (kvd.ByteLength == 0) {
			ctx.Error(3026, kvd.ByteOffset, kvd.ByteLength)
		}
		if kvd.ByteOffset%4 != 0 {
			ctx.Error(3024, kvd.ByteOffset)
		}
		if kvd.End() > fileLen {
			ctx.Error(3025, kvd.ByteOffset, kvd.End(), fileLen)
		}
		expectedKVDOffset := align4(dfd.End())
		if kvd.ByteOffset != expectedKVDOffset {
			ctx.Error(3033, kvd.ByteOffset, expectedKVDOffset)
		} else {
			checkPadding(ctx, dfd.End(), kvd.ByteOffset, "KVD")
		}
	}

	sgd := h.SupercompressionGlobalData
	if sgd.ByteOffset%8 != 0 {
		ctx.Error(3027, sgd.ByteOffset)
	}
	needsSGD := HasGlobalData(h.SupercompressionScheme)
	switch {
	case sgd.ByteLength > 0 && !needsSGD:
		ctx.Error(3028, sgd.ByteLength, h.SupercompressionScheme)
	case sgd.ByteLength == 0 && needsSGD:
		ctx.Error(3029, h.SupercompressionScheme)
	}
	if sgd.End() > fileLen {
		ctx.Error(3030, sgd.ByteOffset, sgd.End(), fileLen)
	}

	precedingEnd := dfd.End()
	if hasKVD {
		precedingEnd = kvd.End()
	}
	expectedSGDOffset := align8(precedingEnd)
	if sgd.ByteLength > 0 && sgd.ByteOffset != expectedSGDOffset {
		ctx.Error(3034, sgd.ByteOffset, expectedSGDOffset)
	} else if sgd.ByteLength > 0 {
		checkPadding(ctx, precedingEnd, sgd.ByteOffset, "SGD")
	}
}

// checkPadding verifies the padding bytes between two contiguous regions
// are all zero (invariant 5). start/end are absolute offsets with
// start <= end; a read failure is reported as a fatal via ctx.ReadAt and
// simply skips the zero check (the fatal has already been delivered).
func checkPadding(ctx *Context, start, end uint64, region string) {
	if end <= start {
		return
	}
	n := int(end - start)
	bytes, err := ctx.ReadAt(int(start), n)
	if err != nil {
		return
	}
	for _, b := range bytes {
		if b != 0 {
			ctx.Error(3031, n, region, start)
			return
		}
	}
}
