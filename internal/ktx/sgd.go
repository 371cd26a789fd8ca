package ktx

import "encoding/binary"

// sgdHeaderSize is the fixed-size ETC1S global-data header: endpoint,
// selector and table byte lengths plus extendedByteLength, 4 x u32.
const sgdHeaderSize = 16

// sgdImageDescriptorSize is the size of one per-image descriptor: flags,
// rgb slice offset/length, alpha slice offset/length, 5 x u32.
const sgdImageDescriptorSize = 20

// etc1sImageFlagMask bounds the valid bits of a per-image imageFlags
// value; bit 0 signals a P-frame relative to the previous image.
const etc1sImageFlagMask = 0x1

// ValidateSGD runs the §4.8 SGD Validator. region is the raw SGD bytes
// (empty when the header's SGD byteLength is 0); dfd is the
// decoded DFD, used for the alpha-slice sample-count cross-check.
func ValidateSGD(ctx *Context, h *Header, region []byte, dfd *BDFD) {
	needsSGD := HasGlobalData(h.SupercompressionScheme)
	if needsSGD && len(region) == 0 {
		ctx.Error(8001)
		return
	}
	if !needsSGD {
		if len(region) > 0 {
			ctx.Error(8002, len(region), h.SupercompressionScheme)
		}
		return
	}
	if len(region) < sgdHeaderSize {
		ctx.Error(6001, "SGD region shorter than its fixed header")
		return
	}

	endpointsLen := binary.LittleEndian.Uint32(region[0:4])
	selectorsLen := binary.LittleEndian.Uint32(region[4:8])
	tablesLen := binary.LittleEndian.Uint32(region[8:12])
	extendedLen := binary.LittleEndian.Uint32(region[12:16])

	imageCount := computeImageCount(h)
	expected := uint64(sgdHeaderSize) + uint64(imageCount)*sgdImageDescriptorSize +
		uint64(endpointsLen) + uint64(selectorsLen) + uint64(tablesLen) + uint64(extendedLen)
	if uint64(len(region)) != expected {
		ctx.Error(8003, len(region), expected)
	}

	numSamples := 0
	if dfd != nil {
		numSamples = len(dfd.Samples)
	}

	pos := sgdHeaderSize
	for i := 0; i < int(imageCount) && pos+sgdImageDescriptorSize <= len(region); i++ {
		desc := region[pos : pos+sgdImageDescriptorSize]
		imageFlags := binary.LittleEndian.Uint32(desc[0:4])
		alphaSliceByteOffset := binary.LittleEndian.Uint32(desc[12:16])
		if imageFlags&^uint32(etc1sImageFlagMask) != 0 {
			ctx.Error(8004, i, imageFlags, etc1sImageFlagMask)
		}
		hasAlphaOffset := alphaSliceByteOffset != 0
		hasTwoSamples := numSamples == 2
		if hasAlphaOffset == hasTwoSamples {
			// XOR cross-check from §4.8: exactly one of (offset zero, two
			// samples) holds, i.e. the offset is non-zero iff there are
			// two samples.
		} else {
			ctx.Error(8005, i, alphaSliceByteOffset, numSamples)
		}
		pos += sgdImageDescriptorSize
	}
}

// computeImageCount sums layerCount x faceCount x max(depth>>level,1)
// across every mip level, per §4.8.
func computeImageCount(h *Header) uint64 {
	layers := uint64(h.EffectiveLayerCount())
	faces := uint64(effectiveFaceCount(h))
	levels := h.EffectiveLevelCount()
	var total uint64
	depth := h.PixelDepth
	if depth == 0 {
		depth = 1
	}
	for level := uint32(0); level < levels; level++ {
		d := depth >> level
		if d == 0 {
			d = 1
		}
		total += layers * faces * uint64(d)
	}
	return total
}
