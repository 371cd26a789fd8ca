package ktx

import "encoding/binary"

// fileBuilder assembles a minimal, internally-consistent KTX2 byte buffer
// for tests, mirroring the teacher's table-driven construction style
// (pkg/archive/archive_test.go builds structs field by field rather than
// reading literal binary fixtures from disk).
type fileBuilder struct {
	vkFormat     VkFormat
	typeSize     uint32
	width        uint32
	height       uint32
	depth        uint32
	layerCount   uint32
	faceCount    uint32
	levelCount   uint32
	scheme       SupercompressionScheme
	dfdSamples   []Sample
	dfdModel     uint32
	kvdEntries   map[string][]byte
}

func newFileBuilder() *fileBuilder {
	return &fileBuilder{
		vkFormat:   VK_FORMAT_R8G8B8A8_UNORM,
		typeSize:   4,
		width:      4,
		height:     4,
		faceCount:  1,
		levelCount: 1,
		dfdModel:   ModelRGBSDA,
		kvdEntries: map[string][]byte{},
	}
}

// buildDFD returns a totalSize-prefixed DFD region: 24-byte BDFD header
// plus one 16-byte sample per entry in fb.dfdSamples (or a default single
// alpha sample), packed word-for-word the inverse of DecodeDFD.
func (fb *fileBuilder) buildDFD() []byte {
	samples := fb.dfdSamples
	if samples == nil {
		samples = []Sample{{BitOffset: 0, BitLength: 31, ChannelID: ChannelAlpha, SampleLower: 0, SampleUpper: 0xFFFFFFFF}}
	}
	blockSize := uint32(24 + 16*len(samples))

	words := make([]uint32, 6+4*len(samples))
	words[0] = 0 // vendorId=0, descriptorType=0
	words[1] = 2 | blockSize<<16 // versionNumber=2 (1.3)
	words[2] = fb.dfdModel | 1<<8 | 1<<16 // model, primaries=BT709, transfer=LINEAR
	words[3] = 3 | 3<<8 // texelBlockDimension 4x4 (encoded n-1)
	words[4] = 4 // bytesPlane0 = 4 (uncompressed RGBA8)
	words[5] = 0

	for i, s := range samples {
		base := 6 + 4*i
		channelType := (s.ChannelID | s.Qualifiers) & 0xFF
		words[base+0] = (s.BitOffset & 0xFFFF) | (s.BitLength&0xFF)<<16 | channelType<<24
		words[base+1] = s.SamplePosition[0] | s.SamplePosition[1]<<8 | s.SamplePosition[2]<<16 | s.SamplePosition[3]<<24
		words[base+2] = s.SampleLower
		words[base+3] = s.SampleUpper
	}

	buf := make([]byte, 4+4*len(words))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(buf)))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[4+4*i:8+4*i], w)
	}
	return buf
}

func (fb *fileBuilder) buildKVD() []byte {
	if len(fb.kvdEntries) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fb.kvdEntries))
	for k := range fb.kvdEntries {
		keys = append(keys, k)
	}
	// Sort for a well-formed file; individual tests that want
	// out-of-order keys build the KVD region by hand instead.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}

	var out []byte
	for _, k := range keys {
		entry := append([]byte(k), 0)
		entry = append(entry, fb.kvdEntries[k]...)
		sized := make([]byte, 4+len(entry))
		binary.LittleEndian.PutUint32(sized[0:4], uint32(len(entry)))
		copy(sized[4:], entry)
		sized = padEntryTo4(sized)
		out = append(out, sized...)
	}
	return out
}

// padEntryTo4 pads a {size,bytes} entry so the size-field-plus-bytes
// total is a multiple of 4, without altering the declared size.
func padEntryTo4(entry []byte) []byte {
	for len(entry)%4 != 0 {
		entry = append(entry, 0)
	}
	return entry
}

// build assembles the full file: header, level index, DFD, KVD, one
// level payload placed immediately after the last populated region.
func (fb *fileBuilder) build() []byte {
	dfd := fb.buildDFD()
	kvd := fb.buildKVD()

	levelIndexEnd := uint64(FullHeaderSize) + 24*uint64(fb.levelCount)
	dfdOffset := align4(levelIndexEnd)
	dfdEnd := dfdOffset + uint64(len(dfd))
	var kvdOffset, kvdEnd uint64
	if len(kvd) > 0 {
		kvdOffset = align4(dfdEnd)
		kvdEnd = kvdOffset + uint64(len(kvd))
	} else {
		kvdEnd = dfdEnd
	}
	levelOffset := align4By(kvdEnd, levelRequiredAlignment(fb.vkFormat))
	levelPayload := make([]byte, 64) // 4x4 RGBA8 = 64 bytes, matches expectedLevelSize
	levelEnd := levelOffset + uint64(len(levelPayload))

	total := make([]byte, levelEnd)

	h := &Header{
		VkFormat:               fb.vkFormat,
		TypeSize:               fb.typeSize,
		PixelWidth:             fb.width,
		PixelHeight:            fb.height,
		PixelDepth:             fb.depth,
		LayerCount:             fb.layerCount,
		FaceCount:              fb.faceCount,
		LevelCount:             fb.levelCount,
		SupercompressionScheme: fb.scheme,
		DataFormatDescriptor:   IndexEntry{ByteOffset: dfdOffset, ByteLength: uint64(len(dfd))},
	}
	if len(kvd) > 0 {
		h.KeyValueData = IndexEntry{ByteOffset: kvdOffset, ByteLength: uint64(len(kvd))}
	}
	copy(total[0:12], Identifier[:])
	binary.LittleEndian.PutUint32(total[12:16], uint32(h.VkFormat))
	binary.LittleEndian.PutUint32(total[16:20], h.TypeSize)
	binary.LittleEndian.PutUint32(total[20:24], h.PixelWidth)
	binary.LittleEndian.PutUint32(total[24:28], h.PixelHeight)
	binary.LittleEndian.PutUint32(total[28:32], h.PixelDepth)
	binary.LittleEndian.PutUint32(total[32:36], h.LayerCount)
	binary.LittleEndian.PutUint32(total[36:40], h.FaceCount)
	binary.LittleEndian.PutUint32(total[40:44], h.LevelCount)
	binary.LittleEndian.PutUint32(total[44:48], uint32(h.SupercompressionScheme))
	binary.LittleEndian.PutUint64(total[48:56], h.DataFormatDescriptor.ByteOffset)
	binary.LittleEndian.PutUint64(total[56:64], h.DataFormatDescriptor.ByteLength)
	binary.LittleEndian.PutUint64(total[64:72], h.KeyValueData.ByteOffset)
	binary.LittleEndian.PutUint64(total[72:80], h.KeyValueData.ByteLength)
	// SGD index entry left zero: this builder never populates SGD.

	binary.LittleEndian.PutUint64(total[FullHeaderSize:FullHeaderSize+8], levelOffset)
	binary.LittleEndian.PutUint64(total[FullHeaderSize+8:FullHeaderSize+16], uint64(len(levelPayload)))
	binary.LittleEndian.PutUint64(total[FullHeaderSize+16:FullHeaderSize+24], uint64(len(levelPayload)))

	copy(total[dfdOffset:dfdEnd], dfd)
	if len(kvd) > 0 {
		copy(total[kvdOffset:kvdEnd], kvd)
	}
	copy(total[levelOffset:levelEnd], levelPayload)

	return total
}

// collectSink returns a Sink that appends every report to the returned
// slice pointer's target.
func collectSink(reports *[]ValidationReport) Sink {
	return func(r ValidationReport) { *reports = append(*reports, r) }
}

func hasIssue(reports []ValidationReport, id int) bool {
	for _, r := range reports {
		if r.ID == id {
			return true
		}
	}
	return false
}
