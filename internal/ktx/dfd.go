package ktx

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// UnknownEnumValue is the sentinel every enum-to-string function in this
// file returns for a value outside its named domain, per §9's
// "total function, not partial" design note.
const UnknownEnumValue = "KHR_DFD_UNKNOWN_ENUM_VALUE"

// Channel type qualifier bits, packed into the top nibble of a sample's
// channelType byte alongside the 4-bit channel id in the low nibble.
const (
	qualifierLinear   = 0x10
	qualifierExponent = 0x20
	qualifierSigned   = 0x40
	qualifierFloat    = 0x80
)

// BDFD is the decoded Basic Data Format Descriptor Block: the header
// words plus its sample descriptors. Every field is extracted from its
// backing []uint32 word slice with explicit shifts and masks (§9: "this
// is non-portable [as C bitfields] and shall be reimplemented as explicit
// shift/mask accessors"); no Go struct tag or bitfield-like trick is used.
type BDFD struct {
	VendorID            uint32
	DescriptorType       uint32
	VersionNumber        uint32
	DescriptorBlockSize  uint32
	Model                uint32
	Primaries            uint32
	Transfer             uint32
	Flags                uint32
	TexelBlockDimension  [4]uint32
	BytesPlane           [8]uint32
	Samples              []Sample
}

// Sample is one 4-word sample descriptor within a BDFD.
type Sample struct {
	BitOffset      uint32
	BitLength      uint32
	ChannelID      uint32
	Qualifiers     uint32
	SamplePosition [4]uint32
	SampleLower    uint32
	SampleUpper    uint32
}

// Signed reports whether the SIGNED qualifier bit is set for this sample.
func (s Sample) Signed() bool { return s.Qualifiers&qualifierSigned != 0 }

// Float reports whether the FLOAT qualifier bit is set for this sample.
func (s Sample) Float() bool { return s.Qualifiers&qualifierFloat != 0 }

// words unpacks a byte buffer into little-endian uint32 words.
func words(buf []byte) []uint32 {
	w := make([]uint32, len(buf)/4)
	for i := range w {
		w[i] = binary.LittleEndian.Uint32(buf[i*4 : i*4+4])
	}
	return w
}

// DecodeDFD parses a DFD word stream (the bytes immediately following the
// 4-byte totalSize word at the start of the DFD region) into a structured
// BDFD. descriptorBlockSize is the second word's high 16 bits; it is
// recorded as decoded, and the sample count is taken from len(buf).
func DecodeDFD(buf []byte) (*BDFD, error) {
	if len(buf) < 24 {
		return nil, fmt.Errorf("dfd: block too short: %d bytes", len(buf))
	}
	w := words(buf)

	b := &BDFD{}
	b.VendorID = w[0] & 0x1FFFF
	b.DescriptorType = (w[0] >> 17) & 0x7FFF
	b.VersionNumber = w[1] & 0xFFFF
	b.DescriptorBlockSize = (w[1] >> 16) & 0xFFFF
	b.Model = w[2] & 0xFF
	b.Primaries = (w[2] >> 8) & 0xFF
	b.Transfer = (w[2] >> 16) & 0xFF
	b.Flags = (w[2] >> 24) & 0xFF
	for i := 0; i < 4; i++ {
		b.TexelBlockDimension[i] = (w[3] >> (8 * uint(i))) & 0xFF
	}
	for i := 0; i < 4; i++ {
		b.BytesPlane[i] = (w[4] >> (8 * uint(i))) & 0xFF
	}
	for i := 0; i < 4; i++ {
		b.BytesPlane[4+i] = (w[5] >> (8 * uint(i))) & 0xFF
	}

	sampleWords := w[6:]
	numSamples := len(sampleWords) / 4
	b.Samples = make([]Sample, 0, numSamples)
	for i := 0; i < numSamples; i++ {
		sw := sampleWords[i*4 : i*4+4]
		var s Sample
		s.BitOffset = sw[0] & 0xFFFF
		s.BitLength = (sw[0] >> 16) & 0xFF
		channelType := (sw[0] >> 24) & 0xFF
		s.ChannelID = channelType & 0x0F
		s.Qualifiers = channelType & 0xF0
		for j := 0; j < 4; j++ {
			s.SamplePosition[j] = (sw[1] >> (8 * uint(j))) & 0xFF
		}
		s.SampleLower = sw[2]
		s.SampleUpper = sw[3]
		b.Samples = append(b.Samples, s)
	}
	return b, nil
}

// VendorIDName maps the DFD vendorId field to a name; only KHRONOS (0) is
// named, matching the source's dfdToStringVendorID.
func VendorIDName(v uint32) string {
	if v == 0 {
		return "KHR_DF_VENDORID_KHRONOS"
	}
	return UnknownEnumValue
}

// DescriptorTypeName maps the descriptorType field; only BASICFORMAT (0)
// is named.
func DescriptorTypeName(v uint32) string {
	if v == 0 {
		return "KHR_DF_KHR_DESCRIPTORTYPE_BASICFORMAT"
	}
	return UnknownEnumValue
}

// VersionNumberName maps the versionNumber field. 1.0 and 1.1 share the
// same numeric encoding in the header; per §9's explicit
// preserve-for-compatibility note, both map to the 1.1 name.
func VersionNumberName(v uint32) string {
	switch v {
	case 0, 1:
		return "KHR_DF_VERSIONNUMBER_1_1"
	case 2:
		return "KHR_DF_VERSIONNUMBER_1_3"
	}
	return UnknownEnumValue
}

// TransferName maps the transfer function field.
func TransferName(v uint32) string {
	switch v {
	case 1:
		return "KHR_DF_TRANSFER_LINEAR"
	case 2:
		return "KHR_DF_TRANSFER_SRGB"
	case 3:
		return "KHR_DF_TRANSFER_ITU"
	case 4:
		return "KHR_DF_TRANSFER_NTSC"
	case 5:
		return "KHR_DF_TRANSFER_SLOG"
	case 6:
		return "KHR_DF_TRANSFER_SLOG2"
	case 7:
		return "KHR_DF_TRANSFER_BT1886"
	case 8:
		return "KHR_DF_TRANSFER_HLG_OETF"
	case 9:
		return "KHR_DF_TRANSFER_HLG_EOTF"
	case 10:
		return "KHR_DF_TRANSFER_PQ_EOTF"
	case 11:
		return "KHR_DF_TRANSFER_PQ_OETF"
	case 12:
		return "KHR_DF_TRANSFER_DCIP3"
	case 13:
		return "KHR_DF_TRANSFER_PAL_OETF"
	case 14:
		return "KHR_DF_TRANSFER_PAL625_EOTF"
	case 15:
		return "KHR_DF_TRANSFER_ST240"
	case 16:
		return "KHR_DF_TRANSFER_ACESCC"
	case 17:
		return "KHR_DF_TRANSFER_ACESCCT"
	case 18:
		return "KHR_DF_TRANSFER_ADOBERGB"
	case 0:
		return "KHR_DF_TRANSFER_UNSPECIFIED"
	}
	return UnknownEnumValue
}

// PrimariesName maps the color primaries field.
func PrimariesName(v uint32) string {
	switch v {
	case 0:
		return "KHR_DF_PRIMARIES_UNSPECIFIED"
	case 1:
		return "KHR_DF_PRIMARIES_BT709"
	case 2:
		return "KHR_DF_PRIMARIES_BT601_EBU"
	case 3:
		return "KHR_DF_PRIMARIES_BT601_SMPTE"
	case 4:
		return "KHR_DF_PRIMARIES_BT2020"
	case 5:
		return "KHR_DF_PRIMARIES_CIEXYZ"
	case 6:
		return "KHR_DF_PRIMARIES_ACES"
	case 7:
		return "KHR_DF_PRIMARIES_ACESCC"
	case 8:
		return "KHR_DF_PRIMARIES_NTSC1953"
	case 9:
		return "KHR_DF_PRIMARIES_PAL525"
	case 10:
		return "KHR_DF_PRIMARIES_DISPLAYP3"
	case 11:
		return "KHR_DF_PRIMARIES_ADOBERGB"
	}
	return UnknownEnumValue
}

// Color model values relevant to KTX2's validated formats.
const (
	ModelUnspecified uint32 = 0
	ModelRGBSDA      uint32 = 1
	ModelETC1S       uint32 = 163
	ModelUASTC       uint32 = 166
)

// ModelName maps the color model field.
func ModelName(v uint32) string {
	switch v {
	case ModelUnspecified:
		return "KHR_DF_MODEL_UNSPECIFIED"
	case ModelRGBSDA:
		return "KHR_DF_MODEL_RGBSDA"
	case ModelETC1S:
		return "KHR_DF_MODEL_ETC1S"
	case ModelUASTC:
		return "KHR_DF_MODEL_UASTC"
	}
	return UnknownEnumValue
}

// RGBSDA channel ids.
const (
	ChannelRed   = 0
	ChannelGreen = 1
	ChannelBlue  = 2
	ChannelAlpha = 15
)

// channelHexFallback is the single-character table the source's
// dfdToStringChannelId falls back to for models outside the named set
// (§9: "retain this fallback for compatibility with existing info
// output"): "R", "G", "B", then hex digits 3..e, and "A" for 15.
var channelHexFallback = [16]string{
	"R", "G", "B", "3", "4", "5", "6", "7",
	"8", "9", "a", "b", "c", "d", "e", "A",
}

// ChannelName is the two-level dispatch §4.9/§9 describe: first on color
// model, then on channel index within that model, with a final catch-all
// mapping 0..15 to the short RGB/hex-digit strings of channelHexFallback.
func ChannelName(model, channel uint32) string {
	switch model {
	case ModelRGBSDA:
		switch channel {
		case ChannelRed:
			return "RED"
		case ChannelGreen:
			return "GREEN"
		case ChannelBlue:
			return "BLUE"
		case ChannelAlpha:
			return "ALPHA"
		}
	case ModelETC1S:
		switch channel {
		case 0:
			return "ETC1S_RGB"
		case 15:
			return "ETC1S_AAA"
		case 1:
			return "ETC1S_RRR"
		case 2:
			return "ETC1S_GGG"
		}
	case ModelUASTC:
		switch channel {
		case 0:
			return "UASTC_RGB"
		case 3:
			return "UASTC_RGBA"
		case 4:
			return "UASTC_RRR"
		case 5:
			return "UASTC_RRRG"
		}
	}
	if channel < 16 {
		return channelHexFallback[channel]
	}
	return UnknownEnumValue
}

// flagNames renders the DFD flags byte bitwise, one name per set bit.
func flagNames(flags uint32) []string {
	var names []string
	if flags&0x1 != 0 {
		names = append(names, "KHR_DF_FLAG_ALPHA_PREMULTIPLIED")
	}
	return names
}

// RenderText formats a BDFD the way the `info` command's text output
// does: one descriptor header line followed by one block per sample.
func (b *BDFD) RenderText() string {
	var sb strings.Builder
	totalBytes := 24 + 16*len(b.Samples)
	fmt.Fprintf(&sb, "DFD total bytes: %d\n", totalBytes)
	fmt.Fprintf(&sb, "BDB descriptor type: %s\n", DescriptorTypeName(b.DescriptorType))
	fmt.Fprintf(&sb, "Vendor ID: %s\n", VendorIDName(b.VendorID))
	fmt.Fprintf(&sb, "Descriptor block size: %d (%d samples)\n", b.DescriptorBlockSize, len(b.Samples))
	fmt.Fprintf(&sb, "VersionNumber: %s\n", VersionNumberName(b.VersionNumber))
	fmt.Fprintf(&sb, "Flags: %s\n", strings.Join(flagNames(b.Flags), "|"))
	fmt.Fprintf(&sb, "Transfer: %s\n", TransferName(b.Transfer))
	fmt.Fprintf(&sb, "Primaries: %s\n", PrimariesName(b.Primaries))
	fmt.Fprintf(&sb, "Model: %s\n", ModelName(b.Model))
	fmt.Fprintf(&sb, "Dimensions: %d,%d,%d,%d\n", b.TexelBlockDimension[0]+1, b.TexelBlockDimension[1]+1, b.TexelBlockDimension[2]+1, b.TexelBlockDimension[3]+1)
	fmt.Fprintf(&sb, "Plane bytes: %d,%d,%d,%d,%d,%d,%d,%d\n", b.BytesPlane[0], b.BytesPlane[1], b.BytesPlane[2], b.BytesPlane[3], b.BytesPlane[4], b.BytesPlane[5], b.BytesPlane[6], b.BytesPlane[7])

	for i, s := range b.Samples {
		fmt.Fprintf(&sb, "Sample %d:\n", i)
		fmt.Fprintf(&sb, "    Channel: %s\n", ChannelName(b.Model, s.ChannelID))
		fmt.Fprintf(&sb, "    Bit length: %d\n", s.BitLength+1)
		fmt.Fprintf(&sb, "    Bit offset: %d\n", s.BitOffset)
		fmt.Fprintf(&sb, "    Position: %d,%d,%d,%d\n", s.SamplePosition[0], s.SamplePosition[1], s.SamplePosition[2], s.SamplePosition[3])
		if s.Signed() {
			fmt.Fprintf(&sb, "    Lower: %d\n", int32(s.SampleLower))
			fmt.Fprintf(&sb, "    Upper: %d\n", int32(s.SampleUpper))
		} else {
			fmt.Fprintf(&sb, "    Lower: %d\n", s.SampleLower)
			fmt.Fprintf(&sb, "    Upper: %d\n", s.SampleUpper)
		}
	}
	return sb.String()
}

// RenderJSON formats a BDFD as the JSON tree the `info` command emits.
// Indentation follows (baseIndent + depth) * indentWidth spaces; when
// minified is true no extraneous whitespace is produced.
func (b *BDFD) RenderJSON(baseIndent, indentWidth int, minified bool) string {
	var sb strings.Builder
	nl, sp := "\n", " "
	if minified {
		nl, sp = "", ""
	}
	indent := func(depth int) string {
		if minified {
			return ""
		}
		return strings.Repeat(" ", (baseIndent+depth)*indentWidth)
	}

	writeField := func(depth int, key, value string, comma bool) {
		sb.WriteString(indent(depth))
		fmt.Fprintf(&sb, "\"%s\":%s%s", key, sp, value)
		if comma {
			sb.WriteString(",")
		}
		sb.WriteString(nl)
	}

	sb.WriteString("{" + nl)
	writeField(1, "vendorId", jsonEnum(b.VendorID, VendorIDName(b.VendorID)), true)
	writeField(1, "descriptorType", jsonEnum(b.DescriptorType, DescriptorTypeName(b.DescriptorType)), true)
	writeField(1, "versionNumber", jsonEnum(b.VersionNumber, VersionNumberName(b.VersionNumber)), true)
	writeField(1, "model", jsonEnum(b.Model, ModelName(b.Model)), true)
	writeField(1, "primaries", jsonEnum(b.Primaries, PrimariesName(b.Primaries)), true)
	writeField(1, "transfer", jsonEnum(b.Transfer, TransferName(b.Transfer)), true)
	sb.WriteString(indent(1) + "\"samples\":" + sp + "[" + nl)

	for i, s := range b.Samples {
		sb.WriteString(indent(2) + "{" + nl)
		writeField(3, "channel", jsonEnum(s.ChannelID, ChannelName(b.Model, s.ChannelID)), true)
		writeField(3, "bitLength", fmt.Sprintf("%d", s.BitLength+1), true)
		if s.Signed() {
			writeField(3, "lower", fmt.Sprintf("%d", int32(s.SampleLower)), true)
			writeField(3, "upper", fmt.Sprintf("%d", int32(s.SampleUpper)), false)
		} else {
			writeField(3, "lower", fmt.Sprintf("%d", s.SampleLower), true)
			writeField(3, "upper", fmt.Sprintf("%d", s.SampleUpper), false)
		}
		sb.WriteString(indent(2) + "}")
		if i < len(b.Samples)-1 {
			sb.WriteString(",")
		}
		sb.WriteString(nl)
	}
	sb.WriteString(indent(1) + "]" + nl)
	sb.WriteString("}")
	return sb.String()
}

// jsonEnum renders a recognized enum as its canonical string name (quoted)
// and an unrecognized one as a bare integer, per §4.9.
func jsonEnum(value uint32, name string) string {
	if name == UnknownEnumValue {
		return fmt.Sprintf("%d", value)
	}
	return fmt.Sprintf("%q", name)
}
