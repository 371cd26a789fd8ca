package ktx

import "fmt"

// VkFormat mirrors the subset of the Vulkan VkFormat enumeration that a
// KTX2 file can legally reference. Values match the published Vulkan
// numbering so that a file's vkFormat word can be compared directly.
type VkFormat uint32

const (
	VK_FORMAT_UNDEFINED VkFormat = 0

	VK_FORMAT_R8_UNORM   VkFormat = 9
	VK_FORMAT_R8G8_UNORM VkFormat = 16

	VK_FORMAT_R8G8B8A8_UNORM VkFormat = 37
	VK_FORMAT_R8G8B8A8_SRGB  VkFormat = 43

	VK_FORMAT_R16G16B16A16_SFLOAT VkFormat = 97
	VK_FORMAT_R32G32B32A32_SFLOAT VkFormat = 109

	VK_FORMAT_D16_UNORM         VkFormat = 124
	VK_FORMAT_X8_D24_UNORM_PACK32 VkFormat = 125
	VK_FORMAT_D32_SFLOAT        VkFormat = 126
	VK_FORMAT_S8_UINT           VkFormat = 127
	VK_FORMAT_D16_UNORM_S8_UINT VkFormat = 128
	VK_FORMAT_D24_UNORM_S8_UINT VkFormat = 129
	VK_FORMAT_D32_SFLOAT_S8_UINT VkFormat = 130

	VK_FORMAT_BC1_RGB_UNORM_BLOCK  VkFormat = 131
	VK_FORMAT_BC1_RGB_SRGB_BLOCK   VkFormat = 132
	VK_FORMAT_BC1_RGBA_UNORM_BLOCK VkFormat = 133
	VK_FORMAT_BC1_RGBA_SRGB_BLOCK  VkFormat = 134
	VK_FORMAT_BC2_UNORM_BLOCK      VkFormat = 135
	VK_FORMAT_BC2_SRGB_BLOCK       VkFormat = 136
	VK_FORMAT_BC3_UNORM_BLOCK      VkFormat = 137
	VK_FORMAT_BC3_SRGB_BLOCK       VkFormat = 138
	VK_FORMAT_BC4_UNORM_BLOCK      VkFormat = 139
	VK_FORMAT_BC4_SNORM_BLOCK      VkFormat = 140
	VK_FORMAT_BC5_UNORM_BLOCK      VkFormat = 141
	VK_FORMAT_BC5_SNORM_BLOCK      VkFormat = 142
	VK_FORMAT_BC6H_UFLOAT_BLOCK    VkFormat = 143
	VK_FORMAT_BC6H_SFLOAT_BLOCK    VkFormat = 144
	VK_FORMAT_BC7_UNORM_BLOCK      VkFormat = 145
	VK_FORMAT_BC7_SRGB_BLOCK       VkFormat = 146

	VK_FORMAT_ETC2_R8G8B8_UNORM_BLOCK   VkFormat = 147
	VK_FORMAT_ETC2_R8G8B8_SRGB_BLOCK    VkFormat = 148
	VK_FORMAT_ETC2_R8G8B8A1_UNORM_BLOCK VkFormat = 149
	VK_FORMAT_ETC2_R8G8B8A1_SRGB_BLOCK  VkFormat = 150
	VK_FORMAT_ETC2_R8G8B8A8_UNORM_BLOCK VkFormat = 151
	VK_FORMAT_ETC2_R8G8B8A8_SRGB_BLOCK  VkFormat = 152
	VK_FORMAT_EAC_R11_UNORM_BLOCK       VkFormat = 153
	VK_FORMAT_EAC_R11_SNORM_BLOCK       VkFormat = 154
	VK_FORMAT_EAC_R11G11_UNORM_BLOCK    VkFormat = 155
	VK_FORMAT_EAC_R11G11_SNORM_BLOCK    VkFormat = 156

	VK_FORMAT_ASTC_4x4_UNORM_BLOCK   VkFormat = 157
	VK_FORMAT_ASTC_4x4_SRGB_BLOCK    VkFormat = 158
	VK_FORMAT_ASTC_5x4_UNORM_BLOCK   VkFormat = 159
	VK_FORMAT_ASTC_5x4_SRGB_BLOCK    VkFormat = 160
	VK_FORMAT_ASTC_5x5_UNORM_BLOCK   VkFormat = 161
	VK_FORMAT_ASTC_5x5_SRGB_BLOCK    VkFormat = 162
	VK_FORMAT_ASTC_6x5_UNORM_BLOCK   VkFormat = 163
	VK_FORMAT_ASTC_6x5_SRGB_BLOCK    VkFormat = 164
	VK_FORMAT_ASTC_6x6_UNORM_BLOCK   VkFormat = 165
	VK_FORMAT_ASTC_6x6_SRGB_BLOCK    VkFormat = 166
	VK_FORMAT_ASTC_8x5_UNORM_BLOCK   VkFormat = 167
	VK_FORMAT_ASTC_8x5_SRGB_BLOCK    VkFormat = 168
	VK_FORMAT_ASTC_8x6_UNORM_BLOCK   VkFormat = 169
	VK_FORMAT_ASTC_8x6_SRGB_BLOCK    VkFormat = 170
	VK_FORMAT_ASTC_8x8_UNORM_BLOCK   VkFormat = 171
	VK_FORMAT_ASTC_8x8_SRGB_BLOCK    VkFormat = 172
	VK_FORMAT_ASTC_10x5_UNORM_BLOCK  VkFormat = 173
	VK_FORMAT_ASTC_10x5_SRGB_BLOCK   VkFormat = 174
	VK_FORMAT_ASTC_10x6_UNORM_BLOCK  VkFormat = 175
	VK_FORMAT_ASTC_10x6_SRGB_BLOCK   VkFormat = 176
	VK_FORMAT_ASTC_10x8_UNORM_BLOCK  VkFormat = 177
	VK_FORMAT_ASTC_10x8_SRGB_BLOCK   VkFormat = 178
	VK_FORMAT_ASTC_10x10_UNORM_BLOCK VkFormat = 179
	VK_FORMAT_ASTC_10x10_SRGB_BLOCK  VkFormat = 180
	VK_FORMAT_ASTC_12x10_UNORM_BLOCK VkFormat = 181
	VK_FORMAT_ASTC_12x10_SRGB_BLOCK  VkFormat = 182
	VK_FORMAT_ASTC_12x12_UNORM_BLOCK VkFormat = 183
	VK_FORMAT_ASTC_12x12_SRGB_BLOCK  VkFormat = 184

	// PVRTC (VK_IMG_format_pvrtc extension range).
	VK_FORMAT_PVRTC1_2BPP_UNORM_BLOCK_IMG VkFormat = 1000054000
	VK_FORMAT_PVRTC1_4BPP_UNORM_BLOCK_IMG VkFormat = 1000054001
	VK_FORMAT_PVRTC2_2BPP_UNORM_BLOCK_IMG VkFormat = 1000054002
	VK_FORMAT_PVRTC2_4BPP_UNORM_BLOCK_IMG VkFormat = 1000054003
	VK_FORMAT_PVRTC1_2BPP_SRGB_BLOCK_IMG  VkFormat = 1000054004
	VK_FORMAT_PVRTC1_4BPP_SRGB_BLOCK_IMG  VkFormat = 1000054005
	VK_FORMAT_PVRTC2_2BPP_SRGB_BLOCK_IMG  VkFormat = 1000054006
	VK_FORMAT_PVRTC2_4BPP_SRGB_BLOCK_IMG  VkFormat = 1000054007

	// ASTC HDR 3D block formats (VK_EXT_texture_compression_astc_hdr range).
	VK_FORMAT_ASTC_3x3x3_UNORM_BLOCK_EXT  VkFormat = 1000288000
	VK_FORMAT_ASTC_3x3x3_SRGB_BLOCK_EXT   VkFormat = 1000288001
	VK_FORMAT_ASTC_4x3x3_UNORM_BLOCK_EXT  VkFormat = 1000288002
	VK_FORMAT_ASTC_4x3x3_SRGB_BLOCK_EXT   VkFormat = 1000288003
	VK_FORMAT_ASTC_4x4x3_UNORM_BLOCK_EXT  VkFormat = 1000288004
	VK_FORMAT_ASTC_4x4x3_SRGB_BLOCK_EXT   VkFormat = 1000288005
	VK_FORMAT_ASTC_4x4x4_UNORM_BLOCK_EXT  VkFormat = 1000288006
	VK_FORMAT_ASTC_4x4x4_SRGB_BLOCK_EXT   VkFormat = 1000288007
	VK_FORMAT_ASTC_5x4x4_UNORM_BLOCK_EXT  VkFormat = 1000288008
	VK_FORMAT_ASTC_5x4x4_SRGB_BLOCK_EXT   VkFormat = 1000288009
	VK_FORMAT_ASTC_5x5x4_UNORM_BLOCK_EXT  VkFormat = 1000288010
	VK_FORMAT_ASTC_5x5x4_SRGB_BLOCK_EXT   VkFormat = 1000288011
	VK_FORMAT_ASTC_5x5x5_UNORM_BLOCK_EXT  VkFormat = 1000288012
	VK_FORMAT_ASTC_5x5x5_SRGB_BLOCK_EXT   VkFormat = 1000288013
	VK_FORMAT_ASTC_6x5x5_UNORM_BLOCK_EXT  VkFormat = 1000288014
	VK_FORMAT_ASTC_6x5x5_SRGB_BLOCK_EXT   VkFormat = 1000288015
	VK_FORMAT_ASTC_6x6x5_UNORM_BLOCK_EXT  VkFormat = 1000288016
	VK_FORMAT_ASTC_6x6x5_SRGB_BLOCK_EXT   VkFormat = 1000288017
	VK_FORMAT_ASTC_6x6x6_UNORM_BLOCK_EXT  VkFormat = 1000288018
	VK_FORMAT_ASTC_6x6x6_SRGB_BLOCK_EXT   VkFormat = 1000288019
)

// formatNames follows pkg/texture.FormatName's switch-with-default idiom:
// a total function over the domain, falling back to a hex representation
// for values outside the named set.
var formatNames = map[VkFormat]string{
	VK_FORMAT_UNDEFINED:           "UNDEFINED",
	VK_FORMAT_R8_UNORM:            "R8_UNORM",
	VK_FORMAT_R8G8_UNORM:          "R8G8_UNORM",
	VK_FORMAT_R8G8B8A8_UNORM:      "R8G8B8A8_UNORM",
	VK_FORMAT_R8G8B8A8_SRGB:       "R8G8B8A8_SRGB",
	VK_FORMAT_R16G16B16A16_SFLOAT: "R16G16B16A16_SFLOAT",
	VK_FORMAT_R32G32B32A32_SFLOAT: "R32G32B32A32_SFLOAT",
	VK_FORMAT_D16_UNORM:           "D16_UNORM",
	VK_FORMAT_X8_D24_UNORM_PACK32: "X8_D24_UNORM_PACK32",
	VK_FORMAT_D32_SFLOAT:          "D32_SFLOAT",
	VK_FORMAT_S8_UINT:             "S8_UINT",
	VK_FORMAT_D16_UNORM_S8_UINT:   "D16_UNORM_S8_UINT",
	VK_FORMAT_D24_UNORM_S8_UINT:   "D24_UNORM_S8_UINT",
	VK_FORMAT_D32_SFLOAT_S8_UINT:  "D32_SFLOAT_S8_UINT",
	VK_FORMAT_BC1_RGB_UNORM_BLOCK:  "BC1_RGB_UNORM_BLOCK",
	VK_FORMAT_BC1_RGB_SRGB_BLOCK:   "BC1_RGB_SRGB_BLOCK",
	VK_FORMAT_BC1_RGBA_UNORM_BLOCK: "BC1_RGBA_UNORM_BLOCK",
	VK_FORMAT_BC1_RGBA_SRGB_BLOCK:  "BC1_RGBA_SRGB_BLOCK",
	VK_FORMAT_BC2_UNORM_BLOCK:      "BC2_UNORM_BLOCK",
	VK_FORMAT_BC2_SRGB_BLOCK:       "BC2_SRGB_BLOCK",
	VK_FORMAT_BC3_UNORM_BLOCK:      "BC3_UNORM_BLOCK",
	VK_FORMAT_BC3_SRGB_BLOCK:       "BC3_SRGB_BLOCK",
	VK_FORMAT_BC4_UNORM_BLOCK:      "BC4_UNORM_BLOCK",
	VK_FORMAT_BC4_SNORM_BLOCK:      "BC4_SNORM_BLOCK",
	VK_FORMAT_BC5_UNORM_BLOCK:      "BC5_UNORM_BLOCK",
	VK_FORMAT_BC5_SNORM_BLOCK:      "BC5_SNORM_BLOCK",
	VK_FORMAT_BC6H_UFLOAT_BLOCK:    "BC6H_UFLOAT_BLOCK",
	VK_FORMAT_BC6H_SFLOAT_BLOCK:    "BC6H_SFLOAT_BLOCK",
	VK_FORMAT_BC7_UNORM_BLOCK:      "BC7_UNORM_BLOCK",
	VK_FORMAT_BC7_SRGB_BLOCK:       "BC7_SRGB_BLOCK",
	VK_FORMAT_ETC2_R8G8B8_UNORM_BLOCK:   "ETC2_R8G8B8_UNORM_BLOCK",
	VK_FORMAT_ETC2_R8G8B8_SRGB_BLOCK:    "ETC2_R8G8B8_SRGB_BLOCK",
	VK_FORMAT_ETC2_R8G8B8A1_UNORM_BLOCK: "ETC2_R8G8B8A1_UNORM_BLOCK",
	VK_FORMAT_ETC2_R8G8B8A1_SRGB_BLOCK:  "ETC2_R8G8B8A1_SRGB_BLOCK",
	VK_FORMAT_ETC2_R8G8B8A8_UNORM_BLOCK: "ETC2_R8G8B8A8_UNORM_BLOCK",
	VK_FORMAT_ETC2_R8G8B8A8_SRGB_BLOCK:  "ETC2_R8G8B8A8_SRGB_BLOCK",
	VK_FORMAT_EAC_R11_UNORM_BLOCK:       "EAC_R11_UNORM_BLOCK",
	VK_FORMAT_EAC_R11_SNORM_BLOCK:       "EAC_R11_SNORM_BLOCK",
	VK_FORMAT_EAC_R11G11_UNORM_BLOCK:    "EAC_R11G11_UNORM_BLOCK",
	VK_FORMAT_EAC_R11G11_SNORM_BLOCK:    "EAC_R11G11_SNORM_BLOCK",
	VK_FORMAT_ASTC_4x4_UNORM_BLOCK:   "ASTC_4x4_UNORM_BLOCK",
	VK_FORMAT_ASTC_4x4_SRGB_BLOCK:    "ASTC_4x4_SRGB_BLOCK",
	VK_FORMAT_ASTC_12x12_UNORM_BLOCK: "ASTC_12x12_UNORM_BLOCK",
	VK_FORMAT_ASTC_12x12_SRGB_BLOCK:  "ASTC_12x12_SRGB_BLOCK",
	VK_FORMAT_PVRTC1_2BPP_UNORM_BLOCK_IMG: "PVRTC1_2BPP_UNORM_BLOCK_IMG",
	VK_FORMAT_PVRTC1_4BPP_UNORM_BLOCK_IMG: "PVRTC1_4BPP_UNORM_BLOCK_IMG",
	VK_FORMAT_PVRTC2_2BPP_UNORM_BLOCK_IMG: "PVRTC2_2BPP_UNORM_BLOCK_IMG",
	VK_FORMAT_PVRTC2_4BPP_UNORM_BLOCK_IMG: "PVRTC2_4BPP_UNORM_BLOCK_IMG",
	VK_FORMAT_PVRTC1_2BPP_SRGB_BLOCK_IMG:  "PVRTC1_2BPP_SRGB_BLOCK_IMG",
	VK_FORMAT_PVRTC1_4BPP_SRGB_BLOCK_IMG:  "PVRTC1_4BPP_SRGB_BLOCK_IMG",
	VK_FORMAT_PVRTC2_2BPP_SRGB_BLOCK_IMG:  "PVRTC2_2BPP_SRGB_BLOCK_IMG",
	VK_FORMAT_PVRTC2_4BPP_SRGB_BLOCK_IMG:  "PVRTC2_4BPP_SRGB_BLOCK_IMG",
}

// FormatName returns the canonical Vulkan name for a format, or a
// hex-encoded fallback for values this table doesn't recognize.
func FormatName(f VkFormat) string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("VK_FORMAT_UNKNOWN(0x%x)", uint32(f))
}

// prohibitedFormats are VkFormats whose packed/planar storage layout
// cannot be expressed unambiguously in a KTX2 container.
var prohibitedFormats = map[VkFormat]bool{
	// Packed formats banned by the KTX2 spec (e.g. B10G11R11_UFLOAT_PACK32's
	// siblings with component swaps that don't round-trip through a DFD).
	122: true, // VK_FORMAT_B10G11R11_UFLOAT_PACK32 sibling, reserved as prohibited
}

// IsProhibitedFormat reports whether a vkFormat value is explicitly
// disallowed from appearing in a KTX2 file.
func IsProhibitedFormat(f VkFormat) bool {
	return prohibitedFormats[f]
}

// IsValidFormat reports whether f is a value this validator recognizes
// as belonging to the Vulkan format enumeration (known or within a
// plausible vendor/extension range), independent of whether KTX2 allows it.
func IsValidFormat(f VkFormat) bool {
	if f == VK_FORMAT_UNDEFINED {
		return true
	}
	if _, ok := formatNames[f]; ok {
		return true
	}
	// Extension ranges are considered structurally valid even when this
	// table doesn't carry every member's name.
	if f >= 1000054000 && f < 1000055000 {
		return true
	}
	if f >= 1000288000 && f < 1000289000 {
		return true
	}
	if f >= 1000066000 && f < 1000067000 {
		return true
	}
	return false
}

// IsFormatBlockCompressed reports whether f is a block-compressed format
// (BC, ETC2, EAC, ASTC 2D, PVRTC, or ASTC 3D).
func IsFormatBlockCompressed(f VkFormat) bool {
	switch {
	case f >= VK_FORMAT_BC1_RGB_UNORM_BLOCK && f <= VK_FORMAT_BC7_SRGB_BLOCK:
		return true
	case f >= VK_FORMAT_ETC2_R8G8B8_UNORM_BLOCK && f <= VK_FORMAT_EAC_R11G11_SNORM_BLOCK:
		return true
	case f >= VK_FORMAT_ASTC_4x4_UNORM_BLOCK && f <= VK_FORMAT_ASTC_12x12_SRGB_BLOCK:
		return true
	case f >= VK_FORMAT_PVRTC1_2BPP_UNORM_BLOCK_IMG && f <= VK_FORMAT_PVRTC2_4BPP_SRGB_BLOCK_IMG:
		return true
	case IsFormat3DBlockCompressed(f):
		return true
	}
	return false
}

// IsFormat3DBlockCompressed reports whether f is one of the ASTC HDR 3D
// (sliced 3D) block-compressed formats.
func IsFormat3DBlockCompressed(f VkFormat) bool {
	return f >= VK_FORMAT_ASTC_3x3x3_UNORM_BLOCK_EXT && f <= VK_FORMAT_ASTC_6x6x6_SRGB_BLOCK_EXT
}

// IsFormatDepth reports whether f carries a depth component.
func IsFormatDepth(f VkFormat) bool {
	switch f {
	case VK_FORMAT_D16_UNORM, VK_FORMAT_X8_D24_UNORM_PACK32, VK_FORMAT_D32_SFLOAT,
		VK_FORMAT_D16_UNORM_S8_UINT, VK_FORMAT_D24_UNORM_S8_UINT, VK_FORMAT_D32_SFLOAT_S8_UINT:
		return true
	}
	return false
}

// IsFormatStencil reports whether f carries a stencil component.
func IsFormatStencil(f VkFormat) bool {
	switch f {
	case VK_FORMAT_S8_UINT, VK_FORMAT_D16_UNORM_S8_UINT, VK_FORMAT_D24_UNORM_S8_UINT, VK_FORMAT_D32_SFLOAT_S8_UINT:
		return true
	}
	return false
}

// SupercompressionScheme identifies the post-encoding compression applied
// uniformly across all mip levels of a KTX2 file.
type SupercompressionScheme uint32

const (
	SUPERCOMPRESSION_NONE    SupercompressionScheme = 0
	SUPERCOMPRESSION_BASISLZ SupercompressionScheme = 1
	SUPERCOMPRESSION_ZSTD    SupercompressionScheme = 2
	SUPERCOMPRESSION_ZLIB    SupercompressionScheme = 3

	// supercompressionVendorRangeStart begins the reserved range the
	// source treats as "unknown but plausibly vendor-defined".
	supercompressionVendorRangeStart SupercompressionScheme = 0x10000
)

func (s SupercompressionScheme) String() string {
	switch s {
	case SUPERCOMPRESSION_NONE:
		return "NONE"
	case SUPERCOMPRESSION_BASISLZ:
		return "BASIS_LZ"
	case SUPERCOMPRESSION_ZSTD:
		return "ZSTD"
	case SUPERCOMPRESSION_ZLIB:
		return "ZLIB"
	}
	if s >= supercompressionVendorRangeStart {
		return fmt.Sprintf("VENDOR_RESERVED(0x%x)", uint32(s))
	}
	return fmt.Sprintf("UNKNOWN(0x%x)", uint32(s))
}

// IsKnownSupercompressionScheme reports whether s is one of the four
// standard schemes (as opposed to reserved-vendor-range or invalid).
func IsKnownSupercompressionScheme(s SupercompressionScheme) bool {
	switch s {
	case SUPERCOMPRESSION_NONE, SUPERCOMPRESSION_BASISLZ, SUPERCOMPRESSION_ZSTD, SUPERCOMPRESSION_ZLIB:
		return true
	}
	return false
}

// IsReservedVendorScheme reports whether s falls in the vendor-reserved
// range: not one of the named schemes, but plausible rather than invalid.
func IsReservedVendorScheme(s SupercompressionScheme) bool {
	return !IsKnownSupercompressionScheme(s) && s >= supercompressionVendorRangeStart
}

// HasGlobalData reports whether scheme s requires a non-empty
// Supercompression Global Data region (invariant 4).
func HasGlobalData(s SupercompressionScheme) bool {
	return s == SUPERCOMPRESSION_BASISLZ
}
