package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/evrktx/ktxvalidate/internal/ktx"
)

// runInfo implements `ktx info`: a thin presentation layer over the
// shared DFD decoder (§4.9), deliberately not running the full validator.
func runInfo(args []string) int {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	format := fs.String("format", "text", "Output format: text, json, mini-json")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "ktx info: expected exactly one INPUT_FILE")
		return 1
	}

	buf, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ktx info: %v\n", err)
		return 2
	}
	if len(buf) < ktx.HeaderSize {
		fmt.Fprintln(os.Stderr, "ktx info: file is shorter than a KTX2 header")
		return 2
	}

	h := ktx.DecodeHeader(buf)
	if h.Identifier != ktx.Identifier {
		fmt.Fprintln(os.Stderr, "ktx info: not a KTX2 file")
		return 2
	}
	if h.DataFormatDescriptor.ByteLength < 4 || h.DataFormatDescriptor.End() > uint64(len(buf)) {
		fmt.Fprintln(os.Stderr, "ktx info: data format descriptor region is out of bounds")
		return 2
	}

	region := buf[h.DataFormatDescriptor.ByteOffset:h.DataFormatDescriptor.End()]
	dfd, err := ktx.DecodeDFD(region[4:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "ktx info: %v\n", err)
		return 2
	}

	fmt.Printf("vkFormat: %s\n", ktx.FormatName(h.VkFormat))
	fmt.Printf("typeSize: %d\n", h.TypeSize)
	fmt.Printf("pixelWidth: %d\npixelHeight: %d\npixelDepth: %d\n", h.PixelWidth, h.PixelHeight, h.PixelDepth)
	fmt.Printf("layerCount: %d\nfaceCount: %d\nlevelCount: %d\n", h.LayerCount, h.FaceCount, h.LevelCount)
	fmt.Printf("supercompressionScheme: %s\n", h.SupercompressionScheme)
	fmt.Println()

	switch *format {
	case "text":
		fmt.Println(dfd.RenderText())
	case "json":
		fmt.Println(dfd.RenderJSON(0, 2, false))
	case "mini-json":
		fmt.Println(dfd.RenderJSON(0, 0, true))
	default:
		fmt.Fprintf(os.Stderr, "ktx info: unknown --format %q\n", *format)
		return 1
	}
	return 0
}
