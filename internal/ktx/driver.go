package ktx

import (
	"errors"
	"io"
)

// Options configures a validation run.
type Options struct {
	WarnAsErrors bool
	// GltfBasisu additionally checks KHR_texture_basisu glTF compatibility
	// constraints (§6's -g/--gltf-basisu flag). The glTF extension only
	// further restricts which vkFormat/supercompression combinations are
	// legal; it never introduces new region/metadata rules, so it is
	// implemented as one extra check that RunStages runs after the Payload
	// stage.
	GltfBasisu bool
}

// ValidateMemory runs the full stage pipeline against an in-memory byte
// buffer, the "validate-from-memory" entry point of §4.1.
func ValidateMemory(buf []byte, opts Options) Result {
	var result Result
	result.WarnAsErrors = opts.WarnAsErrors

	sink := func(r ValidationReport) {
		result.Reports = append(result.Reports, r)
		switch r.Severity {
		case SeverityWarning:
			result.NumWarnings++
		case SeverityError:
			result.NumErrors++
		case SeverityFatal:
			result.NumErrors++
			result.Fatal = true
		}
	}

	ctx := NewContext(buf, opts.WarnAsErrors, sink)
	if err := RunStages(ctx, opts); err != nil {
		var fatal *FatalError
		if !errors.As(err, &fatal) {
			panic("ktx: RunStages returned a non-fatal error; this is a validator bug")
		}
		// The fatal's report was already delivered to sink by the stage
		// that raised it (fatal.go), so there is nothing more to record.
	}
	return result
}

// ValidateStream slurps r and runs ValidateMemory over the result, the
// "validate-from-stream" entry point of §4.1.
func ValidateStream(r io.Reader, opts Options) (Result, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return Result{}, err
	}
	return ValidateMemory(buf, opts), nil
}

// ValidateFile opens and slurps path, the "validate-from-path" entry
// point of §4.1. The file handle is released on every exit path.
func ValidateFile(path string, opts Options) (Result, error) {
	var result Result
	var openErr error

	sink := func(r ValidationReport) {
		result.Reports = append(result.Reports, r)
		switch r.Severity {
		case SeverityWarning:
			result.NumWarnings++
		case SeverityError:
			result.NumErrors++
		case SeverityFatal:
			result.NumErrors++
			result.Fatal = true
		}
	}

	ctx, openErr := NewContextFromFile(path, opts.WarnAsErrors, sink)
	if openErr != nil {
		newFatal(sink, 1003, openErr)
		return result, openErr
	}

	if err := RunStages(ctx, opts); err != nil {
		var fatal *FatalError
		if !errors.As(err, &fatal) {
			panic("ktx: RunStages returned a non-fatal error; this is a validator bug")
		}
	}
	return result, nil
}

// RunStages is the §4.2 Stage Driver: Header, Indices, Level Index, DFD,
// KVD, SGD, Payload, Transcode, in fixed order. A fatal from any stage
// returns immediately (the fatal's report has already reached the sink);
// any other stage's non-fatal issues never skip later stages, though a
// stage may locally short-circuit when a prerequisite is implausible.
func RunStages(ctx *Context, opts Options) error {
	sink := ctx.sinkFunc()

	h, err := ValidateHeader(ctx, sink, opts.WarnAsErrors)
	if err != nil {
		return err
	}

	fileLen := uint64(ctx.Len())
	ValidateIndex(ctx, h, fileLen)

	levels, err := DecodeLevelIndex(ctx, h.EffectiveLevelCount())
	if err != nil {
		return err
	}
	precedingEnd := h.DataFormatDescriptor.End()
	if h.KeyValueData.ByteLength > 0 {
		precedingEnd = h.KeyValueData.End()
	}
	if h.SupercompressionGlobalData.ByteLength > 0 {
		precedingEnd = h.SupercompressionGlobalData.End()
	}
	ValidateLevelIndex(ctx, h, levels, precedingEnd, fileLen)

	var dfd *BDFD
	if h.DataFormatDescriptor.ByteLength > 0 {
		region, err := ctx.ReadAt(int(h.DataFormatDescriptor.ByteOffset), int(h.DataFormatDescriptor.ByteLength))
		if err != nil {
			return err
		}
		dfd = ValidateDFD(ctx, h, region)
	}

	if h.KeyValueData.ByteLength > 0 {
		region, err := ctx.ReadAt(int(h.KeyValueData.ByteOffset), int(h.KeyValueData.ByteLength))
		if err != nil {
			return err
		}
		entries := ParseKVD(ctx, region, h.KeyValueData.ByteOffset)
		ValidateKVD(ctx, h, entries)
	}

	var sgdRegion []byte
	if h.SupercompressionGlobalData.ByteLength > 0 {
		region, err := ctx.ReadAt(int(h.SupercompressionGlobalData.ByteOffset), int(h.SupercompressionGlobalData.ByteLength))
		if err != nil {
			return err
		}
		sgdRegion = region
	}
	ValidateSGD(ctx, h, sgdRegion, dfd)

	ValidatePayload(ctx, h, levels)

	if opts.GltfBasisu {
		validateGltfBasisuCompat(ctx, h)
	}

	// Transcode stage: transcoding itself is an explicit non-goal (§1);
	// this stage only records that the check was not performed.
	ctx.Warning(9001)

	return nil
}

// validateGltfBasisuCompat checks the one extra constraint the
// KHR_texture_basisu glTF extension adds on top of the base format: the
// file must use BASIS_LZ or ZSTD supercompression (§6's -g flag).
func validateGltfBasisuCompat(ctx *Context, h *Header) {
	if h.SupercompressionScheme != SUPERCOMPRESSION_BASISLZ && h.SupercompressionScheme != SUPERCOMPRESSION_ZSTD {
		ctx.Warning(6003, h.SupercompressionScheme)
	}
}

// sinkFunc exposes ctx's sink so RunStages can hand it to ValidateHeader
// without duplicating the Context's own bookkeeping.
func (c *Context) sinkFunc() Sink {
	return c.sink
}
