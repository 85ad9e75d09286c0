// Package compress provides the byte-level codecs applied to encoded channel
// snapshot payloads.
//
// Four codecs are available, selected by format.CompressionType:
//
//   - None: the payload is stored as is
//   - Zstd: best ratio, slower; pure Go (klauspost/compress) unless built
//     with cgo, in which case the libzstd bindings of valyala/gozstd are used
//   - S2: fast, moderate ratio (klauspost/compress/s2)
//   - LZ4: fastest decode (pierrec/lz4 block format)
//
// All codecs are stateless values safe for concurrent use; encoders and
// decoders that benefit from reuse are kept in sync.Pools.
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	if err != nil {
//	    return err
//	}
//	packed, err := codec.Compress(payload)
package compress
