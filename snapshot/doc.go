// Package snapshot persists computed regression channels in a compact binary
// format.
//
// # Layout
//
//	magic      4 bytes  "RCHN"
//	version    1 byte
//	flags      1 byte   bit 0: big endian fixed-width fields
//	compress   1 byte   format.CompressionType of the payload
//	reserved   1 byte
//	series ID  8 bytes  xxHash64 of the series name
//	count      4 bytes  number of rows
//	deviations 8 bytes  float64 band multiplier
//	stddev     8 bytes  float64 residual standard deviation
//	kind       2 byte length + bytes
//	series     2 byte length + bytes
//	raw size   4 bytes  payload size before compression
//	size       4 bytes  stored payload size
//	payload    size bytes
//	checksum   8 bytes  xxHash64 of every preceding byte
//
// The uncompressed payload holds four length-prefixed columns: timestamps
// (delta-of-delta varints) followed by the center, upper and lower lines
// (Gorilla XOR encoded).
package snapshot
