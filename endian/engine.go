// Package endian selects the byte order used for fixed-width snapshot fields.
package endian

import (
	"encoding/binary"
	"unsafe"
)

// Engine reads and appends fixed-width integers in one byte order.
type Engine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// Little returns the little endian engine, the default of snapshot files.
func Little() Engine {
	return binary.LittleEndian
}

// Big returns the big endian engine.
func Big() Engine {
	return binary.BigEndian
}

// Native returns the engine matching the host byte order.
func Native() Engine {
	var word uint16 = 0x0100
	if (*[2]byte)(unsafe.Pointer(&word))[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsBig reports whether e writes the most significant byte first.
func IsBig(e Engine) bool {
	return e == binary.BigEndian
}

// FromFlag returns Big when big is set, otherwise Little.
func FromFlag(big bool) Engine {
	if big {
		return Big()
	}

	return Little()
}
