package encio

import "encoding/binary"

// ByteOrder combines binary.ByteOrder and binary.AppendByteOrder into a single engine,
// so fixed-width codecs can both fill scratch buffers and append onto sinks.
type ByteOrder interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// BigEndian is the byte order of every fixed-width value on the wire.
var BigEndian ByteOrder = binary.BigEndian
