// Package mediatest builds small in-memory media files for tests.
package mediatest

import (
	"bytes"
	"encoding/binary"
	"sort"
)

// EXIF tag ids written by JPEG.
const (
	tagModel             = 0x0110
	tagDateTime          = 0x0132
	tagExifIFDPointer    = 0x8769
	tagGPSInfoIFDPointer = 0x8825
	tagDateTimeOriginal  = 0x9003
)

// TIFF field types.
const (
	typeASCII = 2
	typeLong  = 4
)

// Tags selects the EXIF tags written into a generated JPEG. Empty fields are
// omitted.
type Tags struct {
	Model            string
	DateTime         string
	DateTimeOriginal string // written to the Exif sub-IFD, as cameras do

	// BrokenGPS adds a GPS IFD pointer past the end of the data.
	BrokenGPS bool
}

// JPEG returns a minimal JPEG stream (SOI, APP1 Exif, EOI) carrying tags.
// payload is appended before EOI so distinct files get distinct hashes.
func JPEG(tags Tags, payload []byte) []byte {
	tiff := tiffFile(tags)

	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xD8})
	b.Write([]byte{0xFF, 0xE1})
	_ = binary.Write(&b, binary.BigEndian, uint16(2+6+len(tiff)))
	b.WriteString("Exif\x00\x00")
	b.Write(tiff)
	b.Write(payload)
	b.Write([]byte{0xFF, 0xD9})
	return b.Bytes()
}

// PlainJPEG returns a JPEG stream with no APP1 segment at all.
func PlainJPEG(payload []byte) []byte {
	var b bytes.Buffer
	b.Write([]byte{0xFF, 0xD8})
	b.Write(payload)
	b.Write([]byte{0xFF, 0xD9})
	return b.Bytes()
}

type field struct {
	id    uint16
	typ   uint16
	ascii string
	long  uint32
}

// tiffFile encodes a little-endian TIFF header, IFD0 and, when
// DateTimeOriginal is set, the Exif sub-IFD right after IFD0's data.
func tiffFile(tags Tags) []byte {
	const headerLen = 8

	var ifd0 []field
	if tags.Model != "" {
		ifd0 = append(ifd0, field{id: tagModel, typ: typeASCII, ascii: tags.Model})
	}
	if tags.DateTime != "" {
		ifd0 = append(ifd0, field{id: tagDateTime, typ: typeASCII, ascii: tags.DateTime})
	}
	if tags.BrokenGPS {
		ifd0 = append(ifd0, field{id: tagGPSInfoIFDPointer, typ: typeLong, long: 0xFFFF})
	}

	var sub []field
	if tags.DateTimeOriginal != "" {
		sub = append(sub, field{id: tagDateTimeOriginal, typ: typeASCII, ascii: tags.DateTimeOriginal})
		// Placeholder; the offset is known once IFD0 is sized.
		ifd0 = append(ifd0, field{id: tagExifIFDPointer, typ: typeLong})
	}

	first := encodeIFD(ifd0, headerLen)
	if len(sub) > 0 {
		subOff := uint32(headerLen + len(first))
		for i := range ifd0 {
			if ifd0[i].id == tagExifIFDPointer {
				ifd0[i].long = subOff
			}
		}
		first = encodeIFD(ifd0, headerLen)
		first = append(first, encodeIFD(sub, int(subOff))...)
	}

	var out bytes.Buffer
	out.WriteString("II")
	_ = binary.Write(&out, binary.LittleEndian, uint16(42))
	_ = binary.Write(&out, binary.LittleEndian, uint32(headerLen))
	out.Write(first)
	return out.Bytes()
}

// encodeIFD encodes fields as one IFD starting at offset off, followed by the
// values that do not fit inline.
func encodeIFD(fields []field, off int) []byte {
	fields = append([]field(nil), fields...)
	sort.Slice(fields, func(i, j int) bool { return fields[i].id < fields[j].id })

	le := binary.LittleEndian
	dataOff := off + 2 + 12*len(fields) + 4

	var ifd, data bytes.Buffer
	_ = binary.Write(&ifd, le, uint16(len(fields)))
	for _, f := range fields {
		_ = binary.Write(&ifd, le, f.id)
		_ = binary.Write(&ifd, le, f.typ)
		if f.typ == typeLong {
			_ = binary.Write(&ifd, le, uint32(1))
			_ = binary.Write(&ifd, le, f.long)
			continue
		}

		v := append([]byte(f.ascii), 0)
		_ = binary.Write(&ifd, le, uint32(len(v)))
		if len(v) <= 4 {
			var inline [4]byte
			copy(inline[:], v)
			ifd.Write(inline[:])
			continue
		}
		_ = binary.Write(&ifd, le, uint32(dataOff+data.Len()))
		data.Write(v)
		if data.Len()%2 == 1 {
			data.WriteByte(0)
		}
	}
	_ = binary.Write(&ifd, le, uint32(0)) // no next IFD

	return append(ifd.Bytes(), data.Bytes()...)
}
