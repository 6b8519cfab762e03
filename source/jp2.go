package source

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// JP2 box types (ISO/IEC 15444-1 Annex I)
const (
	boxSignature  = "jP  "
	boxCodestream = "jp2c"
	boxUUID       = "uuid"
)

// signatureContent is the payload of the JP2 signature box
const signatureContent uint32 = 0x0D0A870A

// jp2Opener locates the contiguous codestream box of a JP2 file
type jp2Opener struct{}

func (jp2Opener) Format() Format {
	return FormatJP2
}

func (jp2Opener) Open(in Input, _ Options) (*Source, error) {
	boxes, err := walkBoxes(in.R, in.Size)
	if err != nil {
		return nil, err
	}
	if len(boxes) == 0 || boxes[0].Type != boxSignature {
		return nil, fmt.Errorf("%w: missing JP2 signature box", ErrUnknownFormat)
	}
	if err := checkSignature(in.R, boxes[0]); err != nil {
		return nil, err
	}

	c := Container{Format: FormatJP2, Offset: -1, Boxes: boxes}
	var codestream *Box
	for i := range boxes {
		b := &boxes[i]
		switch b.Type {
		case boxCodestream:
			if codestream == nil {
				codestream = b
			}
		case boxUUID:
			id, err := readBoxUUID(in.R, *b)
			if err != nil {
				return nil, err
			}
			c.UUIDs = append(c.UUIDs, id)
		}
	}
	if codestream == nil {
		return nil, ErrNoCodestream
	}

	start, length := payload(*codestream)
	c.Offset = start
	return &Source{
		r:         io.NewSectionReader(in.R, start, length),
		size:      length,
		container: c,
	}, nil
}

// walkBoxes lists the top-level boxes of a JP2 file. A box with LBox=0
// runs to the end of the input; LBox=1 is followed by a 64-bit XLBox.
func walkBoxes(r io.ReaderAt, size int64) ([]Box, error) {
	var boxes []Box
	var hdr [16]byte

	pos := int64(0)
	for pos+8 <= size {
		if err := readFull(r, hdr[:8], pos); err != nil {
			return nil, fmt.Errorf("read box header at %d: %w", pos, err)
		}
		lbox := int64(binary.BigEndian.Uint32(hdr[0:4]))
		typ := string(hdr[4:8])
		header := int64(8)

		switch {
		case lbox == 0:
			lbox = size - pos
		case lbox == 1:
			if pos+16 > size {
				return nil, fmt.Errorf("%w: truncated XLBox at %d", ErrUnknownFormat, pos)
			}
			if err := readFull(r, hdr[8:16], pos+8); err != nil {
				return nil, fmt.Errorf("read XLBox at %d: %w", pos, err)
			}
			xl := binary.BigEndian.Uint64(hdr[8:16])
			if xl < 16 || xl > uint64(size-pos) {
				return nil, fmt.Errorf("%w: box %q at %d has length %d", ErrUnknownFormat, typ, pos, xl)
			}
			lbox = int64(xl)
			header = 16
		case lbox < 8:
			return nil, fmt.Errorf("%w: box %q at %d has length %d", ErrUnknownFormat, typ, pos, lbox)
		}

		if pos+lbox > size {
			// a truncated final box still exposes what is present
			lbox = size - pos
		}
		boxes = append(boxes, Box{Type: typ, Offset: pos, Length: lbox, Header: header})
		pos += lbox
	}
	return boxes, nil
}

// payload returns the offset and length of the box content
func payload(b Box) (int64, int64) {
	return b.Offset + b.Header, b.Length - b.Header
}

func checkSignature(r io.ReaderAt, b Box) error {
	var buf [4]byte
	start, length := payload(b)
	if length != 4 {
		return fmt.Errorf("%w: signature box length %d", ErrUnknownFormat, b.Length)
	}
	if err := readFull(r, buf[:], start); err != nil {
		return fmt.Errorf("read signature box: %w", err)
	}
	if binary.BigEndian.Uint32(buf[:]) != signatureContent {
		return fmt.Errorf("%w: bad JP2 signature % X", ErrUnknownFormat, buf)
	}
	return nil
}

func readBoxUUID(r io.ReaderAt, b Box) (uuid.UUID, error) {
	start, length := payload(b)
	if length < 16 {
		return uuid.Nil, fmt.Errorf("%w: uuid box at %d holds %d bytes", ErrUnknownFormat, b.Offset, length)
	}
	var raw [16]byte
	if err := readFull(r, raw[:], start); err != nil {
		return uuid.Nil, fmt.Errorf("read uuid box at %d: %w", b.Offset, err)
	}
	id, err := uuid.FromBytes(raw[:])
	if err != nil {
		return uuid.Nil, fmt.Errorf("uuid box at %d: %w", b.Offset, err)
	}
	return id, nil
}

// readFull fills p from off; io.EOF together with a complete read is not an error
func readFull(r io.ReaderAt, p []byte, off int64) error {
	n, err := r.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return err
}
