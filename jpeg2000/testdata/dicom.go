package testdata

import (
	"github.com/cocosip/go-dicom/pkg/dicom/dataset"
	"github.com/cocosip/go-dicom/pkg/dicom/element"
	"github.com/cocosip/go-dicom/pkg/dicom/tag"
	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/dicom/writer"
	"github.com/cocosip/go-dicom/pkg/io/buffer"
)

// WriteDICOM writes a single-frame grayscale DICOM file whose pixel data is
// frame. With an encapsulated transfer syntax the frame becomes one fragment;
// otherwise it is stored as native OB pixel data.
func WriteDICOM(path string, width, height, bitDepth int, frame []byte, ts *transfer.Syntax) error {
	ds := dataset.New()
	elems := []element.Element{
		element.NewUnsignedShort(tag.Rows, []uint16{uint16(height)}),
		element.NewUnsignedShort(tag.Columns, []uint16{uint16(width)}),
		element.NewUnsignedShort(tag.SamplesPerPixel, []uint16{1}),
		element.NewUnsignedShort(tag.BitsAllocated, []uint16{uint16((bitDepth + 7) / 8 * 8)}),
		element.NewUnsignedShort(tag.BitsStored, []uint16{uint16(bitDepth)}),
		element.NewUnsignedShort(tag.HighBit, []uint16{uint16(bitDepth - 1)}),
		element.NewUnsignedShort(tag.PixelRepresentation, []uint16{0}),
	}
	if ts.IsEncapsulated() {
		obf := element.NewOtherByteFragment(tag.PixelData)
		obf.AddFragment(buffer.NewMemory(frame))
		elems = append(elems, obf)
	} else {
		elems = append(elems, element.NewOtherByte(tag.PixelData, frame))
	}
	for _, e := range elems {
		if err := ds.Add(e); err != nil {
			return err
		}
	}
	return writer.WriteFile(path, ds, writer.WithTransferSyntax(ts))
}
