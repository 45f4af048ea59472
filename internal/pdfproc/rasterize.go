package pdfproc

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
)

// fitzDocument adapts go-fitz to the rasterDocument interface.
type fitzDocument struct {
	doc *fitz.Document
}

// openFitz opens PDF bytes with the go-fitz (MuPDF) backend.
func openFitz(data []byte) (rasterDocument, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("opening document: %w", err)
	}
	return &fitzDocument{doc: doc}, nil
}

func (d *fitzDocument) PageImage(pageNum int, dpi float64) ([]byte, error) {
	if dpi <= 0 {
		dpi = 200
	}
	// go-fitz pages are 0-based.
	img, err := d.doc.ImageDPI(pageNum-1, dpi)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w", pageNum, err)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encoding page %d: %w", pageNum, err)
	}
	return buf.Bytes(), nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
