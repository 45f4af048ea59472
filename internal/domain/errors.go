package domain

import "errors"

var (
	// ErrMissingAPIKey is a configuration error. It is the only error class
	// that propagates to the caller unhandled, and it fails fast before any
	// upload is consumed.
	ErrMissingAPIKey = errors.New("parser API key is not configured")

	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrImageTooLarge       = errors.New("image dimensions exceed the allowed ceiling")
	// ErrEncodedImageTooLarge means the image fit the dimension ceiling but the
	// re-encoded JPEG still exceeds the encoded-size ceiling.
	ErrEncodedImageTooLarge = errors.New("image exceeds the size ceiling after compression")
	ErrImageDecode         = errors.New("image bytes could not be decoded")
	ErrDocumentParse       = errors.New("document is not a valid PDF")
	ErrTooManyItems        = errors.New("batch exceeds the maximum item count")
	ErrEmptyBatch          = errors.New("batch contains no items")
)
