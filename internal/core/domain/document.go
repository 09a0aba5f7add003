package domain

import "io"

// Document is a source file together with its extracted text and the
// direction it will be translated in.
type Document struct {
	SourcePath string
	Text       string
	Direction  Direction
}

// TranslationResult describes one translated output file.
type TranslationResult struct {
	SourcePath string    `json:"source"`
	OutputPath string    `json:"output"`
	Direction  Direction `json:"direction"`
}

// BatchRequest is the input of the document pipeline.
type BatchRequest struct {
	Inputs    []string
	Mode      Mode
	OutputDir string
	Model     string
}

// UploadedFile is a file received by the upload endpoint.
type UploadedFile struct {
	Filename string
	Body     io.Reader
}
