// Package ocr recognizes words, with their pixel boxes, on page images.
//
// Recognition is delegated to the Tesseract engine through gosseract and
// is only compiled in with the "ocr" build tag:
//
//	go build -tags ocr
//
// Without the tag, [New] returns [ErrOCRNotEnabled]. Tesseract must be
// installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Words come from Tesseract's hOCR output, so every word carries its real
// bounding box, its confidence and the index of the line Tesseract placed
// it on. Narrow images are upscaled before recognition ([Upscale]) and the
// boxes are mapped back to the original image's pixel space.
package ocr
