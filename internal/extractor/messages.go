package extractor

import "fmt"

// Diagnostic results are successful extractions whose payload explains why no
// usable document content is available. They are content, never errors; the
// HTTP layer must not turn them into failures.

func shortContentMessage(fileName string, n int) string {
	return fmt.Sprintf(
		"The text content of %q is very short or empty (%d characters). "+
			"The file may not contain extractable text. Please download the file to view it, "+
			"or re-upload it as a handwritten document to run it through OCR.",
		fileName, n)
}

func emptyPDFMessage(fileName string) string {
	return fmt.Sprintf(
		"No text could be extracted from %q. The PDF may consist of scanned images without "+
			"a text layer, be password-protected, or be corrupted. If it is a scan or a photo of "+
			"handwriting, re-upload it as a handwritten document so it is processed with OCR; "+
			"otherwise please download the file to view it directly.",
		fileName)
}

func unreadablePDFMessage(fileName string, err error) string {
	return fmt.Sprintf(
		"The PDF %q could not be read (%v). It may be password-protected or corrupted. "+
			"Please download the file to view it, or re-upload a readable copy.",
		fileName, err)
}

func unsupportedMessage(fileName, mimeType string) string {
	return fmt.Sprintf(
		"Text extraction is not available for this file type (%s). "+
			"Please download %q to view its contents.",
		mimeType, fileName)
}

func extractionFailedMessage(fileName string, err error) string {
	return fmt.Sprintf(
		"Text extraction for %q did not complete: %v. "+
			"Please download the file to view its contents.",
		fileName, err)
}

// recoverToDiagnostic converts a parser-library panic into a diagnostic
// result. Deferred at the top of each extractor's Extract.
func recoverToDiagnostic(fileName string, text *string, err *error) {
	if r := recover(); r != nil {
		*text = extractionFailedMessage(fileName, fmt.Errorf("parser failure: %v", r))
		*err = nil
	}
}
