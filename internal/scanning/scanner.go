package scanning

// Recognition is the output of one OCR pass over an uploaded document.
type Recognition struct {
	RawText    string  `json:"raw_text"`
	Confidence float64 `json:"confidence"` // recognition quality as a percentage, 0-100
}

// Recognizer defines the interface for OCR backends
type Recognizer interface {
	// Recognize transcribes the text in a receipt image/PDF
	Recognize(imageData []byte, contentType string) (*Recognition, error)
	// Close closes the recognizer and releases resources
	Close() error
}

// recognizePrompt is the shared prompt used by all vision-model backends. The
// model acts as an OCR engine: it transcribes, it does not interpret.
const recognizePrompt = `You are acting as an OCR engine for a receipt or invoice document. Transcribe ALL visible text in the image exactly as printed, one line of the document per line of output, top to bottom. Do not summarize, reorder, translate, or interpret anything.

Also estimate your overall recognition confidence as a percentage between 0 and 100, based on how legible the document is.

Return ONLY valid JSON in this exact format:
{
  "raw_text": "line one\nline two\n...",
  "confidence": 0.0
}

Important:
- raw_text must contain the transcription with \n between document lines
- confidence must be a number between 0 and 100 (not a string)
- Preserve punctuation, currency symbols, and digits exactly as printed
- Do not include any text before or after the JSON
- Do not use markdown code blocks`
