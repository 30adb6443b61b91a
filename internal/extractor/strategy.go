package extractor

import "strings"

// Strategy is the closed set of extraction routes a document can take.
type Strategy int

const (
	StrategyUnsupported Strategy = iota
	StrategyPDF
	StrategyWord
	StrategyPowerPoint
	StrategyPlainText
)

func (s Strategy) String() string {
	switch s {
	case StrategyPDF:
		return "pdf"
	case StrategyWord:
		return "word"
	case StrategyPowerPoint:
		return "powerpoint"
	case StrategyPlainText:
		return "plainText"
	default:
		return "unsupported"
	}
}

// Classify maps a MIME type onto an extraction strategy. Pure function;
// unknown types map to StrategyUnsupported rather than failing.
func Classify(mimeType string) Strategy {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}

	switch mt {
	case "application/pdf":
		return StrategyPDF
	case "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/msword":
		return StrategyWord
	case "application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/vnd.ms-powerpoint":
		return StrategyPowerPoint
	case "text/plain":
		return StrategyPlainText
	default:
		return StrategyUnsupported
	}
}
