package prompt

import (
	_ "embed"
	"strings"
)

var (
	//go:embed template/classifier.txt
	classifierRaw string

	//go:embed template/information.txt
	informationRaw string

	//go:embed template/order.txt
	orderRaw string
)

// Set holds loaded prompt content.
type Set struct {
	Classifier  string
	Information string
	Order       string
}

// LoadSet returns the embedded prompts with surrounding whitespace trimmed.
func LoadSet() Set {
	return Set{
		Classifier:  strings.TrimSpace(classifierRaw),
		Information: strings.TrimSpace(informationRaw),
		Order:       strings.TrimSpace(orderRaw),
	}
}
