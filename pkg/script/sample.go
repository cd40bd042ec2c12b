package script

import (
	"bytes"
	_ "embed"
)

//go:embed sample.toml
var sampleTOML []byte

// SampleTOML returns the source of the sample script.
func SampleTOML() []byte {
	return bytes.Clone(sampleTOML)
}

// Sample returns the built-in sample script: a nine-slide deck on
// autonomous AI mixing all three slide kinds and nested outlines.
func Sample() Script {
	s, err := DecodeTOML(bytes.NewReader(sampleTOML))
	if err != nil {
		panic("script: embedded sample is invalid: " + err.Error())
	}
	return s
}
