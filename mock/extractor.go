package mock

import "github.com/nekyl/twob"

var _ twob.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of twob.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*twob.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*twob.ExtractResult, error) {
	return e.ExtractFn(html)
}
