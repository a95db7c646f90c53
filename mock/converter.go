package mock

import "github.com/nekyl/twob"

var _ twob.Converter = (*Converter)(nil)

// Converter is a mock implementation of twob.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
