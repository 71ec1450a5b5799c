package mock

import "github.com/fwojciec/docsite"

var _ docsite.GeneratorDetector = (*GeneratorDetector)(nil)

// GeneratorDetector is a mock implementation of docsite.GeneratorDetector.
type GeneratorDetector struct {
	DetectFn func(html string) docsite.Generator
}

func (d *GeneratorDetector) Detect(html string) docsite.Generator {
	return d.DetectFn(html)
}
