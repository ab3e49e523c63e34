package bootsim

import (
	"fmt"

	"awaken/src/boot/exception"
	"awaken/src/boot/mmu"
)

// Decoded is everything known about one exception record.
type Decoded struct {
	Classification string `yaml:"classification"`
	Kind           string `yaml:"kind"`
	Class          string `yaml:"class"`
	ClassName      string `yaml:"className"`
	Diagnostic     string `yaml:"diagnostic,omitempty"`
}

// Decode classifies r the way the dispatcher does. Diagnostic is the line a
// fatal or reported exception would print.
func Decode(r exception.Record) Decoded {
	c := exception.Classify(r)
	d := Decoded{
		Classification: c.String(),
		Kind:           c.Kind.String(),
		Class:          fmt.Sprintf("%#02x", uint8(c.Class)),
		ClassName:      exception.ClassName(c.Class),
	}
	if c.Kind == exception.Fatal || c.Kind == exception.Reported {
		d.Diagnostic = exception.Diagnostic(r, c)
	}
	return d
}

// Table builds the translation table of a variant at base and returns its
// regions.
func Table(variant string, base uint64) ([]mmu.Region, error) {
	layout := mmu.AArch64Layout
	switch variant {
	case VariantAArch64:
	case VariantAArch32:
		layout = mmu.AArch32Layout
	default:
		return nil, fmt.Errorf("%w: variant %q", ErrInvalidConfig, variant)
	}
	b := mmu.NewBuilder(&mmu.Table{}, uintptr(base), layout)
	if err := b.Build(); err != nil {
		return nil, err
	}
	return b.Regions()
}
