package main

import (
	"github.com/spf13/pflag"

	"github.com/syssam/erdgen/compiler/gen"
	"github.com/syssam/erdgen/compiler/load"
	"github.com/syssam/erdgen/compiler/naming"
)

var (
	_ pflag.Value = (*formatValue)(nil)
	_ pflag.Value = (*symmetryValue)(nil)
	_ pflag.Value = (*inflectorValue)(nil)
)

// formatValue is the --format flag.
type formatValue struct{ f *load.Format }

func (v formatValue) String() string {
	if v.f == nil {
		return ""
	}
	return v.f.String()
}

func (v formatValue) Set(s string) error {
	f, err := load.ParseFormat(s)
	if err != nil {
		return err
	}
	*v.f = f
	return nil
}

func (formatValue) Type() string { return "format" }

// symmetryValue is the --symmetry flag.
type symmetryValue struct{ p *gen.SymmetryPolicy }

func (v symmetryValue) String() string {
	if v.p == nil {
		return ""
	}
	return v.p.String()
}

func (v symmetryValue) Set(s string) error {
	p, err := gen.ParseSymmetryPolicy(s)
	if err != nil {
		return err
	}
	*v.p = p
	return nil
}

func (symmetryValue) Type() string { return "policy" }

// inflectorValue is the --inflector flag.
type inflectorValue struct{ name *string }

func (v inflectorValue) String() string {
	if v.name == nil {
		return ""
	}
	return *v.name
}

func (v inflectorValue) Set(s string) error {
	if _, err := naming.ParseInflector(s); err != nil {
		return err
	}
	*v.name = s
	return nil
}

func (inflectorValue) Type() string { return "name" }
