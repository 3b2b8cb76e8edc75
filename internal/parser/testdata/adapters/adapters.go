package adapters

import "git.weirdcat.su/weirdcat/valuegen/rowsource"

type Lower struct{}

func LowerFromRow(rowsource.Row) (string, error) { return "lower", nil }

type Upper struct{}

func UpperFromRow(rowsource.Row) (string, error) { return "UPPER", nil }

type Label struct {
	Name string `valuegen:"adapter=Upper"`
}

type kind int32

//valuegen:parcelable
type Thing struct {
	Kind kind
	Prev kind
}
