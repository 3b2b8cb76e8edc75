// Package models holds the value types of the example store. Run
// valuegen generate ./example/models from the repository root to refresh
// valuegen_gen.go.
package models

import (
	"fmt"

	"git.weirdcat.su/weirdcat/valuegen/rowsource"
)

// Money is stored as two columns: price_cents and currency
type Money struct {
	Cents    int64
	Currency string
}

// MoneyFromRow reads the price columns of the current row
func MoneyFromRow(row rowsource.Row) (Money, error) {
	cents, err := row.Int64("price_cents")
	if err != nil {
		return Money{}, err
	}
	currency, err := row.String("currency")
	if err != nil {
		return Money{}, err
	}
	return Money{Cents: cents, Currency: currency}, nil
}

// Values returns the price columns
func (m Money) Values() rowsource.Values {
	return rowsource.Values{"price_cents": m.Cents, "currency": m.Currency}
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d %s", m.Cents/100, m.Cents%100, m.Currency)
}

// Product is a catalog entry of the products table
//
//valuegen:parcelable
//valuegen:values=Values
type Product struct {
	ID    int64  `valuegen:"column=id"`
	Name  string `valuegen:"column"`
	Price Money  `valuegen:"adapter=Money"`
	Stock *int32 `valuegen:"column=stock"`
}

// Settings are the per-user preferences of the store front
//
//valuegen:prefs-writer=Save
type Settings struct {
	ABoolean bool                `valuegen:"pref=a_boolean,default=true"`
	Volume   float32             `valuegen:"pref=volume,default=0.5"`
	Launches int32               `valuegen:"pref=launches"`
	LastSync *int64              `valuegen:"pref=last_sync"`
	Theme    string              `valuegen:"pref=theme,default=dark"`
	Tags     map[string]struct{} `valuegen:"pref=tags,default=news,go"`
}

// Label is a marker that is always "v" and stored under column k
type Label struct {
	Text string
}

func LabelFromRow(rowsource.Row) Label {
	return Label{Text: "v"}
}

func (l Label) Values() rowsource.Values {
	return rowsource.Values{"k": l.Text}
}

// Reading is one sensor sample
//
//valuegen:values=Values
type Reading struct {
	AnInt int32 `valuegen:"column=an_int"`
	Delta int16 `valuegen:"column=delta"`
	Label Label `valuegen:"adapter=Label"`
}
