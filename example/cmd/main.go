package main

import (
	"context"
	"fmt"
	"os"

	"git.weirdcat.su/weirdcat/valuegen/example/db"
	"git.weirdcat.su/weirdcat/valuegen/example/models"
	"git.weirdcat.su/weirdcat/valuegen/parcel"
	"git.weirdcat.su/weirdcat/valuegen/prefs"
)

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	catalog, err := db.Open(ctx, ":memory:")
	if err != nil {
		return err
	}
	defer catalog.Close()

	stock := int32(3)
	teapot := &models.Product{ID: 1, Name: "Teapot", Price: models.Money{Cents: 1999, Currency: "EUR"}, Stock: &stock}
	if err := catalog.Add(ctx, teapot); err != nil {
		return err
	}

	// Read the products back through the generated row factory
	products, err := catalog.Products(ctx)
	if err != nil {
		return err
	}
	for _, p := range products {
		fmt.Printf("Product: %d %s %s\n", p.ID, p.Name, p.Price)
	}

	// Hand the first one across a parcel
	out := parcel.New()
	if err := out.WriteValue(products[0]); err != nil {
		return err
	}
	copied, err := parcel.ReadValue[*models.Product](parcel.FromBytes(out.Bytes()), nil)
	if err != nil {
		return err
	}
	fmt.Printf("Parcel copy: %+v (%d bytes)\n", *copied, len(out.Bytes()))

	// Preferences fall back to their declared defaults
	store, err := prefs.LoadYAMLFile("settings.yaml")
	if err != nil {
		return err
	}
	settings := models.SettingsFromPreferences(store)
	settings.Launches++

	e := store.Edit()
	settings.Save(e)
	if err := e.Commit(); err != nil {
		return err
	}
	fmt.Printf("Settings: %+v\n", *settings)

	return prefs.SaveYAMLFile("settings.yaml", store)
}
