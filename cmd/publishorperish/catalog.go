package main

import (
	"fmt"

	"github.com/lox/publishorperish/internal/catalog"
)

// CatalogCmd prints the card counts of a catalog, validating it on load.
type CatalogCmd struct {
	File string `arg:"" optional:"" type:"existingfile" help:"HCL catalog to check (defaults to the built-in one)"`
}

var catalogKinds = []catalog.Kind{
	catalog.KindResearch,
	catalog.KindFunding,
	catalog.KindCollaboration,
	catalog.KindSetback,
	catalog.KindSpecial,
	catalog.KindPersonality,
	catalog.KindCharacter,
}

func (c *CatalogCmd) Run() error {
	cat, err := loadCatalog(c.File)
	if err != nil {
		return err
	}
	name := c.File
	if name == "" {
		name = "built-in"
	}
	fmt.Println(titleStyle.Render("Catalog " + name))
	sizes := cat.Size()
	for _, kind := range catalogKinds {
		fmt.Printf("%-14s %3d\n", kind, sizes[kind])
	}
	return nil
}
