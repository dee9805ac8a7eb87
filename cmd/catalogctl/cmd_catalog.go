package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marudhara-crafts/catalog-sync/internal/core/domain"
	"github.com/marudhara-crafts/catalog-sync/internal/core/service"
)

// catalogCmd fetches the product list and prints the classified view.
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Fetch and print the classified product catalog",
	RunE:  runCatalog,
}

func runCatalog(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}

	if _, err := a.catalog.Refresh(ctx); err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}

	items := a.catalog.Catalog()
	grouped := service.GroupCatalog(items)

	for _, cat := range domain.CategoryOrder {
		section := grouped[cat]
		fmt.Printf("%s (%d)\n", domain.CategoryLabels[cat], len(section))
		for _, item := range section {
			desc := ""
			if item.Product.Description != nil {
				desc = *item.Product.Description
			}
			fmt.Printf("  #%d  %s  ₹%g\n", item.Product.ID, item.Product.Name, item.Product.Price)
			if desc != "" {
				fmt.Printf("      %s\n", desc)
			}
			fmt.Printf("      %s\n", item.ImageURL)
		}
	}
	fmt.Printf("Loaded %d product(s).\n", len(items))
	return nil
}
