package service

import (
	"github.com/fzokart/fzokart-orders-service/internal/clients"
	"github.com/fzokart/fzokart-orders-service/internal/models"
	"github.com/fzokart/fzokart-orders-service/internal/pricing"
)

// itemInput merges a catalog product with the requested quantity. The GST
// rate is resolved here so the engine sees the product override or the
// category slab before its own default.
func itemInput(calc *pricing.Calculator, p *models.Product, quantity int) pricing.ItemInput {
	return pricing.ItemInput{
		ID:           p.ID,
		Name:         p.Name,
		Image:        p.Image,
		Thumbnail:    p.Thumbnail,
		Images:       p.Images,
		MRP:          pricing.Num(p.OriginalPrice),
		SellingPrice: pricing.Num(p.Price),
		Quantity:     pricing.Num(float64(quantity)),
		GSTRate:      pricing.Num(calc.ResolveRate(p.CustomGSTRate, p.CategoryGSTRate)),
		PriceType:    pricing.ParsePriceType(p.PriceType),
	}
}

func buildItemInputs(calc *pricing.Calculator, req *models.CheckoutRequest, products map[string]*models.Product) []pricing.ItemInput {
	inputs := make([]pricing.ItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		inputs = append(inputs, itemInput(calc, products[item.ProductID], item.Quantity))
	}
	return inputs
}

func couponLines(req *models.CheckoutRequest, products map[string]*models.Product) []clients.CouponLine {
	lines := make([]clients.CouponLine, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, clients.CouponLine{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     products[item.ProductID].Price,
		})
	}
	return lines
}

func productIDs(req *models.CheckoutRequest) []string {
	seen := make(map[string]struct{}, len(req.Items))
	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}
