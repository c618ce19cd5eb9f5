package tool

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contractx "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/contract"
	statex "github.com/Mannyasoh/ai-ecommerce-chatbot/agent/state"
	"github.com/cloudwego/eino/schema"
)

const (
	ToolProductSearch       = "product.search"
	ToolProductDetails      = "product.details"
	ToolProductsByCategory  = "product.by_category"
	ToolProductAvailability = "product.availability"

	defaultSearchTopK    = 5
	defaultCategoryLimit = 10
)

type SearchOutput struct {
	Products []contractx.Product `json:"products"`
	Total    int                 `json:"total"`
	Message  string              `json:"message"`
}

type DetailsOutput struct {
	Product *contractx.Product `json:"product"`
	Message string             `json:"message"`
}

type CategoryOutput struct {
	Category string              `json:"category"`
	Products []contractx.Product `json:"products"`
	Total    int                 `json:"total"`
	Message  string              `json:"message"`
}

type AvailabilityOutput struct {
	ProductName string                `json:"product_name"`
	Available   bool                  `json:"available"`
	Stock       contractx.StockStatus `json:"stock"`
	Message     string                `json:"message"`
}

// SearchProducts joins the similarity lookup with the catalog to answer
// product questions.
func SearchProducts(searcher contractx.Searcher, cat contractx.Catalog) Definition {
	return Definition{
		Name: ToolProductSearch,
		Desc: "Search the product catalog by name, category, or features. Returns matching products with id, name, price, and availability.",
		Fields: map[string]Field{
			"query": {Type: schema.String, Desc: "Natural language product query", Required: true},
			"top_k": {Type: schema.Integer, Desc: "Maximum number of results", Positive: true},
		},
		Handler: func(ctx context.Context, _ *statex.Session, args map[string]any) (contractx.ToolResult, error) {
			query := args["query"].(string)
			topK := defaultSearchTopK
			if v, ok := args["top_k"].(int); ok {
				topK = v
			}

			matches, err := searcher.Search(ctx, query, topK)
			if err != nil {
				return contractx.ToolResult{}, fmt.Errorf("search products: %w", err)
			}

			products := make([]contractx.Product, 0, len(matches))
			for _, m := range matches {
				p, err := cat.Product(ctx, m.ProductID)
				if err != nil {
					continue
				}
				products = append(products, *p)
			}

			out := SearchOutput{Products: products, Total: len(products)}
			if len(products) == 0 {
				out.Message = fmt.Sprintf("I couldn't find anything matching %q in our catalog.", query)
			} else {
				var b strings.Builder
				b.WriteString("Here's what I found:\n")
				for _, p := range products {
					fmt.Fprintf(&b, "- %s - $%.2f (%s)\n", p.Name, p.Price, p.Stock)
				}
				out.Message = strings.TrimRight(b.String(), "\n")
			}
			return contractx.ToolResult{Tool: ToolProductSearch, Result: out}, nil
		},
	}
}

// ProductDetails fetches one product by id.
func ProductDetails(cat contractx.Catalog) Definition {
	return Definition{
		Name: ToolProductDetails,
		Desc: "Get full details and specifications for one product by its id (e.g. prod-001).",
		Fields: map[string]Field{
			"product_id": {Type: schema.String, Desc: "Product id from a previous search", Required: true},
		},
		Handler: func(ctx context.Context, _ *statex.Session, args map[string]any) (contractx.ToolResult, error) {
			productID := args["product_id"].(string)

			p, err := cat.Product(ctx, productID)
			if err != nil {
				if errors.Is(err, contractx.ErrProductNotFound) {
					return contractx.ToolResult{
						Tool:  ToolProductDetails,
						Error: fmt.Sprintf("I couldn't find a product with id %s.", productID),
					}, nil
				}
				return contractx.ToolResult{}, fmt.Errorf("product details: %w", err)
			}

			var b strings.Builder
			fmt.Fprintf(&b, "%s - $%.2f (%s)", p.Name, p.Price, p.Stock)
			if p.Description != "" {
				fmt.Fprintf(&b, "\n%s", p.Description)
			}
			for k, v := range p.Specifications {
				fmt.Fprintf(&b, "\n%s: %s", k, v)
			}

			return contractx.ToolResult{
				Tool:   ToolProductDetails,
				Result: DetailsOutput{Product: p, Message: b.String()},
			}, nil
		},
	}
}

// ProductsByCategory lists the catalog entries of one category.
func ProductsByCategory(searcher contractx.Searcher, cat contractx.Catalog) Definition {
	return Definition{
		Name: ToolProductsByCategory,
		Desc: "List products in a category (e.g. laptops, smartphones, audio, tablets).",
		Fields: map[string]Field{
			"category": {Type: schema.String, Desc: "Product category to list", Required: true},
			"limit":    {Type: schema.Integer, Desc: "Maximum number of products", Positive: true},
		},
		Handler: func(ctx context.Context, _ *statex.Session, args map[string]any) (contractx.ToolResult, error) {
			category := args["category"].(string)
			limit := defaultCategoryLimit
			if v, ok := args["limit"].(int); ok {
				limit = v
			}

			matches, err := searcher.Search(ctx, category, limit)
			if err != nil {
				return contractx.ToolResult{}, fmt.Errorf("products by category: %w", err)
			}

			wanted := strings.ToLower(strings.TrimSpace(category))
			products := make([]contractx.Product, 0, len(matches))
			for _, m := range matches {
				p, err := cat.Product(ctx, m.ProductID)
				if err != nil {
					continue
				}
				if strings.ToLower(p.Category) != wanted {
					continue
				}
				products = append(products, *p)
			}

			out := CategoryOutput{Category: category, Products: products, Total: len(products)}
			if len(products) == 0 {
				out.Message = fmt.Sprintf("We don't have any products in the %q category right now.", category)
			} else {
				var b strings.Builder
				fmt.Fprintf(&b, "Our %s:\n", category)
				for _, p := range products {
					fmt.Fprintf(&b, "- %s - $%.2f (%s)\n", p.Name, p.Price, p.Stock)
				}
				out.Message = strings.TrimRight(b.String(), "\n")
			}
			return contractx.ToolResult{Tool: ToolProductsByCategory, Result: out}, nil
		},
	}
}

// ProductAvailability reports whether a product can currently be purchased.
func ProductAvailability(searcher contractx.Searcher, cat contractx.Catalog) Definition {
	return Definition{
		Name: ToolProductAvailability,
		Desc: "Check whether a product is currently available for purchase.",
		Fields: map[string]Field{
			"product_name": {Type: schema.String, Desc: "Name of the product to check", Required: true},
		},
		Handler: func(ctx context.Context, _ *statex.Session, args map[string]any) (contractx.ToolResult, error) {
			name := args["product_name"].(string)

			product, err := resolveProduct(ctx, searcher, cat, name)
			if err != nil {
				if errors.Is(err, contractx.ErrProductNotFound) {
					return contractx.ToolResult{
						Tool:  ToolProductAvailability,
						Error: fmt.Sprintf("I couldn't find %q in our catalog.", name),
					}, nil
				}
				return contractx.ToolResult{}, err
			}

			out := AvailabilityOutput{
				ProductName: product.Name,
				Available:   product.InStock(),
				Stock:       product.Stock,
			}
			if out.Available {
				out.Message = fmt.Sprintf("%s is in stock at $%.2f.", product.Name, product.Price)
			} else {
				out.Message = fmt.Sprintf("%s is currently %s.", product.Name, product.Stock)
			}
			return contractx.ToolResult{Tool: ToolProductAvailability, Result: out}, nil
		},
	}
}

// resolveProduct picks the best catalog match for a product name: exact name
// match first, then substring, then the top-scored hit.
func resolveProduct(ctx context.Context, searcher contractx.Searcher, cat contractx.Catalog, name string) (*contractx.Product, error) {
	matches, err := searcher.Search(ctx, name, defaultSearchTopK)
	if err != nil {
		return nil, fmt.Errorf("resolve product: %w", err)
	}

	var products []*contractx.Product
	for _, m := range matches {
		p, err := cat.Product(ctx, m.ProductID)
		if err != nil {
			continue
		}
		products = append(products, p)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("%w: name=%q", contractx.ErrProductNotFound, name)
	}

	lower := strings.ToLower(strings.TrimSpace(name))
	for _, p := range products {
		if strings.ToLower(p.Name) == lower {
			return p, nil
		}
	}
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), lower) {
			return p, nil
		}
	}
	return products[0], nil
}
