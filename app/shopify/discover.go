package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/feedbridge/catalog-sync/app/catalog"
)

const findVariantsQuery = `
query FindVariants($query: String!, $first: Int!, $after: String) {
  productVariants(first: $first, query: $query, after: $after) {
    edges {
      node {
        id
        sku
        product { id }
      }
    }
    pageInfo { hasNextPage endCursor }
  }
}`

const discoverPageSize = 50

var whitespaceRe = regexp.MustCompile(`\s+`)

// ResolveSKUs maps feed SKUs to the remote identities the platform already
// knows, via paginated exact-match variant search. SKUs with no match are
// simply absent from the result; callers interpret absence as "must create".
// Blank SKUs are filtered out up front, since an empty search filter would
// match everything.
func (c *Client) ResolveSKUs(ctx context.Context, skus []string) (map[string]catalog.RemoteIdentity, error) {
	mapping := make(map[string]catalog.RemoteIdentity)

	for _, sku := range skus {
		if sku == "" {
			continue
		}

		query := "sku:" + escapeSKU(sku)
		matches := 0
		var cursor *string

		for {
			variables := map[string]any{"query": query, "first": discoverPageSize}
			if cursor != nil {
				variables["after"] = *cursor
			}

			data, err := c.GraphQL(ctx, findVariantsQuery, variables, queryCost)
			if err != nil {
				return nil, fmt.Errorf("failed to search variants for %s: %w", sku, err)
			}

			var resp struct {
				ProductVariants struct {
					Edges []struct {
						Node struct {
							ID      string `json:"id"`
							SKU     string `json:"sku"`
							Product struct {
								ID string `json:"id"`
							} `json:"product"`
						} `json:"node"`
					} `json:"edges"`
					PageInfo struct {
						HasNextPage bool   `json:"hasNextPage"`
						EndCursor   string `json:"endCursor"`
					} `json:"pageInfo"`
				} `json:"productVariants"`
			}
			if err := json.Unmarshal(data, &resp); err != nil {
				return nil, fmt.Errorf("failed to decode search result: %w", err)
			}

			for _, edge := range resp.ProductVariants.Edges {
				matches++
				mapping[sku] = catalog.RemoteIdentity{
					ProductID: edge.Node.Product.ID,
					VariantID: edge.Node.ID,
				}
			}

			if !resp.ProductVariants.PageInfo.HasNextPage {
				break
			}
			endCursor := resp.ProductVariants.PageInfo.EndCursor
			cursor = &endCursor
		}

		// Duplicate SKUs on the remote side are a data problem we cannot
		// resolve here; the last match wins, but loudly.
		if matches > 1 {
			slog.Warn("Multiple remote variants share one SKU, using the last match",
				"sku", sku, "matches", matches)
		}
	}

	return mapping, nil
}

// escapeSKU escapes whitespace so multi-word SKUs survive the search query
// syntax.
func escapeSKU(sku string) string {
	return whitespaceRe.ReplaceAllString(sku, `\ `)
}
