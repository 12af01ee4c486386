package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/feedbridge/catalog-sync/app/catalog"
)

const createProductMutation = `
mutation CreateProduct($input: ProductInput!, $media: [CreateMediaInput!]) {
  productCreate(input: $input, media: $media) {
    product {
      id
      variants(first: 1) {
        edges {
          node { id sku }
        }
      }
    }
    userErrors { field message }
  }
}`

const updateProductMutation = `
mutation UpdateProduct($product: ProductUpdateInput!) {
  productUpdate(product: $product) {
    product { id }
    userErrors { field message }
  }
}`

// ProductInput is the descriptive payload accepted by the product create and
// update mutations. Variant-level fields (SKU, price) travel separately, see
// UpdateVariant.
type ProductInput struct {
	Title           string           `json:"title"`
	Status          string           `json:"status"` // ACTIVE, DRAFT, ARCHIVED
	DescriptionHTML string           `json:"descriptionHtml"`
	Vendor          string           `json:"vendor"`
	ProductType     string           `json:"productType"`
	Tags            []string         `json:"tags,omitempty"`
	Metafields      []MetafieldInput `json:"metafields,omitempty"`
}

// MediaInput references one externally hosted image to attach on create.
type MediaInput struct {
	OriginalSource   string `json:"originalSource"`
	MediaContentType string `json:"mediaContentType"`
}

// MetafieldInput is one auxiliary typed attribute attached to the product.
type MetafieldInput struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Value     string `json:"value"`
	Type      string `json:"type"`
}

// VariantInput is the narrow REST payload for variant-level writes.
type VariantInput struct {
	SKU            string `json:"sku,omitempty"`
	Price          string `json:"price,omitempty"`
	CompareAtPrice string `json:"compare_at_price,omitempty"`
}

// CreateProduct creates a product and returns the identity pair the platform
// assigned. Structured validation failures surface as *UserErrorsError.
func (c *Client) CreateProduct(ctx context.Context, input ProductInput, media []MediaInput) (catalog.RemoteIdentity, error) {
	variables := map[string]any{"input": input}
	if len(media) > 0 {
		variables["media"] = media
	}

	data, err := c.GraphQL(ctx, createProductMutation, variables, mutationCost)
	if err != nil {
		return catalog.RemoteIdentity{}, err
	}

	var resp struct {
		ProductCreate struct {
			Product *struct {
				ID       string `json:"id"`
				Variants struct {
					Edges []struct {
						Node struct {
							ID  string `json:"id"`
							SKU string `json:"sku"`
						} `json:"node"`
					} `json:"edges"`
				} `json:"variants"`
			} `json:"product"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"productCreate"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return catalog.RemoteIdentity{}, fmt.Errorf("failed to decode create result: %w", err)
	}

	if len(resp.ProductCreate.UserErrors) > 0 {
		return catalog.RemoteIdentity{}, &UserErrorsError{Errors: resp.ProductCreate.UserErrors}
	}
	if resp.ProductCreate.Product == nil {
		return catalog.RemoteIdentity{}, fmt.Errorf("create returned no product")
	}

	identity := catalog.RemoteIdentity{ProductID: resp.ProductCreate.Product.ID}
	if edges := resp.ProductCreate.Product.Variants.Edges; len(edges) > 0 {
		identity.VariantID = edges[0].Node.ID
	}

	return identity, nil
}

// UpdateProduct rewrites the descriptive fields of an existing product.
func (c *Client) UpdateProduct(ctx context.Context, productID string, input ProductInput) error {
	product := map[string]any{
		"id":              productID,
		"title":           input.Title,
		"status":          input.Status,
		"descriptionHtml": input.DescriptionHTML,
		"vendor":          input.Vendor,
		"productType":     input.ProductType,
	}
	if len(input.Tags) > 0 {
		product["tags"] = input.Tags
	}

	data, err := c.GraphQL(ctx, updateProductMutation, map[string]any{"product": product}, mutationCost)
	if err != nil {
		return err
	}

	var resp struct {
		ProductUpdate struct {
			Product *struct {
				ID string `json:"id"`
			} `json:"product"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"productUpdate"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("failed to decode update result: %w", err)
	}

	if len(resp.ProductUpdate.UserErrors) > 0 {
		return &UserErrorsError{Errors: resp.ProductUpdate.UserErrors}
	}

	return nil
}

// UpdateVariant writes variant-level fields over the REST surface. The
// create mutation cannot carry these in the same round trip, so creates are
// always followed by one of these calls.
func (c *Client) UpdateVariant(ctx context.Context, variantID string, input VariantInput) error {
	path := fmt.Sprintf("/variants/%s.json", numericID(variantID))

	_, err := c.REST(ctx, "PUT", path, map[string]any{"variant": input})
	if err != nil {
		return fmt.Errorf("failed to update variant %s: %w", variantID, err)
	}

	return nil
}

// numericID extracts the trailing numeric part of a GraphQL global ID
// (gid://shopify/ProductVariant/123 -> 123) for use in REST paths.
func numericID(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}
