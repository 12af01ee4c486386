package shopify

import (
	"context"
	"encoding/json"
	"fmt"
)

const locationsQuery = `
query Locations($first: Int!) {
  locations(first: $first) {
    edges {
      node { id name isActive }
    }
  }
}`

const inventoryItemQuery = `
query InventoryItem($id: ID!) {
  productVariant(id: $id) {
    inventoryItem { id }
  }
}`

const setQuantitiesMutation = `
mutation SetInventory($input: InventorySetQuantitiesInput!) {
  inventorySetQuantities(input: $input) {
    inventoryAdjustmentGroup {
      reason
      changes { name delta }
    }
    userErrors { field message }
  }
}`

// Location is one stock-keeping location on the remote platform.
type Location struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// ActiveLocations returns the platform's inventory locations that accept
// stock writes, in the platform's reported order.
func (c *Client) ActiveLocations(ctx context.Context) ([]Location, error) {
	data, err := c.GraphQL(ctx, locationsQuery, map[string]any{"first": 10}, queryCost)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}

	var resp struct {
		Locations struct {
			Edges []struct {
				Node Location `json:"node"`
			} `json:"edges"`
		} `json:"locations"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode locations: %w", err)
	}

	var active []Location
	for _, edge := range resp.Locations.Edges {
		if edge.Node.IsActive {
			active = append(active, edge.Node)
		}
	}

	return active, nil
}

// InventoryItemID resolves the inventory item backing a variant. Stock
// levels attach to inventory items, not to variants directly.
func (c *Client) InventoryItemID(ctx context.Context, variantID string) (string, error) {
	data, err := c.GraphQL(ctx, inventoryItemQuery, map[string]any{"id": variantID}, queryCost)
	if err != nil {
		return "", fmt.Errorf("failed to query inventory item for %s: %w", variantID, err)
	}

	var resp struct {
		ProductVariant *struct {
			InventoryItem *struct {
				ID string `json:"id"`
			} `json:"inventoryItem"`
		} `json:"productVariant"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to decode inventory item: %w", err)
	}

	if resp.ProductVariant == nil || resp.ProductVariant.InventoryItem == nil {
		return "", nil
	}

	return resp.ProductVariant.InventoryItem.ID, nil
}

// SetInventoryQuantity sets the absolute available quantity of an inventory
// item at one location.
func (c *Client) SetInventoryQuantity(ctx context.Context, inventoryItemID, locationID string, quantity int) error {
	input := map[string]any{
		"reason": "correction",
		"quantities": []map[string]any{
			{
				"inventoryItemId": inventoryItemID,
				"locationId":      locationID,
				"quantity":        quantity,
			},
		},
	}

	data, err := c.GraphQL(ctx, setQuantitiesMutation, map[string]any{"input": input}, mutationCost)
	if err != nil {
		return err
	}

	var resp struct {
		InventorySetQuantities struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"inventorySetQuantities"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("failed to decode inventory result: %w", err)
	}

	if len(resp.InventorySetQuantities.UserErrors) > 0 {
		return &UserErrorsError{Errors: resp.InventorySetQuantities.UserErrors}
	}

	return nil
}
