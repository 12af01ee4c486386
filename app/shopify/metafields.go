package shopify

import (
	"context"
	"encoding/json"
	"fmt"
)

const createMetafieldDefinitionMutation = `
mutation CreateMetafieldDefinition($definition: MetafieldDefinitionInput!) {
  metafieldDefinitionCreate(definition: $definition) {
    createdDefinition { id name namespace key }
    userErrors { field message }
  }
}`

// MetafieldDefinition declares one auxiliary attribute schema on the
// platform so that product metafields of that key validate.
type MetafieldDefinition struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	OwnerType string `json:"ownerType"`
}

// CreateMetafieldDefinition registers a metafield definition. Re-running the
// setup against a shop that already has the definition yields a benign
// duplicate user error; callers classify it with IsBenignDuplicate.
func (c *Client) CreateMetafieldDefinition(ctx context.Context, def MetafieldDefinition) error {
	data, err := c.GraphQL(ctx, createMetafieldDefinitionMutation, map[string]any{"definition": def}, mutationCost)
	if err != nil {
		return err
	}

	var resp struct {
		MetafieldDefinitionCreate struct {
			UserErrors []UserError `json:"userErrors"`
		} `json:"metafieldDefinitionCreate"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return fmt.Errorf("failed to decode definition result: %w", err)
	}

	if len(resp.MetafieldDefinitionCreate.UserErrors) > 0 {
		return &UserErrorsError{Errors: resp.MetafieldDefinitionCreate.UserErrors}
	}

	return nil
}
