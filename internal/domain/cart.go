package domain

import "encoding/json"

// CartItem is one line of a session cart. Clients submit the whole product
// document together with a quantity; fields other than product_id and
// quantity are carried through untouched in Fields.
type CartItem struct {
	ProductID string
	Quantity  int
	Fields    map[string]any
}

// Cart is an ordered list of line items. Insertion order is preserved;
// product_id is unique within a cart.
type Cart []CartItem

// Find returns the index of the item with the given product id, or -1.
func (c Cart) Find(productID string) int {
	for i, item := range c {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

func (i CartItem) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(i.Fields)+2)
	for k, v := range i.Fields {
		out[k] = v
	}
	out["product_id"] = i.ProductID
	out["quantity"] = i.Quantity
	return json.Marshal(out)
}

func (i *CartItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if v, ok := raw["product_id"].(string); ok {
		i.ProductID = v
	}
	if v, ok := raw["quantity"].(float64); ok {
		i.Quantity = int(v)
	}
	delete(raw, "product_id")
	delete(raw, "quantity")
	i.Fields = raw
	return nil
}
