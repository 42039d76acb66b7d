package domain

// CheckStock verifies each tier independently: requested[t] <= available[t].
// Tiers are not fungible here; callers wanting substitution convert first.
func CheckStock(available, requested Quantities) error {
	if requested.HasNegative() {
		return &ValidationError{Subject: "requested quantities", Errors: []string{"quantities cannot be negative"}}
	}

	var shortages []TierShortage
	for _, t := range Tiers {
		if want, have := requested.Get(t), available.Get(t); want > have {
			shortages = append(shortages, TierShortage{
				Tier:      t,
				Requested: want,
				Available: have,
				Shortfall: want - have,
			})
		}
	}

	if len(shortages) > 0 {
		return &InsufficientStockError{Shortages: shortages}
	}
	return nil
}

// CheckItemStock runs CheckStock against item and names the item and its tiers in any shortage
func CheckItemStock(item *InventoryItem, requested Quantities) error {
	err := CheckStock(item.Quantities(), requested)
	insufficient, ok := err.(*InsufficientStockError)
	if !ok {
		return err
	}

	rate := item.Rate()
	insufficient.ItemID = item.ID
	insufficient.SKU = item.SKU
	insufficient.Location = item.Location
	for i := range insufficient.Shortages {
		insufficient.Shortages[i].Name = rate.TierName(insufficient.Shortages[i].Tier)
	}
	return insufficient
}
