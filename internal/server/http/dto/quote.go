package dto

// QuoteRequest describes the instant quote payload.
type QuoteRequest struct {
	BasePrice int64  `json:"base_price"`
	Condition string `json:"condition"`
	Storage   string `json:"storage"`
}

// QuoteResponse carries the computed quote and the multipliers applied.
type QuoteResponse struct {
	BasePrice           int64  `json:"base_price"`
	ConditionMultiplier string `json:"condition_multiplier"`
	StorageMultiplier   string `json:"storage_multiplier"`
	Price               int64  `json:"price"`
}

// QuoteAttributesResponse lists the accepted quote attribute values.
type QuoteAttributesResponse struct {
	Conditions []string `json:"conditions"`
	Storages   []string `json:"storages"`
}
