package model

// ItemDepreciation is one row of the straight-line depreciation report.
// All money fields are decimal strings.
type ItemDepreciation struct {
	ItemID           string `json:"item_id"`
	Name             string `json:"name"`
	PurchaseDate     string `json:"purchase_date"`
	PurchasePrice    string `json:"purchase_price"`
	SalvageValue     string `json:"salvage_value"`
	UsefulLifeMonths int    `json:"useful_life_months"`
	MonthsElapsed    int    `json:"months_elapsed"`
	MonthlyAmount    string `json:"monthly_amount"`
	Accumulated      string `json:"accumulated"`
	BookValue        string `json:"book_value"`
}

// DepreciationReport covers every item with purchase data, valued as of
// an explicit date supplied by the caller.
type DepreciationReport struct {
	AsOf             string             `json:"as_of"`
	Items            []ItemDepreciation `json:"items"`
	TotalPurchase    string             `json:"total_purchase"`
	TotalAccumulated string             `json:"total_accumulated"`
	TotalBookValue   string             `json:"total_book_value"`
}
