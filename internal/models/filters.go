package models

// Filters holds the list query options a host passes to a fetch.
// Zero values mean "not specified".
type Filters struct {
	Keywords string `json:"keywords,omitempty"`
	Genre    string `json:"genre,omitempty"`
	Order    string `json:"order,omitempty"`
	Sorter   string `json:"sorter,omitempty"`
	Page     int    `json:"page,omitempty"`
}
