package types

// OptionPair is a select-style value/label pair used for the language,
// region, and streaming platform preferences.
type OptionPair struct {
	Value string `json:"value" validate:"required"`
	Label string `json:"label" validate:"required"`
}
