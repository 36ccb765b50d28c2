package models

// CountryEntry is one selectable country, as returned by the WHO dimension endpoint
type CountryEntry struct {
	Code  string `json:"Code" yaml:"code"`
	Title string `json:"Title" yaml:"title"`
}

// Quote is a single attributed quotation
type Quote struct {
	Text   string `json:"q" yaml:"text"`
	Author string `json:"a" yaml:"author"`
}

// HelplineEntry is one crisis helpline in the static directory
type HelplineEntry struct {
	CountryName string `yaml:"country"`
	PhoneNumber string `yaml:"number"`
	Region      string `yaml:"region"`
}
