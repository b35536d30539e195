package provider

import (
	"maps"

	"github.com/Belphemur/TVApi/internal/models"
)

// ArgType is the type a host uses to render and parse a provider argument.
type ArgType string

const (
	ArgTypeArray  ArgType = "array"
	ArgTypeString ArgType = "string"
)

// Config is the registration metadata a host reads before using the provider.
type Config struct {
	Name     string             `json:"name"`
	UniqueID string             `json:"uniqueId"`
	TabName  string             `json:"tabName"`
	Type     models.ItemType    `json:"type"`
	Args     map[string]ArgType `json:"args"`
	Metadata string             `json:"metadata"`
}

// NewConfig returns the TVApi registration metadata keyed on uniqueID.
func NewConfig(uniqueID string) Config {
	return Config{
		Name:     "TVApi",
		UniqueID: uniqueID,
		TabName:  "TVApi",
		Type:     models.ItemTypeTVShow,
		Args: map[string]ArgType{
			"apiURL":    ArgTypeArray,
			"translate": ArgTypeString,
			"language":  ArgTypeString,
		},
		Metadata: "trakttv:show-metadata",
	}
}

func (c Config) clone() Config {
	c.Args = maps.Clone(c.Args)
	return c
}
