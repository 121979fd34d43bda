package tree

// ConnectionTypeInfo describes how a relationship type is rendered
type ConnectionTypeInfo struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// DefaultConnectionType is used whenever a connection carries no type or an
// unrecognized one.
const DefaultConnectionType = "neutral"

// connectionTypes is the closed catalog of relationship types. It is not
// user-extensible.
var connectionTypes = map[string]ConnectionTypeInfo{
	"rival":    {Color: "#800000", Label: "Rival"},
	"enemy":    {Color: "#ff4444", Label: "Enemy"},
	"neutral":  {Color: "#888888", Label: "Neutral"},
	"friendly": {Color: "#44ff44", Label: "Friendly"},
	"faction":  {Color: "#00FFFF", Label: "Alliance"},
	"family":   {Color: "#aa44ff", Label: "Family"},
	"romantic": {Color: "#ff69b4", Label: "Romantic"},
}

// connectionTypeOrder fixes the presentation order for pickers and legends.
var connectionTypeOrder = []string{
	"rival", "enemy", "neutral", "friendly", "faction", "family", "romantic",
}

// ConnectionTypeKeys returns the catalog keys in presentation order.
func ConnectionTypeKeys() []string {
	keys := make([]string, len(connectionTypeOrder))
	copy(keys, connectionTypeOrder)
	return keys
}

// LookupConnectionType resolves a type key to its display info, falling back
// to the neutral entry for unknown or empty keys.
func LookupConnectionType(key string) ConnectionTypeInfo {
	if info, ok := connectionTypes[key]; ok {
		return info
	}
	return connectionTypes[DefaultConnectionType]
}

// IsKnownConnectionType reports whether key is part of the catalog.
func IsKnownConnectionType(key string) bool {
	_, ok := connectionTypes[key]
	return ok
}

// ConnectionTypeCatalog returns a copy of the full catalog keyed by type.
func ConnectionTypeCatalog() map[string]ConnectionTypeInfo {
	catalog := make(map[string]ConnectionTypeInfo, len(connectionTypes))
	for k, v := range connectionTypes {
		catalog[k] = v
	}
	return catalog
}
