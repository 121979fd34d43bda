package tree

// Pin is a map annotation linking a scene position back to a tree. Pins live
// beside the collection in the document store, under their own key.
type Pin struct {
	TreeID TreeID  `json:"treeId"`
	Label  string  `json:"label"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Icon   string  `json:"icon"`
}

// DefaultPinIcon is used when a pin is created without an explicit icon.
const DefaultPinIcon = "icons/svg/book.svg"
