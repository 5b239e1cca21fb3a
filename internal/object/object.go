package object

// Drawing is one drawable object on the shared canvas. ID is the merge
// key and is immutable after creation; only Props may change.
type Drawing struct {
	ID      string                 `json:"id"`
	Type    string                 `json:"type"`
	Props   map[string]interface{} `json:"props"`
	OwnerID string                 `json:"userId"`
	ZIndex  int                    `json:"zIndex"`
}

// Clone returns a copy whose Props map is independent of the original.
// Snapshots hand these out so later merges cannot mutate a delivered view.
func (d *Drawing) Clone() *Drawing {
	props := make(map[string]interface{}, len(d.Props))
	for k, v := range d.Props {
		props[k] = v
	}
	return &Drawing{
		ID:      d.ID,
		Type:    d.Type,
		Props:   props,
		OwnerID: d.OwnerID,
		ZIndex:  d.ZIndex,
	}
}
