package queue

import "github.com/everyday-items/hqueue/internal/jsonutil"

// Freeze serializes a structured value into a FrozenItem. Workers call this
// before enqueuing anything that is not already a raw byte/string scalar; the
// queue itself never inspects the payload, it only tags it so Thaw on the
// receiving end knows to deserialize rather than hand back raw bytes.
func Freeze(v any) (Item, error) {
	data, err := jsonutil.MarshalBytes(v)
	if err != nil {
		return Item{}, err
	}
	return FrozenItem(data), nil
}

// Thaw reverses Freeze. Calling Thaw on a KindBytes item deserializes its
// raw bytes as JSON into out, same as a KindFrozen item would — the
// distinction only matters to the caller's own bookkeeping.
func Thaw(item Item, out any) error {
	return jsonutil.UnmarshalBytes(item.Data, out)
}
