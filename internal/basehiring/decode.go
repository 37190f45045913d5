package basehiring

import (
	"github.com/mitchellh/mapstructure"
)

// decodeItem maps one loosely typed API object onto target. The API mixes
// numbers and numeric strings for ids, statuses and timestamps, so weak typing is on.
func decodeItem(item any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(item)
}
