package store

import "github.com/mitchellh/mapstructure"

const columnTag = "sheet"

// Decode maps the columns of a row into the fields of out tagged with `sheet`.
func Decode(row Row, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          columnTag,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}

	return decoder.Decode(map[string]string(row))
}
