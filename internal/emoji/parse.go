package emoji

import (
	"github.com/buger/jsonparser"
	"github.com/cockroachdb/errors"
)

// item is one dataset record. Skins share the shape.
type item struct {
	Emoji      string
	Hex        string
	Annotation string
	Tags       []string
	Skins      []item
}

// parseDataset reads an emojibase-style array of records.
func parseDataset(data []byte) ([]item, error) {
	_, typ, _, err := jsonparser.Get(data)
	if err != nil {
		return nil, errors.Wrap(err, "dataset")
	}
	if typ != jsonparser.Array {
		return nil, errors.Newf("dataset: expected array, got %s", typ)
	}

	var items []item
	var cbErr error
	_, err = jsonparser.ArrayEach(data, func(value []byte, dt jsonparser.ValueType, _ int, err error) {
		if cbErr != nil {
			return
		}
		if err != nil {
			cbErr = err
			return
		}
		if dt != jsonparser.Object {
			return
		}
		it, err := parseItem(value)
		if err != nil {
			cbErr = err
			return
		}
		items = append(items, it)
	})
	if err == nil {
		err = cbErr
	}
	if err != nil {
		return nil, errors.Wrap(err, "dataset")
	}
	return items, nil
}

func parseItem(value []byte) (item, error) {
	var it item
	it.Emoji = optString(value, "emoji")
	it.Hex = optString(value, "hexcode")
	it.Annotation = optString(value, "annotation")
	if it.Annotation == "" {
		it.Annotation = optString(value, "label")
	}

	tags, err := stringArray(value, "tags")
	if err != nil {
		return it, err
	}
	if tags == nil {
		if tags, err = stringArray(value, "keywords"); err != nil {
			return it, err
		}
	}
	it.Tags = tags

	skins, ok := arrayField(value, "skins")
	if !ok {
		return it, nil
	}
	var cbErr error
	_, err = jsonparser.ArrayEach(skins, func(sv []byte, dt jsonparser.ValueType, _ int, _ error) {
		if cbErr != nil || dt != jsonparser.Object {
			return
		}
		skin, err := parseItem(sv)
		if err != nil {
			cbErr = err
			return
		}
		it.Skins = append(it.Skins, skin)
	})
	if err == nil {
		err = cbErr
	}
	return it, errors.Wrap(err, "skins")
}

// arrayField returns the raw array under key. Absent or non-array values report false.
func arrayField(data []byte, key string) ([]byte, bool) {
	v, dt, _, err := jsonparser.Get(data, key)
	if err != nil || dt != jsonparser.Array {
		return nil, false
	}
	return v, true
}

func optString(data []byte, key string) string {
	s, err := jsonparser.GetString(data, key)
	if err != nil {
		return ""
	}
	return s
}

// stringArray returns nil when the key is absent or not an array.
func stringArray(data []byte, key string) ([]string, error) {
	raw, ok := arrayField(data, key)
	if !ok {
		return nil, nil
	}
	out := []string{}
	_, err := jsonparser.ArrayEach(raw, func(v []byte, dt jsonparser.ValueType, _ int, _ error) {
		if dt != jsonparser.String {
			return
		}
		if s, err := jsonparser.ParseString(v); err == nil {
			out = append(out, s)
		}
	})
	if err != nil {
		return nil, errors.Wrapf(err, "field %q", key)
	}
	return out, nil
}

// parseShortcodes reads a hexcode → name | [names] object.
func parseShortcodes(data []byte) (map[string][]string, error) {
	out := make(map[string][]string)
	err := jsonparser.ObjectEach(data, func(key, value []byte, dt jsonparser.ValueType, _ int) error {
		hex := string(key)
		switch dt {
		case jsonparser.String:
			s, err := jsonparser.ParseString(value)
			if err != nil {
				return err
			}
			out[hex] = []string{s}
		case jsonparser.Array:
			var names []string
			_, err := jsonparser.ArrayEach(value, func(v []byte, vt jsonparser.ValueType, _ int, _ error) {
				if vt != jsonparser.String {
					return
				}
				if s, err := jsonparser.ParseString(v); err == nil {
					names = append(names, s)
				}
			})
			if err != nil {
				return err
			}
			out[hex] = names
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "shortcodes")
	}
	return out, nil
}
