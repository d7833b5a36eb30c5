package emoji

import (
	"context"
	"encoding/json"

	"github.com/Masterminds/semver/v3"
	"github.com/cockroachdb/errors"

	"github.com/nhath/ezmoji/internal/store"
)

// cacheSchema is bumped whenever the cached entry layout changes.
const cacheSchema = "v5"

// CacheKeys returns the store keys for a dataset version.
func CacheKeys(v *semver.Version) (mapKey, entriesKey string) {
	suffix := cacheSchema + "@" + v.String()
	return "ezmoji.emoji_map." + suffix, "ezmoji.emoji_entries." + suffix
}

// readCache loads a cached index. ok is false on a miss, including corrupt data.
func readCache(ctx context.Context, kv store.KV, v *semver.Version) (*Index, bool, error) {
	mapKey, entriesKey := CacheKeys(v)
	rawMap, err := kv.Get(ctx, mapKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	rawEntries, err := kv.Get(ctx, entriesKey)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var byKey map[string]string
	if err := json.Unmarshal([]byte(rawMap), &byKey); err != nil {
		return nil, false, errors.Wrap(err, "decode cached map")
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(rawEntries), &entries); err != nil {
		return nil, false, errors.Wrap(err, "decode cached entries")
	}
	if byKey == nil || entries == nil {
		return nil, false, errors.New("cached index is empty")
	}
	return NewIndex(StateReady, byKey, entries), true, nil
}

func writeCache(ctx context.Context, kv store.KV, v *semver.Version, ix *Index) error {
	mapKey, entriesKey := CacheKeys(v)
	rawMap, err := json.Marshal(ix.byKey)
	if err != nil {
		return errors.Wrap(err, "encode map")
	}
	rawEntries, err := json.Marshal(ix.entries)
	if err != nil {
		return errors.Wrap(err, "encode entries")
	}
	if err := kv.Set(ctx, mapKey, string(rawMap)); err != nil {
		return err
	}
	return kv.Set(ctx, entriesKey, string(rawEntries))
}

// PurgeCache removes the cached index for v so the next load goes to the network.
func PurgeCache(ctx context.Context, kv store.KV, v *semver.Version) error {
	mapKey, entriesKey := CacheKeys(v)
	if err := kv.Delete(ctx, mapKey); err != nil {
		return err
	}
	return kv.Delete(ctx, entriesKey)
}
