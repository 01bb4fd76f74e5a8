package dedupe

// Package dedupe provides shared singleflight groups used to deduplicate
// concurrent requests that must run only once per key.

import "golang.org/x/sync/singleflight"

// CreateGroup deduplicates battle creation keyed by keys.CreateBattleKey,
// so retries of the same client token that race each other build one battle.
var CreateGroup singleflight.Group
