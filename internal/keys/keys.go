package keys

import (
	"strings"
)

// RequestKey produces a canonical key for an idempotent request. Parts are
// trimmed, lower-cased and have spaces replaced with underscores; empty
// parts are skipped. The result is "<scope>:<part>:<part>..." or "" when
// every part is empty.
func RequestKey(scope string, parts ...string) string {
	out := make([]string, 0, len(parts)+1)
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		out = append(out, strings.ToLower(strings.ReplaceAll(s, " ", "_")))
	}
	if len(out) == 0 {
		return ""
	}
	return scope + ":" + strings.Join(out, ":")
}

// CreateBattleKey is the key under which a client token creates at most one battle.
func CreateBattleKey(clientToken string) string {
	return RequestKey("create", clientToken)
}
