package dns

import (
	"fmt"
	"strings"
)

// RecordSet is a single A record: a fully-qualified name plus the full
// list of values it should hold. Upserts replace the whole value list.
type RecordSet struct {
	Name   string
	Values []string
	TTL    int64
}

// API is the record-store contract implemented by provider subpackages.
type API interface {
	// ZoneID resolves a zone name to the provider's zone identifier,
	// taking the first zone matching the name. It returns an error if
	// the lookup fails or no zone matches.
	ZoneID(name string) (string, error)

	// Values returns every value held under fqdn, sorted ascending.
	// A record that doesn't exist yet yields an empty list, not an error.
	Values(zoneID string, fqdn string) ([]string, error)

	// Upsert submits a single create-or-replace change for the record
	// set. An empty value list is a no-op: no call reaches the provider.
	Upsert(zoneID string, record RecordSet) error
}

// FQDN builds the fully-qualified name for a record. A name that already
// ends in a "." is used verbatim, anything else is taken as relative to
// the zone.
func FQDN(name string, zone string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return fmt.Sprintf("%s.%s.", name, zone)
}

// MemberFQDN names the per-member record for the 1-based rank idx,
// zero-padded to two digits: zk01.<zone>., zk02.<zone>., ...
func MemberFQDN(idx int, zone string) string {
	return fmt.Sprintf("zk%02d.%s.", idx, zone)
}
