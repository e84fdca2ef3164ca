package harvest

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ubuntu/decorate"
)

// ResourceType is the logical resource type used by the import workflow.
type ResourceType string

// Logical resource types, in report order.
const (
	Network       ResourceType = "network"
	WLAN          ResourceType = "wlan"
	FirewallGroup ResourceType = "firewall_group"
	DNSRecord     ResourceType = "dns_record"
	StaticRoute   ResourceType = "static_route"
	UserGroup     ResourceType = "user_group"
	FirewallRule  ResourceType = "firewall_rule"
)

// ResourceTypes lists every known resource type in report order.
var ResourceTypes = []ResourceType{Network, WLAN, FirewallGroup, DNSRecord, StaticRoute, UserGroup, FirewallRule}

// ParseResourceType returns the resource type named s.
func ParseResourceType(s string) (ResourceType, error) {
	t := ResourceType(strings.TrimSpace(s))
	if !slices.Contains(ResourceTypes, t) {
		return "", fmt.Errorf("unknown resource type %q", s)
	}
	return t, nil
}

// Aliases is the ordered list of collection keys under which a resource type may
// appear in a backup document.
type Aliases struct {
	Type ResourceType
	Keys []string
}

// Table maps every resource type to its collection aliases. Its order is the report order.
type Table []Aliases

// DefaultTable returns the collection names seen across controller backup versions.
func DefaultTable() Table {
	return Table{
		{Type: Network, Keys: []string{"networkconf", "networks", "network"}},
		{Type: WLAN, Keys: []string{"wlanconf", "wlans", "wlan"}},
		{Type: FirewallGroup, Keys: []string{"firewallgroups", "firewallgroup"}},
		{Type: DNSRecord, Keys: []string{"dnsrecords", "dnsrecord", "dns_records"}},
		{Type: StaticRoute, Keys: []string{"staticroutes", "static_route", "routing"}},
		{Type: UserGroup, Keys: []string{"usergroups", "usergroup"}},
		{Type: FirewallRule, Keys: []string{"firewallrules", "firewallrule"}},
	}
}

// Keys returns the aliases of t, or nil if t is not in the table.
func (t Table) Keys(rt ResourceType) []string {
	for _, a := range t {
		if a.Type == rt {
			return a.Keys
		}
	}
	return nil
}

// Override returns a copy of t where the aliases of every type named in overrides are replaced.
//
// An empty alias list disables the type. Unknown type names are an error.
func (t Table) Override(overrides map[string][]string) (Table, error) {
	res := make(Table, len(t))
	for i, a := range t {
		res[i] = Aliases{Type: a.Type, Keys: slices.Clone(a.Keys)}
	}

	// Sorted to report the same unknown type first on every run.
	names := make([]string, 0, len(overrides))
	for name := range overrides {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		rt, err := ParseResourceType(name)
		if err != nil {
			return nil, err
		}

		i := slices.IndexFunc(res, func(a Aliases) bool { return a.Type == rt })
		if i < 0 {
			res = append(res, Aliases{Type: rt})
			i = len(res) - 1
		}
		res[i].Keys = slices.Clone(overrides[name])
	}

	return res, nil
}

// aliasFile is the on-disk format of an alias override file.
type aliasFile struct {
	Aliases map[string][]string `toml:"aliases"`
}

// LoadTable reads a TOML alias override file and applies it on top of the default table.
//
// The file looks like:
//
//	[aliases]
//	network = ["networkconf", "legacy_networks"]
func LoadTable(path string) (t Table, err error) {
	defer decorate.OnError(&err, "could not load alias table from %s", path)

	var f aliasFile
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unexpected keys: %v", undecoded)
	}

	return DefaultTable().Override(f.Aliases)
}
