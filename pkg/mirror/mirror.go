// Package mirror holds the registry of dump mirrors wikidump can read an index from.
package mirror

import (
	"net/url"
	"slices"

	"github.com/glorpus-work/wikidump/pkg/errutils"
)

// Mirror identifies a remote endpoint by its display name and the URL of its index.json.
type Mirror struct {
	Name     string
	IndexURL string
}

// Registry keys.
const (
	KeyWikimedia  = "wikimedia"
	KeyAccUmeaUni = "acc_umea_uni"
	KeyBytemark   = "bytemark"
	KeyBringYour  = "bring_your"
	KeyYour       = "your"

	// DefaultKey is the mirror used when nothing else is configured.
	DefaultKey = KeyWikimedia
)

var registry = map[string]Mirror{
	KeyWikimedia: {
		Name:     "Wikimedia",
		IndexURL: "https://dumps.wikimedia.org/index.json",
	},
	KeyAccUmeaUni: {
		Name:     "Academic Computer Club, Umeå University",
		IndexURL: "https://gemmei.ftp.acc.umu.se/mirror/wikimedia.org/dumps/index.json",
	},
	KeyBytemark: {
		Name:     "Bytemark",
		IndexURL: "https://wikimedia.bytemark.co.uk/index.json",
	},
	KeyBringYour: {
		Name:     "BringYour",
		IndexURL: "https://wikimedia.bringyour.com/index.json",
	},
	KeyYour: {
		Name:     "Your",
		IndexURL: "https://dumps.wikimedia.your.org/index.json",
	},
}

// Lookup returns the registered mirror for key.
func Lookup(key string) (Mirror, error) {
	m, ok := registry[key]
	if !ok {
		return Mirror{}, errutils.ErrUnknownMirrorWithKey(key, Keys())
	}
	return m, nil
}

// Keys returns the registry keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(registry))
	for k := range registry {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// All returns every registered mirror ordered by key.
func All() []Mirror {
	keys := Keys()
	mirrors := make([]Mirror, 0, len(keys))
	for _, k := range keys {
		mirrors = append(mirrors, registry[k])
	}
	return mirrors
}

// ResolveURL resolves ref, usually a file URL from the index, against the mirror's index URL.
// Absolute references are returned unchanged.
func (m Mirror) ResolveURL(ref string) (string, error) {
	base, err := url.Parse(m.IndexURL)
	if err != nil {
		return "", errutils.Wrapf(err, "parse index URL of mirror %q", m.Name)
	}
	rel, err := url.Parse(ref)
	if err != nil {
		return "", errutils.Wrapf(err, "parse file URL %q", ref)
	}
	return base.ResolveReference(rel).String(), nil
}

func (m Mirror) String() string {
	return m.Name
}
