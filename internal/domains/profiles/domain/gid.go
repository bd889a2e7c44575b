package domain

import (
	"errors"
	"fmt"
	"strings"
)

const gidScheme = "gid://"

// DefaultGIDNamespace is the namespace the Shopify Admin API uses for its global ids.
const DefaultGIDNamespace = "shopify"

// ErrMalformedGID signals a string that does not follow the gid://namespace/resource/id shape.
var ErrMalformedGID = errors.New("malformed global id")

// GID is a platform-scoped global identifier split into its parts.
type GID struct {
	Namespace string
	Resource  string
	ID        string
}

// String renders the gid in its canonical form.
func (g GID) String() string {
	return gidScheme + g.Namespace + "/" + g.Resource + "/" + g.ID
}

// FormatGID builds a global id from its parts. Values that already carry the
// gid:// scheme are returned unchanged so callers can pass either form.
//
//	FormatGID("shopify", "Customer", "123")                     => "gid://shopify/Customer/123"
//	FormatGID("shopify", "Customer", " 123 ")                   => "gid://shopify/Customer/123"
//	FormatGID("shopify", "Customer", "gid://shopify/Customer/9") => "gid://shopify/Customer/9"
//	FormatGID("", "Customer", "123")                            => "gid://shopify/Customer/123"
func FormatGID(namespace, resource, id string) string {
	id = strings.TrimSpace(id)
	if IsGID(id) {
		return id
	}
	namespace = strings.TrimSpace(namespace)
	if namespace == "" {
		namespace = DefaultGIDNamespace
	}
	return GID{Namespace: namespace, Resource: resource, ID: id}.String()
}

// IsGID reports whether value uses the gid:// scheme.
func IsGID(value string) bool {
	return strings.HasPrefix(strings.TrimSpace(value), gidScheme)
}

// ParseGID splits a global id into namespace, resource and id.
//
//	ParseGID("gid://shopify/MediaImage/42") => GID{Namespace: "shopify", Resource: "MediaImage", ID: "42"}
func ParseGID(value string) (GID, error) {
	value = strings.TrimSpace(value)
	if !IsGID(value) {
		return GID{}, fmt.Errorf("%w: %q", ErrMalformedGID, value)
	}
	parts := strings.SplitN(strings.TrimPrefix(value, gidScheme), "/", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return GID{}, fmt.Errorf("%w: %q", ErrMalformedGID, value)
	}
	return GID{Namespace: parts[0], Resource: parts[1], ID: parts[2]}, nil
}
