package authn

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule classifies a path prefix for anonymous access.
type Rule struct {
	Prefix    string `yaml:"prefix"`
	Anonymous bool   `yaml:"anonymous"`
}

// RouteTable decides which requests may be served without a credential.
// Only read-only methods qualify; a write method is never anonymous even
// under an anonymous-readable prefix. The zero table allows nothing.
type RouteTable struct {
	rules []Rule
}

// NewRouteTable builds a table from explicit rules. The first matching
// prefix wins, so order more specific prefixes before broader ones.
func NewRouteTable(rules ...Rule) *RouteTable {
	return &RouteTable{rules: rules}
}

// AnonymousAllowed reports whether an uncredentialed request for the given
// method and path may proceed.
func (t *RouteTable) AnonymousAllowed(method, path string) bool {
	if t == nil || !isReadOnly(method) {
		return false
	}
	for _, rule := range t.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule.Anonymous
		}
	}
	return false
}

// isReadOnly reports whether the method cannot mutate server state.
func isReadOnly(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead:
		return true
	default:
		return false
	}
}

// LoadRouteTable reads a YAML route classification document:
//
//	routes:
//	  - prefix: /datasets
//	    anonymous: true
//	  - prefix: /orgs
//	    anonymous: false
func LoadRouteTable(r io.Reader) (*RouteTable, error) {
	var doc struct {
		Routes []Rule `yaml:"routes"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("authn: failed to parse route table: %w", err)
	}
	return NewRouteTable(doc.Routes...), nil
}

// LoadRouteTableFile reads a YAML route classification file.
func LoadRouteTableFile(path string) (*RouteTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("authn: failed to open route table: %w", err)
	}
	defer f.Close()
	return LoadRouteTable(f)
}
