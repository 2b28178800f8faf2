package rpc

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultPath is the path of the JSON-RPC handler when the URI does not name one.
const DefaultPath = "/rpc"

var ErrUnsupportedScheme = errors.New("unsupported uri scheme")

// node and fog URIs use their own schemes, mapped to the transport here
var schemes = map[string]string{
	"mc":           "https",
	"insecure-mc":  "http",
	"fog":          "https",
	"insecure-fog": "http",
	"http":         "http",
	"https":        "https",
	"ws":           "ws",
	"wss":          "wss",
}

/*
Endpoint converts node or fog URI into the URL of the JSON-RPC endpoint:

	mc://node.example.com:3223         -> https://node.example.com:3223/rpc
	insecure-mc://localhost:3200/      -> http://localhost:3200/rpc
	insecure-fog://localhost:4000/api  -> http://localhost:4000/api
*/
func Endpoint(uri string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(uri))
	if err != nil {
		return "", fmt.Errorf("invalid uri '%s': %w", uri, err)
	}
	scheme, ok := schemes[strings.ToLower(u.Scheme)]
	if !ok {
		return "", fmt.Errorf("%w '%s' in uri '%s'", ErrUnsupportedScheme, u.Scheme, uri)
	}
	if u.Host == "" {
		return "", fmt.Errorf("uri '%s' has no host", uri)
	}
	u.Scheme = scheme
	if u.Path == "" || u.Path == "/" {
		u.Path = DefaultPath
	}
	return u.String(), nil
}
