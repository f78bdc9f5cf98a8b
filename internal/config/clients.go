package config

import (
	"fmt"
	"strings"
)

// ParseClients reads endpoint entries in the "url,key" form, one per line
// or semicolon-separated. Entries without a URL are rejected; a missing key
// is allowed and simply fails authentication on the remote side.
func ParseClients(raw string) ([]ClientEndpoint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	normalized := strings.NewReplacer(";", "\n", "\r\n", "\n").Replace(raw)
	var clients []ClientEndpoint
	for _, line := range strings.Split(normalized, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ",", 2)
		url := strings.TrimRight(strings.TrimSpace(parts[0]), "/")
		if url == "" {
			return nil, fmt.Errorf("client entry missing url: %q", line)
		}
		key := ""
		if len(parts) > 1 {
			key = strings.TrimSpace(parts[1])
		}
		clients = append(clients, ClientEndpoint{URL: url, Key: key})
	}
	return clients, nil
}
