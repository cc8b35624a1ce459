package config

import (
	"fmt"
	"os"
)

// WriteTemplate writes a commented starter config to path.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(Template), 0o600)
}

const Template = `# jsontpd configuration
name = "jsontpd"
listen_addr = ":8080"

# Largest accepted frame payload in bytes.
max_payload_bytes = 8388608

# 0 serves any number of connections.
max_conns = 0

# Idle wait for the next request; "0s" disables it.
read_timeout = "0s"
write_timeout = "15s"

# Per-connection requests per second; 0 disables limiting.
rate_limit = 0.0
rate_burst = 1

# Admin HTTP surface (/healthz, /routes, /metrics). Empty disables it.
admin_addr = ""
# Bearer token for /routes and /metrics; empty leaves them open.
admin_token = ""
cors_origins = ["http://localhost"]

# Static resources served alongside the built-in routes.
static_file = ""
watch_static = false

log_file = ""
`
