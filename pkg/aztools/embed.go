package aztools

import (
	_ "embed"
)

//go:embed config/security-policy.yaml
var DefaultSecurityPolicy string
