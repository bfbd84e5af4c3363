package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config curvance config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Oracle Oracle    `json:"oracle"`
	Admins []string  `json:"admins"`
}

// App app config
type App struct {
	ManagerID string `json:"manager_id"`
	Location  string `json:"location"`
}

// Oracle oracle router config
type Oracle struct {
	EndPoint string `json:"end_point"`
	// seconds before a stored price is stale
	MaxPriceAge int64 `json:"max_price_age"`
	// relative divergence between two adaptors before the answer is degraded
	DivergenceLimit float64 `json:"divergence_limit"`
	// seconds a routed price stays cached
	CacheTTL int64 `json:"cache_ttl"`
}

// IsAdmin check if the address is admin
func (c *Config) IsAdmin(address string) bool {
	if len(c.Admins) <= 0 {
		return false
	}

	for _, a := range c.Admins {
		if a == address {
			return true
		}
	}

	return false
}
