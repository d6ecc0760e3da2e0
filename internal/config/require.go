package config

import "fmt"

// Validate reports the first missing setting the selected store driver needs.
func (c Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return fmt.Errorf("missing required env JWT_SECRET")
	}
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("missing required env DATABASE_URL")
		}
	case DriverSQLite:
	case DriverMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("missing required env MONGO_URL")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	return nil
}
