package config

import "time"

// Safe type assertion helpers prevent panics when accessing dynamic configuration

// GetString safely extracts a string value from a config map
func GetString(cfg map[string]any, key string, defaultVal string) string {
	if val, ok := cfg[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultVal
}

// GetInt safely extracts an integer value from a config map
func GetInt(cfg map[string]any, key string, defaultVal int) int {
	if val, ok := cfg[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case int32:
			return int(v)
		case float64:
			return int(v)
		case float32:
			return int(v)
		}
	}
	return defaultVal
}

// GetFloat64 safely extracts a float64 value from a config map
func GetFloat64(cfg map[string]any, key string, defaultVal float64) float64 {
	if val, ok := cfg[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case int32:
			return float64(v)
		}
	}
	return defaultVal
}

// GetBool safely extracts a boolean value from a config map
func GetBool(cfg map[string]any, key string, defaultVal bool) bool {
	if val, ok := cfg[key]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultVal
}

// GetDuration safely extracts a duration from a config map. Accepts a
// time.Duration, a duration string ("30s"), or a bare number of seconds.
func GetDuration(cfg map[string]any, key string, defaultVal time.Duration) time.Duration {
	if val, ok := cfg[key]; ok {
		switch v := val.(type) {
		case time.Duration:
			return v
		case string:
			if d, err := time.ParseDuration(v); err == nil {
				return d
			}
		case int:
			return time.Duration(v) * time.Second
		case int64:
			return time.Duration(v) * time.Second
		case float64:
			return time.Duration(v * float64(time.Second))
		}
	}
	return defaultVal
}

// GetMap safely extracts a nested map from a config map
func GetMap(cfg map[string]any, key string, defaultVal map[string]any) map[string]any {
	if val, ok := cfg[key]; ok {
		if m, ok := val.(map[string]any); ok {
			return m
		}
	}
	return defaultVal
}
