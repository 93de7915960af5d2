package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// SetValue sets a configuration value by key
// Supported keys:
//   - mirror: string - Key of a built-in mirror
//   - cache_dir: string - Path to the index cache directory
//   - download_dir: string - Default directory for downloaded files
//   - disable_cache: bool - Never read or write cached indexes
//   - keep_expired_caches: bool - Skip removal of stale index caches
//   - index_timeout: duration - Timeout of the index request
//   - chunk_size: int - Read size while streaming downloads
//   - log_level: string - Logging level (debug, info, warn, error)
//   - output_format: string - Log format (text, json)
func (c *Config) SetValue(key, value string) error {
	switch key {
	case "mirror":
		c.Mirror = MirrorConfig{Key: value}
	case "cache_dir":
		c.Settings.CacheDir = value
	case "download_dir":
		c.Settings.DownloadDir = value
	case "disable_cache", "disable_cache_write", "keep_expired_caches":
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean value for %s: %s", key, value)
		}
		switch key {
		case "disable_cache":
			c.Settings.DisableCache = boolVal
		case "disable_cache_write":
			c.Settings.DisableCacheWrite = boolVal
		default:
			c.Settings.KeepExpiredCaches = boolVal
		}
	case "index_timeout":
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %s", key, value)
		}
		c.Settings.IndexTimeout = timeout
	case "chunk_size":
		size, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %s", key, value)
		}
		c.Settings.ChunkSize = size
	case "user_agent":
		c.Settings.UserAgent = value
	case "metrics_addr":
		c.Settings.MetricsAddr = value
	case "log_level":
		c.Settings.LogLevel = value
	case "output_format":
		c.Settings.OutputFormat = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

// GetValue returns the value for key formatted as a string.
func (c *Config) GetValue(key string) (string, error) {
	if key == "mirror" {
		if c.Mirror.Name != "" {
			return c.Mirror.Name, nil
		}
		return c.Mirror.Key, nil
	}
	value, ok := c.ToMap()[key]
	if !ok {
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
	return value, nil
}

// ToMap flattens the settings into yaml key/value pairs.
// This is useful for displaying the configuration.
func (c *Config) ToMap() map[string]string {
	result := make(map[string]string)
	flatten(reflect.ValueOf(c.Settings), "", result)
	return result
}

func flatten(value reflect.Value, prefix string, result map[string]string) {
	valueType := value.Type()

	for i := 0; i < value.NumField(); i++ {
		field := valueType.Field(i)
		yamlTag := field.Tag.Get("yaml")
		if yamlTag == "" || yamlTag == "-" {
			continue
		}

		// Handle yaml tags with options (e.g., "cache_dir,omitempty")
		yamlKey := prefix + strings.Split(yamlTag, ",")[0]

		fieldValue := value.Field(i)
		var strValue string

		switch fieldValue.Kind() {
		case reflect.Struct:
			flatten(fieldValue, yamlKey+".", result)
			continue
		case reflect.Bool:
			strValue = strconv.FormatBool(fieldValue.Bool())
		case reflect.Int64:
			if fieldValue.Type() == reflect.TypeOf(time.Duration(0)) {
				strValue = time.Duration(fieldValue.Int()).String()
			} else {
				strValue = strconv.FormatInt(fieldValue.Int(), 10)
			}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32:
			strValue = strconv.FormatInt(fieldValue.Int(), 10)
		case reflect.String:
			strValue = fieldValue.String()
		default:
			strValue = fmt.Sprintf("%v", fieldValue.Interface())
		}

		result[yamlKey] = strValue
	}
}
