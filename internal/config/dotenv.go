package config

import (
	"fmt"
	"strconv"

	"github.com/joho/godotenv"
)

// LoadEndpoint reads database connection parameters from a dotenv file.
// The file is read in isolation (the process environment is not modified),
// so two endpoints with identical variable names can be resolved from two
// different files. A missing or empty file is an error: both sides of a
// sync run must resolve before anything connects.
func LoadEndpoint(path string) (DatabaseEndpoint, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return DatabaseEndpoint{}, fmt.Errorf("load environment from %s: %w", path, err)
	}
	if len(values) == 0 {
		return DatabaseEndpoint{}, fmt.Errorf("no variables defined in %s", path)
	}
	return EndpointFromValues(values), nil
}

// EndpointFromValues builds a DatabaseEndpoint from a dotenv-style value
// map, applying defaults for absent keys.
func EndpointFromValues(values map[string]string) DatabaseEndpoint {
	opts := []EndpointOption{}
	if v := values["POSTGRES_USER"]; v != "" {
		opts = append(opts, WithEndpointUser(v))
	}
	if v := values["POSTGRES_PASSWORD"]; v != "" {
		opts = append(opts, WithEndpointPassword(v))
	}
	if v := values["POSTGRES_HOST"]; v != "" {
		opts = append(opts, WithEndpointHost(v))
	}
	if v := values["POSTGRES_PORT"]; v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			opts = append(opts, WithEndpointPort(port))
		}
	}
	if v := values["POSTGRES_DB"]; v != "" {
		opts = append(opts, WithEndpointDatabase(v))
	}
	return NewDatabaseEndpointWithOptions(opts...)
}
