// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Sources

Settings are layered, highest precedence first:

 1. CLI flags
 2. Environment variables (a .env file in the working directory is loaded first)
 3. YAML config file (-c or CONFIG_FILE)
 4. Defaults()

# CLI Flags

	-c           YAML config file
	-p           Server port
	-d           Database URL
	-t           Database type (sqlite or postgres)
	-jwt-secret  Token signing secret
	-log-level   debug, info, warn, error

# Environment Variables

	PORT, DATABASE_URL, DATABASE_TYPE
	DB_MAX_OPEN_CONNS, DB_MAX_IDLE_CONNS, DB_CONN_MAX_LIFETIME
	JWT_SECRET, TOKEN_TTL
	LOG_LEVEL, LOG_FORMAT
	CORS_ORIGINS, SIGNIN_RATE_LIMIT
	REDIS_ADDR, REDIS_PASSWORD
	KAFKA_BROKERS, KAFKA_TOPIC
	ADMIN_USERNAME, ADMIN_PASSWORD, ADMIN_PIN, ADMIN_FULL_NAME

# Validation

ParseFlags returns an error if:

  - DATABASE_URL is missing
  - DATABASE_TYPE is not sqlite or postgres
  - JWT_SECRET is missing or shorter than 32 characters
  - TOKEN_TTL is not positive
*/
package cliparse
