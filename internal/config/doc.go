// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

// Package config loads and validates application configuration.
//
// Configuration is layered with Koanf v2: built-in defaults first, then an
// optional YAML config file, then environment variables. Environment always
// wins, so a containerized deployment can override any file setting.
//
// # Quick Start
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	addr := cfg.Server.Addr()
//
// # Environment Variables
//
//	HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT       - HTTP server
//	BADGER_PATH, BADGER_IN_MEMORY            - profile and snapshot storage
//	CURATION_WORKERS                         - scoring pipeline parallelism
//	CURATION_DEFAULT_LIMIT                   - default result size
//	CURATION_CACHE_CAPACITY                  - content cache bound
//	TRENDING_INTERVAL, TRENDING_MAX_ENTRIES  - trending recompute loop
//	SOURCE_SEED_FILE                         - JSON content seed file
//	SOURCE_BREAKER_FAILURES/_TIMEOUT         - source circuit breaker
//	RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW   - API rate limiting
//	CORS_ORIGINS                             - comma-separated origins
//	LOG_LEVEL, LOG_FORMAT, LOG_CALLER        - logging
//
// The config file path defaults to ./config.yaml and can be overridden with
// CONFIG_PATH.
package config
