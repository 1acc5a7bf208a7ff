// Curator - Intelligent Content Curation Engine
// Copyright 2026 Feedlab
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedlab/curator

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - Curation request latency, pool sizes, and result sizes
  - Per-algorithm score distributions and isolated failures
  - Quality filter and diversifier behavior
  - Trending snapshot recompute duration and size
  - Profile store and content cache sizes
  - Event bus publish counts
  - Candidate source and circuit breaker outcomes
  - HTTP API latency and throughput

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:8080/metrics

# Usage

All collectors are registered via promauto at package init. Code records
observations either directly on the exported collectors or through the
helper functions:

	metrics.RecordCuration("success", elapsed, poolSize, len(result))
	metrics.RecordAlgorithmFailure("trending", "panic")

# Cardinality

Label values are drawn from small fixed sets (algorithm IDs, result kinds,
route patterns). Nothing user-controlled is ever used as a label value.
*/
package metrics
