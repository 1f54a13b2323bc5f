// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package stats builds the parameterized aggregate queries behind the
// dashboard endpoints. Builders are pure; handlers execute the result.
package stats
