// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package validation checks request bodies with go-playground/validator.
//
// A single validator instance is shared; it reports fields by their json
// names, compares decimal.Decimal values numerically, and knows the
// "orderstatus" rule:
//
//	if err := validation.Struct(&req); err != nil {
//		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
//		return
//	}
package validation
