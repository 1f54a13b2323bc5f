// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON, with validator tags:

  - SignInRequest: username, password
  - ValidatePinRequest: pin
  - ProductRequest: product fields for add and update
  - UpdateOrderStatusRequest: status
  - RescheduleOrderRequest: order_date
  - UpdateAdminRequest: full_name, username, role, optional password and pin

# Response Types

  - SignInResponse, CheckAuthResponse, LogoutResponse
  - SalesDataResponse, RatedProductsCountResponse, TotalProductsResponse, TotalStockResponse
  - ProductListResponse, AddProductResponse, OrderStatusResponse
  - AdminData, AdminNameResponse
  - MessageResponse, ErrorResponse

# Domain Types

  - Product, TopProduct
  - Order, OrderedProduct, SalesReportRow
  - Event: published after successful mutations

Money fields use decimal.Decimal and serialize as JSON numbers.

# Constants

Order statuses, in lifecycle order:

	StatusOrderPlaced = "Order Placed"
	StatusProcessed   = "Processed"
	StatusShipped     = "Shipped"
	StatusDelivered   = "Delivered"
	StatusCancelled   = "Cancelled"
*/
package models
