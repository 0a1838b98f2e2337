// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api provides the typed client for the chatwithdata backend.
//
// It is the only package that performs network I/O. Every request carries
// the stored bearer token (when one exists), a request id, and a client-side
// timeout. There are no retries and no caching: each operation is a single
// request/response exchange.
//
// # Key Types
//
//   - Client: HTTP client for the auth and chat resources
//   - TokenSource: read access to the stored bearer token
//   - Error: failure carrying a Kind derived from the HTTP status
//
// # Usage
//
//	client := api.New(baseURL, credentials, api.WithLogger(logger))
//	chats, err := client.History(ctx)
//	if errors.Is(err, api.ErrUnauthorized) {
//	    session.Logout()
//	}
//
// # Error Kinds
//
// 401/403 map to Unauthorized, 404 to NotFound, 400/409/422 to Validation,
// any other failure status to ServerFailure, and transport failures or
// timeouts to NetworkUnavailable. A 2xx body that does not decode into the
// expected record is a ServerFailure.
package api
