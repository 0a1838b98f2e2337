// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package apitest provides an in-memory chatwithdata backend for tests.
//
// The server implements every auth and chat route the client consumes,
// issues HS256 tokens, hashes passwords with bcrypt, and records how many
// times each route was called so tests can assert that an operation made
// no network call.
//
// # Usage
//
//	srv := apitest.New(t)
//	srv.AddUser("Ada", "ada@example.com", "secret")
//	client := api.New(srv.BaseURL(), storage.NewMemoryStore(srv.TokenFor("ada@example.com")))
//
// Force a failure on the next call of a route:
//
//	srv.FailNext(apitest.RouteDeleteAll, http.StatusInternalServerError, "boom")
package apitest
