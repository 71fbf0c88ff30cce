// Package domain contains the core model shared by the fetch client and the book API.
//
// The domain is transport- and persistence-agnostic: it does not depend on YAML parsing,
// net/http, or SQL. Infra adapters map into/from these types.
package domain
