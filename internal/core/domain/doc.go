// Package domain contains the core business entities for pagedeck:
// file records, page references, settings and the error taxonomy.
// It has no dependencies on adapters or external libraries.
package domain
