// Package services implements the core business logic of pagedeck.
//
// Services implement the driving port interfaces and depend only on
// driven ports, never on concrete adapters.
package services
