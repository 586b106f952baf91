// Package container is a small in-memory container builder: an ordered set
// of service definitions that compiler passes read and mutate.
//
// It answers tag lookups, hands out mutable definition handles and
// registers service locators. It never instantiates services.
package container
