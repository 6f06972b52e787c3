// Package repository provides MongoDB-backed data access for the
// TiendaSegura collections. Repositories expose interfaces and return
// sentinel errors for absent documents; multi-document writes that must
// be atomic are grouped behind single repository methods running inside
// a Mongo transaction.
package repository

import "go.mongodb.org/mongo-driver/mongo/options"

func findAfterOpts() *options.FindOneAndUpdateOptions {
	return options.FindOneAndUpdate().SetReturnDocument(options.After)
}
