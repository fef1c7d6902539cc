// Package dbclient talks to the database web service. The service exposes
// prepared-statement CRUD over HTTP: SQL text plus positional parameters go
// in the request body and rows come back as JSON objects. This service
// never opens a database connection of its own.
package dbclient
