// Package service contains the business logic of the hotel offers service.
// Services orchestrate repo calls around the pure pricing engine and record
// what they did in the event log. No SQL lives here: services depend on repo
// interfaces, not implementations.
package service
