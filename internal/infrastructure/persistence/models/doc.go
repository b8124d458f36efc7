// Package models contains the GORM persistence models behind the repositories.
// Domain entities stay free of ORM tags; every model converts with ToDomain
// and FromDomain.
//
// The authoritative PostgreSQL schema lives in the migrations directory. Tags
// here mirror it closely enough for AutoMigrate to build an equivalent SQLite
// schema in tests, including the partial unique index that allows a single
// open session per register.
package models
