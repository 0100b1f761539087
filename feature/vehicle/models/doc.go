// Package models defines the gorm models of the vehicle inventory.
//
// Vehicles carry their feed values as Attribute rows keyed by name, so new feed
// columns need no schema change. Classification terms live in Term, linked to
// vehicles through VehicleTerm; model terms reference their make via ParentMakeID.
package models
