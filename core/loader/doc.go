// Package loader registers application features and loads their routes.
//
// Each feature implements Feature: a name, an enabled flag and a Load hook that
// registers its routes on a fiber.Router. The Manager keeps features in registration
// order and LoadAll loads the enabled ones, stopping at the first failure.
//
// The vehicle sync trigger and the integrity checks are both loaded this way.
package loader
