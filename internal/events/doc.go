// Package events lets services announce what happened (a session started, a
// review was recorded, cards were created, a smart sort finished) without
// knowing who listens. Metrics and logging subscribe through EventHandler.
package events
