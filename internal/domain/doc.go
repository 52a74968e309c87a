// Package domain contains the core vocabulary entities of the application:
// cards, folders and the learner profile. It has no knowledge of storage or
// transport; the frequency classifier and the review scheduler live in the
// frequency and srs subpackages.
package domain
