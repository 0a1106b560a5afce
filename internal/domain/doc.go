// Package domain contains the core business entities of the study backend:
// review progress, flashcard decks, habits and their check-ins, reminders,
// and study plans. Entities validate themselves and stay independent of any
// specific storage or delivery mechanism.
//
// The scheduling rules live in the srs and streak subpackages, which operate
// on these entities without performing any I/O.
package domain
