package authorization

import "github.com/TheYassAnz/coabi-backend/domain"

// The policy functions are total and never treat a missing accommodation
// id as a wildcard: a principal without an accommodation matches nothing.

// HasAccessToAccommodation decides read access to anything owned by the
// given accommodation.
func HasAccessToAccommodation(principal Principal, accommodationID string) bool {
	if principal.TestBypass || principal.IsAdmin() {
		return true
	}
	return principal.AccommodationID != "" && principal.AccommodationID == accommodationID
}

// CanModifyAccommodation decides write access to the accommodation
// itself and to resources managed at accommodation level (rules).
func CanModifyAccommodation(principal Principal, accommodationID string) bool {
	if principal.TestBypass || principal.IsAdmin() {
		return true
	}
	if principal.Role == domain.RoleModerator {
		return principal.AccommodationID != "" && principal.AccommodationID == accommodationID
	}
	return false
}

// CanModifyObject decides write access to a resource owned by a user.
// Moderators get no special treatment here: they only hold
// accommodation-level rights.
func CanModifyObject(principal Principal, ownerUserID string) bool {
	if principal.TestBypass || principal.IsAdmin() {
		return true
	}
	return ownerUserID != "" && ownerUserID == principal.UserID
}

// ModeratorCheckNotNeeded reports whether the moderator-specific field
// restrictions on user updates do not apply: self updates and non-
// moderator callers are handled by the other checks.
func ModeratorCheckNotNeeded(principal Principal, targetUserID string) bool {
	return principal.TestBypass || targetUserID == principal.UserID || principal.Role != domain.RoleModerator
}
