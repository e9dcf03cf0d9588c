package rules

import "homecare-service/internal/model"

// CheckNoteUnique enforces one note per visit. existing is the note already
// stored for the candidate's visit, or nil. A duplicate is rejected outright;
// callers wanting to change an existing note must update it, never overwrite
// or merge through create.
func CheckNoteUnique(existing *model.VisitNote) error {
	if existing != nil {
		return Reject(ReasonDuplicateNote, "a visit note already exists for this visit")
	}
	return nil
}
