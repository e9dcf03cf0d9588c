package rules

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"homecare-service/internal/model"
)

func TestCheckNoteUnique(t *testing.T) {
	assert.NoError(t, CheckNoteUnique(nil))

	existing := &model.VisitNote{ID: uuid.New(), VisitID: uuid.New()}
	err := CheckNoteUnique(existing)
	assert.Equal(t, ReasonDuplicateNote, reasonOf(t, err))
}
