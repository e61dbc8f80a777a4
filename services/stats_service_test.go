package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/gurukul/gurukul-backend/models"
	"github.com/gurukul/gurukul-backend/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsForGuru(t *testing.T) {
	db := testutil.NewDB(t)
	guru := createGuru(t, db, "asha", 0)
	ravi := createStudent(t, db, "ravi")
	mira := createStudent(t, db, "mira")

	for _, s := range []*models.Student{ravi, ravi, mira} {
		_, err := BookSession(db, bookingFor(guru, s.ID))
		require.NoError(t, err)
	}

	stats, err := StatsForGuru(db, guru.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalStudents)
	assert.EqualValues(t, 3, stats.TotalSessions)

	students, err := EnrolledStudents(db, guru.ID)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, "ravi", students[0].Username)
	assert.Equal(t, "mira", students[1].Username)

	_, err = StatsForGuru(db, uuid.New())
	assert.ErrorIs(t, err, ErrGuruNotFound)
}
