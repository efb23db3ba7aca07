package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/embermind/agentstore/internal/model"
)

func TestAccountRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 2)

	acc := &model.Account{
		Name:     "Ada",
		Username: "ada",
		Email:    "ada@example.com",
		Details: model.AccountDetails{
			Summary:    "test account",
			Attributes: map[string]string{"tz": "UTC"},
		},
	}
	require.NoError(t, s.Accounts().Create(ctx, acc))
	require.NotEmpty(t, acc.ID)

	got, err := s.Accounts().GetByID(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.Username, got.Username)
	assert.Equal(t, "UTC", got.Details.Attributes["tz"])

	err = s.Accounts().Create(ctx, acc)
	assert.True(t, errors.Is(err, model.ErrConflict))

	_, err = s.Accounts().GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestRoomCreateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 2)

	id, err := s.Rooms().Create(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, "room-1", id)

	// second create with the same id is a no-op
	id, err = s.Rooms().Create(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, "room-1", id)

	// empty id gets a generated uuid
	gen, err := s.Rooms().Create(ctx, "")
	require.NoError(t, err)
	assert.NotEmpty(t, gen)
	assert.NotEqual(t, "room-1", gen)

	got, err := s.Rooms().Get(ctx, "room-1")
	require.NoError(t, err)
	assert.Equal(t, "room-1", got.ID)

	require.NoError(t, s.Rooms().Remove(ctx, "room-1"))
	_, err = s.Rooms().Get(ctx, "room-1")
	assert.True(t, errors.Is(err, model.ErrNotFound))
}

func TestParticipantStateLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 2)

	require.NoError(t, s.Participants().Create(ctx, &model.Participant{
		UserID: "user-1",
		RoomID: "room-1",
	}))

	// no state set yet
	state, err := s.Participants().UserState(ctx, "room-1", "user-1")
	require.NoError(t, err)
	assert.Nil(t, state)

	// absent participant is not an error
	state, err = s.Participants().UserState(ctx, "room-1", "nobody")
	require.NoError(t, err)
	assert.Nil(t, state)

	followed := model.UserStateFollowed
	require.NoError(t, s.Participants().SetUserState(ctx, "room-1", "user-1", &followed))
	state, err = s.Participants().UserState(ctx, "room-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, state)
	assert.Equal(t, model.UserStateFollowed, *state)

	// clearing the state reads back as nil again
	require.NoError(t, s.Participants().SetUserState(ctx, "room-1", "user-1", nil))
	state, err = s.Participants().UserState(ctx, "room-1", "user-1")
	require.NoError(t, err)
	assert.Nil(t, state)
}

func TestParticipantAndRoomListings(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 2)

	require.NoError(t, s.Participants().Create(ctx, &model.Participant{UserID: "u1", RoomID: "r1"}))
	require.NoError(t, s.Participants().Create(ctx, &model.Participant{UserID: "u1", RoomID: "r2"}))
	require.NoError(t, s.Participants().Create(ctx, &model.Participant{UserID: "u2", RoomID: "r1"}))

	parts, err := s.Participants().ListForAccount(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, parts, 2)

	users, err := s.Participants().ListForRoom(ctx, "r1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1", "u2"}, users)

	rooms, err := s.Rooms().ListForParticipant(ctx, "u1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, rooms)

	rooms, err = s.Rooms().ListForParticipants(ctx, []string{"u1", "u2"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, rooms)

	rooms, err = s.Rooms().ListForParticipants(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, rooms)

	require.NoError(t, s.Participants().Remove(ctx, "r1", "u2"))
	users, err = s.Participants().ListForRoom(ctx, "r1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"u1"}, users)
}

func TestGoalLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 2)

	goal := &model.Goal{
		RoomID: "r1",
		UserID: "u1",
		Name:   "learn sqlite",
		Status: model.GoalStatusInProgress,
		Objectives: []model.Objective{
			{Description: "read the docs"},
			{Description: "write a schema", Completed: true},
		},
	}
	require.NoError(t, s.Goals().Create(ctx, goal))
	require.NotEmpty(t, goal.ID)

	done := &model.Goal{RoomID: "r1", Name: "shipped already", Status: model.GoalStatusDone, Objectives: []model.Objective{}}
	require.NoError(t, s.Goals().Create(ctx, done))

	got, err := s.Goals().List(ctx, model.GetGoalsRequest{RoomID: "r1"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = s.Goals().List(ctx, model.GetGoalsRequest{RoomID: "r1", OnlyInProgress: true})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, goal.ID, got[0].ID)
	require.Len(t, got[0].Objectives, 2)
	assert.True(t, got[0].Objectives[1].Completed)

	got, err = s.Goals().List(ctx, model.GetGoalsRequest{RoomID: "r1", UserID: "u1"})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = s.Goals().List(ctx, model.GetGoalsRequest{})
	assert.True(t, errors.Is(err, model.ErrValidation))

	goal.Name = "learn sqlite well"
	goal.Objectives[0].Completed = true
	require.NoError(t, s.Goals().Update(ctx, goal))

	require.NoError(t, s.Goals().UpdateStatus(ctx, goal.ID, model.GoalStatusDone))
	got, err = s.Goals().List(ctx, model.GetGoalsRequest{RoomID: "r1", OnlyInProgress: true})
	require.NoError(t, err)
	assert.Empty(t, got)

	err = s.Goals().UpdateStatus(ctx, "missing", model.GoalStatusFailed)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	err = s.Goals().Update(ctx, &model.Goal{ID: "missing"})
	assert.True(t, errors.Is(err, model.ErrNotFound))

	require.NoError(t, s.Goals().RemoveAllForRoom(ctx, "r1"))
	got, err = s.Goals().List(ctx, model.GetGoalsRequest{RoomID: "r1"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRelationshipPairIsSymmetric(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 2)

	rel := &model.Relationship{UserA: "alice", UserB: "bob"}
	require.NoError(t, s.Relationships().Create(ctx, rel))
	assert.Equal(t, "alice", rel.UserID)

	got, err := s.Relationships().GetByPair(ctx, model.GetRelationshipRequest{UserA: "alice", UserB: "bob"})
	require.NoError(t, err)
	assert.Equal(t, rel.ID, got.ID)

	// reversed order finds the same row
	got, err = s.Relationships().GetByPair(ctx, model.GetRelationshipRequest{UserA: "bob", UserB: "alice"})
	require.NoError(t, err)
	assert.Equal(t, rel.ID, got.ID)

	_, err = s.Relationships().GetByPair(ctx, model.GetRelationshipRequest{UserA: "alice", UserB: "carol"})
	assert.True(t, errors.Is(err, model.ErrNotFound))

	err = s.Relationships().Create(ctx, &model.Relationship{UserA: ""})
	assert.True(t, errors.Is(err, model.ErrValidation))

	rels, err := s.Relationships().ListForUser(ctx, "bob")
	require.NoError(t, err)
	assert.Len(t, rels, 1)
}

func TestCacheTableUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 2)

	_, ok, err := s.Cache().Get(ctx, "k", "agent")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Cache().Set(ctx, "k", "agent", "v1"))
	require.NoError(t, s.Cache().Set(ctx, "k", "agent", "v2"))

	val, ok, err := s.Cache().Get(ctx, "k", "agent")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", val)

	// entries are scoped per agent
	_, ok, err = s.Cache().Get(ctx, "k", "other")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Cache().Delete(ctx, "k", "agent"))
	_, ok, err = s.Cache().Get(ctx, "k", "agent")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogCreate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, 2)

	require.NoError(t, s.Logs().Create(ctx, &model.Log{
		Type:   "action",
		UserID: "u1",
		RoomID: "r1",
		Body:   map[string]interface{}{"action": "wave"},
	}))

	err := s.Logs().Create(ctx, &model.Log{Body: map[string]interface{}{}})
	assert.True(t, errors.Is(err, model.ErrValidation))
}
