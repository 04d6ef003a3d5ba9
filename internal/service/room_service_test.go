package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusdesk/lecture-scheduler/internal/models"
	appErrors "github.com/campusdesk/lecture-scheduler/pkg/errors"
)

type roomRepoFake struct {
	rooms     []models.Room
	createErr error
	deleteErr error
	created   *models.Room
}

func (f *roomRepoFake) List(ctx context.Context) ([]models.Room, error) { return f.rooms, nil }

func (f *roomRepoFake) FindByID(ctx context.Context, id string) (*models.Room, error) {
	for i := range f.rooms {
		if f.rooms[i].ID == id {
			cp := f.rooms[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *roomRepoFake) Create(ctx context.Context, room *models.Room) error {
	if f.createErr != nil {
		return f.createErr
	}
	room.ID = "room-new"
	f.created = room
	return nil
}

func (f *roomRepoFake) Delete(ctx context.Context, id string) error { return f.deleteErr }

func TestRoomServiceCreate(t *testing.T) {
	repo := &roomRepoFake{}
	svc := NewRoomService(repo, nil, nil)

	room, err := svc.Create(context.Background(), CreateRoomRequest{Name: "Hall A"})
	require.NoError(t, err)
	assert.Equal(t, "room-new", room.ID)
	assert.Equal(t, "Hall A", room.Name)

	_, err = svc.Create(context.Background(), CreateRoomRequest{})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestRoomServiceCreateDuplicateName(t *testing.T) {
	repo := &roomRepoFake{createErr: &pq.Error{Code: "23505"}}
	svc := NewRoomService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateRoomRequest{Name: "Hall A"})
	appErr := appErrors.FromError(err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "room name already exists", appErr.Message)
}

func TestRoomServiceDelete(t *testing.T) {
	svc := NewRoomService(&roomRepoFake{}, nil, nil)
	require.NoError(t, svc.Delete(context.Background(), "room-1"))

	svc = NewRoomService(&roomRepoFake{deleteErr: sql.ErrNoRows}, nil, nil)
	appErr := appErrors.FromError(svc.Delete(context.Background(), "missing"))
	assert.Equal(t, http.StatusNotFound, appErr.Status)

	// RESTRICT semantics: a room hosting lectures cannot be removed.
	svc = NewRoomService(&roomRepoFake{deleteErr: &pq.Error{Code: "23503"}}, nil, nil)
	appErr = appErrors.FromError(svc.Delete(context.Background(), "room-1"))
	assert.Equal(t, http.StatusConflict, appErr.Status)
	assert.Equal(t, "room is referenced by existing lectures", appErr.Message)
}
