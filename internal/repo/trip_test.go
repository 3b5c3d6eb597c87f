package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpetrenko/cargoflow/internal/domain"
	"github.com/mpetrenko/cargoflow/internal/repo"
	"github.com/mpetrenko/cargoflow/testutil"
)

// newTestTripRepo opens a single transaction and returns a TripRepo backed by
// it. The transaction is rolled back automatically when the test finishes.
func newTestTripRepo(t *testing.T) repo.TripRepo {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		_ = tx.Rollback(context.Background())
	})

	return repo.NewTripRepo(tx)
}

// tripFixture returns a Trip ready for insertion.
func tripFixture() domain.Trip {
	return domain.Trip{
		Date:          "2025-06-01",
		ClientID:      uuid.NewString(),
		StartLocation: "Moscow",
		EndLocation:   "Kazan",
		Cargo:         "electronics",
		Driver:        "Petrov",
		Vehicle:       "KAMAZ 54901",
		Status:        domain.StatusPlanned,
		Income:        120000,
		Expenses:      45000,
		Notes:         "fragile load",
	}
}

func TestTripRepo_Create(t *testing.T) {
	r := newTestTripRepo(t)
	input := tripFixture()

	got, err := r.Create(context.Background(), input)

	require.NoError(t, err)
	assert.NotEmpty(t, got.ID, "ID should be DB-generated")
	assert.Equal(t, "2025-06-01", got.Date, "date should round-trip as YYYY-MM-DD")
	assert.Equal(t, input.ClientID, got.ClientID)
	assert.Equal(t, input.StartLocation, got.StartLocation)
	assert.Equal(t, input.EndLocation, got.EndLocation)
	assert.Equal(t, input.Cargo, got.Cargo)
	assert.Equal(t, input.Driver, got.Driver)
	assert.Equal(t, input.Vehicle, got.Vehicle)
	assert.Equal(t, domain.StatusPlanned, got.Status)
	assert.Equal(t, input.Income, got.Income)
	assert.Equal(t, input.Expenses, got.Expenses)
	assert.Equal(t, input.Notes, got.Notes)
}

func TestTripRepo_GetAll_OrderedByDate(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	later := tripFixture()
	later.Date = "2025-07-15"
	earlier := tripFixture()
	earlier.Date = "2025-05-20"

	_, err := r.Create(ctx, later)
	require.NoError(t, err)
	_, err = r.Create(ctx, earlier)
	require.NoError(t, err)

	got, err := r.GetAll(ctx)

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "2025-05-20", got[0].Date, "trips should be ordered by date ascending")
	assert.Equal(t, "2025-07-15", got[1].Date)
}

func TestTripRepo_GetByID(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	got, err := r.GetByID(ctx, created.ID)

	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestTripRepo_GetByID_NotFound(t *testing.T) {
	r := newTestTripRepo(t)

	_, err := r.GetByID(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_GetByID_MalformedID(t *testing.T) {
	r := newTestTripRepo(t)

	_, err := r.GetByID(context.Background(), "not-a-uuid")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Update(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	created.Status = domain.StatusCompleted
	created.Income = 130000
	created.Date = "2025-06-03"

	updated, err := r.Update(ctx, created.ID, created)

	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, float64(130000), updated.Income)
	assert.Equal(t, "2025-06-03", updated.Date)
}

func TestTripRepo_Update_NotFound(t *testing.T) {
	r := newTestTripRepo(t)

	_, err := r.Update(context.Background(), uuid.NewString(), tripFixture())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete(t *testing.T) {
	r := newTestTripRepo(t)
	ctx := context.Background()

	created, err := r.Create(ctx, tripFixture())
	require.NoError(t, err)

	err = r.Delete(ctx, created.ID)
	require.NoError(t, err)

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripRepo_Delete_NotFound(t *testing.T) {
	r := newTestTripRepo(t)

	err := r.Delete(context.Background(), uuid.NewString())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
