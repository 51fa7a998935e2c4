package complaint

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"discipline/internal/users"
)

var errStoreDown = errors.New("store down")

// fakeLedger mimics the Postgres repo: server-assigned ids and timestamps,
// newest-first reads.
type fakeLedger struct {
	rows       []Complaint
	failInsert bool
	clock      time.Time
}

func (f *fakeLedger) Insert(_ context.Context, cmp Complaint) (Complaint, error) {
	if f.failInsert {
		return Complaint{}, errStoreDown
	}
	cmp.ID = uuid.NewString()
	f.clock = f.clock.Add(time.Second)
	cmp.CreatedAt = f.clock
	f.rows = append(f.rows, cmp)
	return cmp, nil
}

func (f *fakeLedger) ListByStudent(_ context.Context, studentID string) ([]Complaint, error) {
	var out []Complaint
	for _, c := range f.rows {
		if c.StudentID == studentID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeLedger) ListAll(_ context.Context) ([]Complaint, error) {
	out := append([]Complaint(nil), f.rows...)
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type fakeDirectory struct {
	users []users.User
}

func (f *fakeDirectory) GetByID(_ context.Context, id string) (*users.User, error) {
	for i := range f.users {
		if f.users[i].ID == id {
			return &f.users[i], nil
		}
	}
	return nil, nil
}

func (f *fakeDirectory) ListStudents(_ context.Context) ([]users.User, error) {
	var out []users.User
	for _, u := range f.users {
		if u.Role == users.RoleStudent {
			out = append(out, u)
		}
	}
	return out, nil
}

func testFixtures() (*fakeLedger, *fakeDirectory, *Service) {
	ledger := &fakeLedger{clock: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)}
	dir := &fakeDirectory{users: []users.User{
		{ID: "s1", Email: "a@x.com", Role: users.RoleStudent, Department: "CSE"},
		{ID: "s2", Email: "b@x.com", Role: users.RoleStudent, Department: "ECE"},
		{ID: "adm", Email: "admin@x.com", Role: users.RoleAdmin, Department: "CSE"},
	}}
	return ledger, dir, NewService(ledger, dir)
}

func TestCreateValidation(t *testing.T) {
	_, _, svc := testFixtures()
	ctx := context.Background()

	_, err := svc.Create(ctx, "", "Late", "", "")
	assert.ErrorIs(t, err, ErrNoStudent)

	_, err = svc.Create(ctx, "s1", "", "", "")
	assert.ErrorIs(t, err, ErrReasonRequired)

	_, err = svc.Create(ctx, "s1", "other", "", "")
	assert.ErrorIs(t, err, ErrReasonRequired)
}

func TestCreateOtherReasonStoresCustomText(t *testing.T) {
	_, _, svc := testFixtures()

	cmp, err := svc.Create(context.Background(), "s1", "other", "chewing gum", "")
	require.NoError(t, err)
	assert.Equal(t, "chewing gum", cmp.Reason)
}

func TestCreateDefaultsPhotoToPlaceholder(t *testing.T) {
	_, _, svc := testFixtures()

	cmp, err := svc.Create(context.Background(), "s1", "Late", "", "")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderPhoto, cmp.Photo)

	withPhoto, err := svc.Create(context.Background(), "s1", "Late", "", "https://cdn/x.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn/x.jpg", withPhoto.Photo)
}

func TestCreateTargetChecks(t *testing.T) {
	_, _, svc := testFixtures()
	ctx := context.Background()

	_, err := svc.Create(ctx, "ghost", "Late", "", "")
	assert.ErrorIs(t, err, users.ErrNotFound)

	_, err = svc.Create(ctx, "adm", "Late", "", "")
	assert.ErrorIs(t, err, ErrNotStudent)
}

func TestCreateStorageFailureLeavesNoTrace(t *testing.T) {
	ledger, _, svc := testFixtures()
	ledger.failInsert = true

	_, err := svc.Create(context.Background(), "s1", "Late", "", "")
	assert.ErrorIs(t, err, errStoreDown)
	assert.Empty(t, ledger.rows)
}

func TestListForStudentNewestFirstAndIdempotent(t *testing.T) {
	_, _, svc := testFixtures()
	ctx := context.Background()

	_, err := svc.Create(ctx, "s1", "Beard", "", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "s1", "Shoes", "", "")
	require.NoError(t, err)

	first, err := svc.ListForStudent(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "Shoes", first[0].Reason)
	assert.Equal(t, "Beard", first[1].Reason)

	second, err := svc.ListForStudent(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListForStudentEmptyIsNotAnError(t *testing.T) {
	_, _, svc := testFixtures()

	list, err := svc.ListForStudent(context.Background(), "s2")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestListAllFiltersSelectStudentsNotComplaints(t *testing.T) {
	_, _, svc := testFixtures()
	ctx := context.Background()

	_, err := svc.Create(ctx, "s1", "Beard", "", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "s1", "Late", "", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "s2", "Late", "", "")
	require.NoError(t, err)

	// reason filter picks students with ANY matching complaint but keeps
	// their whole history
	records, err := svc.ListAll(ctx, Filters{Reason: "Beard"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "s1", records[0].Student.ID)
	assert.Len(t, records[0].Complaints, 2)

	// department filter is exact
	records, err = svc.ListAll(ctx, Filters{Department: "ECE"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "s2", records[0].Student.ID)

	// query is an email substring match
	records, err = svc.ListAll(ctx, Filters{Query: "b@"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "s2", records[0].Student.ID)

	// no filters returns every student, admins excluded
	records, err = svc.ListAll(ctx, Filters{})
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestListAllStudentWithoutComplaintsHasEmptyHistory(t *testing.T) {
	_, _, svc := testFixtures()

	records, err := svc.ListAll(context.Background(), Filters{})
	require.NoError(t, err)
	for _, rec := range records {
		assert.NotNil(t, rec.Complaints)
		assert.Empty(t, rec.Complaints)
	}
}
