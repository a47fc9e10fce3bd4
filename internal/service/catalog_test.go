package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/saarevents/internal/domain/auth"
	"github.com/target/saarevents/internal/domain/model"
	apperrors "github.com/target/saarevents/internal/errors"
	"github.com/target/saarevents/internal/mocks"
	authmocks "github.com/target/saarevents/internal/mocks/auth"
	"github.com/target/saarevents/internal/testutil"
	"go.uber.org/mock/gomock"
)

type catalogFixture struct {
	store   *SessionStore
	api     *mocks.MockCatalogAPI
	admin   *mocks.MockAdminAPI
	cache   *authmocks.MemoryCache
	catalog *CatalogService
}

func newCatalogFixture(t *testing.T) *catalogFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &catalogFixture{
		store: NewSessionStore(SessionStoreOptions{Store: authmocks.NewMemoryCredentialStore(nil)}),
		api:   mocks.NewMockCatalogAPI(ctrl),
		admin: mocks.NewMockAdminAPI(ctrl),
		cache: authmocks.NewMemoryCache(),
	}
	f.catalog = NewCatalogService(CatalogServiceOptions{
		API:      f.api,
		Admin:    f.admin,
		Sessions: f.store,
		Cache:    f.cache,
		CacheTTL: time.Hour,
	})
	return f
}

func (f *catalogFixture) login(t *testing.T, id domainauth.Identity) {
	t.Helper()
	require.NoError(t, f.store.Login(context.Background(), id))
}

func TestNewCatalogService_RequiresDependencies(t *testing.T) {
	store := NewSessionStore(SessionStoreOptions{Store: authmocks.NewMemoryCredentialStore(nil)})
	assert.Panics(t, func() { NewCatalogService(CatalogServiceOptions{Sessions: store}) })
	assert.Panics(t, func() {
		NewCatalogService(CatalogServiceOptions{API: mocks.NewMockCatalogAPI(gomock.NewController(t))})
	})
}

func TestCatalogService_Events(t *testing.T) {
	f := newCatalogFixture(t)
	filter := model.EventFilter{City: "Saarbrücken", Page: 1}
	f.api.EXPECT().ListEvents(gomock.Any(), filter).Return(testutil.Events(1, 2), nil)

	events, err := f.catalog.Events(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestCatalogService_EventValidatesID(t *testing.T) {
	f := newCatalogFixture(t)

	_, err := f.catalog.Event(context.Background(), 0)
	assert.True(t, apperrors.IsValidation(err))

	f.api.EXPECT().GetEvent(gomock.Any(), int64(5)).Return(model.Event{}, apperrors.NotFound("event not found"))
	_, err = f.catalog.Event(context.Background(), 5)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCatalogService_CategoriesAreCached(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.api.EXPECT().ListCategories(gomock.Any()).
		Return([]model.Category{{ID: 1, Name: "Music"}}, nil).Times(1)

	first, err := f.catalog.Categories(ctx)
	require.NoError(t, err)
	second, err := f.catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, time.Hour, f.cache.TTL(categoriesCacheKey))

	require.NoError(t, f.catalog.InvalidateReferenceData(ctx))
	f.api.EXPECT().ListCategories(gomock.Any()).Return([]model.Category{{ID: 2, Name: "Food"}}, nil)
	third, err := f.catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Food", third[0].Name)
}

func TestCatalogService_UnreadableCacheEntryRefetches(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	require.NoError(t, f.cache.Set(ctx, citiesCacheKey, []byte("not-json"), 0))
	f.api.EXPECT().ListCities(gomock.Any()).Return([]model.City{{ID: 3, Name: "Homburg"}}, nil)

	cities, err := f.catalog.Cities(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Homburg", cities[0].Name)
}

func TestCatalogService_WithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockCatalogAPI(ctrl)
	store := NewSessionStore(SessionStoreOptions{Store: authmocks.NewMemoryCredentialStore(nil)})
	catalog := NewCatalogService(CatalogServiceOptions{API: api, Sessions: store})
	api.EXPECT().ListCities(gomock.Any()).Return(nil, nil).Times(2)

	_, err := catalog.Cities(context.Background())
	require.NoError(t, err)
	_, err = catalog.Cities(context.Background())
	require.NoError(t, err)
	require.NoError(t, catalog.InvalidateReferenceData(context.Background()))
}

func TestCatalogService_Preload(t *testing.T) {
	f := newCatalogFixture(t)
	f.api.EXPECT().ListCategories(gomock.Any()).Return([]model.Category{{ID: 1}}, nil)
	f.api.EXPECT().ListCities(gomock.Any()).Return([]model.City{{ID: 1}}, nil)

	require.NoError(t, f.catalog.Preload(context.Background()))
	assert.Equal(t, time.Hour, f.cache.TTL(citiesCacheKey))
}

func TestCatalogService_PreloadFailure(t *testing.T) {
	f := newCatalogFixture(t)
	boom := errors.New("boom")
	f.api.EXPECT().ListCategories(gomock.Any()).Return(nil, boom)
	f.api.EXPECT().ListCities(gomock.Any()).Return(nil, nil).AnyTimes()

	err := f.catalog.Preload(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCatalogService_CreateReview(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	in := model.ReviewInput{Rating: 5, Comment: "great"}

	_, err := f.catalog.CreateReview(ctx, 3, in)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = f.catalog.CreateReview(ctx, 3, model.ReviewInput{Rating: 9})
	assert.True(t, apperrors.IsValidation(err))

	f.login(t, testutil.NewIdentity().Build())
	f.api.EXPECT().CreateReview(gomock.Any(), int64(3), in).Return(model.Review{ID: 11, Rating: 5}, nil)
	review, err := f.catalog.CreateReview(ctx, 3, in)
	require.NoError(t, err)
	assert.Equal(t, int64(11), review.ID)
}

func TestCatalogService_SetReminderNeedsFullIdentity(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	at := testutil.TestTime().Add(24 * time.Hour)

	f.login(t, testutil.NewIdentity().Partial().Build())
	_, err := f.catalog.SetReminder(ctx, 3, at)
	assert.ErrorIs(t, err, apperrors.ErrNotReady)

	f.login(t, testutil.NewIdentity().Build())
	f.api.EXPECT().SetReminder(gomock.Any(), model.ReminderInput{UserID: 42, EventID: 3, RemindAt: at}).
		Return(model.ReminderResult{Message: "Reminder set"}, nil)
	res, err := f.catalog.SetReminder(ctx, 3, at)
	require.NoError(t, err)
	assert.Equal(t, "Reminder set", res.Message)

	_, err = f.catalog.SetReminder(ctx, 3, time.Time{})
	assert.True(t, apperrors.IsValidation(err))
}

func TestCatalogService_SubmitEvent(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	in := model.CreateEventInput{
		EventDate:    "2025-07-01T19:00:00",
		CategoryID:   1,
		CityID:       2,
		Translations: []model.Translation{{Locale: "de", Name: "Sommerfest"}},
	}

	_, err := f.catalog.SubmitEvent(ctx, model.CreateEventInput{})
	assert.True(t, apperrors.IsValidation(err))

	_, err = f.catalog.SubmitEvent(ctx, in)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	f.login(t, testutil.NewIdentity().Build())
	f.api.EXPECT().SubmitEvent(gomock.Any(), in).Return(model.Event{ID: 77, Status: model.EventStatusPending}, nil)
	ev, err := f.catalog.SubmitEvent(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusPending, ev.Status)
}

func TestCatalogService_AdminGating(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)

	_, err := f.catalog.AdminStats(ctx)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	f.login(t, testutil.NewIdentity().Build())
	_, err = f.catalog.AdminStats(ctx)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = f.catalog.AdminUsers(ctx)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = f.catalog.ModerateEvent(ctx, 1, model.EventStatusApproved)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestCatalogService_AdminCalls(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.login(t, testutil.NewIdentity().WithRoles(domainauth.RoleUser, domainauth.RoleAdmin).Build())

	f.admin.EXPECT().Stats(gomock.Any()).Return(model.AdminStats{TotalEvents: 10, PendingEvents: 2}, nil)
	stats, err := f.catalog.AdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.PendingEvents)

	f.admin.EXPECT().ListUsers(gomock.Any()).Return([]model.User{{ID: 1, Username: "alice"}}, nil)
	users, err := f.catalog.AdminUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	_, err = f.catalog.ModerateEvent(ctx, 5, model.EventStatusPending)
	assert.True(t, apperrors.IsValidation(err))

	f.admin.EXPECT().UpdateEventStatus(gomock.Any(), int64(5), model.EventStatusRejected).
		Return(model.Event{ID: 5, Status: model.EventStatusRejected}, nil)
	ev, err := f.catalog.ModerateEvent(ctx, 5, model.EventStatusRejected)
	require.NoError(t, err)
	assert.Equal(t, model.EventStatusRejected, ev.Status)
}

func TestCatalogService_RefreshReferenceDataRewarms(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.api.EXPECT().ListCategories(gomock.Any()).Return([]model.Category{{ID: 1, Name: "Music"}}, nil)
	f.api.EXPECT().ListCities(gomock.Any()).Return([]model.City{{ID: 2, Name: "Homburg"}}, nil)
	require.NoError(t, f.cache.Set(ctx, categoriesCacheKey, []byte(`[{"id":9,"name":"Stale"}]`), 0))

	require.NoError(t, f.catalog.RefreshReferenceData(ctx))

	cats, err := f.catalog.Categories(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Music", cats[0].Name, "served from the re-warmed cache")
	assert.Equal(t, time.Hour, f.cache.TTL(citiesCacheKey))
}

func TestCatalogService_RefreshReferenceDataWithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockCatalogAPI(ctrl)
	store := NewSessionStore(SessionStoreOptions{Store: authmocks.NewMemoryCredentialStore(nil)})
	catalog := NewCatalogService(CatalogServiceOptions{API: api, Sessions: store})

	require.NoError(t, catalog.RefreshReferenceData(context.Background()))
}

func TestCatalogService_AdminWritesAreGated(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.login(t, testutil.NewIdentity().Build())
	ev := model.CreateEventInput{
		EventDate:    "2025-07-01T19:00:00",
		CategoryID:   1,
		CityID:       2,
		Translations: []model.Translation{{Locale: "de", Name: "Sommerfest"}},
	}

	_, err := f.catalog.AdminEvents(ctx)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = f.catalog.CreateEvent(ctx, ev)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	_, err = f.catalog.UpdateEvent(ctx, 1, ev)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.ErrorIs(t, f.catalog.DeleteEvent(ctx, 1), apperrors.ErrForbidden)
	_, err = f.catalog.CreateCategory(ctx, model.CategoryInput{Name: "Music"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.ErrorIs(t, f.catalog.DeleteCategory(ctx, 1), apperrors.ErrForbidden)
	_, err = f.catalog.CreateCity(ctx, model.CityInput{Name: "Homburg"})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.ErrorIs(t, f.catalog.DeleteCity(ctx, 1), apperrors.ErrForbidden)
	assert.ErrorIs(t, f.catalog.DeleteUser(ctx, 7), apperrors.ErrForbidden)
}

func TestCatalogService_ReferenceDataChangesInvalidateCache(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.login(t, testutil.NewIdentity().WithRoles(domainauth.RoleUser, domainauth.RoleAdmin).Build())

	seed := func() {
		require.NoError(t, f.cache.Set(ctx, categoriesCacheKey, []byte(`[]`), 0))
		require.NoError(t, f.cache.Set(ctx, citiesCacheKey, []byte(`[]`), 0))
	}
	assertDropped := func() {
		t.Helper()
		raw, err := f.cache.Get(ctx, categoriesCacheKey)
		require.NoError(t, err)
		assert.Nil(t, raw)
		raw, err = f.cache.Get(ctx, citiesCacheKey)
		require.NoError(t, err)
		assert.Nil(t, raw)
	}

	seed()
	f.admin.EXPECT().CreateCategory(gomock.Any(), model.CategoryInput{Name: "Music"}).Return(model.Category{ID: 4, Name: "Music"}, nil)
	cat, err := f.catalog.CreateCategory(ctx, model.CategoryInput{Name: "Music"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), cat.ID)
	assertDropped()

	seed()
	f.admin.EXPECT().DeleteCategory(gomock.Any(), int64(4)).Return(nil)
	require.NoError(t, f.catalog.DeleteCategory(ctx, 4))
	assertDropped()

	seed()
	f.admin.EXPECT().CreateCity(gomock.Any(), model.CityInput{Name: "Homburg"}).Return(model.City{ID: 5, Name: "Homburg"}, nil)
	_, err = f.catalog.CreateCity(ctx, model.CityInput{Name: "Homburg"})
	require.NoError(t, err)
	assertDropped()

	seed()
	f.admin.EXPECT().DeleteCity(gomock.Any(), int64(5)).Return(nil)
	require.NoError(t, f.catalog.DeleteCity(ctx, 5))
	assertDropped()
}

func TestCatalogService_FailedReferenceChangeKeepsCache(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.login(t, testutil.NewIdentity().WithRoles(domainauth.RoleUser, domainauth.RoleAdmin).Build())
	require.NoError(t, f.cache.Set(ctx, categoriesCacheKey, []byte(`[]`), 0))
	f.admin.EXPECT().DeleteCategory(gomock.Any(), int64(4)).Return(apperrors.NotFound("category not found"))

	err := f.catalog.DeleteCategory(ctx, 4)
	assert.True(t, apperrors.IsNotFound(err))
	raw, err := f.cache.Get(ctx, categoriesCacheKey)
	require.NoError(t, err)
	assert.NotNil(t, raw)
}

func TestCatalogService_AdminEventManagement(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.login(t, testutil.NewIdentity().WithRoles(domainauth.RoleUser, domainauth.RoleAdmin).Build())
	in := model.CreateEventInput{
		EventDate:    "2025-07-01T19:00:00",
		CategoryID:   1,
		CityID:       2,
		Translations: []model.Translation{{Locale: "de", Name: "Sommerfest"}},
	}

	f.admin.EXPECT().ListAllEvents(gomock.Any()).Return(testutil.Events(1, 2, 3), nil)
	all, err := f.catalog.AdminEvents(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.catalog.CreateEvent(ctx, model.CreateEventInput{})
	assert.True(t, apperrors.IsValidation(err))
	f.admin.EXPECT().CreateEvent(gomock.Any(), in).Return(model.Event{ID: 8, Status: model.EventStatusApproved}, nil)
	created, err := f.catalog.CreateEvent(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(8), created.ID)

	_, err = f.catalog.UpdateEvent(ctx, 0, in)
	assert.True(t, apperrors.IsValidation(err))
	f.admin.EXPECT().UpdateEvent(gomock.Any(), int64(8), in).Return(model.Event{ID: 8}, nil)
	_, err = f.catalog.UpdateEvent(ctx, 8, in)
	require.NoError(t, err)

	f.admin.EXPECT().DeleteEvent(gomock.Any(), int64(8)).Return(nil)
	require.NoError(t, f.catalog.DeleteEvent(ctx, 8))
}

func TestCatalogService_DeleteUser(t *testing.T) {
	ctx := context.Background()
	f := newCatalogFixture(t)
	f.login(t, testutil.NewIdentity().WithRoles(domainauth.RoleUser, domainauth.RoleAdmin).Build())

	err := f.catalog.DeleteUser(ctx, 42)
	require.Error(t, err)
	assert.Equal(t, "userID", apperrors.GetField(err), "cannot delete the signed-in account")

	f.admin.EXPECT().DeleteUser(gomock.Any(), int64(7)).Return(nil)
	require.NoError(t, f.catalog.DeleteUser(ctx, 7))
}
