package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoArmGo/Filmorate/internal/database/memory"
	"github.com/GoArmGo/Filmorate/internal/domain"
	"github.com/GoArmGo/Filmorate/internal/logger"
	"github.com/GoArmGo/Filmorate/internal/messaging/payloads"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []payloads.ActivityEvent
	err    error
}

func (p *recordingPublisher) PublishActivity(_ context.Context, event payloads.ActivityEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	films     FilmUseCase
	users     UserUseCase
	catalog   CatalogUseCase
	publisher *recordingPublisher
}

func newFixture() *fixture {
	log := logger.Discard()
	filmStore := memory.NewFilmStorage(log)
	userStore := memory.NewUserStorage(log)
	catalogStore := memory.NewCatalogStorage()
	pub := &recordingPublisher{}

	return &fixture{
		films:     NewFilmUseCase(filmStore, userStore, catalogStore, pub, log),
		users:     NewUserUseCase(userStore, filmStore, pub, log),
		catalog:   NewCatalogUseCase(catalogStore),
		publisher: pub,
	}
}

func (f *fixture) user(t *testing.T, login string) int64 {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), &domain.User{
		Email:    login + "@example.com",
		Login:    login,
		Birthday: domain.NewDate(1990, time.June, 15),
	})
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) film(t *testing.T, name string) int64 {
	t.Helper()
	created, err := f.films.CreateFilm(context.Background(), film(name))
	require.NoError(t, err)
	return created.ID
}

func film(name string) *domain.Film {
	return &domain.Film{
		Name:        name,
		Description: "описание",
		ReleaseDate: domain.NewDate(2001, time.September, 1),
		Duration:    95,
		Mpa:         domain.MpaRating{ID: 1},
	}
}

func TestCreateFilm_ResolvesCatalogReferences(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u1, u2 := f.user(t, "alice"), f.user(t, "bob")

	in := film("Шрек")
	in.Mpa = domain.MpaRating{ID: 3, Name: "made up"}
	in.Genres = []domain.Genre{{ID: 3, Name: "wrong label"}, {ID: 1}, {ID: 3}}
	in.Likes = []int64{u2, u1, u2}

	created, err := f.films.CreateFilm(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, domain.MpaRating{ID: 3, Name: "PG-13"}, created.Mpa)
	assert.Equal(t, []domain.Genre{{ID: 1, Name: "Комедия"}, {ID: 3, Name: "Мультфильм"}}, created.Genres)
	assert.Equal(t, []int64{u1, u2}, created.Likes)

	found, err := f.films.GetFilm(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestCreateFilm_RejectsInvalidReferences(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Film)
		checkFn func(error) bool
	}{
		{
			name:    "missing mpa",
			mutate:  func(f *domain.Film) { f.Mpa = domain.MpaRating{} },
			checkFn: domain.IsValidation,
		},
		{
			name:    "unknown mpa",
			mutate:  func(f *domain.Film) { f.Mpa = domain.MpaRating{ID: 42} },
			checkFn: domain.IsValidation,
		},
		{
			name:    "unknown genre",
			mutate:  func(f *domain.Film) { f.Genres = []domain.Genre{{ID: 1}, {ID: 99}} },
			checkFn: domain.IsValidation,
		},
		{
			name:    "like from unknown user",
			mutate:  func(f *domain.Film) { f.Likes = []int64{7} },
			checkFn: domain.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			in := film("broken")
			tt.mutate(in)

			_, err := f.films.CreateFilm(context.Background(), in)
			require.Error(t, err)
			assert.True(t, tt.checkFn(err), "unexpected error kind: %v", err)

			all, err := f.films.ListFilms(context.Background())
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestUpdateFilm_ReplacesGenres(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := film("Леон")
	in.Genres = []domain.Genre{{ID: 2}, {ID: 3}}
	created, err := f.films.CreateFilm(ctx, in)
	require.NoError(t, err)

	created.Genres = []domain.Genre{{ID: 3}, {ID: 4}}
	updated, err := f.films.UpdateFilm(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 4}, updated.GenreIDs())

	found, err := f.films.GetFilm(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, []domain.Genre{{ID: 3, Name: "Мультфильм"}, {ID: 4, Name: "Триллер"}}, found.Genres)
}

func TestUpdateFilm_NotFound(t *testing.T) {
	f := newFixture()
	in := film("ghost")
	in.ID = 404

	_, err := f.films.UpdateFilm(context.Background(), in)
	assert.True(t, domain.IsNotFound(err))
}

func TestAddLike_Idempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.user(t, "fan")
	filmID := f.film(t, "Амели")

	require.NoError(t, f.films.AddLike(ctx, filmID, userID))
	require.NoError(t, f.films.AddLike(ctx, filmID, userID))

	found, err := f.films.GetFilm(ctx, filmID)
	require.NoError(t, err)
	assert.Equal(t, []int64{userID}, found.Likes)
	assert.Equal(t, []string{payloads.ActivityFilmLiked, payloads.ActivityFilmLiked}, f.publisher.types())
}

func TestAddLike_MissingParticipants(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.user(t, "fan")
	filmID := f.film(t, "Амели")

	assert.True(t, domain.IsNotFound(f.films.AddLike(ctx, 100, userID)))
	assert.True(t, domain.IsNotFound(f.films.AddLike(ctx, filmID, 100)))
	assert.Empty(t, f.publisher.types())
}

func TestRemoveLike_AbsentLikeIsNoOp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	userID := f.user(t, "fan")
	filmID := f.film(t, "Амели")

	require.NoError(t, f.films.RemoveLike(ctx, filmID, userID))
	require.NoError(t, f.films.RemoveLike(ctx, filmID, 12345))

	found, err := f.films.GetFilm(ctx, filmID)
	require.NoError(t, err)
	assert.Empty(t, found.Likes)

	assert.True(t, domain.IsNotFound(f.films.RemoveLike(ctx, 999, userID)))
	assert.Empty(t, f.publisher.types(), "no event without a removed like")

	require.NoError(t, f.films.AddLike(ctx, filmID, userID))
	require.NoError(t, f.films.RemoveLike(ctx, filmID, userID))
	require.NoError(t, f.films.RemoveLike(ctx, filmID, userID))
	assert.Equal(t, []string{payloads.ActivityFilmLiked, payloads.ActivityFilmUnliked}, f.publisher.types())
}

func TestGetMostPopular(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 1; i <= 9; i++ {
		f.film(t, "film")
	}
	a, b := f.user(t, "a"), f.user(t, "b")
	for _, like := range []struct{ film, user int64 }{
		{3, a}, {3, b}, {7, a}, {7, b}, {9, a}, {2, b},
	} {
		require.NoError(t, f.films.AddLike(ctx, like.film, like.user))
	}

	top, err := f.films.GetMostPopular(ctx, 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, int64(3), top[0].ID)
	assert.Equal(t, int64(7), top[1].ID)

	all, err := f.films.GetMostPopular(ctx, 100)
	require.NoError(t, err)
	require.Len(t, all, 9)
	assert.Equal(t, int64(2), all[2].ID)
	assert.Equal(t, int64(9), all[3].ID)
	assert.Equal(t, int64(1), all[4].ID)

	for _, count := range []int{0, -5} {
		empty, err := f.films.GetMostPopular(ctx, count)
		require.NoError(t, err)
		assert.NotNil(t, empty)
		assert.Empty(t, empty)
	}

	require.NoError(t, f.films.DeleteFilm(ctx, 3))
	_, err = f.films.GetFilm(ctx, 3)
	assert.True(t, domain.IsNotFound(err))

	top, err = f.films.GetMostPopular(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(7), top[0].ID)
	assert.Equal(t, int64(2), top[1].ID)
}

func TestPublishFailureDoesNotFailWrite(t *testing.T) {
	f := newFixture()
	f.publisher.err = errors.New("broker down")
	ctx := context.Background()
	userID := f.user(t, "fan")
	filmID := f.film(t, "Амели")

	require.NoError(t, f.films.AddLike(ctx, filmID, userID))
	found, err := f.films.GetFilm(ctx, filmID)
	require.NoError(t, err)
	assert.Equal(t, []int64{userID}, found.Likes)
}

func TestCreateUser_NameDefaultsToLogin(t *testing.T) {
	f := newFixture()
	created, err := f.users.CreateUser(context.Background(), &domain.User{
		Email: "dolore@example.com", Login: "dolore", Name: "  ", Birthday: domain.NewDate(1946, 8, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, "dolore", created.Name)
}

func TestCreateUser_UnknownFriend(t *testing.T) {
	f := newFixture()
	_, err := f.users.CreateUser(context.Background(), &domain.User{
		Email: "a@example.com", Login: "a", Friends: []int64{77},
	})
	assert.True(t, domain.IsNotFound(err))
}

func TestUpdateUser_ReplacesFriends(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	x, y, z := f.user(t, "x"), f.user(t, "y"), f.user(t, "z")
	id := f.user(t, "owner")

	u, err := f.users.GetUser(ctx, id)
	require.NoError(t, err)
	u.Friends = []int64{x, y}
	u, err = f.users.UpdateUser(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, []int64{x, y}, u.Friends)

	u.Friends = []int64{z, y, z}
	u, err = f.users.UpdateUser(ctx, u)
	require.NoError(t, err)
	assert.Equal(t, []int64{y, z}, u.Friends)

	u.Friends = []int64{id}
	_, err = f.users.UpdateUser(ctx, u)
	assert.True(t, domain.IsValidation(err))

	_, err = f.users.UpdateUser(ctx, &domain.User{ID: 500, Login: "nobody"})
	assert.True(t, domain.IsNotFound(err))
}

func TestFriends_DirectedAndCommon(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, b := f.user(t, "a"), f.user(t, "b")
	x, y, z, w := f.user(t, "x"), f.user(t, "y"), f.user(t, "z"), f.user(t, "w")

	for _, fr := range []int64{x, y, z} {
		require.NoError(t, f.users.AddFriend(ctx, a, fr))
	}
	for _, fr := range []int64{y, z, w} {
		require.NoError(t, f.users.AddFriend(ctx, b, fr))
	}

	common, err := f.users.GetCommonFriends(ctx, a, b)
	require.NoError(t, err)
	require.Len(t, common, 2)
	assert.Equal(t, y, common[0].ID)
	assert.Equal(t, z, common[1].ID)

	yFriends, err := f.users.GetFriends(ctx, y)
	require.NoError(t, err)
	assert.Empty(t, yFriends, "friendship is directed")

	_, err = f.users.GetCommonFriends(ctx, a, 999)
	assert.True(t, domain.IsNotFound(err))
	_, err = f.users.GetFriends(ctx, 999)
	assert.True(t, domain.IsNotFound(err))
}

func TestAddFriend_Rules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, b := f.user(t, "a"), f.user(t, "b")

	assert.True(t, domain.IsValidation(f.users.AddFriend(ctx, a, a)))
	assert.True(t, domain.IsNotFound(f.users.AddFriend(ctx, a, 999)))
	assert.True(t, domain.IsNotFound(f.users.AddFriend(ctx, 999, a)))

	require.NoError(t, f.users.AddFriend(ctx, a, b))
	require.NoError(t, f.users.AddFriend(ctx, a, b))
	friends, err := f.users.GetFriends(ctx, a)
	require.NoError(t, err)
	require.Len(t, friends, 1)
	assert.Equal(t, b, friends[0].ID)
}

func TestRemoveFriend_AbsentEdgeIsNoOp(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, b := f.user(t, "a"), f.user(t, "b")

	require.NoError(t, f.users.RemoveFriend(ctx, a, b))
	assert.True(t, domain.IsNotFound(f.users.RemoveFriend(ctx, a, 999)))

	require.NoError(t, f.users.AddFriend(ctx, a, b))
	require.NoError(t, f.users.RemoveFriend(ctx, a, b))
	require.NoError(t, f.users.RemoveFriend(ctx, a, b))
	friends, err := f.users.GetFriends(ctx, a)
	require.NoError(t, err)
	assert.Empty(t, friends)

	assert.Equal(t, []string{
		payloads.ActivityFriendAdded,
		payloads.ActivityFriendRemoved,
	}, f.publisher.types())
}

func TestDeleteUser_DropsLikesAndFriendships(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a, b, c := f.user(t, "a"), f.user(t, "b"), f.user(t, "c")
	first, second := f.film(t, "Сталкер"), f.film(t, "Солярис")

	require.NoError(t, f.films.AddLike(ctx, first, a))
	require.NoError(t, f.films.AddLike(ctx, first, b))
	require.NoError(t, f.films.AddLike(ctx, second, c))
	require.NoError(t, f.users.AddFriend(ctx, b, a))
	require.NoError(t, f.users.AddFriend(ctx, b, c))

	require.NoError(t, f.users.DeleteUser(ctx, a))
	assert.True(t, domain.IsNotFound(f.users.DeleteUser(ctx, a)))

	liked, err := f.films.GetFilm(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, []int64{b}, liked.Likes)

	friend, err := f.users.GetUser(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []int64{c}, friend.Friends)

	popular, err := f.films.GetMostPopular(ctx, 2)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, []int64{first, second}, []int64{popular[0].ID, popular[1].ID})
	assert.Len(t, popular[0].Likes, 1)

	// прочитанные сущности можно записать обратно без изменений
	_, err = f.films.UpdateFilm(ctx, liked)
	require.NoError(t, err)
	_, err = f.users.UpdateUser(ctx, friend)
	require.NoError(t, err)
}

func TestCatalogUseCase(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	genres, err := f.catalog.ListGenres(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 6)

	mpa, err := f.catalog.GetMpa(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, "NC-17", mpa.Name)

	_, err = f.catalog.GetGenre(ctx, 0)
	assert.True(t, domain.IsNotFound(err))
}
