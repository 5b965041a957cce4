package handler

import (
	"github.com/GoArmGo/Filmorate/internal/domain"
)

// idRef ссылка на запись справочника: {"id": 1}. Остальные поля
// (например, name) игнорируются и подставляются из справочника.
type idRef struct {
	ID int64 `json:"id" validate:"gt=0"`
}

// filmRequest тело POST/PUT /films
type filmRequest struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name" validate:"notblank"`
	Description string  `json:"description" validate:"max=200"`
	ReleaseDate string  `json:"releaseDate" validate:"omitempty,datetime=2006-01-02,releasedate"`
	Duration    int     `json:"duration" validate:"gt=0"`
	Mpa         *idRef  `json:"mpa" validate:"required"`
	Genres      []idRef `json:"genres" validate:"omitempty,dive"`
	Likes       []int64 `json:"likes"`
}

func (r filmRequest) toDomain() *domain.Film {
	film := &domain.Film{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Duration:    r.Duration,
		Mpa:         domain.MpaRating{ID: r.Mpa.ID},
		Genres:      make([]domain.Genre, 0, len(r.Genres)),
		Likes:       r.Likes,
	}
	// формат уже проверен валидатором
	film.ReleaseDate, _ = domain.ParseDate(r.ReleaseDate)
	for _, g := range r.Genres {
		film.Genres = append(film.Genres, domain.Genre{ID: g.ID})
	}
	return film
}

// userRequest тело POST/PUT /users
type userRequest struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email" validate:"required,email"`
	Login    string  `json:"login" validate:"notblank,nowhitespace"`
	Name     string  `json:"name"`
	Birthday string  `json:"birthday" validate:"omitempty,datetime=2006-01-02,notfuture"`
	Friends  []int64 `json:"friends"`
}

func (r userRequest) toDomain() *domain.User {
	user := &domain.User{
		ID:      r.ID,
		Email:   r.Email,
		Login:   r.Login,
		Name:    r.Name,
		Friends: r.Friends,
	}
	user.Birthday, _ = domain.ParseDate(r.Birthday)
	return user
}
