package domain

import (
	"slices"
)

// Film представляет фильм вместе с его связями.
// Genres упорядочены по возрастанию id, Likes это множество id пользователей.
type Film struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ReleaseDate Date      `json:"releaseDate"`
	Duration    int       `json:"duration"`
	Mpa         MpaRating `json:"mpa"`
	Genres      []Genre   `json:"genres"`
	Likes       []int64   `json:"likes"`
}

// GenreIDs возвращает уникальные id жанров по возрастанию
func (f *Film) GenreIDs() []int64 {
	ids := make([]int64, 0, len(f.Genres))
	for _, g := range f.Genres {
		ids = append(ids, g.ID)
	}
	return UniqueIDs(ids)
}

// NormalizeLikes убирает дубликаты и сортирует id пользователей
func (f *Film) NormalizeLikes() {
	f.Likes = UniqueIDs(f.Likes)
}

// LikedBy проверяет, ставил ли пользователь лайк
func (f *Film) LikedBy(userID int64) bool {
	return containsID(f.Likes, userID)
}

// UniqueIDs возвращает новый отсортированный срез без повторов.
// Для пустого входа возвращается пустой (не nil) срез.
func UniqueIDs(ids []int64) []int64 {
	out := make([]int64, len(ids))
	copy(out, ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func containsID(ids []int64, id int64) bool {
	return slices.Contains(ids, id)
}
