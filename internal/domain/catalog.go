package domain

// Genre строка справочника жанров. Ядро только читает справочник.
type Genre struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MpaRating строка справочника возрастных рейтингов MPA
type MpaRating struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
