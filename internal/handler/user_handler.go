package handler

import (
	"log/slog"
	"net/http"

	"github.com/GoArmGo/Filmorate/internal/usecase"
)

// UserHandler: обработчик HTTP-запросов для пользователей и дружбы.
type UserHandler struct {
	users  usecase.UserUseCase
	logger *slog.Logger
}

// NewUserHandler создаёт новый экземпляр UserHandler.
func NewUserHandler(uc usecase.UserUseCase, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: uc, logger: logger}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	user, err := h.users.CreateUser(r.Context(), req.toDomain())
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	if req.ID <= 0 {
		respondWithError(w, r, badRequestf("id is required for update"), h.logger)
		return
	}

	user, err := h.users.UpdateUser(r.Context(), req.toDomain())
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.ListUsers(r.Context())
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, users, h.logger)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	user, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, user, h.logger)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	if err := h.users.DeleteUser(r.Context(), id); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// AddFriend обрабатывает PUT /users/{id}/friends/{friendId}
func (h *UserHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, err := pairParams(r, "friendId")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	if err := h.users.AddFriend(r.Context(), userID, friendID); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// RemoveFriend обрабатывает DELETE /users/{id}/friends/{friendId}
func (h *UserHandler) RemoveFriend(w http.ResponseWriter, r *http.Request) {
	userID, friendID, err := pairParams(r, "friendId")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	if err := h.users.RemoveFriend(r.Context(), userID, friendID); err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// Friends обрабатывает GET /users/{id}/friends
func (h *UserHandler) Friends(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	friends, err := h.users.GetFriends(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, friends, h.logger)
}

// CommonFriends обрабатывает GET /users/{id}/friends/common/{otherId}
func (h *UserHandler) CommonFriends(w http.ResponseWriter, r *http.Request) {
	userID, otherID, err := pairParams(r, "otherId")
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}

	common, err := h.users.GetCommonFriends(r.Context(), userID, otherID)
	if err != nil {
		respondWithError(w, r, err, h.logger)
		return
	}
	respondWithJSON(w, http.StatusOK, common, h.logger)
}

func pairParams(r *http.Request, other string) (int64, int64, error) {
	id, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	otherID, err := pathID(r, other)
	if err != nil {
		return 0, 0, err
	}
	return id, otherID, nil
}
