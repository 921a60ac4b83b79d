package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/TheSummerRain/wutongjiebang/internal/settings"
	"github.com/TheSummerRain/wutongjiebang/internal/utils"
)

// SettingsHandler - структура для обработки HTTP-запросов настроек генерации.
type SettingsHandler struct {
	Store  *settings.Store
	Logger *log.Logger
}

// NewSettingsHandler создаёт новый экземпляр SettingsHandler.
func NewSettingsHandler(store *settings.Store, logger *log.Logger) *SettingsHandler {
	return &SettingsHandler{Store: store, Logger: logger}
}

type settingsPayload struct {
	APIKey string `json:"apiKey"`
	Model  string `json:"model"`
}

// GetSettings возвращает сохранённые настройки генерации.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	apiKey, err := h.Store.APIKey()
	if err != nil {
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to read settings")
		return
	}
	model, err := h.Store.ModelID()
	if err != nil {
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to read settings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(settingsPayload{APIKey: apiKey, Model: model}); err != nil {
		h.Logger.Println(err)
	}
}

// SaveSettings сохраняет настройки генерации по явной команде пользователя.
func (h *SettingsHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var payload settingsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Store.Set(settings.APIKeySetting, payload.APIKey); err != nil {
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to save settings")
		return
	}
	if err := h.Store.Set(settings.ModelSetting, payload.Model); err != nil {
		h.Logger.Println(err)
		utils.SendErrorResponse(w, http.StatusInternalServerError, "failed to save settings")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.Logger.Println(err)
	}
}
