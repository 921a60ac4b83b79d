package handlers

import (
	"log"
	"net/http"

	"github.com/TheSummerRain/wutongjiebang/internal/utils"
)

// PingHandler проверяет готовность сервера к обработке запросов.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		utils.SendErrorResponse(w, http.StatusBadRequest, "invalid method, only GET is allowed")
		return
	}

	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Println(err)
	}
}
