package router

import (
	"net/http"

	"github.com/TheSummerRain/wutongjiebang/internal/handlers"
)

func InitRoutes(
	requirementHandler *handlers.RequirementHandler,
	proposalHandler *handlers.ProposalHandler,
	draftHandler *handlers.DraftHandler,
	assistHandler *handlers.AssistHandler,
	settingsHandler *handlers.SettingsHandler,
) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/ping", handlers.PingHandler)

	mux.HandleFunc("/api/requirements", requirementHandler.GetRequirements)
	mux.HandleFunc("/api/requirements/new", requirementHandler.CreateRequirement)
	mux.HandleFunc("/api/requirements/{requirementId}", requirementHandler.GetRequirement)
	mux.HandleFunc("GET /api/requirements/{requirementId}/status", requirementHandler.GetRequirementStatus)
	mux.HandleFunc("PUT /api/requirements/{requirementId}/status", requirementHandler.UpdateRequirementStatus)
	mux.HandleFunc("/api/requirements/{requirementId}/edit", requirementHandler.EditRequirement)

	mux.HandleFunc("/api/requirements/{requirementId}/reveal", proposalHandler.CreateReveal)
	mux.HandleFunc("/api/requirements/{requirementId}/proposals", proposalHandler.GetProposals)
	mux.HandleFunc("/api/requirements/{requirementId}/select", proposalHandler.SelectWinner)

	mux.HandleFunc("/api/drafts/new", draftHandler.OpenSession)
	mux.HandleFunc("/api/drafts/{sessionId}/message", draftHandler.PostMessage)
	mux.HandleFunc("/api/drafts/{sessionId}/publish", draftHandler.Publish)
	mux.HandleFunc("/api/drafts/{sessionId}", draftHandler.Discard)

	mux.HandleFunc("/api/ai/draft", assistHandler.GenerateDraft)
	mux.HandleFunc("/api/ai/outline", assistHandler.GenerateOutline)

	mux.HandleFunc("GET /api/settings", settingsHandler.GetSettings)
	mux.HandleFunc("PUT /api/settings", settingsHandler.SaveSettings)

	return mux
}
