package main

import (
	"net/http"

	gorillahandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"site-task-manager/config"
	"site-task-manager/database"
	"site-task-manager/firebase"
	"site-task-manager/handlers"
	"site-task-manager/utilities"
)

// NewRouter monta as rotas da API. verifier só é usado quando a autenticação
// está habilitada.
func NewRouter(cfg *config.Config, store database.TaskStore, verifier firebase.TokenVerifier) http.Handler {
	r := mux.NewRouter()

	// Aplicar o middleware de logging global em todas as rotas
	r.Use(handlers.LoggingMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("OK"))
	}).Methods("GET")

	// --- Rotas de Tarefas ---
	var apiMiddleware []mux.MiddlewareFunc
	if cfg.AuthRequired {
		apiMiddleware = append(apiMiddleware, handlers.AuthMiddleware(verifier))
		utilities.LogInfo("Autenticação Firebase habilitada para /api")
	}
	handlers.NewTaskHandler(store).RegisterRoutes(r, "/api", apiMiddleware...)

	// Configuração do CORS
	headers := gorillahandlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type", "Authorization"})
	methods := gorillahandlers.AllowedMethods([]string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"})
	origins := gorillahandlers.AllowedOrigins(cfg.CORSAllowedOrigins)
	utilities.LogInfo("Configurando CORS com origens permitidas: %v", cfg.CORSAllowedOrigins)

	return gorillahandlers.CORS(headers, methods, origins)(r)
}
