package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	firebaseapp "firebase.google.com/go/v4"

	"site-task-manager/config"
	"site-task-manager/database"
	"site-task-manager/firebase"
	"site-task-manager/utilities"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// run sobe o servidor e só retorna depois que os recursos foram liberados.
func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("erro ao carregar configuração: %w", err)
	}

	utilities.InitLogger(cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var app *firebaseapp.App
	if cfg.FirebaseCredentialsPath != "" {
		app, err = firebase.InitializeFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			return err
		}
	}

	var verifier firebase.TokenVerifier
	if cfg.AuthRequired {
		authClient, err := firebase.GetAuthClient(ctx, app)
		if err != nil {
			return err
		}
		verifier = authClient
	}

	var store database.TaskStore
	if cfg.HasDatabase() {
		db, err := database.ConnectPostgres(ctx, cfg.ConnString())
		if err != nil {
			return fmt.Errorf("erro ao conectar ao banco de dados: %w", err)
		}
		defer db.Close()

		if err := database.EnsureSchema(ctx, db); err != nil {
			return fmt.Errorf("erro ao criar o schema: %w", err)
		}

		history, closeHistory, err := newHistoryLog(ctx, cfg, app, db)
		if err != nil {
			return err
		}
		defer closeHistory()

		store = database.NewPostgresStore(db, history)
		utilities.LogInfo("Usando PostgreSQL (histórico: %s)", cfg.HistoryBackend)
	} else {
		store = database.NewMemoryStore()
		utilities.LogWarn("Nenhum banco de dados configurado: rodando em modo mock (memória, sem histórico)")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           NewRouter(cfg, store, verifier),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return serve(ctx, srv)
}

// serve roda srv até ctx ser cancelado e então faz o shutdown gracioso.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		utilities.LogInfo("Servidor iniciado em %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	utilities.LogInfo("Encerrando o servidor...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("erro ao encerrar o servidor: %w", err)
	}
	return nil
}

func newHistoryLog(ctx context.Context, cfg *config.Config, app *firebaseapp.App, db *sql.DB) (database.HistoryLog, func(), error) {
	if cfg.HistoryBackend != config.HistoryBackendFirestore {
		return database.NewPostgresHistory(db), func() {}, nil
	}

	client, err := firebase.GetFirestoreClient(ctx, app)
	if err != nil {
		return nil, nil, err
	}
	return firebase.NewFirestoreHistory(client), func() { client.Close() }, nil
}
